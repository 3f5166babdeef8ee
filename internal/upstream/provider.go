// Package upstream talks to the external conversational-AI endpoint and
// normalizes its reply shapes.
package upstream

import (
	"context"
	"encoding/json"
)

// Reply is the normalized upstream answer. Sources keeps the citation
// records opaque so they round-trip byte-identically.
type Reply struct {
	Text    string
	Sources []json.RawMessage
}

// Provider is the upstream conversational endpoint. The session id lets the
// upstream keep its own conversational context keyed by the same token.
type Provider interface {
	Ask(ctx context.Context, sessionID, message string) (*Reply, error)
}
