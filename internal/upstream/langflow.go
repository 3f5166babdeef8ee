package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// LangflowClient posts user input to a Langflow flow endpoint authenticated
// by a static API key.
type LangflowClient struct {
	Endpoint string
	APIKey   string
	Client   *http.Client
}

func NewLangflowClient(endpoint, apiKey string, timeout time.Duration) *LangflowClient {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &LangflowClient{
		Endpoint: endpoint,
		APIKey:   apiKey,
		Client:   &http.Client{Timeout: timeout},
	}
}

type langflowReq struct {
	InputValue string `json:"input_value"`
	InputType  string `json:"input_type"`
	OutputType string `json:"output_type"`
	SessionID  string `json:"session_id"`
}

type messagePayload struct {
	Text       *string `json:"text"`
	Properties struct {
		Sources []json.RawMessage `json:"sources"`
	} `json:"properties"`
}

type nestedEnvelope struct {
	Outputs []struct {
		Outputs []struct {
			Results struct {
				Message messagePayload `json:"message"`
			} `json:"results"`
		} `json:"outputs"`
	} `json:"outputs"`
}

type flatEnvelope struct {
	Message *messagePayload `json:"message"`
}

// extractor pulls (text, sources) out of one known response shape.
// Returns false when the body does not carry that shape.
type extractor func(body []byte) (*Reply, bool)

// Tried in order; first success wins.
var extractors = []extractor{extractNested, extractFlat}

func extractNested(body []byte) (*Reply, bool) {
	var env nestedEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, false
	}
	if len(env.Outputs) == 0 || len(env.Outputs[0].Outputs) == 0 {
		return nil, false
	}
	msg := env.Outputs[0].Outputs[0].Results.Message
	if msg.Text == nil {
		return nil, false
	}
	return &Reply{Text: *msg.Text, Sources: msg.Properties.Sources}, true
}

func extractFlat(body []byte) (*Reply, bool) {
	var env flatEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, false
	}
	if env.Message == nil || env.Message.Text == nil {
		return nil, false
	}
	return &Reply{Text: *env.Message.Text, Sources: env.Message.Properties.Sources}, true
}

// ParseReply normalizes an upstream body. A body that is not JSON at all is
// an error; valid JSON matching neither known shape yields empty defaults.
func ParseReply(body []byte) (*Reply, error) {
	if !json.Valid(body) {
		return nil, errors.New("langflow: response body is not valid json")
	}
	for _, ex := range extractors {
		if r, ok := ex(body); ok {
			if r.Sources == nil {
				r.Sources = []json.RawMessage{}
			}
			return r, nil
		}
	}
	return &Reply{Text: "", Sources: []json.RawMessage{}}, nil
}

func (p *LangflowClient) Ask(ctx context.Context, sessionID, message string) (*Reply, error) {
	if p.Client == nil {
		return nil, errors.New("langflow: http client is nil")
	}
	if strings.TrimSpace(p.Endpoint) == "" {
		return nil, errors.New("langflow: endpoint is required")
	}

	b, err := json.Marshal(langflowReq{
		InputValue: message,
		InputType:  "chat",
		OutputType: "chat",
		SessionID:  sessionID,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.Endpoint, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", p.APIKey)

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("langflow: %s", msg)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return ParseReply(body)
}
