// Package web embeds the chat UI assets.
package web

import "embed"

//go:embed templates
var Templates embed.FS
