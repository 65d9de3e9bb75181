package domain

import (
	"context"
	"encoding/json"
)

// Transcriber converts an audio payload into plain text via an external
// speech-to-text service.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, filename, contentType string) (string, error)
}

// MessageDrafter produces a LinkedIn outreach message from interaction
// context via an external text-generation service.
type MessageDrafter interface {
	Draft(ctx context.Context, dc DraftContext) (string, error)
}

// OAuthBridge builds authorization URLs and exchanges authorization codes
// with the identity provider. ExchangeCode relays the provider's token
// payload verbatim.
type OAuthBridge interface {
	AuthorizationURL() (authURL, state string, err error)
	ExchangeCode(ctx context.Context, code string) (json.RawMessage, error)
}
