// Package qr renders a profile's public fields into a scannable QR image.
package qr

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/alanchelmickjr/lets-connect/internal/core/domain"
)

// imageSize is the rendered PNG edge length in pixels.
const imageSize = 256

// Payload is the compact JSON document embedded in the QR symbol. Every key
// is always present so scanners get a stable shape regardless of which
// optional profile fields were filled in.
type Payload struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	LinkedinURL string `json:"linkedin_url"`
	Email       string `json:"email"`
	Title       string `json:"title"`
	Company     string `json:"company"`
}

// BuildPayload extracts the public subset of a profile.
func BuildPayload(p *domain.UserProfile) Payload {
	return Payload{
		ID:          p.ID,
		Name:        p.Name,
		LinkedinURL: p.LinkedinURL,
		Email:       p.Email,
		Title:       p.Title,
		Company:     p.Company,
	}
}

// EncodeProfile serializes the profile payload, renders it as a QR PNG with
// medium error correction, and returns the image as a data URI
// (data:image/png;base64,<payload>).
func EncodeProfile(p *domain.UserProfile) (string, error) {
	data, err := json.Marshal(BuildPayload(p))
	if err != nil {
		return "", fmt.Errorf("marshal qr payload: %w", err)
	}

	png, err := qrcode.Encode(string(data), qrcode.Medium, imageSize)
	if err != nil {
		return "", fmt.Errorf("encode qr image: %w", err)
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
