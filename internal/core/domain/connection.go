package domain

import "time"

// Connection records one contact made at an event. The user_id reference is
// not validated against the profile store; a connection can outlive (or
// predate) the profile it points at.
type Connection struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	ContactName     string    `json:"contact_name"`
	ContactLinkedin string    `json:"contact_linkedin,omitempty"`
	ContactEmail    string    `json:"contact_email,omitempty"`
	ContactTitle    string    `json:"contact_title,omitempty"`
	ContactCompany  string    `json:"contact_company,omitempty"`
	EventName       string    `json:"event_name"`
	EventType       string    `json:"event_type"`
	PersonCategory  string    `json:"person_category"`
	VoiceTranscript string    `json:"voice_transcript,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	AIMessage       string    `json:"ai_message,omitempty"`
	ConnectionSent  bool      `json:"connection_sent"`
	CreatedAt       time.Time `json:"created_at"`
}

type CreateConnectionRequest struct {
	UserID          string `json:"user_id" binding:"required"`
	ContactName     string `json:"contact_name" binding:"required"`
	ContactLinkedin string `json:"contact_linkedin"`
	ContactEmail    string `json:"contact_email"`
	ContactTitle    string `json:"contact_title"`
	ContactCompany  string `json:"contact_company"`
	EventName       string `json:"event_name" binding:"required"`
	EventType       string `json:"event_type" binding:"required"`
	PersonCategory  string `json:"person_category" binding:"required"`
	Notes           string `json:"notes"`
}

// DraftContext carries the interaction details the message drafter embeds in
// its prompt. Every field is optional; the drafter substitutes documented
// fallback text for absent values.
type DraftContext struct {
	ContactName     string `json:"contact_name"`
	ContactTitle    string `json:"contact_title"`
	ContactCompany  string `json:"contact_company"`
	EventName       string `json:"event_name"`
	EventType       string `json:"event_type"`
	PersonCategory  string `json:"person_category"`
	VoiceTranscript string `json:"voice_transcript"`
	Notes           string `json:"notes"`
}
