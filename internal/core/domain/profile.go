package domain

import "time"

// UserProfile is the persisted profile document. The id is assigned
// server-side at creation and never changes afterwards.
type UserProfile struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	LinkedinURL string    `json:"linkedin_url,omitempty"`
	Email       string    `json:"email,omitempty"`
	Title       string    `json:"title,omitempty"`
	Company     string    `json:"company,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type CreateProfileRequest struct {
	Name        string `json:"name" binding:"required"`
	LinkedinURL string `json:"linkedin_url"`
	Email       string `json:"email"`
	Title       string `json:"title"`
	Company     string `json:"company"`
}
