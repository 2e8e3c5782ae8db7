package models

import "time"

// Notification is a per-recipient message. Only the recipient may flip the
// read flag or delete it.
type Notification struct {
	ID          string    `json:"id"`
	RecipientID string    `json:"user"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	Image       string    `json:"image,omitempty"`
	URL         string    `json:"url,omitempty"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"createdAt"`
}
