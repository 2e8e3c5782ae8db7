package models

import "time"

// User captures application-facing fields for a registered account. The
// password hash never serializes.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Country      string    `json:"country"`
	IPAddress    string    `json:"ipAddress"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}
