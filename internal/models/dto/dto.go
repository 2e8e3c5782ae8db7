// Package dto defines the request and response schemas exchanged over the
// HTTP surface. Bodies are decoded into these types and validated at the
// handler boundary.
package dto

import (
	"time"

	"github.com/newsweb/news-be/internal/models"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	Message string      `json:"message"`
	User    models.User `json:"user"`
	Token   string      `json:"token"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginUser is the trimmed user view returned by login.
type LoginUser struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Country string `json:"country"`
	Role    string `json:"role"`
}

type LoginResponse struct {
	Message string    `json:"message"`
	Token   string    `json:"token"`
	User    LoginUser `json:"user"`
}

// CreatePostRequest covers both the JSON and the multipart form variants of
// post creation. LikeCount is accepted for wire compatibility with older
// clients but ignored: the count is derived from the likes set.
type CreatePostRequest struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	Image     string `json:"image"`
	Category  string `json:"category"`
	Country   string `json:"country"`
	Important bool   `json:"important"`
	LikeCount int    `json:"likeCount"`
}

// UpdatePostRequest carries a partial update; empty fields keep the stored
// value. Important can only be switched on through an update, never off.
type UpdatePostRequest struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	Image     string `json:"image"`
	Category  string `json:"category"`
	Country   string `json:"country"`
	Important bool   `json:"important"`
}

type PostResponse struct {
	Message string      `json:"message"`
	Post    models.Post `json:"post"`
}

type LikeResponse struct {
	Message   string `json:"message"`
	LikeCount int    `json:"likeCount"`
}

type DeleteNotificationsRequest struct {
	IDs []string `json:"ids"`
}

// NewsItem is the projected post view served on the public news feed.
type NewsItem struct {
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  string    `json:"category"`
	Country   string    `json:"country,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	LikeCount int       `json:"likeCount"`
}
