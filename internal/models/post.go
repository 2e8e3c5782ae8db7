package models

import "time"

// Post is a single news entry. LikeCount is always derived from the likes set,
// never stored independently, so the two cannot drift apart.
type Post struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Image       string    `json:"image,omitempty"`
	Category    string    `json:"category"`
	Country     string    `json:"country,omitempty"`
	Important   bool      `json:"important"`
	AuthorID    string    `json:"author"`
	AuthorName  string    `json:"authorName,omitempty"`
	AuthorEmail string    `json:"authorEmail,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	LikeCount   int       `json:"likeCount"`
	Likes       []string  `json:"likes"`
}
