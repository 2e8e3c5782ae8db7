// Package notify creates user notifications, including the broadcast to all
// users when an important post is created or updated.
package notify

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/newsweb/news-be/internal/models"
	"github.com/newsweb/news-be/internal/storage"
)

// Service writes notifications. Every method is best-effort: failures are
// logged and never surfaced to the triggering request.
type Service struct {
	users         storage.UserStore
	notifications storage.NotificationStore
}

// New constructs the service.
func New(users storage.UserStore, notifications storage.NotificationStore) *Service {
	return &Service{users: users, notifications: notifications}
}

// Send creates a single notification for the recipient.
func (s *Service) Send(ctx context.Context, recipientID, title, message, image, link string) {
	n := models.Notification{
		ID:          uuid.NewString(),
		RecipientID: recipientID,
		Title:       title,
		Message:     message,
		Image:       image,
		URL:         link,
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := s.notifications.CreateNotification(ctx, n); err != nil {
		log.Printf("notify: create %q for %s: %v", title, recipientID, err)
		return
	}
	log.Printf("notify: created %q for %s", title, recipientID)
}

// Welcome sends the registration greeting.
func (s *Service) Welcome(ctx context.Context, user models.User) {
	s.Send(ctx, user.ID, "welcome to our platform",
		fmt.Sprintf("Hello %s, thanks for signing up.", user.Name), "", "/profile")
}

// LoginAlert notifies the user of a new login and where it came from.
func (s *Service) LoginAlert(ctx context.Context, user models.User) {
	s.Send(ctx, user.ID, "New Login Detected",
		fmt.Sprintf("Your account was accessed from %s", user.Country), "", "/profile")
}

// BroadcastNewPost fans an important post out to every user, carrying the
// post body and a deep link into the news view.
//
// The broadcast is a full user scan with at-least-once delivery and no
// idempotency key: a retried trigger re-notifies everyone. Each recipient is
// handled independently; a failed write is logged and the rest proceed.
func (s *Service) BroadcastNewPost(ctx context.Context, post models.Post) {
	link := fmt.Sprintf("/newsDetails?title=%s&image=%s&likes=%d&content=%s&postId=%s",
		url.QueryEscape(post.Title), url.QueryEscape(post.Image),
		post.LikeCount, url.QueryEscape(post.Content), post.ID)
	s.broadcast(ctx, post.Title, post.Content, post.Image, link)
}

// BroadcastUpdatedPost fans out when a post is updated to be important.
func (s *Service) BroadcastUpdatedPost(ctx context.Context, post models.Post) {
	s.broadcast(ctx, "Important Post Updated",
		fmt.Sprintf("An important post has been updated: %s", post.Title),
		"", fmt.Sprintf("/posts/%s", post.ID))
}

func (s *Service) broadcast(ctx context.Context, title, message, image, link string) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		log.Printf("notify: list broadcast recipients: %v", err)
		return
	}
	for _, user := range users {
		s.Send(ctx, user.ID, title, message, image, link)
	}
}
