package storage

import (
	"context"
	"errors"

	"github.com/newsweb/news-be/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// ErrAlreadyLiked indicates the user is already in the post's likes set.
var ErrAlreadyLiked = errors.New("post already liked")

// ErrNotLiked indicates the user is not in the post's likes set.
var ErrNotLiked = errors.New("post not liked")

// UserStore captures user persistence operations needed by handlers.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByID(ctx context.Context, id string) (models.User, error)
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
	// UpdateUserLocation refreshes the last-known IP and derived country.
	UpdateUserLocation(ctx context.Context, id, ip, country string) error
	// ListUsers returns every user; the fan-out enumerates recipients with it.
	ListUsers(ctx context.Context) ([]models.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// PostStore captures post persistence. Reads populate author name/email and
// the likes set; LikePost/UnlikePost must keep the set-membership check and
// the mutation atomic per post.
type PostStore interface {
	CreatePost(ctx context.Context, post models.Post) (models.Post, error)
	FindPost(ctx context.Context, id string) (models.Post, error)
	ListPosts(ctx context.Context) ([]models.Post, error)
	LatestPosts(ctx context.Context, limit int) ([]models.Post, error)
	UpdatePost(ctx context.Context, post models.Post) (models.Post, error)
	DeletePost(ctx context.Context, id string) error
	// LikePost adds userID to the likes set and returns the new like count.
	LikePost(ctx context.Context, postID, userID string) (int, error)
	// UnlikePost removes userID from the likes set and returns the new count.
	UnlikePost(ctx context.Context, postID, userID string) (int, error)
}

// NotificationStore captures notification persistence.
type NotificationStore interface {
	CreateNotification(ctx context.Context, n models.Notification) (models.Notification, error)
	FindNotification(ctx context.Context, id string) (models.Notification, error)
	// ListNotifications returns the recipient's notifications newest first.
	ListNotifications(ctx context.Context, recipientID string) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error
	// DeleteNotifications removes the given ids, restricted to the recipient's
	// own records; foreign ids in the list are ignored.
	DeleteNotifications(ctx context.Context, recipientID string, ids []string) error
}
