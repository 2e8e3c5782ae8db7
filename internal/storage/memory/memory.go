// Package memory provides an in-process implementation of the storage
// interfaces. It backs the handler tests and small local setups; data does
// not survive a restart.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/newsweb/news-be/internal/models"
	"github.com/newsweb/news-be/internal/storage"
)

var (
	_ storage.UserStore         = (*Store)(nil)
	_ storage.PostStore         = (*Store)(nil)
	_ storage.NotificationStore = (*Store)(nil)
)

// Store keeps all records in memory behind a single mutex.
type Store struct {
	mu            sync.RWMutex
	users         []models.User
	posts         []models.Post
	likes         map[string]map[string]struct{}
	notifications []models.Notification
	seq           map[string]int
	nextSeq       int
}

// New returns an empty store.
func New() *Store {
	return &Store{
		likes: make(map[string]map[string]struct{}),
		seq:   make(map[string]int),
	}
}

// CreateUser adds a user, enforcing email uniqueness.
func (s *Store) CreateUser(_ context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return models.User{}, storage.ErrAlreadyExists
		}
	}
	s.users = append(s.users, user)
	return user, nil
}

// FindUserByID fetches a user by id.
func (s *Store) FindUserByID(_ context.Context, id string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, storage.ErrNotFound
}

// FindUserByEmail fetches a user by email.
func (s *Store) FindUserByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, storage.ErrNotFound
}

// UpdateUserLocation refreshes the user's IP and country.
func (s *Store) UpdateUserLocation(_ context.Context, id, ip, country string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID == id {
			s.users[i].IPAddress = ip
			s.users[i].Country = country
			return nil
		}
	}
	return storage.ErrNotFound
}

// ListUsers returns all users in registration order.
func (s *Store) ListUsers(_ context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.User, len(s.users))
	copy(out, s.users)
	return out, nil
}

// DeleteUser removes a user.
func (s *Store) DeleteUser(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, u := range s.users {
		if u.ID == id {
			s.users = append(s.users[:i], s.users[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

// CreatePost adds a post with an empty likes set.
func (s *Store) CreatePost(_ context.Context, post models.Post) (models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.likes[post.ID] = make(map[string]struct{})
	s.nextSeq++
	s.seq[post.ID] = s.nextSeq
	s.posts = append(s.posts, post)
	return s.populate(post), nil
}

// FindPost fetches a post with author and likes populated.
func (s *Store) FindPost(_ context.Context, id string) (models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.posts {
		if p.ID == id {
			return s.populate(p), nil
		}
	}
	return models.Post{}, storage.ErrNotFound
}

// ListPosts returns all posts, newest first.
func (s *Store) ListPosts(_ context.Context) ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedPosts(), nil
}

// LatestPosts returns up to limit posts, newest first.
func (s *Store) LatestPosts(_ context.Context, limit int) ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.sortedPosts()
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// UpdatePost rewrites the post's content fields.
func (s *Store) UpdatePost(_ context.Context, post models.Post) (models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.posts {
		if s.posts[i].ID == post.ID {
			s.posts[i].Title = post.Title
			s.posts[i].Content = post.Content
			s.posts[i].Image = post.Image
			s.posts[i].Category = post.Category
			s.posts[i].Country = post.Country
			s.posts[i].Important = post.Important
			return s.populate(s.posts[i]), nil
		}
	}
	return models.Post{}, storage.ErrNotFound
}

// DeletePost removes a post and its likes.
func (s *Store) DeletePost(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.posts {
		if p.ID == id {
			s.posts = append(s.posts[:i], s.posts[i+1:]...)
			delete(s.likes, id)
			return nil
		}
	}
	return storage.ErrNotFound
}

// LikePost adds the user to the likes set under the store lock.
func (s *Store) LikePost(_ context.Context, postID, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.likes[postID]
	if !ok {
		return 0, storage.ErrNotFound
	}
	if _, liked := set[userID]; liked {
		return 0, storage.ErrAlreadyLiked
	}
	set[userID] = struct{}{}
	return len(set), nil
}

// UnlikePost removes the user from the likes set under the store lock.
func (s *Store) UnlikePost(_ context.Context, postID, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.likes[postID]
	if !ok {
		return 0, storage.ErrNotFound
	}
	if _, liked := set[userID]; !liked {
		return 0, storage.ErrNotLiked
	}
	delete(set, userID)
	return len(set), nil
}

// CreateNotification adds a notification.
func (s *Store) CreateNotification(_ context.Context, n models.Notification) (models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSeq++
	s.seq[n.ID] = s.nextSeq
	s.notifications = append(s.notifications, n)
	return n, nil
}

// FindNotification fetches a notification by id.
func (s *Store) FindNotification(_ context.Context, id string) (models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, n := range s.notifications {
		if n.ID == id {
			return n, nil
		}
	}
	return models.Notification{}, storage.ErrNotFound
}

// ListNotifications returns the recipient's notifications newest first.
func (s *Store) ListNotifications(_ context.Context, recipientID string) ([]models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Notification
	for _, n := range s.notifications {
		if n.RecipientID == recipientID {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return s.seq[out[i].ID] > s.seq[out[j].ID]
	})
	return out, nil
}

// MarkNotificationRead flips the read flag.
func (s *Store) MarkNotificationRead(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notifications {
		if s.notifications[i].ID == id {
			s.notifications[i].Read = true
			return nil
		}
	}
	return storage.ErrNotFound
}

// DeleteNotifications removes the listed ids belonging to the recipient.
func (s *Store) DeleteNotifications(_ context.Context, recipientID string, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	kept := s.notifications[:0]
	for _, n := range s.notifications {
		_, listed := wanted[n.ID]
		if listed && n.RecipientID == recipientID {
			continue
		}
		kept = append(kept, n)
	}
	s.notifications = kept
	return nil
}

// populate derives author fields and the likes set; callers hold the lock.
func (s *Store) populate(post models.Post) models.Post {
	for _, u := range s.users {
		if u.ID == post.AuthorID {
			post.AuthorName = u.Name
			post.AuthorEmail = u.Email
			break
		}
	}
	set := s.likes[post.ID]
	post.Likes = make([]string, 0, len(set))
	for id := range set {
		post.Likes = append(post.Likes, id)
	}
	sort.Strings(post.Likes)
	post.LikeCount = len(set)
	return post
}

func (s *Store) sortedPosts() []models.Post {
	out := make([]models.Post, 0, len(s.posts))
	for _, p := range s.posts {
		out = append(out, s.populate(p))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return s.seq[out[i].ID] > s.seq[out[j].ID]
	})
	return out
}
