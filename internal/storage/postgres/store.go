package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/newsweb/news-be/internal/models"
	"github.com/newsweb/news-be/internal/storage"
)

// Ensure Store satisfies the storage interfaces at compile time.
var (
	_ storage.UserStore         = (*Store)(nil)
	_ storage.PostStore         = (*Store)(nil)
	_ storage.NotificationStore = (*Store)(nil)
)

const uniqueViolation = "23505"

// Store provides Postgres-backed persistence for users, posts, and
// notifications.
type Store struct {
	pool *pgxpool.Pool
}

// New connects to the database and runs migrations.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// Close releases database resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT UNIQUE NOT NULL,
			country TEXT NOT NULL DEFAULT 'Unknown location',
			ip_address TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'user',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS posts (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			image TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL,
			country TEXT NOT NULL DEFAULT '',
			important BOOLEAN NOT NULL DEFAULT FALSE,
			author_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS post_likes (
			post_id TEXT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
			user_id TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (post_id, user_id)
		);`,
		`CREATE TABLE IF NOT EXISTS notifications (
			id TEXT PRIMARY KEY,
			recipient_id TEXT NOT NULL,
			title TEXT NOT NULL,
			message TEXT NOT NULL,
			image TEXT NOT NULL DEFAULT '',
			url TEXT NOT NULL DEFAULT '',
			is_read BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS posts_created_at_idx ON posts (created_at DESC);`,
		`CREATE INDEX IF NOT EXISTS notifications_recipient_idx ON notifications (recipient_id, created_at DESC);`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}

// CreateUser inserts a new user row.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	const query = `
		INSERT INTO users (id, name, email, country, ip_address, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, name, email, country, ip_address, password_hash, role, created_at;
	`
	row := s.pool.QueryRow(ctx, query,
		user.ID, user.Name, user.Email, user.Country, user.IPAddress,
		user.PasswordHash, user.Role, user.CreatedAt)
	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, err
	}
	return created, nil
}

// FindUserByID fetches a user by id.
func (s *Store) FindUserByID(ctx context.Context, id string) (models.User, error) {
	const query = `
		SELECT id, name, email, country, ip_address, password_hash, role, created_at
		FROM users WHERE id = $1;
	`
	return scanUser(s.pool.QueryRow(ctx, query, id))
}

// FindUserByEmail fetches a user by email address.
func (s *Store) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	const query = `
		SELECT id, name, email, country, ip_address, password_hash, role, created_at
		FROM users WHERE email = $1;
	`
	return scanUser(s.pool.QueryRow(ctx, query, email))
}

// UpdateUserLocation refreshes the user's last-known IP and country.
func (s *Store) UpdateUserLocation(ctx context.Context, id, ip, country string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE users SET ip_address = $2, country = $3 WHERE id = $1;`, id, ip, country)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ListUsers returns every user.
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	const query = `
		SELECT id, name, email, country, ip_address, password_hash, role, created_at
		FROM users ORDER BY created_at;
	`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// DeleteUser removes a user row.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM users WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

const postColumns = `
	p.id, p.title, p.content, p.image, p.category, p.country, p.important,
	p.author_id, u.name, u.email, p.created_at,
	(SELECT COUNT(*) FROM post_likes l WHERE l.post_id = p.id),
	(SELECT COALESCE(array_agg(l.user_id ORDER BY l.created_at), '{}') FROM post_likes l WHERE l.post_id = p.id)
`

// CreatePost inserts a new post row.
func (s *Store) CreatePost(ctx context.Context, post models.Post) (models.Post, error) {
	const query = `
		INSERT INTO posts (id, title, content, image, category, country, important, author_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := s.pool.Exec(ctx, query,
		post.ID, post.Title, post.Content, post.Image, post.Category,
		post.Country, post.Important, post.AuthorID, post.CreatedAt)
	if err != nil {
		return models.Post{}, err
	}
	return s.FindPost(ctx, post.ID)
}

// FindPost fetches a single post with author and likes populated.
func (s *Store) FindPost(ctx context.Context, id string) (models.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts p JOIN users u ON u.id = p.author_id
		WHERE p.id = $1;
	`
	return scanPost(s.pool.QueryRow(ctx, query, id))
}

// ListPosts returns all posts, newest first, with author and likes populated.
func (s *Store) ListPosts(ctx context.Context) ([]models.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts p JOIN users u ON u.id = p.author_id
		ORDER BY p.created_at DESC;
	`
	return s.queryPosts(ctx, query)
}

// LatestPosts returns the newest posts up to limit.
func (s *Store) LatestPosts(ctx context.Context, limit int) ([]models.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts p JOIN users u ON u.id = p.author_id
		ORDER BY p.created_at DESC LIMIT $1;
	`
	return s.queryPosts(ctx, query, limit)
}

func (s *Store) queryPosts(ctx context.Context, query string, args ...any) ([]models.Post, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

// UpdatePost rewrites the post's content fields. The author reference is
// immutable and not part of the update.
func (s *Store) UpdatePost(ctx context.Context, post models.Post) (models.Post, error) {
	const query = `
		UPDATE posts SET title = $2, content = $3, image = $4, category = $5, country = $6, important = $7
		WHERE id = $1;
	`
	tag, err := s.pool.Exec(ctx, query,
		post.ID, post.Title, post.Content, post.Image, post.Category, post.Country, post.Important)
	if err != nil {
		return models.Post{}, err
	}
	if tag.RowsAffected() == 0 {
		return models.Post{}, storage.ErrNotFound
	}
	return s.FindPost(ctx, post.ID)
}

// DeletePost removes a post row; likes cascade.
func (s *Store) DeletePost(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// LikePost adds the user to the post's likes set. The insert is a single
// statement against the composite primary key, so the membership check and
// the mutation cannot race.
func (s *Store) LikePost(ctx context.Context, postID, userID string) (int, error) {
	if err := s.postExists(ctx, postID); err != nil {
		return 0, err
	}
	tag, err := s.pool.Exec(ctx,
		`INSERT INTO post_likes (post_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING;`,
		postID, userID)
	if err != nil {
		return 0, err
	}
	if tag.RowsAffected() == 0 {
		return 0, storage.ErrAlreadyLiked
	}
	return s.likeCount(ctx, postID)
}

// UnlikePost removes the user from the post's likes set.
func (s *Store) UnlikePost(ctx context.Context, postID, userID string) (int, error) {
	if err := s.postExists(ctx, postID); err != nil {
		return 0, err
	}
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2;`, postID, userID)
	if err != nil {
		return 0, err
	}
	if tag.RowsAffected() == 0 {
		return 0, storage.ErrNotLiked
	}
	return s.likeCount(ctx, postID)
}

func (s *Store) postExists(ctx context.Context, id string) error {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM posts WHERE id = $1);`, id).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) likeCount(ctx context.Context, postID string) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM post_likes WHERE post_id = $1;`, postID).Scan(&count)
	return count, err
}

// CreateNotification inserts a notification row.
func (s *Store) CreateNotification(ctx context.Context, n models.Notification) (models.Notification, error) {
	const query = `
		INSERT INTO notifications (id, recipient_id, title, message, image, url, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, recipient_id, title, message, image, url, is_read, created_at;
	`
	row := s.pool.QueryRow(ctx, query,
		n.ID, n.RecipientID, n.Title, n.Message, n.Image, n.URL, n.Read, n.CreatedAt)
	return scanNotification(row)
}

// FindNotification fetches a notification by id.
func (s *Store) FindNotification(ctx context.Context, id string) (models.Notification, error) {
	const query = `
		SELECT id, recipient_id, title, message, image, url, is_read, created_at
		FROM notifications WHERE id = $1;
	`
	return scanNotification(s.pool.QueryRow(ctx, query, id))
}

// ListNotifications returns the recipient's notifications newest first.
func (s *Store) ListNotifications(ctx context.Context, recipientID string) ([]models.Notification, error) {
	const query = `
		SELECT id, recipient_id, title, message, image, url, is_read, created_at
		FROM notifications WHERE recipient_id = $1 ORDER BY created_at DESC;
	`
	rows, err := s.pool.Query(ctx, query, recipientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkNotificationRead flips the read flag.
func (s *Store) MarkNotificationRead(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteNotifications removes the listed ids belonging to the recipient.
func (s *Store) DeleteNotifications(ctx context.Context, recipientID string, ids []string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM notifications WHERE id = ANY($1) AND recipient_id = $2;`, ids, recipientID)
	return err
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.Country,
		&user.IPAddress, &user.PasswordHash, &user.Role, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func scanPost(row pgx.Row) (models.Post, error) {
	var post models.Post
	err := row.Scan(&post.ID, &post.Title, &post.Content, &post.Image,
		&post.Category, &post.Country, &post.Important, &post.AuthorID,
		&post.AuthorName, &post.AuthorEmail, &post.CreatedAt,
		&post.LikeCount, &post.Likes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Post{}, storage.ErrNotFound
		}
		return models.Post{}, err
	}
	return post, nil
}

func scanNotification(row pgx.Row) (models.Notification, error) {
	var n models.Notification
	err := row.Scan(&n.ID, &n.RecipientID, &n.Title, &n.Message,
		&n.Image, &n.URL, &n.Read, &n.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Notification{}, storage.ErrNotFound
		}
		return models.Notification{}, err
	}
	return n, nil
}
