package handlers

import (
	"log"
	"net/http"

	"github.com/newsweb/news-be/internal/http/respond"
	"github.com/newsweb/news-be/internal/models/dto"
	"github.com/newsweb/news-be/internal/storage"
)

const newsFeedSize = 10

// NewsHandler serves the public, rate-limited news feed.
type NewsHandler struct {
	posts storage.PostStore
}

// NewNewsHandler constructs the handler.
func NewNewsHandler(posts storage.PostStore) *NewsHandler {
	return &NewsHandler{posts: posts}
}

// Register attaches the public feed behind the supplied rate limiter.
func (h *NewsHandler) Register(mux *http.ServeMux, limit func(http.Handler) http.Handler) {
	mux.Handle("GET /api/news", limit(http.HandlerFunc(h.handleFeed)))
}

func (h *NewsHandler) handleFeed(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.LatestPosts(r.Context(), newsFeedSize)
	if err != nil {
		log.Printf("news feed: %v", err)
		respond.Error(w, http.StatusInternalServerError, "Server error. Please try again later.")
		return
	}

	items := make([]dto.NewsItem, 0, len(posts))
	for _, post := range posts {
		items = append(items, dto.NewsItem{
			Title:     post.Title,
			Content:   post.Content,
			Category:  post.Category,
			Country:   post.Country,
			CreatedAt: post.CreatedAt,
			LikeCount: post.LikeCount,
		})
	}
	respond.JSON(w, http.StatusOK, items)
}
