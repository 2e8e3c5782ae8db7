package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/newsweb/news-be/internal/http/respond"
	"github.com/newsweb/news-be/internal/middleware"
	"github.com/newsweb/news-be/internal/models"
	"github.com/newsweb/news-be/internal/models/dto"
	"github.com/newsweb/news-be/internal/notify"
	"github.com/newsweb/news-be/internal/storage"
)

const maxUploadBytes = 10 << 20

// PostHandler owns post CRUD and the like/dislike toggles.
type PostHandler struct {
	posts     storage.PostStore
	notify    *notify.Service
	uploadDir string
}

// NewPostHandler constructs the handler.
func NewPostHandler(posts storage.PostStore, notifier *notify.Service, uploadDir string) *PostHandler {
	return &PostHandler{posts: posts, notify: notifier, uploadDir: uploadDir}
}

// Register attaches post routes to the mux.
func (h *PostHandler) Register(mux *http.ServeMux, protect func(http.Handler) http.Handler) {
	mux.Handle("POST /posts", protect(http.HandlerFunc(h.handleCreate)))
	mux.HandleFunc("GET /posts", h.handleList)
	mux.HandleFunc("GET /posts/{id}", h.handleGet)
	mux.Handle("PUT /posts/{id}", protect(http.HandlerFunc(h.handleUpdate)))
	mux.Handle("DELETE /posts/{id}", protect(http.HandlerFunc(h.handleDelete)))
	mux.Handle("POST /posts/like/{postId}", protect(http.HandlerFunc(h.handleLike)))
	mux.Handle("POST /posts/dislike/{postId}", protect(http.HandlerFunc(h.handleDislike)))
}

func (h *PostHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Access denied. No valid token provided.")
		return
	}

	req, err := h.decodeCreateRequest(r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" || strings.TrimSpace(req.Category) == "" {
		respond.Error(w, http.StatusBadRequest, "Title, content and category are required.")
		return
	}

	post := models.Post{
		ID:        uuid.NewString(),
		Title:     req.Title,
		Content:   req.Content,
		Image:     req.Image,
		Category:  req.Category,
		Country:   req.Country,
		Important: req.Important,
		AuthorID:  ident.ID,
		CreatedAt: time.Now().UTC(),
	}
	created, err := h.posts.CreatePost(r.Context(), post)
	if err != nil {
		log.Printf("create post: %v", err)
		respond.Error(w, http.StatusInternalServerError, "Server error. Please try again later.")
		return
	}

	if created.Important {
		h.notify.BroadcastNewPost(r.Context(), created)
	}

	respond.JSON(w, http.StatusCreated, dto.PostResponse{Message: "Post created successfully", Post: created})
}

// decodeCreateRequest accepts either a JSON body or a multipart form with an
// optional image file.
func (h *PostHandler) decodeCreateRequest(r *http.Request) (dto.CreatePostRequest, error) {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		var req dto.CreatePostRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return dto.CreatePostRequest{}, errors.New("invalid JSON payload")
		}
		return req, nil
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return dto.CreatePostRequest{}, errors.New("invalid multipart form")
	}
	important, _ := strconv.ParseBool(r.FormValue("important"))
	req := dto.CreatePostRequest{
		Title:     r.FormValue("title"),
		Content:   r.FormValue("content"),
		Image:     r.FormValue("image"),
		Category:  r.FormValue("category"),
		Country:   r.FormValue("country"),
		Important: important,
	}

	file, header, err := r.FormFile("image")
	if err == nil {
		defer file.Close()
		path, err := h.saveUpload(file, header)
		if err != nil {
			return dto.CreatePostRequest{}, errors.New("failed to store uploaded image")
		}
		req.Image = path
	}
	return req, nil
}

func (h *PostHandler) saveUpload(file multipart.File, header *multipart.FileHeader) (string, error) {
	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return "", err
	}
	name := uuid.NewString() + filepath.Ext(header.Filename)
	dst, err := os.Create(filepath.Join(h.uploadDir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, file); err != nil {
		return "", err
	}
	return filepath.ToSlash(filepath.Join(h.uploadDir, name)), nil
}

func (h *PostHandler) handleList(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.ListPosts(r.Context())
	if err != nil {
		log.Printf("list posts: %v", err)
		respond.Error(w, http.StatusInternalServerError, "Server error. Please try again later.")
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}
	respond.JSON(w, http.StatusOK, posts)
}

func (h *PostHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	post, err := h.posts.FindPost(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "Post not found.")
			return
		}
		log.Printf("get post: %v", err)
		respond.Error(w, http.StatusInternalServerError, "Server error. Please try again later.")
		return
	}
	respond.JSON(w, http.StatusOK, post)
}

func (h *PostHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Access denied. No valid token provided.")
		return
	}
	var req dto.UpdatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	post, err := h.posts.FindPost(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "Post not found.")
			return
		}
		log.Printf("update post: fetch: %v", err)
		respond.Error(w, http.StatusInternalServerError, "Server error. Please try again later.")
		return
	}

	// Strict author check, no admin bypass on resource ownership.
	if post.AuthorID != ident.ID {
		respond.Error(w, http.StatusForbidden, "Unauthorized access.")
		return
	}

	// Partial update: empty fields keep the stored value. Important can only
	// be switched on here, never off.
	if req.Title != "" {
		post.Title = req.Title
	}
	if req.Content != "" {
		post.Content = req.Content
	}
	if req.Image != "" {
		post.Image = req.Image
	}
	if req.Category != "" {
		post.Category = req.Category
	}
	if req.Country != "" {
		post.Country = req.Country
	}
	if req.Important {
		post.Important = true
	}

	updated, err := h.posts.UpdatePost(r.Context(), post)
	if err != nil {
		log.Printf("update post: %v", err)
		respond.Error(w, http.StatusInternalServerError, "Server error. Please try again later.")
		return
	}

	if updated.Important {
		h.notify.BroadcastUpdatedPost(r.Context(), updated)
	}

	respond.JSON(w, http.StatusOK, dto.PostResponse{Message: "Post updated successfully", Post: updated})
}

func (h *PostHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Access denied. No valid token provided.")
		return
	}

	post, err := h.posts.FindPost(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "Post not found.")
			return
		}
		log.Printf("delete post: fetch: %v", err)
		respond.Error(w, http.StatusInternalServerError, "Server error. Please try again later.")
		return
	}
	if post.AuthorID != ident.ID {
		respond.Error(w, http.StatusForbidden, "Unauthorized access.")
		return
	}

	if err := h.posts.DeletePost(r.Context(), post.ID); err != nil {
		log.Printf("delete post: %v", err)
		respond.Error(w, http.StatusInternalServerError, "Server error. Please try again later.")
		return
	}
	respond.Message(w, http.StatusOK, "Post deleted successfully")
}

func (h *PostHandler) handleLike(w http.ResponseWriter, r *http.Request) {
	h.toggleLike(w, r, true)
}

func (h *PostHandler) handleDislike(w http.ResponseWriter, r *http.Request) {
	h.toggleLike(w, r, false)
}

func (h *PostHandler) toggleLike(w http.ResponseWriter, r *http.Request, like bool) {
	ident, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Access denied. No valid token provided.")
		return
	}
	postID := r.PathValue("postId")

	var (
		count   int
		err     error
		message string
	)
	if like {
		count, err = h.posts.LikePost(r.Context(), postID, ident.ID)
		message = "Post liked successfully"
	} else {
		count, err = h.posts.UnlikePost(r.Context(), postID, ident.ID)
		message = "Post unliked successfully"
	}

	switch {
	case err == nil:
		respond.JSON(w, http.StatusOK, dto.LikeResponse{Message: message, LikeCount: count})
	case errors.Is(err, storage.ErrNotFound):
		respond.Error(w, http.StatusNotFound, "Post not found.")
	case errors.Is(err, storage.ErrAlreadyLiked):
		respond.Error(w, http.StatusBadRequest, "You have already liked this post.")
	case errors.Is(err, storage.ErrNotLiked):
		respond.Error(w, http.StatusBadRequest, "You have not liked this post yet.")
	default:
		log.Printf("toggle like: %v", err)
		respond.Error(w, http.StatusInternalServerError, "Server error. Please try again later.")
	}
}
