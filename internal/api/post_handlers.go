package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"pitchboard/db"
	"pitchboard/internal/post"
	"pitchboard/middleware"
	"pitchboard/models"

	"github.com/gorilla/mux"
)

// PostHandlers is the JSON counterpart of the web post handlers. Reads are
// public; mutations require the Bearer token set up by
// middleware.AuthMiddleware and enforce the same ownership rule.
type PostHandlers struct {
	Posts *post.PostService
}

func NewPostHandlers(posts *post.PostService) *PostHandlers {
	return &PostHandlers{Posts: posts}
}

type postRequest struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Content  string `json:"content"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (h *PostHandlers) GetAllPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.Posts.FindAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if posts == nil {
		posts = []*models.Post{}
	}
	writeJSON(w, http.StatusOK, posts)
}

func (h *PostHandlers) GetPost(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	p, err := h.Posts.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Post not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *PostHandlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Login required")
		return
	}

	var req postRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request format")
		return
	}
	if req.Title == "" || req.Content == "" {
		writeError(w, http.StatusBadRequest, "Title and content are required")
		return
	}

	p, err := h.Posts.Create(r.Context(), userID, req.Title, req.Category, req.Content)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *PostHandlers) UpdatePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Login required")
		return
	}

	var req postRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request format")
		return
	}
	if req.Title == "" || req.Content == "" {
		writeError(w, http.StatusBadRequest, "Title and content are required")
		return
	}

	id := mux.Vars(r)["id"]
	p, err := h.Posts.Update(r.Context(), userID, id, req.Title, req.Category, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrNotFound):
			writeError(w, http.StatusNotFound, "Post not found")
		case errors.Is(err, post.ErrForbidden):
			writeError(w, http.StatusForbidden, "Only the author may update this post")
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *PostHandlers) DeletePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Login required")
		return
	}

	id := mux.Vars(r)["id"]
	if err := h.Posts.Delete(r.Context(), userID, id); err != nil {
		switch {
		case errors.Is(err, db.ErrNotFound):
			writeError(w, http.StatusNotFound, "Post not found")
		case errors.Is(err, post.ErrForbidden):
			writeError(w, http.StatusForbidden, "Only the author may delete this post")
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
