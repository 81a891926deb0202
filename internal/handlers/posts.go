package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/roddesu/updatedsafespace/internal/logger"
	"github.com/roddesu/updatedsafespace/internal/services"
	helpers "github.com/roddesu/updatedsafespace/internal/utils/helpers"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type PostHandler struct {
	postService *services.PostService
}

func NewPostHandler(postService *services.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

type createPostRequest struct {
	UserID      int64  `json:"user_id"`
	Description string `json:"description"`
}

type createCommentRequest struct {
	UserID int64  `json:"user_id"`
	Text   string `json:"text"`
}

// CreatePost godoc
// @Summary Create a post
// @Tags posts
// @Accept json
// @Produce json
// @Param input body createPostRequest true "Post data"
// @Success 200 {object} helpers.Response "success + postId"
// @Failure 400 {object} helpers.Response
// @Router /items [post]
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	var req createPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("Invalid JSON in CreatePost", zap.Error(err))
		helpers.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	post, err := h.postService.CreatePost(r.Context(), req.UserID, req.Description)
	switch {
	case err == nil:
		helpers.JSON(w, http.StatusOK, helpers.Response{
			Success: true,
			Message: "Post created successfully",
			PostID:  post.ID,
		})
	case errors.Is(err, services.ErrEmptyDescription):
		helpers.Fail(w, http.StatusBadRequest, "Description is required.")
	default:
		log.Error("Failed to create post", zap.Error(err))
		helpers.Fail(w, http.StatusInternalServerError, "Failed to create post.")
	}
}

// ListPosts godoc
// @Summary List posts with comment counts
// @Tags posts
// @Produce json
// @Success 200 {array} models.Post
// @Router /items [get]
func (h *PostHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	posts, err := h.postService.ListPosts(r.Context())
	if err != nil {
		log.Error("Failed to list posts", zap.Error(err))
		helpers.Fail(w, http.StatusInternalServerError, "Failed to fetch posts.")
		return
	}
	helpers.Raw(w, http.StatusOK, posts)
}

// CreateComment godoc
// @Summary Comment on a post
// @Tags posts
// @Accept json
// @Produce json
// @Param id path int true "Post ID"
// @Param input body createCommentRequest true "Comment data"
// @Success 200 {object} models.Comment
// @Failure 400 {object} helpers.Response
// @Router /posts/{id}/comments [post]
func (h *PostHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	postID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		helpers.Fail(w, http.StatusBadRequest, "Invalid post id.")
		return
	}

	var req createCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("Invalid JSON in CreateComment", zap.Error(err))
		helpers.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	comment, err := h.postService.AddComment(r.Context(), postID, req.UserID, req.Text)
	switch {
	case err == nil:
		helpers.Raw(w, http.StatusOK, comment)
	case errors.Is(err, services.ErrEmptyDescription):
		helpers.Fail(w, http.StatusBadRequest, "Comment text is required.")
	default:
		log.Error("Failed to create comment", zap.Error(err))
		helpers.Fail(w, http.StatusInternalServerError, "Failed to create comment.")
	}
}

// ListComments godoc
// @Summary List comments of a post
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {array} models.Comment
// @Router /posts/{id}/comments [get]
func (h *PostHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	postID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		helpers.Fail(w, http.StatusBadRequest, "Invalid post id.")
		return
	}

	comments, err := h.postService.ListComments(r.Context(), postID)
	if err != nil {
		log.Error("Failed to list comments", zap.Error(err))
		helpers.Fail(w, http.StatusInternalServerError, "Failed to fetch comments.")
		return
	}
	helpers.Raw(w, http.StatusOK, comments)
}
