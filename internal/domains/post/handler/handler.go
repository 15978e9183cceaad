package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"social-backend/internal/domains/post/model"
	"social-backend/internal/domains/post/service"
	"social-backend/internal/shared/middleware"
	"social-backend/internal/shared/policy"
	"social-backend/internal/shared/response"
	"social-backend/internal/shared/utils"
)

// =====================================================
// POST HANDLER
// =====================================================

type PostHandler struct {
	postService service.ServiceInterface
}

func NewPostHandler(postService service.ServiceInterface) *PostHandler {
	return &PostHandler{postService: postService}
}

// =====================================================
// READ ENDPOINTS
// =====================================================

// GetTimeline lists visible posts, newest first
// GET /api/v1/posts?limit=&offset=
func (h *PostHandler) GetTimeline(c *gin.Context) {
	limit, offset := pageParams(c)

	res, err := h.postService.GetTimeline(c.Request.Context(), middleware.ActorFrom(c), limit, offset)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Posts retrieved successfully", res)
}

// SearchPosts matches content or author
// GET /api/v1/posts/search?q=&limit=&offset=
func (h *PostHandler) SearchPosts(c *gin.Context) {
	limit, offset := pageParams(c)

	res, err := h.postService.SearchPosts(c.Request.Context(), middleware.ActorFrom(c), c.Query("q"), limit, offset)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Posts retrieved successfully", res)
}

// GetPost
// GET /api/v1/posts/:id
func (h *PostHandler) GetPost(c *gin.Context) {
	res, err := h.postService.GetPost(c.Request.Context(), middleware.ActorFrom(c), parseID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Post retrieved successfully", res)
}

// =====================================================
// MUTATION ENDPOINTS
// =====================================================

// CreatePost
// POST /api/v1/posts
func (h *PostHandler) CreatePost(c *gin.Context) {
	// Step 1: actor
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	// Step 2: bind
	var req model.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	// Step 3: service
	res, err := h.postService.CreatePost(c.Request.Context(), actor, req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.Header("Location", "/api/v1/posts/"+res.ID.String())
	response.Success(c, http.StatusCreated, "Post created successfully", res)
}

// UpdatePost
// PUT /api/v1/posts/:id
func (h *PostHandler) UpdatePost(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req model.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	res, err := h.postService.UpdatePost(c.Request.Context(), actor, parseID(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Post updated successfully", res)
}

// DeletePost
// DELETE /api/v1/posts/:id
func (h *PostHandler) DeletePost(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	res, err := h.postService.DeletePost(c.Request.Context(), actor, parseID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Post deleted successfully", res)
}

// =====================================================
// HELPER FUNCTIONS
// =====================================================

// requireActor rejects anonymous callers before the body is read.
func requireActor(c *gin.Context) (*policy.Actor, bool) {
	actor := middleware.ActorFrom(c)
	if err := policy.RequireActor(actor); err != nil {
		response.FromError(c, err)
		return nil, false
	}
	return actor, true
}

// parseID maps a malformed id onto uuid.Nil, which matches no row.
func parseID(c *gin.Context) uuid.UUID {
	return utils.ParseStringToUUID(c.Param("id"))
}

func pageParams(c *gin.Context) (int, int) {
	return utils.ParseIntOrDefault(c.Query("limit"), policy.DefaultLimit),
		utils.ParseIntOrDefault(c.Query("offset"), 0)
}
