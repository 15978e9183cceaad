package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"social-backend/internal/domains/comment/model"
	"social-backend/internal/domains/comment/service"
	"social-backend/internal/shared/middleware"
	"social-backend/internal/shared/policy"
	"social-backend/internal/shared/response"
	"social-backend/internal/shared/utils"
)

// =====================================================
// COMMENT HANDLER
// =====================================================

type CommentHandler struct {
	commentService service.ServiceInterface
}

func NewCommentHandler(commentService service.ServiceInterface) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// ListByPost lists top-level comments
// GET /api/v1/posts/:id/comments?limit=&offset=
func (h *CommentHandler) ListByPost(c *gin.Context) {
	limit, offset := pageParams(c)
	postID := utils.ParseStringToUUID(c.Param("id"))

	res, err := h.commentService.ListByPost(c.Request.Context(), middleware.ActorFrom(c), postID, limit, offset)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Comments retrieved successfully", res)
}

// ListReplies lists direct replies
// GET /api/v1/comments/:id/replies?limit=&offset=
func (h *CommentHandler) ListReplies(c *gin.Context) {
	limit, offset := pageParams(c)
	commentID := utils.ParseStringToUUID(c.Param("id"))

	res, err := h.commentService.ListReplies(c.Request.Context(), middleware.ActorFrom(c), commentID, limit, offset)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Replies retrieved successfully", res)
}

// CreateComment adds a comment or reply
// POST /api/v1/posts/:id/comments
func (h *CommentHandler) CreateComment(c *gin.Context) {
	// Step 1: actor
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	// Step 2: bind
	var req model.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	// Step 3: service
	postID := utils.ParseStringToUUID(c.Param("id"))
	res, err := h.commentService.CreateComment(c.Request.Context(), actor, postID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Comment created successfully", res)
}

// UpdateComment
// PUT /api/v1/comments/:id
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req model.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	res, err := h.commentService.UpdateComment(c.Request.Context(), actor, utils.ParseStringToUUID(c.Param("id")), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Comment updated successfully", res)
}

// DeleteComment
// DELETE /api/v1/comments/:id
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	res, err := h.commentService.DeleteComment(c.Request.Context(), actor, utils.ParseStringToUUID(c.Param("id")))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Comment deleted successfully", res)
}

// =====================================================
// HELPER FUNCTIONS
// =====================================================

func requireActor(c *gin.Context) (*policy.Actor, bool) {
	actor := middleware.ActorFrom(c)
	if err := policy.RequireActor(actor); err != nil {
		response.FromError(c, err)
		return nil, false
	}
	return actor, true
}

func pageParams(c *gin.Context) (int, int) {
	return utils.ParseIntOrDefault(c.Query("limit"), policy.DefaultLimit),
		utils.ParseIntOrDefault(c.Query("offset"), 0)
}
