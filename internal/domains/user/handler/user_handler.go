package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"social-backend/internal/domains/user"
	"social-backend/internal/shared/middleware"
	"social-backend/internal/shared/response"
)

// UserHandler serves the auth and profile endpoints.
type UserHandler struct {
	service user.Service
}

func NewUserHandler(service user.Service) *UserHandler {
	return &UserHandler{service: service}
}

// ========================================
// AUTHENTICATION ENDPOINTS
// ========================================

// Register handles POST /auth/register
func (h *UserHandler) Register(c *gin.Context) {
	var req user.RegisterRequest
	if err := h.bindJSON(c, &req); err != nil {
		return
	}

	res, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.Header("Location", "/api/v1/users/me")
	response.Success(c, http.StatusCreated, "User registered successfully", res)
}

// Login handles POST /auth/login
func (h *UserHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := h.bindJSON(c, &req); err != nil {
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Login successful", res)
}

// Logout handles POST /auth/logout
func (h *UserHandler) Logout(c *gin.Context) {
	tokenID, expiresAt := middleware.TokenFrom(c)

	if err := h.service.Logout(c.Request.Context(), middleware.ActorFrom(c), tokenID, expiresAt); err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Logged out successfully", nil)
}

// ========================================
// PROFILE ENDPOINTS
// ========================================

// GetProfile handles GET /users/me
func (h *UserHandler) GetProfile(c *gin.Context) {
	profile, err := h.service.GetProfile(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Profile retrieved successfully", profile)
}

// UpdateProfile handles PUT /users/me
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req user.UpdateProfileRequest
	if err := h.bindJSON(c, &req); err != nil {
		return
	}

	profile, err := h.service.UpdateProfile(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Profile updated successfully", profile)
}

func (h *UserHandler) bindJSON(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindJSON(req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return err
	}
	return nil
}
