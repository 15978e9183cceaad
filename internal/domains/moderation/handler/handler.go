package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"social-backend/internal/domains/moderation/service"
	"social-backend/internal/shared/middleware"
	"social-backend/internal/shared/policy"
	"social-backend/internal/shared/response"
	"social-backend/internal/shared/utils"
)

type ModerationHandler struct {
	moderationService service.ServiceInterface
}

func NewModerationHandler(moderationService service.ServiceInterface) *ModerationHandler {
	return &ModerationHandler{moderationService: moderationService}
}

// ListEvents
// GET /api/v1/admin/moderation-events?limit=&offset=
func (h *ModerationHandler) ListEvents(c *gin.Context) {
	limit := utils.ParseIntOrDefault(c.Query("limit"), policy.DefaultLimit)
	offset := utils.ParseIntOrDefault(c.Query("offset"), 0)

	res, err := h.moderationService.ListEvents(c.Request.Context(), middleware.ActorFrom(c), limit, offset)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Moderation events retrieved successfully", res)
}
