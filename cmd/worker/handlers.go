package main

import (
	"github.com/hibiken/asynq"

	moderationJob "social-backend/internal/domains/moderation/job"
	moderationModel "social-backend/internal/domains/moderation/model"
	"social-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	// Moderation handlers
	recordEvent *moderationJob.AuditHandler
}

// initializeHandlers creates all job handlers with their dependencies
func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		recordEvent: moderationJob.NewAuditHandler(c.ModerationService),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	// Moderation tasks
	mux.HandleFunc(moderationModel.TypeRecordEvent, h.recordEvent.ProcessTask)
}
