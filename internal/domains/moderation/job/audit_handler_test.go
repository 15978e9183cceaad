package job

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"social-backend/internal/domains/moderation/model"
	"social-backend/internal/domains/moderation/repository"
	"social-backend/internal/domains/moderation/service"
	"social-backend/internal/shared/policy"
)

func TestAuditHandler_ProcessTask(t *testing.T) {
	repo := repository.NewMemoryEventRepository()
	h := NewAuditHandler(service.NewModerationService(repo))
	ctx := context.Background()

	item := policy.NewLifecycle(uuid.New(), time.Now())
	event := model.NewEvent(policy.OperationEdit, policy.ResourceComment, uuid.New(), &item,
		policy.NewActor(uuid.New(), policy.RoleAdmin), time.Now().UTC())
	payload, err := json.Marshal(event)
	require.NoError(t, err)

	require.NoError(t, h.ProcessTask(ctx, asynq.NewTask(model.TypeRecordEvent, payload)))

	events, total, err := repo.List(ctx, policy.ClampPage(10, 0))
	require.NoError(t, err)
	require.Equal(t, 1, total)
	assert.Equal(t, event.ID, events[0].ID)
	assert.Equal(t, policy.OperationEdit, events[0].Action)
	assert.Equal(t, policy.ResourceComment, events[0].ResourceType)
	assert.Equal(t, event.ModeratorID, events[0].ModeratorID)
}

func TestAuditHandler_BadPayloadSkipsRetry(t *testing.T) {
	h := NewAuditHandler(service.NewModerationService(repository.NewMemoryEventRepository()))
	ctx := context.Background()

	err := h.ProcessTask(ctx, asynq.NewTask(model.TypeRecordEvent, []byte("{not json")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, asynq.SkipRetry))

	err = h.ProcessTask(ctx, asynq.NewTask(model.TypeRecordEvent, []byte(`{}`)))
	require.Error(t, err)
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}
