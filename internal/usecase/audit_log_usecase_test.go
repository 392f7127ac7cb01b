package usecase

import (
	"context"
	"testing"

	"go-appointment-booking/internal/delivery/dto"
	"go-appointment-booking/internal/domain/entity"
	domainRepo "go-appointment-booking/internal/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditLogUsecase_RecordsSlotMutations(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, principal := env.seedDoctor(t, "d1@example.com", "Dr One")
	availability := env.availability()

	slot, err := availability.AddSlot(ctx, principal, &dto.CreateTimeSlotRequest{DayOfWeek: intPtr(1), StartTime: "09:00", EndTime: "09:30"})
	require.NoError(t, err)
	_, err = availability.ToggleAvailability(ctx, principal, slot.ID)
	require.NoError(t, err)
	require.NoError(t, availability.RemoveSlot(ctx, principal, slot.ID))

	audit := NewAuditLogUsecase(env.db, env.log, env.auditLogRepo)

	all, err := audit.GetAllAuditLogs(ctx, domainRepo.AuditLogFilter{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.Total)

	toggles, err := audit.GetAllAuditLogs(ctx, domainRepo.AuditLogFilter{Action: entity.AuditActionSlotToggle})
	require.NoError(t, err)
	require.Len(t, toggles.Logs, 1)
	assert.Equal(t, slot.ID.String(), toggles.Logs[0].Metadata["entity_id"])

	one, err := audit.GetAuditLog(ctx, toggles.Logs[0].ID)
	require.NoError(t, err)
	assert.Equal(t, entity.AuditActionSlotToggle, one.Action)

	_, err = audit.GetAuditLog(ctx, 424242)
	assert.ErrorIs(t, err, ErrAuditLogNotFound)
}
