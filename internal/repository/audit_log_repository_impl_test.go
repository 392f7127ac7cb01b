package repository

import (
	"testing"

	"go-appointment-booking/internal/domain/entity"
	domainRepo "go-appointment-booking/internal/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditLogRepository_FindAllFiltersAndPages(t *testing.T) {
	db := newTestDB(t)
	repo := NewAuditLogRepository()

	for _, action := range []string{
		entity.AuditActionSlotCreate,
		entity.AuditActionAppointmentBook,
		entity.AuditActionAppointmentBook,
		entity.AuditActionAppointmentBook,
	} {
		require.NoError(t, repo.Create(db, &entity.AuditLog{
			Action:   action,
			Metadata: entity.JSON{"entity": "test"},
		}))
	}

	logs, total, err := repo.FindAll(db, domainRepo.AuditLogFilter{Action: entity.AuditActionAppointmentBook, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, logs, 2)
	for _, l := range logs {
		assert.Equal(t, entity.AuditActionAppointmentBook, l.Action)
	}

	found, err := repo.FindByID(db, logs[0].ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "test", found.Metadata["entity"])

	missing, err := repo.FindByID(db, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}
