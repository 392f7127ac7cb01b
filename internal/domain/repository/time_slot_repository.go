package repository

import (
	"go-appointment-booking/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TimeSlotRepository persists weekly slot templates. The Mark*, Toggle and
// Delete methods are conditional updates: they report affected rows and
// callers decide what zero rows means.
type TimeSlotRepository interface {
	Create(db *gorm.DB, slot *entity.TimeSlot) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.TimeSlot, error)
	FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.TimeSlot, error)
	FindAvailable(db *gorm.DB) ([]entity.TimeSlot, error)
	MarkBooked(db *gorm.DB, id uuid.UUID) (int64, error)
	MarkReleased(db *gorm.DB, id, cancelledID uuid.UUID) (int64, error)
	ToggleAvailability(db *gorm.DB, id, doctorID uuid.UUID) (int64, error)
	DeleteUnreferenced(db *gorm.DB, id, doctorID uuid.UUID) (int64, error)
}
