package repository

import (
	"errors"

	"go-appointment-booking/internal/domain/entity"
	domainRepo "go-appointment-booking/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type timeSlotRepository struct{}

func NewTimeSlotRepository() domainRepo.TimeSlotRepository {
	return &timeSlotRepository{}
}

func (r *timeSlotRepository) Create(db *gorm.DB, slot *entity.TimeSlot) error {
	return db.Omit(clause.Associations).Create(slot).Error
}

func (r *timeSlotRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.TimeSlot, error) {
	var slot entity.TimeSlot
	err := db.Where("id = ?", id).First(&slot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &slot, nil
}

func (r *timeSlotRepository) FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.TimeSlot, error) {
	var slots []entity.TimeSlot
	err := db.Where("doctor_id = ?", doctorID).
		Order("day_of_week ASC, start_time ASC, id ASC").
		Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

// FindAvailable returns every available template across all doctors
func (r *timeSlotRepository) FindAvailable(db *gorm.DB) ([]entity.TimeSlot, error) {
	var slots []entity.TimeSlot
	err := db.Where("is_available = ?", true).
		Order("doctor_id ASC, day_of_week ASC, start_time ASC, id ASC").
		Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

// MarkBooked flips the template to unavailable only if it is still available.
// Returns affected rows: 1 = this caller won the slot, 0 = someone else did.
func (r *timeSlotRepository) MarkBooked(db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.Model(&entity.TimeSlot{}).
		Where("id = ? AND is_available = ?", id, true).
		Update("is_available", false)
	return result.RowsAffected, result.Error
}

// MarkReleased makes a booked template available again, unless a scheduled appointment
// other than the one being cancelled still holds it. 0 rows means the template is left as is.
func (r *timeSlotRepository) MarkReleased(db *gorm.DB, id, cancelledID uuid.UUID) (int64, error) {
	held := db.Session(&gorm.Session{NewDB: true}).
		Model(&entity.Appointment{}).
		Select("1").
		Where("appointments.time_slot_id = time_slots.id").
		Where("appointments.status = ? AND appointments.id <> ?", entity.AppointmentStatusScheduled, cancelledID)

	result := db.Model(&entity.TimeSlot{}).
		Where("id = ? AND is_available = ?", id, false).
		Where("NOT EXISTS (?)", held).
		Update("is_available", true)
	return result.RowsAffected, result.Error
}

func (r *timeSlotRepository) ToggleAvailability(db *gorm.DB, id, doctorID uuid.UUID) (int64, error) {
	result := db.Model(&entity.TimeSlot{}).
		Where("id = ? AND doctor_id = ?", id, doctorID).
		Update("is_available", gorm.Expr("NOT is_available"))
	return result.RowsAffected, result.Error
}

// DeleteUnreferenced removes the doctor's template unless an appointment still points at it
func (r *timeSlotRepository) DeleteUnreferenced(db *gorm.DB, id, doctorID uuid.UUID) (int64, error) {
	referenced := db.Session(&gorm.Session{NewDB: true}).
		Model(&entity.Appointment{}).
		Select("1").
		Where("appointments.time_slot_id = time_slots.id")

	result := db.Where("id = ? AND doctor_id = ?", id, doctorID).
		Where("NOT EXISTS (?)", referenced).
		Delete(&entity.TimeSlot{})
	return result.RowsAffected, result.Error
}
