package usecase

import (
	"context"
	"time"

	"go-appointment-booking/internal/converter"
	"go-appointment-booking/internal/delivery/dto"
	"go-appointment-booking/internal/domain/entity"
	"go-appointment-booking/internal/domain/repository"
	"go-appointment-booking/internal/service"
	"go-appointment-booking/pkg/metrics"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AvailabilityUsecase manages a doctor's weekly slot templates and resolves
// them into bookable occurrences for a calendar date.
type AvailabilityUsecase interface {
	AddSlot(ctx context.Context, principal entity.Principal, req *dto.CreateTimeSlotRequest) (*dto.TimeSlotResponse, error)
	RemoveSlot(ctx context.Context, principal entity.Principal, slotID uuid.UUID) error
	ToggleAvailability(ctx context.Context, principal entity.Principal, slotID uuid.UUID) (*dto.TimeSlotResponse, error)
	ListSlots(ctx context.Context, doctorID uuid.UUID) (*dto.TimeSlotListResponse, error)
	ListMySlots(ctx context.Context, principal entity.Principal) (*dto.TimeSlotListResponse, error)
	ResolveOccurrences(ctx context.Context, doctorID uuid.UUID, date string) (*dto.AvailabilityResponse, error)
}

type availabilityUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	loc             *time.Location
	doctorRepo      repository.DoctorRepository
	timeSlotRepo    repository.TimeSlotRepository
	appointmentRepo repository.AppointmentRepository
	auditService    service.AuditService
	cache           service.AvailabilityCache
	metrics         *metrics.Metrics
}

func NewAvailabilityUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	loc *time.Location,
	doctorRepo repository.DoctorRepository,
	timeSlotRepo repository.TimeSlotRepository,
	appointmentRepo repository.AppointmentRepository,
	auditService service.AuditService,
	cache service.AvailabilityCache,
	metrics *metrics.Metrics,
) AvailabilityUsecase {
	return &availabilityUsecase{
		db:              db,
		log:             log,
		loc:             loc,
		doctorRepo:      doctorRepo,
		timeSlotRepo:    timeSlotRepo,
		appointmentRepo: appointmentRepo,
		auditService:    auditService,
		cache:           cache,
		metrics:         metrics,
	}
}

// AddSlot creates an available weekly template for the calling doctor.
// Overlapping templates on the same day are accepted.
func (u *availabilityUsecase) AddSlot(ctx context.Context, principal entity.Principal, req *dto.CreateTimeSlotRequest) (*dto.TimeSlotResponse, error) {
	doctor, err := findDoctorForPrincipal(u.db.WithContext(ctx), u.doctorRepo, principal)
	if err != nil {
		return nil, err
	}

	if req.DayOfWeek == nil {
		return nil, validationError("day_of_week is required")
	}
	if err := validateSlotWindow(*req.DayOfWeek, req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, storeError(tx.Error)
	}
	defer tx.Rollback()

	slot := &entity.TimeSlot{
		DoctorID:    doctor.ID,
		DayOfWeek:   *req.DayOfWeek,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		IsAvailable: true,
	}

	if err := u.timeSlotRepo.Create(tx, slot); err != nil {
		u.log.Warnf("Failed to create time slot: %+v", err)
		return nil, storeError(err)
	}

	if err := u.auditService.LogCreate(ctx, tx, &principal.UserID, entity.AuditActionSlotCreate, "time_slot", slot.ID.String(), converter.TimeSlotSnapshot(slot)); err != nil {
		return nil, storeError(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, storeError(err)
	}

	u.afterMutation(ctx, doctor.ID, entity.AuditActionSlotCreate)
	return converter.TimeSlotToResponse(slot), nil
}

// RemoveSlot hard-deletes one of the caller's templates. Templates referenced
// by any appointment are kept and ErrSlotHasAppointments is returned.
func (u *availabilityUsecase) RemoveSlot(ctx context.Context, principal entity.Principal, slotID uuid.UUID) error {
	doctor, err := findDoctorForPrincipal(u.db.WithContext(ctx), u.doctorRepo, principal)
	if err != nil {
		return err
	}

	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return storeError(tx.Error)
	}
	defer tx.Rollback()

	slot, err := u.ownedSlot(tx, doctor.ID, slotID)
	if err != nil {
		return err
	}

	deleted, err := u.timeSlotRepo.DeleteUnreferenced(tx, slotID, doctor.ID)
	if err != nil {
		if isForeignKeyError(err, "time_slot") {
			return ErrSlotHasAppointments
		}
		u.log.Warnf("Failed to delete time slot %s: %+v", slotID, err)
		return storeError(err)
	}
	if deleted == 0 {
		references, err := u.appointmentRepo.CountBySlotID(tx, slotID)
		if err != nil {
			u.log.Warnf("Failed to count appointments for slot %s: %+v", slotID, err)
			return storeError(err)
		}
		if references > 0 {
			return ErrSlotHasAppointments
		}
		return ErrSlotNotFound
	}

	if err := u.auditService.LogDelete(ctx, tx, &principal.UserID, entity.AuditActionSlotDelete, "time_slot", slotID.String(), converter.TimeSlotSnapshot(slot)); err != nil {
		return storeError(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return storeError(err)
	}

	u.afterMutation(ctx, doctor.ID, entity.AuditActionSlotDelete)
	return nil
}

// ToggleAvailability flips is_available in a single statement, so concurrent
// toggles never lose an update.
func (u *availabilityUsecase) ToggleAvailability(ctx context.Context, principal entity.Principal, slotID uuid.UUID) (*dto.TimeSlotResponse, error) {
	doctor, err := findDoctorForPrincipal(u.db.WithContext(ctx), u.doctorRepo, principal)
	if err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, storeError(tx.Error)
	}
	defer tx.Rollback()

	before, err := u.ownedSlot(tx, doctor.ID, slotID)
	if err != nil {
		return nil, err
	}

	affected, err := u.timeSlotRepo.ToggleAvailability(tx, slotID, doctor.ID)
	if err != nil {
		u.log.Warnf("Failed to toggle time slot %s: %+v", slotID, err)
		return nil, storeError(err)
	}
	if affected == 0 {
		return nil, ErrSlotNotFound
	}

	after, err := u.timeSlotRepo.FindByID(tx, slotID)
	if err != nil {
		u.log.Warnf("Failed to reload time slot %s: %+v", slotID, err)
		return nil, storeError(err)
	}
	if after == nil {
		return nil, ErrSlotNotFound
	}

	if err := u.auditService.LogUpdate(ctx, tx, &principal.UserID, entity.AuditActionSlotToggle, "time_slot", slotID.String(),
		map[string]interface{}{"is_available": before.IsAvailable},
		map[string]interface{}{"is_available": after.IsAvailable},
	); err != nil {
		return nil, storeError(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, storeError(err)
	}

	u.afterMutation(ctx, doctor.ID, entity.AuditActionSlotToggle)
	return converter.TimeSlotToResponse(after), nil
}

// ListSlots returns the doctor's full template ordered by day then start time
func (u *availabilityUsecase) ListSlots(ctx context.Context, doctorID uuid.UUID) (*dto.TimeSlotListResponse, error) {
	slots, err := u.loadTemplate(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	return &dto.TimeSlotListResponse{
		Slots: converter.TimeSlotsToResponses(slots),
		Total: len(slots),
	}, nil
}

func (u *availabilityUsecase) ListMySlots(ctx context.Context, principal entity.Principal) (*dto.TimeSlotListResponse, error) {
	doctor, err := findDoctorForPrincipal(u.db.WithContext(ctx), u.doctorRepo, principal)
	if err != nil {
		return nil, err
	}
	return u.ListSlots(ctx, doctor.ID)
}

// ResolveOccurrences lists the bookable occurrences of the doctor's template on date.
// Past dates resolve like any other date.
func (u *availabilityUsecase) ResolveOccurrences(ctx context.Context, doctorID uuid.UUID, date string) (*dto.AvailabilityResponse, error) {
	day, err := parseDate(date, u.loc)
	if err != nil {
		return nil, err
	}

	slots, err := u.loadTemplate(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	occurrences := occurrencesToResponses(ResolveOccurrences(slots, day), day)
	return &dto.AvailabilityResponse{
		DoctorID:    doctorID,
		Date:        date,
		Occurrences: occurrences,
		Total:       len(occurrences),
	}, nil
}

// loadTemplate reads the doctor's ordered template through the availability cache.
// Cache failures are logged and fall back to the database.
func (u *availabilityUsecase) loadTemplate(ctx context.Context, doctorID uuid.UUID) ([]entity.TimeSlot, error) {
	cached, found, err := u.cache.Get(ctx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to read availability cache for doctor %s: %+v", doctorID, err)
	}
	u.metrics.ObserveCacheLookup("availability", found)
	if found {
		return cached, nil
	}

	// taken before the database read so a snapshot racing an invalidation is dropped
	generation, err := u.cache.Generation(ctx, doctorID)
	cacheable := err == nil
	if err != nil {
		u.log.Warnf("Failed to read availability cache generation for doctor %s: %+v", doctorID, err)
	}

	db := u.db.WithContext(ctx)

	doctor, err := u.doctorRepo.FindByID(db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, storeError(err)
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	slots, err := u.timeSlotRepo.FindByDoctorID(db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find time slots for doctor %s: %+v", doctorID, err)
		return nil, storeError(err)
	}

	if cacheable {
		if err := u.cache.Set(ctx, doctorID, generation, slots); err != nil {
			u.log.Warnf("Failed to write availability cache for doctor %s: %+v", doctorID, err)
		}
	}
	return slots, nil
}

func (u *availabilityUsecase) ownedSlot(tx *gorm.DB, doctorID, slotID uuid.UUID) (*entity.TimeSlot, error) {
	slot, err := u.timeSlotRepo.FindByID(tx, slotID)
	if err != nil {
		u.log.Warnf("Failed to find time slot %s: %+v", slotID, err)
		return nil, storeError(err)
	}
	if slot == nil {
		return nil, ErrSlotNotFound
	}
	if slot.DoctorID != doctorID {
		return nil, ErrSlotNotOwned
	}
	return slot, nil
}

func (u *availabilityUsecase) afterMutation(ctx context.Context, doctorID uuid.UUID, action string) {
	if err := u.cache.Invalidate(ctx, doctorID); err != nil {
		u.log.Warnf("Failed to invalidate availability cache for doctor %s: %+v", doctorID, err)
	}
	u.metrics.ObserveSlotMutation(action)
}

// findDoctorForPrincipal resolves the doctor profile owned by the caller
func findDoctorForPrincipal(db *gorm.DB, doctorRepo repository.DoctorRepository, principal entity.Principal) (*entity.Doctor, error) {
	if !principal.IsAuthenticated() {
		return nil, ErrUnauthenticated
	}
	if !principal.HasRole(entity.RoleDoctor) {
		return nil, ErrNotDoctor
	}

	doctor, err := doctorRepo.FindByUserID(db, principal.UserID)
	if err != nil {
		return nil, storeError(err)
	}
	if doctor == nil {
		return nil, ErrNotDoctor
	}
	return doctor, nil
}
