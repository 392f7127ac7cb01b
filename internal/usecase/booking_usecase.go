package usecase

import (
	"context"
	"errors"
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

type BookingUsecase interface {
	Book(ctx context.Context, principal entity.Principal, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	Cancel(ctx context.Context, principal entity.Principal, appointmentID uuid.UUID) error
	MyAppointments(ctx context.Context, principal entity.Principal) (*dto.AppointmentListResponse, error)
}

type bookingUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	loc             *time.Location
	now             func() time.Time
	doctorRepo      repository.DoctorRepository
	timeSlotRepo    repository.TimeSlotRepository
	appointmentRepo repository.AppointmentRepository
	auditService    service.AuditService
	cache           service.AvailabilityCache
	metrics         *metrics.Metrics
}

func NewBookingUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	loc *time.Location,
	doctorRepo repository.DoctorRepository,
	timeSlotRepo repository.TimeSlotRepository,
	appointmentRepo repository.AppointmentRepository,
	auditService service.AuditService,
	cache service.AvailabilityCache,
	metrics *metrics.Metrics,
) BookingUsecase {
	return &bookingUsecase{
		db:              db,
		log:             log,
		loc:             loc,
		now:             time.Now,
		doctorRepo:      doctorRepo,
		timeSlotRepo:    timeSlotRepo,
		appointmentRepo: appointmentRepo,
		auditService:    auditService,
		cache:           cache,
		metrics:         metrics,
	}
}

// Book reserves a slot template for the caller on a calendar date.
//
// Flow, all inside one transaction:
// 1. Load the slot and check it belongs to the doctor and recurs on the date's weekday
// 2. Snapshot the doctor's name as provider_name
// 3. Insert the appointment
// 4. Conditionally flip the slot to unavailable; zero rows means another booking won
// 5. Write the audit row
//
// Any failure rolls back every step, so an appointment never exists without the
// slot flip and the flip never happens without the appointment.
func (u *bookingUsecase) Book(ctx context.Context, principal entity.Principal, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	started := time.Now()
	appointment, err := u.book(ctx, principal, req)
	u.metrics.ObserveBooking(bookingOutcome(err), time.Since(started))
	if err != nil {
		return nil, err
	}
	return converter.AppointmentToResponse(appointment), nil
}

func (u *bookingUsecase) book(ctx context.Context, principal entity.Principal, req *dto.CreateAppointmentRequest) (*entity.Appointment, error) {
	if !principal.IsAuthenticated() {
		return nil, ErrUnauthenticated
	}

	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		return nil, validationError("doctor_id must be a valid UUID")
	}
	slotID, err := uuid.Parse(req.TimeSlotID)
	if err != nil {
		return nil, validationError("time_slot_id must be a valid UUID")
	}
	date, err := parseDate(req.Date, u.loc)
	if err != nil {
		return nil, err
	}
	if date.Before(startOfDay(u.now().In(u.loc))) {
		return nil, ErrBookingDatePast
	}

	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, storeError(tx.Error)
	}
	defer tx.Rollback()

	slot, err := u.timeSlotRepo.FindByID(tx, slotID)
	if err != nil {
		u.log.Warnf("Failed to find time slot %s: %+v", slotID, err)
		return nil, storeError(err)
	}
	if slot == nil {
		return nil, ErrSlotNotFound
	}
	if slot.DoctorID != doctorID {
		return nil, validationError("time slot does not belong to the selected doctor")
	}
	if !slot.FallsOn(date) {
		return nil, validationError("time slot is offered on %s, not on %s", slot.Weekday(), date.Weekday())
	}
	// fast path only; the conditional update below is what decides
	if !slot.IsAvailable {
		return nil, ErrSlotAlreadyBooked
	}

	doctor, err := u.doctorRepo.FindByID(tx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, storeError(err)
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	appointmentDate, err := atClock(date, slot.StartTime)
	if err != nil {
		return nil, err
	}

	appointment := &entity.Appointment{
		UserID:          principal.UserID,
		DoctorID:        doctorID,
		TimeSlotID:      slotID,
		AppointmentDate: appointmentDate,
		AppointmentType: entity.AppointmentTypeConsultation,
		Status:          entity.AppointmentStatusScheduled,
		ProviderName:    doctor.DisplayName(),
	}

	if err := u.appointmentRepo.Create(tx, appointment); err != nil {
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, storeError(err)
	}

	booked, err := u.timeSlotRepo.MarkBooked(tx, slotID)
	if err != nil {
		u.log.Warnf("Failed to mark time slot %s booked: %+v", slotID, err)
		return nil, storeError(err)
	}
	if booked == 0 {
		return nil, ErrSlotAlreadyBooked
	}

	if err := u.auditService.LogCreate(ctx, tx, &principal.UserID, entity.AuditActionAppointmentBook, "appointment", appointment.ID.String(), converter.AppointmentSnapshot(appointment)); err != nil {
		return nil, storeError(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, storeError(err)
	}

	u.invalidate(ctx, doctorID)
	u.log.Infof("Appointment booked: id=%s, doctor=%s, slot=%s, date=%s", appointment.ID, doctorID, slotID, req.Date)

	slot.IsAvailable = false
	appointment.TimeSlot = slot
	return appointment, nil
}

// Cancel cancels the caller's scheduled appointment and makes its slot template
// available again. The template stays booked while another scheduled appointment
// holds it, and finding it already available is not an error.
func (u *bookingUsecase) Cancel(ctx context.Context, principal entity.Principal, appointmentID uuid.UUID) error {
	if !principal.IsAuthenticated() {
		return ErrUnauthenticated
	}

	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return storeError(tx.Error)
	}
	defer tx.Rollback()

	appointment, err := u.appointmentRepo.FindByID(tx, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return storeError(err)
	}
	if appointment == nil {
		return ErrAppointmentNotFound
	}
	if appointment.UserID != principal.UserID {
		return ErrAppointmentNotOwned
	}
	if appointment.IsCancelled() {
		return ErrAppointmentAlreadyCancelled
	}

	cancelled, err := u.appointmentRepo.Cancel(tx, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to cancel appointment %s: %+v", appointmentID, err)
		return storeError(err)
	}
	if cancelled == 0 {
		return ErrAppointmentAlreadyCancelled
	}

	released, err := u.timeSlotRepo.MarkReleased(tx, appointment.TimeSlotID, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to release time slot %s: %+v", appointment.TimeSlotID, err)
		return storeError(err)
	}

	if err := u.auditService.LogUpdate(ctx, tx, &principal.UserID, entity.AuditActionAppointmentCancel, "appointment", appointmentID.String(),
		map[string]interface{}{"status": string(entity.AppointmentStatusScheduled)},
		map[string]interface{}{"status": string(entity.AppointmentStatusCancelled), "slot_released": released > 0},
	); err != nil {
		return storeError(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return storeError(err)
	}

	u.invalidate(ctx, appointment.DoctorID)
	u.metrics.Cancellations.Inc()
	u.log.Infof("Appointment cancelled: id=%s, slot=%s, released=%t", appointmentID, appointment.TimeSlotID, released > 0)
	return nil
}

// MyAppointments returns the caller's appointments, newest first
func (u *bookingUsecase) MyAppointments(ctx context.Context, principal entity.Principal) (*dto.AppointmentListResponse, error) {
	if !principal.IsAuthenticated() {
		return nil, ErrUnauthenticated
	}

	appointments, err := u.appointmentRepo.FindByPatientID(u.db.WithContext(ctx), principal.UserID)
	if err != nil {
		u.log.Warnf("Failed to find appointments for patient %s: %+v", principal.UserID, err)
		return nil, storeError(err)
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

func (u *bookingUsecase) invalidate(ctx context.Context, doctorID uuid.UUID) {
	if err := u.cache.Invalidate(ctx, doctorID); err != nil {
		u.log.Warnf("Failed to invalidate availability cache for doctor %s: %+v", doctorID, err)
	}
}

func bookingOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeBooked
	case errors.Is(err, ErrSlotAlreadyBooked):
		return metrics.OutcomeConflict
	case errors.Is(err, ErrStoreUnavailable):
		return metrics.OutcomeFailed
	default:
		return metrics.OutcomeInvalid
	}
}
