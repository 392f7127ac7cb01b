package usecase

import (
	"context"
	"testing"
	"time"

	"go-appointment-booking/internal/delivery/dto"
	"go-appointment-booking/internal/domain/entity"
	domainRepo "go-appointment-booking/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// racingSlotRepo runs afterList once, right after the template has been read,
// so a write can commit between a reader's database load and its cache fill
type racingSlotRepo struct {
	domainRepo.TimeSlotRepository
	afterList func()
}

func (r *racingSlotRepo) FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.TimeSlot, error) {
	slots, err := r.TimeSlotRepository.FindByDoctorID(db, doctorID)
	if r.afterList != nil {
		hook := r.afterList
		r.afterList = nil
		hook()
	}
	return slots, err
}

func TestAvailabilityUsecase_AddSlotValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, doctor := env.seedDoctor(t, "d1@example.com", "Dr One")
	_, patient := env.seedUser(t, "p1@example.com", "Patient One", entity.RolePatient)
	availability := env.availability()

	tests := []struct {
		name    string
		req     *dto.CreateTimeSlotRequest
		wantErr error
	}{
		{"end before start", &dto.CreateTimeSlotRequest{DayOfWeek: intPtr(1), StartTime: "10:00", EndTime: "09:00"}, ErrValidation},
		{"empty window", &dto.CreateTimeSlotRequest{DayOfWeek: intPtr(1), StartTime: "10:00", EndTime: "10:00"}, ErrValidation},
		{"day out of range", &dto.CreateTimeSlotRequest{DayOfWeek: intPtr(7), StartTime: "09:00", EndTime: "10:00"}, ErrValidation},
		{"missing day", &dto.CreateTimeSlotRequest{StartTime: "09:00", EndTime: "10:00"}, ErrValidation},
		{"bad clock", &dto.CreateTimeSlotRequest{DayOfWeek: intPtr(1), StartTime: "9:00", EndTime: "10:00"}, ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := availability.AddSlot(ctx, doctor, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err := availability.AddSlot(ctx, patient, &dto.CreateTimeSlotRequest{DayOfWeek: intPtr(1), StartTime: "09:00", EndTime: "10:00"})
	assert.ErrorIs(t, err, ErrNotDoctor)

	mine, err := availability.ListMySlots(ctx, doctor)
	require.NoError(t, err)
	assert.Equal(t, 0, mine.Total)
}

func TestAvailabilityUsecase_NewSlotVisibleImmediately(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	doctor, principal := env.seedDoctor(t, "d1@example.com", "Dr One")
	availability := env.availability()

	// warm the cache with an empty template
	empty, err := availability.ListSlots(ctx, doctor.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Total)

	created, err := availability.AddSlot(ctx, principal, &dto.CreateTimeSlotRequest{DayOfWeek: intPtr(1), StartTime: "09:00", EndTime: "09:30"})
	require.NoError(t, err)
	assert.True(t, created.IsAvailable)
	assert.Equal(t, "Monday", created.DayName)

	listed, err := availability.ListSlots(ctx, doctor.ID)
	require.NoError(t, err)
	require.Equal(t, 1, listed.Total)
	assert.Equal(t, created.ID, listed.Slots[0].ID)

	occurrences, err := availability.ResolveOccurrences(ctx, doctor.ID, testMonday)
	require.NoError(t, err)
	require.Equal(t, 1, occurrences.Total)
	assert.Equal(t, testMonday, occurrences.Occurrences[0].Date)
	assert.Equal(t, 9, occurrences.Occurrences[0].StartsAt.Hour())
	assert.Equal(t, 30, occurrences.Occurrences[0].EndsAt.Minute())
}

func TestAvailabilityUsecase_OverlappingSlotsAccepted(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	doctor, principal := env.seedDoctor(t, "d1@example.com", "Dr One")
	availability := env.availability()

	for _, window := range [][2]string{{"09:00", "10:00"}, {"09:30", "10:30"}} {
		_, err := availability.AddSlot(ctx, principal, &dto.CreateTimeSlotRequest{DayOfWeek: intPtr(1), StartTime: window[0], EndTime: window[1]})
		require.NoError(t, err)
	}

	occurrences, err := availability.ResolveOccurrences(ctx, doctor.ID, testMonday)
	require.NoError(t, err)
	assert.Equal(t, 2, occurrences.Total)
}

func TestAvailabilityUsecase_Toggle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	doctor, principal := env.seedDoctor(t, "d1@example.com", "Dr One")
	_, otherPrincipal := env.seedDoctor(t, "d2@example.com", "Dr Two")
	availability := env.availability()

	slot, err := availability.AddSlot(ctx, principal, &dto.CreateTimeSlotRequest{DayOfWeek: intPtr(1), StartTime: "09:00", EndTime: "09:30"})
	require.NoError(t, err)

	_, err = availability.ToggleAvailability(ctx, otherPrincipal, slot.ID)
	assert.ErrorIs(t, err, ErrSlotNotOwned)

	off, err := availability.ToggleAvailability(ctx, principal, slot.ID)
	require.NoError(t, err)
	assert.False(t, off.IsAvailable)

	hidden, err := availability.ResolveOccurrences(ctx, doctor.ID, testMonday)
	require.NoError(t, err)
	assert.Equal(t, 0, hidden.Total)

	on, err := availability.ToggleAvailability(ctx, principal, slot.ID)
	require.NoError(t, err)
	assert.True(t, on.IsAvailable)

	visible, err := availability.ResolveOccurrences(ctx, doctor.ID, testMonday)
	require.NoError(t, err)
	assert.Equal(t, 1, visible.Total)

	_, err = availability.ToggleAvailability(ctx, principal, uuid.New())
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestAvailabilityUsecase_RemoveSlot(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	doctor, principal := env.seedDoctor(t, "d1@example.com", "Dr One")
	_, patient := env.seedUser(t, "p1@example.com", "Patient One", entity.RolePatient)
	availability := env.availability()

	free, err := availability.AddSlot(ctx, principal, &dto.CreateTimeSlotRequest{DayOfWeek: intPtr(1), StartTime: "09:00", EndTime: "09:30"})
	require.NoError(t, err)
	booked, err := availability.AddSlot(ctx, principal, &dto.CreateTimeSlotRequest{DayOfWeek: intPtr(1), StartTime: "10:00", EndTime: "10:30"})
	require.NoError(t, err)

	_, err = env.booking().Book(ctx, patient, bookRequest(doctor.ID, booked.ID, testMonday))
	require.NoError(t, err)

	assert.ErrorIs(t, availability.RemoveSlot(ctx, principal, booked.ID), ErrSlotHasAppointments)
	assert.ErrorIs(t, availability.RemoveSlot(ctx, principal, uuid.New()), ErrSlotNotFound)

	require.NoError(t, availability.RemoveSlot(ctx, principal, free.ID))

	listed, err := availability.ListSlots(ctx, doctor.ID)
	require.NoError(t, err)
	require.Equal(t, 1, listed.Total)
	assert.Equal(t, booked.ID, listed.Slots[0].ID)
	assert.Equal(t, int64(1), env.countAppointments(t))
}

func TestAvailabilityUsecase_UnknownDoctor(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.availability().ResolveOccurrences(context.Background(), uuid.New(), testMonday)
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestAvailabilityUsecase_CacheOutageFallsBackToDatabase(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	doctor, principal := env.seedDoctor(t, "d1@example.com", "Dr One")
	availability := env.availability()

	_, err := availability.AddSlot(ctx, principal, &dto.CreateTimeSlotRequest{DayOfWeek: intPtr(1), StartTime: "09:00", EndTime: "09:30"})
	require.NoError(t, err)

	env.redis.Close()

	occurrences, err := availability.ResolveOccurrences(ctx, doctor.ID, testMonday)
	require.NoError(t, err)
	assert.Equal(t, 1, occurrences.Total)
}

func TestAvailabilityUsecase_SnapshotLoadedBeforeBookingIsNotCached(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	doctor, doctorPrincipal := env.seedDoctor(t, "d1@example.com", "Dr One")
	_, patient := env.seedUser(t, "p1@example.com", "Patient One", entity.RolePatient)
	slot := addMondaySlot(t, env, doctorPrincipal)

	racing := &racingSlotRepo{TimeSlotRepository: env.timeSlotRepo}
	racing.afterList = func() {
		_, err := env.booking().Book(ctx, patient, bookRequest(doctor.ID, slot.ID, testMonday))
		require.NoError(t, err)
	}
	slowReader := NewAvailabilityUsecase(env.db, env.log, time.UTC, env.doctorRepo, racing, env.appointmentRepo, env.auditService, env.cache, env.metrics)

	inFlight, err := slowReader.ResolveOccurrences(ctx, doctor.ID, testMonday)
	require.NoError(t, err)
	assert.Equal(t, 1, inFlight.Total, "the reader answers from what it loaded")

	after, err := env.availability().ResolveOccurrences(ctx, doctor.ID, testMonday)
	require.NoError(t, err)
	assert.Equal(t, 0, after.Total, "a resolve after the booking sees the slot taken")
}
