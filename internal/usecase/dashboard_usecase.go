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

// DashboardUsecase serves the read-only views: the doctor's dashboard and the
// patient-facing doctor directory.
type DashboardUsecase interface {
	DoctorDashboard(ctx context.Context, principal entity.Principal) (*dto.DoctorDashboardResponse, error)
	ListDoctors(ctx context.Context, date string) (*dto.DoctorListResponse, error)
}

type dashboardUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	loc             *time.Location
	doctorRepo      repository.DoctorRepository
	timeSlotRepo    repository.TimeSlotRepository
	appointmentRepo repository.AppointmentRepository
	directory       service.DoctorDirectory
	metrics         *metrics.Metrics
}

func NewDashboardUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	loc *time.Location,
	doctorRepo repository.DoctorRepository,
	timeSlotRepo repository.TimeSlotRepository,
	appointmentRepo repository.AppointmentRepository,
	directory service.DoctorDirectory,
	metrics *metrics.Metrics,
) DashboardUsecase {
	return &dashboardUsecase{
		db:              db,
		log:             log,
		loc:             loc,
		doctorRepo:      doctorRepo,
		timeSlotRepo:    timeSlotRepo,
		appointmentRepo: appointmentRepo,
		directory:       directory,
		metrics:         metrics,
	}
}

// DoctorDashboard returns the caller's profile, ordered template and appointments
// ordered by date, each joined with the patient's name and phone.
func (u *dashboardUsecase) DoctorDashboard(ctx context.Context, principal entity.Principal) (*dto.DoctorDashboardResponse, error) {
	db := u.db.WithContext(ctx)

	doctor, err := findDoctorForPrincipal(db, u.doctorRepo, principal)
	if err != nil {
		return nil, err
	}

	slots, err := u.timeSlotRepo.FindByDoctorID(db, doctor.ID)
	if err != nil {
		u.log.Warnf("Failed to find time slots for doctor %s: %+v", doctor.ID, err)
		return nil, storeError(err)
	}

	appointments, err := u.appointmentRepo.FindByDoctorID(db, doctor.ID)
	if err != nil {
		u.log.Warnf("Failed to find appointments for doctor %s: %+v", doctor.ID, err)
		return nil, storeError(err)
	}

	stats := dto.DashboardStats{TotalSlots: len(slots)}
	for _, slot := range slots {
		if slot.IsAvailable {
			stats.AvailableSlots++
		}
	}

	appointmentResponses := make([]dto.DoctorAppointmentResponse, len(appointments))
	for i := range appointments {
		appointmentResponses[i] = converter.AppointmentToDoctorResponse(&appointments[i])
		if appointments[i].Status == entity.AppointmentStatusScheduled {
			stats.ScheduledAppointments++
		}
	}

	return &dto.DoctorDashboardResponse{
		Doctor:       *converter.DoctorToResponse(doctor),
		Slots:        converter.TimeSlotsToResponses(slots),
		Appointments: appointmentResponses,
		Stats:        stats,
	}, nil
}

// ListDoctors lists active doctors. With a date, each doctor carries the templates
// that resolve to a bookable occurrence on that date.
func (u *dashboardUsecase) ListDoctors(ctx context.Context, date string) (*dto.DoctorListResponse, error) {
	doctors, err := u.activeDoctors(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]dto.DoctorListItem, len(doctors))
	for i := range doctors {
		items[i] = dto.DoctorListItem{DoctorResponse: *converter.DoctorToResponse(&doctors[i])}
	}

	if date != "" {
		day, err := parseDate(date, u.loc)
		if err != nil {
			return nil, err
		}

		available, err := u.timeSlotRepo.FindAvailable(u.db.WithContext(ctx))
		if err != nil {
			u.log.Warnf("Failed to find available time slots: %+v", err)
			return nil, storeError(err)
		}

		byDoctor := make(map[uuid.UUID][]entity.TimeSlot)
		for _, slot := range available {
			byDoctor[slot.DoctorID] = append(byDoctor[slot.DoctorID], slot)
		}

		for i := range items {
			resolved := ResolveOccurrences(byDoctor[items[i].ID], day)
			items[i].AvailableSlots = converter.TimeSlotsToResponses(resolved)
		}
	}

	return &dto.DoctorListResponse{
		Date:    date,
		Doctors: items,
		Total:   len(items),
	}, nil
}

func (u *dashboardUsecase) activeDoctors(ctx context.Context) ([]entity.Doctor, error) {
	if doctors, found := u.directory.Get(); found {
		u.metrics.ObserveCacheLookup("directory", true)
		return doctors, nil
	}
	u.metrics.ObserveCacheLookup("directory", false)

	doctors, err := u.doctorRepo.FindAllActive(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to find active doctors: %+v", err)
		return nil, storeError(err)
	}

	u.directory.Set(doctors)
	return doctors, nil
}
