package usecase

import (
	"io"
	"testing"
	"time"

	"go-appointment-booking/config"
	"go-appointment-booking/internal/domain/entity"
	domainRepo "go-appointment-booking/internal/domain/repository"
	"go-appointment-booking/internal/repository"
	"go-appointment-booking/internal/service"
	"go-appointment-booking/pkg/jwt"
	"go-appointment-booking/pkg/metrics"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Sunday; the first Monday after it is 2025-06-02
var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

const testMonday = "2025-06-02"

type testEnv struct {
	db              *gorm.DB
	redis           *miniredis.Miniredis
	log             *logrus.Logger
	metrics         *metrics.Metrics
	userRepo        domainRepo.UserRepository
	roleRepo        domainRepo.RoleRepository
	doctorRepo      domainRepo.DoctorRepository
	timeSlotRepo    domainRepo.TimeSlotRepository
	appointmentRepo domainRepo.AppointmentRepository
	auditLogRepo    domainRepo.AuditLogRepository
	auditService    service.AuditService
	cache           service.AvailabilityCache
	directory       service.DoctorDirectory
	tokenStore      service.TokenStore
	jwtService      *jwt.JWTService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection: the in-memory database lives and dies with it
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&entity.User{},
		&entity.UserRole{},
		&entity.Doctor{},
		&entity.TimeSlot{},
		&entity.Appointment{},
		&entity.AuditLog{},
	))

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	log := logrus.New()
	log.SetOutput(io.Discard)

	auditLogRepo := repository.NewAuditLogRepository()

	return &testEnv{
		db:              db,
		redis:           mr,
		log:             log,
		metrics:         metrics.New("test", prometheus.NewRegistry()),
		userRepo:        repository.NewUserRepository(),
		roleRepo:        repository.NewRoleRepository(),
		doctorRepo:      repository.NewDoctorRepository(),
		timeSlotRepo:    repository.NewTimeSlotRepository(),
		appointmentRepo: repository.NewAppointmentRepository(),
		auditLogRepo:    auditLogRepo,
		auditService:    service.NewAuditService(log, auditLogRepo),
		cache:           service.NewRedisAvailabilityCache(client, time.Minute),
		directory:       service.NewDoctorDirectory(time.Minute),
		tokenStore:      service.NewRedisTokenStore(client),
		jwtService: jwt.NewJWTService(config.JWTConfig{
			Secret:        "test-secret",
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: time.Hour,
		}),
	}
}

func (e *testEnv) availability() *availabilityUsecase {
	return NewAvailabilityUsecase(e.db, e.log, time.UTC, e.doctorRepo, e.timeSlotRepo, e.appointmentRepo, e.auditService, e.cache, e.metrics).(*availabilityUsecase)
}

func (e *testEnv) booking() *bookingUsecase {
	u := NewBookingUsecase(e.db, e.log, time.UTC, e.doctorRepo, e.timeSlotRepo, e.appointmentRepo, e.auditService, e.cache, e.metrics).(*bookingUsecase)
	u.now = func() time.Time { return testNow }
	return u
}

func (e *testEnv) dashboard() *dashboardUsecase {
	return NewDashboardUsecase(e.db, e.log, time.UTC, e.doctorRepo, e.timeSlotRepo, e.appointmentRepo, e.directory, e.metrics).(*dashboardUsecase)
}

func (e *testEnv) auth() *authUsecase {
	u := NewAuthUsecase(e.db, e.log, e.userRepo, e.roleRepo, e.doctorRepo, e.auditService, e.tokenStore, e.directory, e.jwtService).(*authUsecase)
	u.hashCost = bcrypt.MinCost
	return u
}

func (e *testEnv) seedUser(t *testing.T, email, fullName string, role string) (*entity.User, entity.Principal) {
	t.Helper()
	user := &entity.User{Email: email, Password: "x", FullName: fullName, IsActive: true}
	require.NoError(t, e.userRepo.Create(e.db, user))
	require.NoError(t, e.roleRepo.AssignRole(e.db, user.ID, role))
	return user, entity.Principal{UserID: user.ID, Email: email, Roles: []string{role}, TokenID: "test"}
}

func (e *testEnv) seedDoctor(t *testing.T, email, fullName string) (*entity.Doctor, entity.Principal) {
	t.Helper()
	user, principal := e.seedUser(t, email, fullName, entity.RoleDoctor)
	doctor := &entity.Doctor{UserID: user.ID, Specialization: "Cardiology", Qualification: "MD", ExperienceYears: 10}
	require.NoError(t, e.doctorRepo.Create(e.db, doctor))
	doctor.User = user
	return doctor, principal
}

func (e *testEnv) countAppointments(t *testing.T) int64 {
	t.Helper()
	var count int64
	require.NoError(t, e.db.Model(&entity.Appointment{}).Count(&count).Error)
	return count
}

func (e *testEnv) reloadSlot(t *testing.T, id uuid.UUID) *entity.TimeSlot {
	t.Helper()
	var slot entity.TimeSlot
	require.NoError(t, e.db.Where("id = ?", id).First(&slot).Error)
	return &slot
}

func intPtr(v int) *int { return &v }
