package repository

import (
	"testing"

	"go-appointment-booking/internal/domain/entity"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
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
	return db
}

func createUser(t *testing.T, db *gorm.DB, email, fullName string, active bool) *entity.User {
	t.Helper()
	user := &entity.User{Email: email, Password: "x", FullName: fullName, IsActive: active}
	require.NoError(t, NewUserRepository().Create(db, user))
	return user
}

func createDoctor(t *testing.T, db *gorm.DB, email, fullName string) *entity.Doctor {
	t.Helper()
	user := createUser(t, db, email, fullName, true)
	doctor := &entity.Doctor{UserID: user.ID, Specialization: "General", Qualification: "MD"}
	require.NoError(t, NewDoctorRepository().Create(db, doctor))
	return doctor
}

func createSlot(t *testing.T, db *gorm.DB, doctor *entity.Doctor, day int, start, end string) *entity.TimeSlot {
	t.Helper()
	slot := &entity.TimeSlot{DoctorID: doctor.ID, DayOfWeek: day, StartTime: start, EndTime: end, IsAvailable: true}
	require.NoError(t, NewTimeSlotRepository().Create(db, slot))
	return slot
}
