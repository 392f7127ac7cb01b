package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TimeSlot is a weekly slot template: a recurring interval on one weekday.
// DayOfWeek follows time.Weekday, 0 is Sunday. StartTime and EndTime are
// zero-padded "HH:MM" so string order matches chronological order.
type TimeSlot struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	DoctorID    uuid.UUID `gorm:"type:uuid;not null;index:idx_time_slots_doctor_day,priority:1" json:"doctor_id"`
	DayOfWeek   int       `gorm:"not null;index:idx_time_slots_doctor_day,priority:2" json:"day_of_week"`
	StartTime   string    `gorm:"type:varchar(5);not null" json:"start_time"`
	EndTime     string    `gorm:"type:varchar(5);not null" json:"end_time"`
	IsAvailable bool      `gorm:"not null;index" json:"is_available"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Doctor *Doctor `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (TimeSlot) TableName() string {
	return "time_slots"
}

func (s *TimeSlot) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Weekday returns the template's day as a time.Weekday
func (s *TimeSlot) Weekday() time.Weekday {
	return time.Weekday(s.DayOfWeek)
}

// FallsOn reports whether the template recurs on the weekday of date
func (s *TimeSlot) FallsOn(date time.Time) bool {
	return s.DayOfWeek == int(date.Weekday())
}

// OccursOn reports whether the template yields a bookable occurrence on date
func (s *TimeSlot) OccursOn(date time.Time) bool {
	return s.IsAvailable && s.FallsOn(date)
}
