package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

// CreateTimeSlotRequest adds a weekly template. DayOfWeek is 0 (Sunday) to 6 (Saturday).
type CreateTimeSlotRequest struct {
	DayOfWeek *int   `json:"day_of_week" validate:"required,gte=0,lte=6"`
	StartTime string `json:"start_time" validate:"required,hhmm"`
	EndTime   string `json:"end_time" validate:"required,hhmm"`
}

// Response DTOs

type TimeSlotResponse struct {
	ID          uuid.UUID `json:"id"`
	DoctorID    uuid.UUID `json:"doctor_id"`
	DayOfWeek   int       `json:"day_of_week"`
	DayName     string    `json:"day_name"`
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
	IsAvailable bool      `json:"is_available"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type TimeSlotListResponse struct {
	Slots []TimeSlotResponse `json:"slots"`
	Total int                `json:"total"`
}

// OccurrenceResponse is a template resolved onto a concrete calendar date
type OccurrenceResponse struct {
	TimeSlotID uuid.UUID `json:"time_slot_id"`
	DoctorID   uuid.UUID `json:"doctor_id"`
	Date       string    `json:"date"`
	DayOfWeek  int       `json:"day_of_week"`
	StartTime  string    `json:"start_time"`
	EndTime    string    `json:"end_time"`
	StartsAt   time.Time `json:"starts_at"`
	EndsAt     time.Time `json:"ends_at"`
}

type AvailabilityResponse struct {
	DoctorID    uuid.UUID            `json:"doctor_id"`
	Date        string               `json:"date"`
	Occurrences []OccurrenceResponse `json:"occurrences"`
	Total       int                  `json:"total"`
}
