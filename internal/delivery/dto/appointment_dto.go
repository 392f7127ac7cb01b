package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateAppointmentRequest struct {
	DoctorID   string `json:"doctor_id" validate:"required,uuid"`
	TimeSlotID string `json:"time_slot_id" validate:"required,uuid"`
	Date       string `json:"date" validate:"required,isodate"`
}

// Response DTOs

type AppointmentResponse struct {
	ID              uuid.UUID `json:"id"`
	PatientID       uuid.UUID `json:"patient_id"`
	DoctorID        uuid.UUID `json:"doctor_id"`
	TimeSlotID      uuid.UUID `json:"time_slot_id"`
	AppointmentDate time.Time `json:"appointment_date"`
	StartTime       string    `json:"start_time,omitempty"`
	EndTime         string    `json:"end_time,omitempty"`
	AppointmentType string    `json:"appointment_type"`
	Status          string    `json:"status"`
	ProviderName    string    `json:"provider_name"`
	CreatedAt       time.Time `json:"created_at"`
}

// DoctorAppointmentResponse is an appointment as the doctor sees it, with the patient joined in
type DoctorAppointmentResponse struct {
	AppointmentResponse
	PatientName  string  `json:"patient_name"`
	PatientPhone *string `json:"patient_phone,omitempty"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}
