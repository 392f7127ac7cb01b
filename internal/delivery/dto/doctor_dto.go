package dto

import (
	"github.com/google/uuid"
)

type DoctorResponse struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"user_id"`
	FullName        string    `json:"full_name"`
	Specialization  string    `json:"specialization"`
	Qualification   string    `json:"qualification"`
	ExperienceYears int       `json:"experience_years"`
	About           *string   `json:"about,omitempty"`
}

// DoctorListItem carries the doctor's occurrences when the listing was requested for a date
type DoctorListItem struct {
	DoctorResponse
	AvailableSlots []TimeSlotResponse `json:"available_slots,omitempty"`
}

type DoctorListResponse struct {
	Date    string           `json:"date,omitempty"`
	Doctors []DoctorListItem `json:"doctors"`
	Total   int              `json:"total"`
}

type DashboardStats struct {
	TotalSlots            int `json:"total_slots"`
	AvailableSlots        int `json:"available_slots"`
	ScheduledAppointments int `json:"scheduled_appointments"`
}

type DoctorDashboardResponse struct {
	Doctor       DoctorResponse              `json:"doctor"`
	Slots        []TimeSlotResponse          `json:"slots"`
	Appointments []DoctorAppointmentResponse `json:"appointments"`
	Stats        DashboardStats              `json:"stats"`
}
