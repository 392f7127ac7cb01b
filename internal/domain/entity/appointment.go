package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// AppointmentTypeConsultation is the only appointment type the booking flow creates
const AppointmentTypeConsultation = "consultation"

// Appointment is a patient's reservation of a slot template on a concrete date
type Appointment struct {
	ID              uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID         `gorm:"type:uuid;not null;index" json:"user_id"`
	DoctorID        uuid.UUID         `gorm:"type:uuid;not null;index" json:"doctor_id"`
	TimeSlotID      uuid.UUID         `gorm:"type:uuid;not null;index" json:"time_slot_id"`
	AppointmentDate time.Time         `gorm:"not null;index" json:"appointment_date"`
	AppointmentType string            `gorm:"type:varchar(50);not null" json:"appointment_type"`
	Status          AppointmentStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	ProviderName    string            `gorm:"type:varchar(255);not null" json:"provider_name"`
	CreatedAt       time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient  *User     `gorm:"foreignKey:UserID" json:"patient,omitempty"`
	Doctor   *Doctor   `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	TimeSlot *TimeSlot `gorm:"foreignKey:TimeSlotID;constraint:OnDelete:RESTRICT" json:"time_slot,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// IsCancelled checks if appointment is cancelled
func (a *Appointment) IsCancelled() bool {
	return a.Status == AppointmentStatusCancelled
}
