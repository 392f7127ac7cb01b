package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UnknownName is rendered wherever a joined profile is missing
const UnknownName = "Unknown"

// Doctor is the professional profile attached to a user account
type Doctor struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Specialization  string    `gorm:"type:varchar(100);not null;index" json:"specialization"`
	Qualification   string    `gorm:"type:varchar(255);not null" json:"qualification"`
	ExperienceYears int       `gorm:"not null" json:"experience_years"`
	About           *string   `gorm:"type:text" json:"about,omitempty"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Doctor) TableName() string {
	return "doctors"
}

func (d *Doctor) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// DisplayName returns the doctor's full name, or UnknownName when the user was not loaded
func (d *Doctor) DisplayName() string {
	if d.User == nil || d.User.FullName == "" {
		return UnknownName
	}
	return d.User.FullName
}
