package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// LogoutRequest optionally names the refresh token to revoke alongside the access token
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RegisterPatientRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=6"`
	FullName string  `json:"full_name" validate:"required,min=2,max=255"`
	Phone    *string `json:"phone" validate:"omitempty,min=6,max=20"`
}

type RegisterDoctorRequest struct {
	Email           string  `json:"email" validate:"required,email"`
	Password        string  `json:"password" validate:"required,min=6"`
	FullName        string  `json:"full_name" validate:"required,min=2,max=255"`
	Phone           *string `json:"phone" validate:"omitempty,min=6,max=20"`
	Specialization  string  `json:"specialization" validate:"required,max=100"`
	Qualification   string  `json:"qualification" validate:"required,max=255"`
	ExperienceYears int     `json:"experience_years" validate:"gte=0,lte=80"`
	About           *string `json:"about"`
}

// Response DTOs

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type UserResponse struct {
	ID        uuid.UUID       `json:"id"`
	Email     string          `json:"email"`
	FullName  string          `json:"full_name"`
	Phone     *string         `json:"phone,omitempty"`
	Roles     []string        `json:"roles"`
	IsActive  bool            `json:"is_active"`
	Doctor    *DoctorResponse `json:"doctor,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
