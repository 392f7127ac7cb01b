package converter

import (
	"go-appointment-booking/internal/delivery/dto"
	"go-appointment-booking/internal/domain/entity"
)

// UserToResponse converts a User entity to UserResponse DTO.
// roles overrides the loaded grants when non-nil.
func UserToResponse(user *entity.User, roles []string) *dto.UserResponse {
	if user == nil {
		return nil
	}
	if roles == nil {
		roles = user.RoleNames()
	}

	return &dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		Phone:     user.Phone,
		Roles:     roles,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
