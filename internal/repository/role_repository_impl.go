package repository

import (
	"go-appointment-booking/internal/domain/entity"
	domainRepo "go-appointment-booking/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type roleRepository struct{}

func NewRoleRepository() domainRepo.RoleRepository {
	return &roleRepository{}
}

func (r *roleRepository) AssignRole(db *gorm.DB, userID uuid.UUID, role string) error {
	return db.Create(&entity.UserRole{UserID: userID, Role: role}).Error
}

func (r *roleRepository) FindRolesByUserID(db *gorm.DB, userID uuid.UUID) ([]string, error) {
	var roles []string
	err := db.Model(&entity.UserRole{}).
		Where("user_id = ?", userID).
		Order("role ASC").
		Pluck("role", &roles).Error
	if err != nil {
		return nil, err
	}
	return roles, nil
}
