package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RoleRepository interface {
	AssignRole(db *gorm.DB, userID uuid.UUID, role string) error
	FindRolesByUserID(db *gorm.DB, userID uuid.UUID) ([]string, error)
}
