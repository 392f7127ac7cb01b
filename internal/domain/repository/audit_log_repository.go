package repository

import (
	"go-appointment-booking/internal/domain/entity"

	"gorm.io/gorm"
)

// AuditLogFilter narrows an audit trail listing. Zero values mean no filter.
type AuditLogFilter struct {
	Action string
	Limit  int
	Offset int
}

type AuditLogRepository interface {
	Create(db *gorm.DB, log *entity.AuditLog) error
	FindAll(db *gorm.DB, filter AuditLogFilter) ([]entity.AuditLog, int64, error)
	FindByID(db *gorm.DB, id int64) (*entity.AuditLog, error)
}
