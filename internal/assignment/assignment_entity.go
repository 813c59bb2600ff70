package assignment

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusOpen      = "OPEN"
	StatusCompleted = "COMPLETED"
)

// Assignment ties a task to a staff member with a due date. Rows are
// never deleted; completed assignments stay as the historical record
// performance metrics are computed from.
type Assignment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index:idx_assignments_company_status"`
	StaffID   uuid.UUID `gorm:"type:uuid;not null;index:idx_assignments_staff"`

	Title       string `gorm:"size:255;not null"`
	ProjectCode string `gorm:"size:50"`

	DueDate      time.Time `gorm:"type:date;not null"`
	DaysAllotted int       `gorm:"not null;default:1"`

	Status      string     `gorm:"type:varchar(20);not null;default:'OPEN';index:idx_assignments_company_status"`
	CompletedAt *time.Time `gorm:"type:date"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
