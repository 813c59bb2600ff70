package leave

import (
	"time"

	"github.com/google/uuid"
)

type Leave struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index:idx_leaves_company_status"`
	StaffID   uuid.UUID `gorm:"type:uuid;not null;index:idx_leaves_staff_dates"`

	StartDate   time.Time `gorm:"type:date;not null;index:idx_leaves_staff_dates"`
	EndDate     time.Time `gorm:"type:date;not null;index:idx_leaves_staff_dates"`
	TotalDays   int       `gorm:"not null;default:1"`
	Reason      string    `gorm:"type:text"`
	SubmittedAt time.Time `gorm:"not null"`

	Status string `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_leaves_company_status"`

	// RelieverID is resolved eagerly at submission so approvers see a
	// proposed cover; it stays null when no candidate was eligible and
	// SelectionFailure records why.
	RelieverID       *uuid.UUID `gorm:"type:uuid"`
	RelaxedSelection bool       `gorm:"not null;default:false"`
	SelectionFailure *string    `gorm:"type:text"`

	CreatedBy       uuid.UUID  `gorm:"type:uuid;not null"`
	ApprovedBy      *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt      *time.Time
	RejectionReason *string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
