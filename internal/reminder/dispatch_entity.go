package reminder

import (
	"time"

	"github.com/google/uuid"
)

// Dispatch records that a reminder was handed to the outbox for a
// given assignment, category and calendar day. The unique index keeps
// the sweep idempotent: re-running it on the same day never queues the
// same reminder twice.
type Dispatch struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID    uuid.UUID `gorm:"type:uuid;not null;index:idx_reminder_dispatches_company"`
	AssignmentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_reminder_dispatch"`
	StaffID      uuid.UUID `gorm:"type:uuid;not null"`

	Category string    `gorm:"type:varchar(20);not null;uniqueIndex:uq_reminder_dispatch"`
	SentOn   time.Time `gorm:"type:date;not null;uniqueIndex:uq_reminder_dispatch"`

	CreatedAt time.Time
}

func (Dispatch) TableName() string {
	return "reminder_dispatches"
}
