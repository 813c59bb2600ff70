package staff

import (
	"time"

	"github.com/google/uuid"
)

// Staff is a directory record. Staff are never deleted, only
// deactivated, so historical assignments keep a valid owner.
type Staff struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index:idx_staff_company_active"`
	FullName  string    `gorm:"size:255;not null"`
	Email     string    `gorm:"size:255;uniqueIndex"`

	// RankRaw is whatever the admin or CSV import recorded. It may be an
	// alias or an unknown string; the rank directory resolves it at
	// selection time.
	RankRaw string `gorm:"size:100"`
	Active  bool   `gorm:"not null;default:true;index:idx_staff_company_active"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
