package rank

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Rank is one canonical rung of the organizational hierarchy. Level is a
// total order within a company: lower level = lower rank.
type Rank struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_ranks_company_name;uniqueIndex:idx_ranks_company_level"`
	Name      string    `gorm:"size:100;not null;uniqueIndex:idx_ranks_company_name"`
	Level     int       `gorm:"not null;uniqueIndex:idx_ranks_company_level"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// Alias maps a non-canonical rank spelling ("Sr. Eng") to a canonical
// rank name ("Engineer"). Matching is trim + case-fold, see Normalize.
type Alias struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_rank_aliases_company_alias"`
	Value     string    `gorm:"size:100;not null;uniqueIndex:idx_rank_aliases_company_alias"`
	RankName  string    `gorm:"size:100;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Alias) TableName() string {
	return "rank_aliases"
}
