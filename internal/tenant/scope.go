package tenant

import "gorm.io/gorm"

// Scope restricts a query to one company. Every repository read goes
// through this so tenant isolation cannot be forgotten per-query.
func Scope(companyID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("company_id = ?", companyID)
	}
}
