package dblock

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LockForUpdate appends a SELECT ... FOR UPDATE locking clause to the query.
// Every transactional read-then-write path goes through this helper so the
// row stays locked until the surrounding transaction commits.
func LockForUpdate(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
