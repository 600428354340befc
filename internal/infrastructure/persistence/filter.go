package persistence

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/storeops/backend/internal/domain/shared"
)

// applyPagination applies page/size and ordering from a filter to a query
func applyPagination(db *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.OrderBy != "" {
		dir := "ASC"
		if filter.OrderDir == "desc" {
			dir = "DESC"
		}
		db = db.Order(fmt.Sprintf("%s %s", filter.OrderBy, dir))
	}
	if filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		if offset < 0 {
			offset = 0
		}
		db = db.Offset(offset).Limit(filter.PageSize)
	}
	return db
}
