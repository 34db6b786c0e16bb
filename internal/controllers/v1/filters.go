package v1

import (
	"fmt"

	"github.com/condofin/backend/internal/types"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// stringFilter filters for a substring of column. If the parameter is set,
// but empty, it filters for an empty column.
func stringFilter(query *gorm.DB, setFields []string, field, column, value string) *gorm.DB {
	if value != "" {
		return query.Where(fmt.Sprintf("%s LIKE ?", column), fmt.Sprintf("%%%s%%", value))
	} else if slices.Contains(setFields, field) {
		return query.Where(fmt.Sprintf("%s = ''", column))
	}

	return query
}

func stringFilters(db, query *gorm.DB, setFields []string, name, note, search string) *gorm.DB {
	query = stringFilter(query, setFields, "Name", "name", name)
	query = stringFilter(query, setFields, "Note", "note", note)

	if search != "" {
		query = query.Where(
			db.Where("note LIKE ?", fmt.Sprintf("%%%s%%", search)).Or(
				db.Where("name LIKE ?", fmt.Sprintf("%%%s%%", search)),
			),
		)
	}

	return query
}

// dateFilters limits column to the days between from and until, both inclusive.
func dateFilters(query *gorm.DB, column string, from, until types.Date) *gorm.DB {
	if !from.IsZero() {
		query = query.Where(fmt.Sprintf("date(%s) >= date(?)", column), from.String())
	}

	if !until.IsZero() {
		query = query.Where(fmt.Sprintf("date(%s) <= date(?)", column), until.String())
	}

	return query
}
