package repository

import (
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm/clause"
)

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

const (
	SortNewest = "newest"
	SortOldest = "oldest"
	SortTitle  = "title"
	SortRating = "rating"
)

// ListQuery holds paging and sorting for catalog listings. An empty Sort keeps
// the natural order of the listing.
type ListQuery struct {
	Page    int    `query:"page" json:"page" validate:"gte=1"`
	PerPage int    `query:"per_page" json:"per_page" validate:"gte=1,lte=100"`
	Sort    string `query:"sort" json:"sort" validate:"omitempty,oneof=newest oldest title rating"`
}

// WithDefaults fills unset paging fields.
func (q ListQuery) WithDefaults() ListQuery {
	if q.Page == 0 {
		q.Page = 1
	}
	if q.PerPage == 0 {
		q.PerPage = DefaultPerPage
	}
	return q
}

func (q ListQuery) Validate() error {
	return validator.New().Struct(q)
}

func (q ListQuery) Offset() int {
	if q.Page < 1 {
		return 0
	}
	return (q.Page - 1) * q.PerPage
}

// orderBy maps Sort to columns of table. An empty Sort uses fallback, which
// must end on a unique column for stable paging.
func (q ListQuery) orderBy(table string, fallback ...clause.OrderByColumn) clause.OrderBy {
	col := func(name string, desc bool) clause.OrderByColumn {
		return clause.OrderByColumn{Column: clause.Column{Table: table, Name: name}, Desc: desc}
	}

	var columns []clause.OrderByColumn
	switch q.Sort {
	case SortNewest:
		columns = []clause.OrderByColumn{col("created_at", true), col("id", true)}
	case SortOldest:
		columns = []clause.OrderByColumn{col("created_at", false), col("id", false)}
	case SortTitle:
		columns = []clause.OrderByColumn{col("title", false), col("id", false)}
	case SortRating:
		columns = []clause.OrderByColumn{col("rating", true), col("id", false)}
	default:
		columns = fallback
	}
	return clause.OrderBy{Columns: columns}
}
