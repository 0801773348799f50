package models

// Pagination defaults shared by list endpoints.
const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
	// MaxPage keeps Offset far from int overflow.
	MaxPage          = 1_000_000
)

// ListQuery is a validated page request over the user directory.
type ListQuery struct {
	Page   int
	Limit  int
	Sort   string
	Filter UserFilter
}

// Normalize fills defaults and clamps out-of-range values.
func (q ListQuery) Normalize() ListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Page > MaxPage {
		q.Page = MaxPage
	}
	if q.Limit <= 0 {
		q.Limit = DefaultPageLimit
	}
	if q.Limit > MaxPageLimit {
		q.Limit = MaxPageLimit
	}
	switch q.Sort {
	case SortNewest, SortOldest, SortNameAsc, SortNameDesc:
	default:
		q.Sort = SortNewest
	}
	return q
}

// Offset returns the number of rows skipped before the page.
func (q ListQuery) Offset() int {
	return q.Limit * (q.Page - 1)
}

// TotalPages returns ceil(total/limit).
func TotalPages(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
