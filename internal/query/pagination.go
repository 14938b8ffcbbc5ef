package query

// Page is the window and metadata for one page of a result set.
type Page struct {
	Skip            int64
	Limit           int64
	TotalPages      int
	HasNextPage     bool
	HasPreviousPage bool
}

// Paginate computes the store window for page (1-based) and the metadata for
// a set of total items. Callers validate page >= 1 and pageSize >= 1.
func Paginate(page, pageSize int, total int64) Page {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return Page{
		Skip:            int64(page-1) * int64(pageSize),
		Limit:           int64(pageSize),
		TotalPages:      totalPages,
		HasNextPage:     page < totalPages,
		HasPreviousPage: page > 1,
	}
}
