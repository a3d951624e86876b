package page

// Info describes a page window over a fully ranked result set.
type Info struct {
	Page       int
	PerPage    int
	Total      int
	TotalPages int
}

// NewInfo computes page metadata. page and perPage must be >= 1.
func NewInfo(page, perPage, total int) Info {
	totalPages := 0
	if perPage > 0 {
		totalPages = (total + perPage - 1) / perPage
	}
	return Info{Page: page, PerPage: perPage, Total: total, TotalPages: totalPages}
}

// Bounds returns the [start, end) window for a 1-based page, clamped to total.
func Bounds(page, perPage, total int) (start, end int) {
	if page < 1 || perPage < 1 {
		return 0, 0
	}
	start = (page - 1) * perPage
	if start > total {
		start = total
	}
	end = start + perPage
	if end > total {
		end = total
	}
	return start, end
}

// Slice returns the requested page of items. Items must already be in their
// final order; slicing never reorders.
func Slice[T any](items []T, page, perPage int) []T {
	start, end := Bounds(page, perPage, len(items))
	return items[start:end]
}
