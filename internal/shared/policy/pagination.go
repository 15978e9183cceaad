package policy

const (
	DefaultLimit = 20
	MinLimit     = 1
	MaxLimit     = 100
)

// Page is a clamped (limit, offset) pair.
type Page struct {
	Limit  int
	Offset int
}

// ClampPage clamps limit to [MinLimit, MaxLimit] and offset to >= 0.
// Out-of-range values are clamped, never rejected.
func ClampPage(limit, offset int) Page {
	if limit < MinLimit {
		limit = MinLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return Page{Limit: limit, Offset: offset}
}

// Window returns the [start, end) slice bounds of the page over n items.
func (p Page) Window(n int) (int, int) {
	if p.Offset >= n {
		return n, n
	}
	end := p.Offset + p.Limit
	if end > n {
		end = n
	}
	return p.Offset, end
}

// Pagination is echoed back with every listing.
type Pagination struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

func NewPagination(p Page, total int) Pagination {
	return Pagination{Limit: p.Limit, Offset: p.Offset, Total: total}
}
