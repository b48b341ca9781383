package pagination

// DefaultLimit is the standard page size when a limit is not provided.
const DefaultLimit = 10

// MaxLimit caps how many rows any page query can request.
const MaxLimit = 100

// Params holds page/limit pagination inputs from controllers.
type Params struct {
	Page  int
	Limit int
}

// Normalize enforces sane page and limit bounds.
func (p Params) Normalize() Params {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// Offset returns the row offset for the normalized page.
func (p Params) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.Limit
}

// Meta summarizes a paginated result set.
type Meta struct {
	TotalItems  int64 `json:"totalItems"`
	TotalPages  int   `json:"totalPages"`
	CurrentPage int   `json:"currentPage"`
}

// BuildMeta derives page metadata from the total row count.
func BuildMeta(params Params, total int64) Meta {
	n := params.Normalize()
	pages := int(total) / n.Limit
	if int(total)%n.Limit != 0 {
		pages++
	}
	return Meta{
		TotalItems:  total,
		TotalPages:  pages,
		CurrentPage: n.Page,
	}
}
