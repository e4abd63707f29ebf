package request

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// PaginatedRequest is bound from the page and per_page query parameters.
type PaginatedRequest struct {
	Page    int `json:"page" validate:"min=1"`
	PerPage int `json:"per_page" validate:"min=1,max=100"`
}

// Normalize defaults a missing page to 1 and clamps per_page into
// [1, MaxPerPage]. Services call it before validating or querying.
func (p *PaginatedRequest) Normalize() {
	p.Page = max(p.Page, 1)
	switch {
	case p.PerPage < 1:
		p.PerPage = DefaultPerPage
	case p.PerPage > MaxPerPage:
		p.PerPage = MaxPerPage
	}
}

func (p PaginatedRequest) Limit() int {
	p.Normalize()
	return p.PerPage
}

func (p PaginatedRequest) Offset() int {
	p.Normalize()
	return (p.Page - 1) * p.PerPage
}
