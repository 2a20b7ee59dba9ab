package domain

// Pagination defaults and bounds
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// SortOrder is the direction of a sorted listing
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// PageRequest describes one page of a listing query
type PageRequest struct {
	Page      int       `json:"page"`
	Limit     int       `json:"limit"`
	SortBy    string    `json:"sort_by,omitempty"`
	SortOrder SortOrder `json:"sort_order,omitempty"`
}

// Normalize clamps the request into valid bounds and fills defaults.
// Repositories always receive a normalized request.
func (r PageRequest) Normalize() PageRequest {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Limit < 1 {
		r.Limit = DefaultPageLimit
	}
	if r.Limit > MaxPageLimit {
		r.Limit = MaxPageLimit
	}
	if r.SortOrder != SortAsc && r.SortOrder != SortDesc {
		r.SortOrder = SortDesc
	}
	return r
}

// Offset returns the row offset for the normalized request
func (r PageRequest) Offset() int {
	return (r.Page - 1) * r.Limit
}

// PageResult is one page of items plus paging metadata
type PageResult[T any] struct {
	Items       []T   `json:"items"`
	TotalCount  int64 `json:"total_count"`
	TotalPages  int   `json:"total_pages"`
	CurrentPage int   `json:"current_page"`
	HasNext     bool  `json:"has_next"`
	HasPrev     bool  `json:"has_prev"`
}

// NewPageResult assembles paging metadata from a normalized request and the
// total row count.
func NewPageResult[T any](items []T, total int64, req PageRequest) PageResult[T] {
	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	return PageResult[T]{
		Items:       items,
		TotalCount:  total,
		TotalPages:  totalPages,
		CurrentPage: req.Page,
		HasNext:     req.Page < totalPages,
		HasPrev:     req.Page > 1 && totalPages > 0,
	}
}

// GameFilter narrows a repository search
type GameFilter struct {
	Statuses       []GameStatus   `json:"statuses,omitempty"`
	CreatorID      UserID         `json:"creator_id,omitempty"`
	PredictionType PredictionType `json:"prediction_type,omitempty"`
	TitleContains  string         `json:"title_contains,omitempty"`
}
