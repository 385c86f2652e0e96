package app

import "context"

type Record map[string]any

type RecordSet struct {
	Columns []string `json:"columns"`
	Records []Record `json:"records"`
}

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

type ResultsQuery struct {
	Page     int
	PageSize int
	Search   string
	// Columns lists the visible columns; empty means all.
	Columns []string
	SortBy  string
	Order   SortOrder
}

type ResultsPage struct {
	Columns    []string `json:"columns"`
	Records    []Record `json:"records"`
	Page       int      `json:"page"`
	PageSize   int      `json:"page_size"`
	Total      int      `json:"total"`
	TotalPages int      `json:"total_pages"`
}

type ResultsService interface {
	Fetch(ctx context.Context) (*RecordSet, error)
	Page(ctx context.Context, q ResultsQuery) (*ResultsPage, error)
	// Select applies search, sort and column visibility without paging.
	Select(ctx context.Context, q ResultsQuery) (*RecordSet, error)
	Invalidate(ctx context.Context) error
}
