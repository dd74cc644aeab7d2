package domain

import (
	"math"
	"strings"

	"github.com/roguepikachu/quizbank/internal/apperr"
)

// Pagination defaults and bounds.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	DefaultSortBy   = "createdAt"
)

// SortDirection orders a page.
type SortDirection string

// Sort directions.
const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

// QuestionSortColumns maps the accepted sortBy values to question columns.
var QuestionSortColumns = map[string]string{
	"createdAt":  "created_at",
	"question":   "question",
	"difficulty": "difficulty",
	"id":         "id",
}

// PageRequest selects one page of a sorted result. Page is 0-based.
type PageRequest struct {
	Page    int
	Size    int
	SortBy  string
	SortDir SortDirection
}

// Offset returns the number of rows to skip.
func (p PageRequest) Offset() int { return p.Page * p.Size }

// DefaultPageRequest is page 0 of 20, newest first.
func DefaultPageRequest() PageRequest {
	return PageRequest{Page: 0, Size: DefaultPageSize, SortBy: DefaultSortBy, SortDir: SortDesc}
}

// NewPageRequest validates raw paging input. Any sortDir other than ASC means DESC.
func NewPageRequest(page, size int, sortBy, sortDir string) (PageRequest, error) {
	if page < 0 {
		return PageRequest{}, apperr.Validation("page must be greater than or equal to 0")
	}
	if size < 1 || size > MaxPageSize {
		return PageRequest{}, apperr.Validationf("size must be between 1 and %d", MaxPageSize)
	}
	// The row offset must fit a Postgres integer.
	if maxPage := math.MaxInt32 / size; page > maxPage {
		return PageRequest{}, apperr.Validationf("page must not exceed %d for size %d", maxPage, size)
	}
	if sortBy == "" {
		sortBy = DefaultSortBy
	}
	if _, ok := QuestionSortColumns[sortBy]; !ok {
		return PageRequest{}, apperr.Validationf("unsupported sortBy: %s", sortBy)
	}
	dir := SortDesc
	if strings.EqualFold(sortDir, string(SortAsc)) {
		dir = SortAsc
	}
	return PageRequest{Page: page, Size: size, SortBy: sortBy, SortDir: dir}, nil
}

// Page is one slice of a larger result set.
type Page[T any] struct {
	Content          []T   `json:"content"`
	Number           int   `json:"number"`
	Size             int   `json:"size"`
	TotalElements    int64 `json:"totalElements"`
	TotalPages       int   `json:"totalPages"`
	NumberOfElements int   `json:"numberOfElements"`
	First            bool  `json:"first"`
	Last             bool  `json:"last"`
	Empty            bool  `json:"empty"`
}

// NewPage builds the envelope for content fetched with req out of total rows.
func NewPage[T any](content []T, req PageRequest, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}
	totalPages := 0
	if req.Size > 0 {
		totalPages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}
	return Page[T]{
		Content:          content,
		Number:           req.Page,
		Size:             req.Size,
		TotalElements:    total,
		TotalPages:       totalPages,
		NumberOfElements: len(content),
		First:            req.Page == 0,
		Last:             req.Page+1 >= totalPages,
		Empty:            len(content) == 0,
	}
}

// MapPage converts the content of p while keeping its paging metadata.
func MapPage[T, U any](p Page[T], f func(T) U) Page[U] {
	out := make([]U, len(p.Content))
	for i, v := range p.Content {
		out[i] = f(v)
	}
	return Page[U]{
		Content:          out,
		Number:           p.Number,
		Size:             p.Size,
		TotalElements:    p.TotalElements,
		TotalPages:       p.TotalPages,
		NumberOfElements: p.NumberOfElements,
		First:            p.First,
		Last:             p.Last,
		Empty:            p.Empty,
	}
}
