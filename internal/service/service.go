// Package service holds the storefront's business operations. Every exported
// method runs as one unit of work against the store.
package service

import (
	"errors"
	"math"
	"strings"

	"github.com/01moynul/storefront-golang/internal/apperr"
	"github.com/01moynul/storefront-golang/internal/models"
	"github.com/01moynul/storefront-golang/internal/repository"
)

// Pagination defaults applied when a request leaves a field empty.
const (
	DefaultPageNumber = 0
	DefaultPageSize   = 2
	DefaultSortOrder  = "asc"
)

// PageRequest is the raw paging input of a list operation.
type PageRequest struct {
	PageNumber int
	PageSize   int
	SortBy     string
	SortOrder  string
}

// query turns the request into an offset/limit query. Sort direction is
// ascending only for a case-insensitive "asc".
func (p PageRequest) query(defaultSort string) (repository.PageQuery, error) {
	if p.PageNumber < 0 {
		return repository.PageQuery{}, apperr.Invalid("pageNumber must not be negative")
	}
	if p.PageSize <= 0 {
		return repository.PageQuery{}, apperr.Invalid("pageSize must be positive")
	}
	sortBy := p.SortBy
	if sortBy == "" {
		sortBy = defaultSort
	}
	return repository.PageQuery{
		Offset: p.PageNumber * p.PageSize,
		Limit:  p.PageSize,
		SortBy: sortBy,
		Desc:   !strings.EqualFold(p.SortOrder, "asc"),
	}, nil
}

// newPage builds the pagination envelope around one page of content.
func newPage[T any](content []T, p PageRequest, total int64) models.Page[T] {
	totalPages := int(math.Ceil(float64(total) / float64(p.PageSize)))
	return models.Page[T]{
		Content:       content,
		PageNumber:    p.PageNumber,
		PageSize:      p.PageSize,
		TotalElements: total,
		TotalPages:    totalPages,
		LastPage:      p.PageNumber+1 >= totalPages,
	}
}

// notFound converts a repository miss into a NotFound for resource/field/value
// and passes every other error through.
func notFound(err error, resource, field string, value any) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound(resource, field, value)
	}
	return err
}

// sortError reports an unknown sort field as invalid input.
func sortError(err error) error {
	if errors.Is(err, repository.ErrUnknownSort) {
		return apperr.Invalid("%v", err)
	}
	return err
}
