package service

import (
	"errors"

	"ifinsure/internal/repository"
)

// ErrValidation wraps input validation failures across the services.
var ErrValidation = errors.New("validation failed")

// ErrForbidden reports an operation the caller may not perform.
var ErrForbidden = errors.New("operation not allowed")

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func pageQuery(limit, offset int) repository.PageQuery {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return repository.PageQuery{Limit: limit, Offset: offset}
}
