package repository

// Package repository contains data access layer abstractions.
// Implementations can live in subpackages (e.g., postgres) inside this directory.

// PageQuery carries LIMIT/OFFSET pagination into list queries.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult pairs one page of items with the total row count for the
// same filter, so handlers can expose paging metadata.
type PageResult[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}
