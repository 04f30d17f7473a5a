package models

import "errors"

// Failure kinds the repositories report. Handlers match on these with
// errors.Is to pick a status code; anything else is a server error.
var (
	// ErrCategoryNotFound is returned when a category lookup misses, and by
	// product writes whose category_id does not resolve.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrProductNotFound is returned when a product is not found.
	ErrProductNotFound = errors.New("product not found")

	// ErrDuplicateName is returned when a write would violate a name
	// uniqueness constraint, whether caught by a pre-check or by the
	// database at commit time.
	ErrDuplicateName = errors.New("name already in use")
)
