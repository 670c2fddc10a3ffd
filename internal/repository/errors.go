package repository

import "errors"

var (
	// ErrInvalidPageRef indicates an unusable page reference
	ErrInvalidPageRef = errors.New("invalid page reference")

	// ErrPageNotFound indicates the page could not be retrieved
	ErrPageNotFound = errors.New("page not found")
)
