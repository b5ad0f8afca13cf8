package models

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrTierLimit         = errors.New("tier limit reached")
	ErrInvalidTransition = errors.New("invalid status transition")
)
