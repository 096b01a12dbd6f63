package data

import "errors"

var (
	ErrNotFound                  = errors.New("record not found")
	ErrUniqueConstraintViolation = errors.New("unique constraint violation")
)
