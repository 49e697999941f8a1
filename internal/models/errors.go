package models

import "errors"

// Custom errors
var (
	ErrHorseIDRequired = errors.New("horse ID is required")
	ErrNotFound        = errors.New("record not found")
	ErrDuplicateKey    = errors.New("duplicate key violation")
	ErrRowTooShort     = errors.New("race row has fewer cells than the column contract requires")
)
