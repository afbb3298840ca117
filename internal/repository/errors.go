package repository

import "errors"

// Common repository errors
var (
	ErrRecordNotFound   = errors.New("record not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrBusinessNotFound = errors.New("business not found")
	ErrUnknownColumn    = errors.New("unknown column")

	errMissingKeys = errors.New("record needs an id and a business id")
)
