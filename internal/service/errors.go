package service

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by every operation. Handlers map these with errors.Is.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrIO         = errors.New("i/o failure")
	ErrPermission = errors.New("permission denied")
)

// ItemError reports the failure of one item in a batch operation.
type ItemError struct {
	Item    string `json:"item"`
	Message string `json:"message"`
}

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func ioError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrIO, op, err)
}
