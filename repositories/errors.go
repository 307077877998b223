package repositories

import "errors"

var (
	ErrNotFound        = errors.New("record not found")
	ErrUnsupported     = errors.New("operation not supported")
	ErrReadOnly        = errors.New("resource is read-only")
	ErrUnknownResource = errors.New("unknown resource")
	ErrInvalidField    = errors.New("invalid field")
	ErrInvalidOperator = errors.New("invalid filter operator")
	ErrInvalidValue    = errors.New("invalid value")
)
