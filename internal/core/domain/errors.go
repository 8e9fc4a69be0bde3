package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested contract does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or undecodable input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not wired.
	ErrNotImplemented = errors.New("not implemented")

	// ErrUnsupportedType indicates a file type no normaliser handles.
	ErrUnsupportedType = errors.New("unsupported type")
)
