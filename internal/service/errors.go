// Package service provides business logic for the application.
package service

import "errors"

// Service errors. Handlers map these to HTTP status codes and short error
// codes; everything else surfaces as an internal error.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrConflict           = errors.New("resource already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
