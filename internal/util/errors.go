package util

import (
	"errors"
	"fmt"
)

// Error kinds. Every error a service returns either wraps one of these or is an
// unanticipated store/transport failure.
var (
	ErrMissingField    = errors.New("missing required fields")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
)

// AppError carries the user-visible text for a classified failure.
type AppError struct {
	Kind     error
	Message  string
	Detail   string
	Required []string
}

func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Detail)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Kind
}

func MissingFields(required ...string) error {
	return &AppError{Kind: ErrMissingField, Message: "Missing required fields", Required: required}
}

func InvalidArgument(message string) error {
	return &AppError{Kind: ErrInvalidArgument, Message: message}
}

func NotFound(message string) error {
	return &AppError{Kind: ErrNotFound, Message: message}
}

func NotFoundWithDetail(message, detail string) error {
	return &AppError{Kind: ErrNotFound, Message: message, Detail: detail}
}

func Conflict(message, detail string) error {
	return &AppError{Kind: ErrConflict, Message: message, Detail: detail}
}

func UnauthorizedError(message string) error {
	return &AppError{Kind: ErrUnauthorized, Message: message}
}

const (
	MsgInvalidSetNumber   = "Invalid set number. Must be between 1 and 5"
	MsgInvalidRound       = "Invalid round number. Must be 1, 2, or 3"
	MsgEmailNotRegistered = "Email not found in registered users"
)
