package apperrors

import "errors"

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrNotFound            = errors.New("not found")
	ErrNoActiveSession     = errors.New("no active session")
	ErrActiveSessionExists = errors.New("active session already exists")
	ErrInvalidTransition   = errors.New("invalid session transition")
	ErrWrongMode           = errors.New("intent not supported in this mode")
	ErrUnknownDistraction  = errors.New("unknown distraction")
	ErrNotAuthorized       = errors.New("mindful logging not authorized")
)
