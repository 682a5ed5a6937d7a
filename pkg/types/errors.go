package types

import "errors"

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrInstanceNotFound = errors.New("instance not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrProgramNotFound  = errors.New("program not found")
	ErrStudentNotFound  = errors.New("student not found")

	// ErrInstanceTerminal is returned when an operation is refused because the
	// instance is already signed or declined.
	ErrInstanceTerminal = errors.New("instance is in a terminal status")

	ErrInvalidStatus = errors.New("invalid instance status")
)
