package main

import "errors"

var (
	// ErrInvalidArguments is returned for missing or malformed command-line input
	ErrInvalidArguments = errors.New("invalid arguments")

	// ErrInvalidRecord is returned when a flat record does not match the
	// length-prefixed hex layout.
	ErrInvalidRecord = errors.New("invalid record")

	// ErrAuthenticationFailure is returned when tag verification fails. A
	// wrong password and tampered data produce the same error.
	ErrAuthenticationFailure = errors.New("authentication failed")

	// ErrUserExists is returned by a Directory when the email is already registered
	ErrUserExists = errors.New("user already exists")
)

// exitError carries a process exit code. A nil err means the command has
// already written its own output.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return ""
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func (e *exitError) ExitCode() int { return e.code }
