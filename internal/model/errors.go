package model

import (
	"errors"
	"fmt"
)

// Sentinel errors. Check with errors.Is.
var (
	ErrEmptyTopic    = errors.New("topic has no cards")
	ErrNotRevealed   = errors.New("answer is not revealed")
	ErrRevealed      = errors.New("answer is already revealed")
	ErrNoSession     = errors.New("no review in progress")
	ErrEmptyField    = errors.New("required field is empty")
	ErrTopicExists   = errors.New("topic already exists")
	ErrTopicNotFound = errors.New("topic not found")
	ErrCardNotFound  = errors.New("card not found")
	ErrNoCards       = errors.New("no cards could be parsed")
	ErrInvalidGrade  = errors.New("invalid outcome")
)

// ValidationError reports a rejected request. No state was changed.
type ValidationError struct {
	Op  string
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Invalid wraps err in a ValidationError for op.
func Invalid(op string, err error) error {
	return &ValidationError{Op: op, Err: err}
}

// PersistenceError reports a failed write. The in-memory change it belongs
// to has already been applied; retrying is up to the caller.
type PersistenceError struct {
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to save %s: %v", e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// ImportFormatError reports a malformed import payload. Nothing was imported.
type ImportFormatError struct {
	Reason string
	Err    error
}

func (e *ImportFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid import: %s: %v", e.Reason, e.Err)
	}
	return "invalid import: " + e.Reason
}

func (e *ImportFormatError) Unwrap() error {
	return e.Err
}
