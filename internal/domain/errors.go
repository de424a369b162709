package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrRecordNotFound     = errors.New("record not found")
	ErrShowNotFound       = fmt.Errorf("show %w", ErrRecordNotFound)
	ErrBookingNotFound    = fmt.Errorf("booking %w", ErrRecordNotFound)
	ErrMovieNotFound      = fmt.Errorf("movie %w", ErrRecordNotFound)
	ErrInsufficientSeats  = errors.New("not enough seats available")
	ErrDuplicateBookingID = errors.New("booking id already exists")
	ErrAmountOverflow     = errors.New("total amount overflows")
	ErrBookingIDExhausted = errors.New("could not mint a unique booking id")
)

type FieldError struct {
	Field string
	Issue string
}

// ValidationError reports input that failed validation before any write.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "invalid input"
	}

	issues := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		issues[i] = f.Field + " " + f.Issue
	}

	return strings.Join(issues, "; ")
}
