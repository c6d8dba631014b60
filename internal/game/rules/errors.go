// Package rules holds the rule-book tables and the error taxonomy shared by the
// check-resolution packages.
package rules

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRange matches every *RangeError via errors.Is.
	ErrInvalidRange = errors.New("value out of range")
	// ErrInvalidExperience is returned for negative experience totals.
	ErrInvalidExperience = errors.New("experience must not be negative")
	// ErrUnrepresentableLevel is returned for levels with no proficiency band.
	ErrUnrepresentableLevel = errors.New("level has no proficiency bonus")
	// ErrNegativePurse is returned when a purse totals less than zero copper.
	ErrNegativePurse = errors.New("purse total is negative")
)

// RangeError reports which parameter violated its inclusive bounds.
type RangeError struct {
	Param string
	Min   int
	Max   int
	Got   int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s is not in the range of %d to %d (got %d)", e.Param, e.Min, e.Max, e.Got)
}

// Is makes errors.Is(err, ErrInvalidRange) succeed for any RangeError.
func (e *RangeError) Is(target error) bool {
	return target == ErrInvalidRange
}

// CheckRange returns a *RangeError when v falls outside [min, max].
//
// Postcondition: Returns nil iff min <= v <= max.
func CheckRange(param string, v, min, max int) error {
	if v < min || v > max {
		return &RangeError{Param: param, Min: min, Max: max, Got: v}
	}
	return nil
}
