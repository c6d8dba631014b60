package dice

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cory-johannsen/minidnd/internal/game/rules"
)

// Expression is a parsed "NdM" notation such as a weapon's damage dice.
type Expression struct {
	Count int `json:"count" yaml:"count"`
	Sides int `json:"sides" yaml:"sides"`
}

// String renders the expression back to "NdM" notation.
func (e Expression) String() string {
	return fmt.Sprintf("%dd%d", e.Count, e.Sides)
}

// Validate checks Count in [1, 10] and Sides in [2, 100].
func (e Expression) Validate() error {
	if err := rules.CheckRange("count", e.Count, 1, MaxCount); err != nil {
		return err
	}
	return rules.CheckRange("upper_bound", e.Sides, MinSides, MaxSides)
}

// Parse parses "d8", "1d8", or "2d6" into an Expression.
//
// Postcondition: Returns a validated Expression or a descriptive error.
func Parse(expr string) (Expression, error) {
	s := strings.ToLower(strings.TrimSpace(expr))
	if s == "" {
		return Expression{}, fmt.Errorf("dice: empty expression")
	}
	countStr, sidesStr, found := strings.Cut(s, "d")
	if !found {
		return Expression{}, fmt.Errorf("dice: missing 'd' in expression %q", expr)
	}

	count := 1
	if countStr != "" {
		n, err := strconv.Atoi(countStr)
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid die count in %q: %w", expr, err)
		}
		count = n
	}
	sides, err := strconv.Atoi(sidesStr)
	if err != nil {
		return Expression{}, fmt.Errorf("dice: invalid die sides in %q: %w", expr, err)
	}

	e := Expression{Count: count, Sides: sides}
	if err := e.Validate(); err != nil {
		return Expression{}, fmt.Errorf("dice: %q: %w", expr, err)
	}
	return e, nil
}
