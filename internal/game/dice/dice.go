// Package dice provides the randomness abstraction and die-rolling policy
// used by ability checks and saving throws.
package dice

import (
	"fmt"

	"github.com/cory-johannsen/minidnd/internal/game/rules"
)

const (
	// MinSides and MaxSides bound the faces of a single die.
	MinSides = 2
	MaxSides = 100
	// MaxCount is the largest number of dice one aggregate roll may sum.
	MaxCount = 10
)

// Advantage selects the re-roll policy for a single-die roll.
type Advantage int

const (
	Disadvantage  Advantage = -1
	Straight      Advantage = 0
	WithAdvantage Advantage = 1
)

// String returns a human-readable advantage label.
func (a Advantage) String() string {
	switch a {
	case Disadvantage:
		return "disadvantage"
	case Straight:
		return "straight"
	case WithAdvantage:
		return "advantage"
	default:
		return fmt.Sprintf("advantage(%d)", int(a))
	}
}

// Validate reports a *rules.RangeError for values outside {-1, 0, 1}.
func (a Advantage) Validate() error {
	return rules.CheckRange("advantage", int(a), int(Disadvantage), int(WithAdvantage))
}

// Source is the randomness provider for dice rolls.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// RollResult holds the full audit trail for one aggregate roll.
//
// Postcondition: Total is the kept die for single-die rolls and sum(Dice) otherwise.
type RollResult struct {
	Sides     int
	Count     int
	Advantage Advantage
	Dice      []int // every die drawn, in draw order
	Total     int
}

// String returns an audit string such as "1d20 advantage [7 15] = 15".
func (r RollResult) String() string {
	s := fmt.Sprintf("%dd%d", r.Count, r.Sides)
	if r.Count == 1 && r.Advantage != Straight {
		s += " " + r.Advantage.String()
	}
	return fmt.Sprintf("%s %v = %d", s, r.Dice, r.Total)
}

// RollDie draws one die uniformly from [1, upperBound].
//
// Precondition: src must be non-nil.
// Postcondition: Returns a value in [1, upperBound], or a *rules.RangeError when
// upperBound is outside [2, 100]; no randomness is consumed on error.
func RollDie(src Source, upperBound int) (int, error) {
	if err := rules.CheckRange("upper_bound", upperBound, MinSides, MaxSides); err != nil {
		return 0, err
	}
	return roll(src, upperBound), nil
}

// roll draws one face of an already validated die.
func roll(src Source, sides int) int {
	return src.Intn(sides) + 1
}

// RollAggregate rolls count dice of upperBound sides.
//
// A single die honours adv: a second die is drawn and the higher (advantage) or
// lower (disadvantage) is kept. Two or more dice are summed and adv is ignored.
//
// Precondition: src must be non-nil.
// Postcondition: len(result.Dice) == count, plus one when count == 1 and adv != Straight.
// All parameters are validated before any randomness is consumed.
func RollAggregate(src Source, upperBound, count int, adv Advantage) (RollResult, error) {
	if err := rules.CheckRange("upper_bound", upperBound, MinSides, MaxSides); err != nil {
		return RollResult{}, err
	}
	if err := rules.CheckRange("count", count, 1, MaxCount); err != nil {
		return RollResult{}, err
	}
	if err := adv.Validate(); err != nil {
		return RollResult{}, err
	}

	res := RollResult{Sides: upperBound, Count: count, Advantage: adv}
	if count == 1 {
		first := roll(src, upperBound)
		res.Dice = []int{first}
		res.Total = first
		if adv == Straight {
			return res, nil
		}
		second := roll(src, upperBound)
		res.Dice = append(res.Dice, second)
		if (adv == WithAdvantage && second > first) || (adv == Disadvantage && second < first) {
			res.Total = second
		}
		return res, nil
	}

	res.Dice = make([]int, count)
	for i := range res.Dice {
		res.Dice[i] = roll(src, upperBound)
		res.Total += res.Dice[i]
	}
	return res, nil
}
