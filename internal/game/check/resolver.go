// Package check resolves ability checks and saving throws for an actor.
package check

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/minidnd/internal/game/character"
	"github.com/cory-johannsen/minidnd/internal/game/dice"
	"github.com/cory-johannsen/minidnd/internal/game/rules"
)

const (
	// DieSides is the die every check rolls.
	DieSides = 20
	// MinDC and MaxDC bound the difficulty class.
	MinDC = 1
	MaxDC = 50
)

// Resolver combines ability modifiers, proficiency, and a d20 roll.
// It never mutates the actors it is given.
type Resolver struct {
	roller *dice.Roller
	logger *zap.Logger
}

// NewResolver builds a Resolver on roller.
//
// Precondition: roller and logger must be non-nil.
func NewResolver(roller *dice.Roller, logger *zap.Logger) *Resolver {
	return &Resolver{roller: roller, logger: logger}
}

// Logger returns the logger checks are reported on.
func (r *Resolver) Logger() *zap.Logger { return r.logger }

// Roll is the full breakdown of one check.
type Roll struct {
	Kind        character.CheckKind
	Ability     character.Ability
	Dice        dice.RollResult
	Modifier    int
	Proficiency int
}

// Total is the die result plus modifier and proficiency.
func (r Roll) Total() int {
	return r.Dice.Total + r.Modifier + r.Proficiency
}

// AbilityCheckStat rolls an ability check and returns its total.
//
// Precondition: count in [1, 10]; adv in {-1, 0, 1}.
// Postcondition: Range errors are returned before any die is rolled.
func (r *Resolver) AbilityCheckStat(actor *character.Actor, ability character.Ability, count int, adv dice.Advantage) (int, error) {
	roll, err := r.Roll(actor, character.AbilityCheck, ability, count, adv)
	if err != nil {
		return 0, err
	}
	return roll.Total(), nil
}

// AbilityCheck rolls an ability check against dc.
//
// Precondition: dc in [1, 50]; count in [1, 10]; adv in {-1, 0, 1}.
func (r *Resolver) AbilityCheck(actor *character.Actor, ability character.Ability, dc, count int, adv dice.Advantage) (rules.Result, error) {
	return r.against(actor, character.AbilityCheck, ability, dc, count, adv)
}

// SavingThrowStat rolls a saving throw and returns its total.
func (r *Resolver) SavingThrowStat(actor *character.Actor, ability character.Ability, count int, adv dice.Advantage) (int, error) {
	roll, err := r.Roll(actor, character.SavingThrow, ability, count, adv)
	if err != nil {
		return 0, err
	}
	return roll.Total(), nil
}

// SavingThrow rolls a saving throw against dc.
func (r *Resolver) SavingThrow(actor *character.Actor, ability character.Ability, dc, count int, adv dice.Advantage) (rules.Result, error) {
	return r.against(actor, character.SavingThrow, ability, dc, count, adv)
}

func (r *Resolver) against(actor *character.Actor, kind character.CheckKind, ability character.Ability, dc, count int, adv dice.Advantage) (rules.Result, error) {
	if err := rules.CheckRange("dc", dc, MinDC, MaxDC); err != nil {
		return rules.Lose, err
	}
	roll, err := r.Roll(actor, kind, ability, count, adv)
	if err != nil {
		return rules.Lose, err
	}
	result := rules.Compare(roll.Total(), dc)
	r.logger.Debug("check resolved",
		zap.String("actor", actor.Name),
		zap.Stringer("kind", kind),
		zap.Stringer("ability", ability),
		zap.Int("dc", dc),
		zap.Int("total", roll.Total()),
		zap.Stringer("result", result),
	)
	return result, nil
}

// Roll validates the parameters, derives the bonuses, and rolls the dice.
//
// Precondition: actor must be non-nil.
// Postcondition: No randomness is consumed when an error is returned.
func (r *Resolver) Roll(actor *character.Actor, kind character.CheckKind, ability character.Ability, count int, adv dice.Advantage) (Roll, error) {
	if err := rules.CheckRange("count", count, 1, dice.MaxCount); err != nil {
		return Roll{}, err
	}
	if err := adv.Validate(); err != nil {
		return Roll{}, err
	}
	if err := rules.CheckRange("ability", int(ability), int(character.Strength), int(character.Charisma)); err != nil {
		return Roll{}, err
	}

	var (
		prof character.Modifiers
		err  error
	)
	switch kind {
	case character.AbilityCheck:
		prof, err = actor.ProficiencyModifiers()
	case character.SavingThrow:
		prof, err = actor.SavingThrowModifiers()
	default:
		return Roll{}, fmt.Errorf("unknown check kind %d", int(kind))
	}
	if err != nil {
		return Roll{}, err
	}

	res, err := r.roller.RollAggregate(DieSides, count, adv)
	if err != nil {
		return Roll{}, err
	}
	return Roll{
		Kind:        kind,
		Ability:     ability,
		Dice:        res,
		Modifier:    actor.Modifiers().Get(ability),
		Proficiency: prof.Get(ability),
	}, nil
}
