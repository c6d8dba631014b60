// Package combat implements the start-of-combat surprise contest and the
// phase sequence a full encounter would run through.
package combat

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/cory-johannsen/minidnd/internal/game/character"
	"github.com/cory-johannsen/minidnd/internal/game/check"
	"github.com/cory-johannsen/minidnd/internal/game/dice"
)

// PassivePerceptionBase is the flat value passive perception starts from.
const PassivePerceptionBase = 10

// Outcome is the per-actor result of the surprise contest.
type Outcome int

const (
	// OutcomeAbsent marks a declared hider missing from its own roster.
	OutcomeAbsent Outcome = iota
	OutcomeSurprised
	OutcomeNotSurprised
)

// String returns a human-readable outcome label.
func (o Outcome) String() string {
	switch o {
	case OutcomeAbsent:
		return "absent"
	case OutcomeSurprised:
		return "surprised"
	case OutcomeNotSurprised:
		return "not surprised"
	default:
		return "unknown"
	}
}

// SurpriseOutcome holds one result map per roster, keyed by actor name.
type SurpriseOutcome struct {
	A map[string]Outcome
	B map[string]Outcome
}

// PassivePerception returns 10 + wisdom modifier + wisdom check proficiency.
//
// Precondition: actor must be non-nil.
// Postcondition: Returns an error when the actor's experience is invalid.
func PassivePerception(actor *character.Actor) (int, error) {
	prof, err := actor.ProficiencyModifiers()
	if err != nil {
		return 0, err
	}
	return PassivePerceptionBase + actor.Modifiers().Get(character.Wisdom) + prof.Get(character.Wisdom), nil
}

// DetermineSurprise runs the contested stealth-versus-perception roll that opens
// combat. Each present hider rolls a single straight charisma check; every actor
// on the opposing roster whose passive perception that total beats is surprised.
// A defender is surprised if any hider beats it. Hiders absent from their own
// roster are recorded as OutcomeAbsent in that roster's map.
//
// Precondition: resolver must be non-nil. Only true entries in hideA and hideB hide.
// Postcondition: Passive perception is computed for every actor before any die
// is rolled, so an invalid actor fails the contest without consuming randomness.
// Actors are never mutated.
func DetermineSurprise(resolver *check.Resolver, rosterA, rosterB character.Roster, hideA, hideB map[string]bool) (SurpriseOutcome, error) {
	passiveA, err := passiveScores(rosterA)
	if err != nil {
		return SurpriseOutcome{}, err
	}
	passiveB, err := passiveScores(rosterB)
	if err != nil {
		return SurpriseOutcome{}, err
	}

	out := SurpriseOutcome{A: make(map[string]Outcome), B: make(map[string]Outcome)}
	logger := resolver.Logger()
	if err := contest(resolver, logger, rosterA, hideA, passiveB, out.A, out.B); err != nil {
		return SurpriseOutcome{}, err
	}
	if err := contest(resolver, logger, rosterB, hideB, passiveA, out.B, out.A); err != nil {
		return SurpriseOutcome{}, err
	}
	return out, nil
}

// contest rolls stealth for every declared hider of one side and records the
// results against the other side's passive perception.
func contest(resolver *check.Resolver, logger *zap.Logger, hiders character.Roster, hide map[string]bool,
	passive map[string]int, own, opposing map[string]Outcome) error {
	for _, name := range hidingNames(hide) {
		actor, ok := hiders[name]
		if !ok || actor == nil {
			own[name] = OutcomeAbsent
			continue
		}
		stealth, err := resolver.AbilityCheckStat(actor, character.Charisma, 1, dice.Straight)
		if err != nil {
			return fmt.Errorf("stealth for %q: %w", name, err)
		}
		for defender, perception := range passive {
			if stealth > perception {
				opposing[defender] = OutcomeSurprised
			} else if _, seen := opposing[defender]; !seen {
				opposing[defender] = OutcomeNotSurprised
			}
		}
		logger.Debug("hider rolled stealth",
			zap.String("hider", name),
			zap.Int("stealth", stealth),
		)
	}
	return nil
}

func passiveScores(roster character.Roster) (map[string]int, error) {
	scores := make(map[string]int, len(roster))
	for _, name := range roster.Names() {
		actor := roster[name]
		if actor == nil {
			continue
		}
		p, err := PassivePerception(actor)
		if err != nil {
			return nil, fmt.Errorf("passive perception for %q: %w", name, err)
		}
		scores[name] = p
	}
	return scores, nil
}

func hidingNames(hide map[string]bool) []string {
	names := make([]string, 0, len(hide))
	for name, hiding := range hide {
		if hiding {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
