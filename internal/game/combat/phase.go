package combat

import (
	"context"
	"errors"
	"fmt"

	"github.com/cory-johannsen/minidnd/internal/game/character"
	"github.com/cory-johannsen/minidnd/internal/game/check"
)

// ErrPhaseNotImplemented is returned by phases that have no resolution rules yet.
var ErrPhaseNotImplemented = errors.New("combat phase not implemented")

// PhaseKind identifies a step of combat.
type PhaseKind int

const (
	PhaseSurprise PhaseKind = iota
	PhasePosition
	PhaseInitiative
	PhaseTurn
)

// String returns the phase name.
func (k PhaseKind) String() string {
	switch k {
	case PhaseSurprise:
		return "surprise"
	case PhasePosition:
		return "position"
	case PhaseInitiative:
		return "initiative"
	case PhaseTurn:
		return "turn"
	default:
		return "unknown"
	}
}

// Position is a point on the encounter grid.
type Position struct {
	X int
	Y int
}

// DefaultPosition is where every actor starts before positions are established.
var DefaultPosition = Position{X: 50, Y: 50}

// Encounter is the state carried between combat phases.
type Encounter struct {
	RosterA   character.Roster
	RosterB   character.Roster
	HideA     map[string]bool
	HideB     map[string]bool
	Surprise  SurpriseOutcome
	Positions map[string]Position
}

// NewEncounter pairs two rosters and their hide declarations. The encounter
// holds its own copy of both rosters.
//
// Postcondition: Every actor in both rosters is placed at DefaultPosition.
func NewEncounter(rosterA, rosterB character.Roster, hideA, hideB map[string]bool) *Encounter {
	positions := make(map[string]Position, len(rosterA)+len(rosterB))
	for _, r := range []character.Roster{rosterA, rosterB} {
		for name := range r {
			positions[name] = DefaultPosition
		}
	}
	return &Encounter{
		RosterA:   rosterA.Clone(),
		RosterB:   rosterB.Clone(),
		HideA:     hideA,
		HideB:     hideB,
		Positions: positions,
	}
}

// Phase is one step of combat. New steps slot in by implementing Phase.
type Phase interface {
	Kind() PhaseKind
	Run(ctx context.Context, enc *Encounter) error
}

// SurprisePhase resolves the surprise contest into the encounter.
type SurprisePhase struct {
	Resolver *check.Resolver
}

// Kind returns PhaseSurprise.
func (SurprisePhase) Kind() PhaseKind { return PhaseSurprise }

// Run stores the contest result in enc.Surprise.
//
// Precondition: p.Resolver and enc must be non-nil.
// Postcondition: enc.Surprise is unchanged when an error is returned.
func (p SurprisePhase) Run(ctx context.Context, enc *Encounter) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	out, err := DetermineSurprise(p.Resolver, enc.RosterA, enc.RosterB, enc.HideA, enc.HideB)
	if err != nil {
		return fmt.Errorf("surprise phase: %w", err)
	}
	enc.Surprise = out
	return nil
}

// PositionPhase establishes starting positions.
type PositionPhase struct{}

// Kind returns PhasePosition.
func (PositionPhase) Kind() PhaseKind { return PhasePosition }

// Run reports ErrPhaseNotImplemented; position rules are not modelled yet.
// A cancelled ctx is reported instead.
func (p PositionPhase) Run(ctx context.Context, _ *Encounter) error {
	return notImplemented(ctx, p.Kind())
}

// InitiativePhase rolls turn order.
type InitiativePhase struct{}

// Kind returns PhaseInitiative.
func (InitiativePhase) Kind() PhaseKind { return PhaseInitiative }

// Run reports ErrPhaseNotImplemented; initiative rules are not modelled yet.
// A cancelled ctx is reported instead.
func (p InitiativePhase) Run(ctx context.Context, _ *Encounter) error {
	return notImplemented(ctx, p.Kind())
}

// TurnPhase executes actor turns.
type TurnPhase struct{}

// Kind returns PhaseTurn.
func (TurnPhase) Kind() PhaseKind { return PhaseTurn }

// Run reports ErrPhaseNotImplemented; turn rules are not modelled yet.
// A cancelled ctx is reported instead.
func (p TurnPhase) Run(ctx context.Context, _ *Encounter) error {
	return notImplemented(ctx, p.Kind())
}

func notImplemented(ctx context.Context, k PhaseKind) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fmt.Errorf("%s phase: %w", k, ErrPhaseNotImplemented)
}

// Sequence returns the phases of combat in rule-book order.
func Sequence(resolver *check.Resolver) []Phase {
	return []Phase{
		SurprisePhase{Resolver: resolver},
		PositionPhase{},
		InitiativePhase{},
		TurnPhase{},
	}
}

// RunPhases runs phases in order against enc, stopping at the first error.
func RunPhases(ctx context.Context, enc *Encounter, phases []Phase) error {
	for _, p := range phases {
		if err := p.Run(ctx, enc); err != nil {
			return err
		}
	}
	return nil
}
