package combat_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/minidnd/internal/game/combat"
	"github.com/cory-johannsen/minidnd/internal/game/dice"
)

func TestNewEncounter_DefaultPositions(t *testing.T) {
	enc := combat.NewEncounter(roster(actor("alice", 10)), roster(actor("bob", 10), actor("carol", 10)), nil, nil)
	require.Len(t, enc.Positions, 3)
	for name, pos := range enc.Positions {
		assert.Equal(t, combat.Position{X: 50, Y: 50}, pos, name)
	}
}

func TestNewEncounter_SnapshotsRosters(t *testing.T) {
	heroes := roster(actor("alice", 10))
	enc := combat.NewEncounter(heroes, roster(actor("bob", 10)), nil, nil)

	heroes["alice"].Abilities.Wisdom = 20
	heroes["dave"] = actor("dave", 10)

	assert.Equal(t, 10, enc.RosterA["alice"].Abilities.Wisdom)
	assert.NotContains(t, enc.RosterA, "dave")
}

func TestSequence_Order(t *testing.T) {
	var kinds []string
	for _, p := range combat.Sequence(newResolver(dice.NewSequenceSource(10))) {
		kinds = append(kinds, p.Kind().String())
	}
	assert.Equal(t, []string{"surprise", "position", "initiative", "turn"}, kinds)
}

func TestRunPhases_StopsAtFirstUnimplementedPhase(t *testing.T) {
	enc := combat.NewEncounter(roster(actor("alice", 10)), roster(actor("bob", 10)), map[string]bool{"alice": true}, nil)
	err := combat.RunPhases(context.Background(), enc, combat.Sequence(newResolver(dice.NewSequenceSource(20))))
	require.ErrorIs(t, err, combat.ErrPhaseNotImplemented)
	assert.Contains(t, err.Error(), "position")
	assert.Equal(t, combat.OutcomeSurprised, enc.Surprise.B["bob"], "surprise ran before the failing phase")
}

func TestRunPhases_SurpriseOnly(t *testing.T) {
	enc := combat.NewEncounter(roster(actor("alice", 10)), roster(actor("bob", 10)), nil, map[string]bool{"bob": true})
	phases := []combat.Phase{combat.SurprisePhase{Resolver: newResolver(dice.NewSequenceSource(2))}}
	require.NoError(t, combat.RunPhases(context.Background(), enc, phases))
	assert.Equal(t, combat.OutcomeNotSurprised, enc.Surprise.A["alice"])
}

func TestRunPhases_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	src := dice.NewSequenceSource(20)
	enc := combat.NewEncounter(roster(actor("alice", 10)), roster(actor("bob", 10)), map[string]bool{"alice": true}, nil)

	err := combat.RunPhases(ctx, enc, combat.Sequence(newResolver(src)))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, src.Draws())
}

func TestUnimplementedPhases(t *testing.T) {
	for _, p := range []combat.Phase{combat.PositionPhase{}, combat.InitiativePhase{}, combat.TurnPhase{}} {
		err := p.Run(context.Background(), &combat.Encounter{})
		assert.ErrorIs(t, err, combat.ErrPhaseNotImplemented, p.Kind().String())
	}
}
