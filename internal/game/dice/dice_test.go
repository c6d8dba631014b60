package dice_test

import (
	"testing"

	"github.com/cory-johannsen/minidnd/internal/game/dice"
	"github.com/cory-johannsen/minidnd/internal/game/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"
)

func TestRollDie_InRange_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		sides := rapid.IntRange(dice.MinSides, dice.MaxSides).Draw(rt, "sides")
		seed := rapid.Uint64().Draw(rt, "seed")
		src := dice.NewSeededSource(seed)
		for i := 0; i < 20; i++ {
			v, err := dice.RollDie(src, sides)
			require.NoError(rt, err)
			assert.GreaterOrEqual(rt, v, 1)
			assert.LessOrEqual(rt, v, sides)
		}
	})
}

func TestRollDie_RejectsBounds(t *testing.T) {
	src := dice.NewSequenceSource(1)
	for _, sides := range []int{-1, 0, 1, 101} {
		_, err := dice.RollDie(src, sides)
		assert.ErrorIs(t, err, rules.ErrInvalidRange, "sides=%d", sides)
	}
	assert.Equal(t, 0, src.Draws(), "rejected rolls must not consume randomness")
}

func TestRollAggregate_SingleDie(t *testing.T) {
	tests := []struct {
		name      string
		faces     []int
		adv       dice.Advantage
		wantTotal int
		wantDraws int
	}{
		{name: "straight", faces: []int{7, 19}, adv: dice.Straight, wantTotal: 7, wantDraws: 1},
		{name: "advantage keeps higher", faces: []int{7, 19}, adv: dice.WithAdvantage, wantTotal: 19, wantDraws: 2},
		{name: "advantage first higher", faces: []int{18, 3}, adv: dice.WithAdvantage, wantTotal: 18, wantDraws: 2},
		{name: "disadvantage keeps lower", faces: []int{7, 19}, adv: dice.Disadvantage, wantTotal: 7, wantDraws: 2},
		{name: "disadvantage second lower", faces: []int{12, 2}, adv: dice.Disadvantage, wantTotal: 2, wantDraws: 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			src := dice.NewSequenceSource(tc.faces...)
			res, err := dice.RollAggregate(src, 20, 1, tc.adv)
			require.NoError(t, err)
			assert.Equal(t, tc.wantTotal, res.Total)
			assert.Len(t, res.Dice, tc.wantDraws)
			assert.Equal(t, tc.wantDraws, src.Draws())
		})
	}
}

// TestRollAggregate_SumsExactlyCount pins the number of draws for multi-die sums.
func TestRollAggregate_SumsExactlyCount(t *testing.T) {
	for count := 2; count <= dice.MaxCount; count++ {
		src := dice.NewSequenceSource(3)
		res, err := dice.RollAggregate(src, 6, count, dice.Straight)
		require.NoError(t, err)
		assert.Equal(t, count, src.Draws(), "count=%d", count)
		assert.Equal(t, 3*count, res.Total, "count=%d", count)
	}
}

func TestRollAggregate_MultiDieIgnoresAdvantage(t *testing.T) {
	src := dice.NewSequenceSource(2, 5, 6)
	res, err := dice.RollAggregate(src, 6, 3, dice.WithAdvantage)
	require.NoError(t, err)
	assert.Equal(t, 13, res.Total)
	assert.Equal(t, []int{2, 5, 6}, res.Dice)
}

func TestRollAggregate_Validation(t *testing.T) {
	tests := []struct {
		name  string
		sides int
		count int
		adv   dice.Advantage
		param string
	}{
		{"upper bound too small", 1, 1, dice.Straight, "upper_bound"},
		{"upper bound too large", 101, 1, dice.Straight, "upper_bound"},
		{"count zero", 20, 0, dice.Straight, "count"},
		{"count eleven", 20, 11, dice.Straight, "count"},
		{"advantage two", 20, 1, dice.Advantage(2), "advantage"},
		{"advantage minus two", 20, 1, dice.Advantage(-2), "advantage"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			src := dice.NewSequenceSource(10)
			_, err := dice.RollAggregate(src, tc.sides, tc.count, tc.adv)
			var rangeErr *rules.RangeError
			require.ErrorAs(t, err, &rangeErr)
			assert.Equal(t, tc.param, rangeErr.Param)
			assert.Equal(t, 0, src.Draws())
		})
	}
}

func TestRollAggregate_Property_Bounds(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		sides := rapid.IntRange(dice.MinSides, dice.MaxSides).Draw(rt, "sides")
		count := rapid.IntRange(1, dice.MaxCount).Draw(rt, "count")
		adv := dice.Advantage(rapid.IntRange(-1, 1).Draw(rt, "adv"))
		src := dice.NewSeededSource(rapid.Uint64().Draw(rt, "seed"))

		res, err := dice.RollAggregate(src, sides, count, adv)
		require.NoError(rt, err)
		assert.GreaterOrEqual(rt, res.Total, count)
		assert.LessOrEqual(rt, res.Total, count*sides)
	})
}

func TestSeededSource_Deterministic(t *testing.T) {
	a := dice.NewSeededSource(42)
	b := dice.NewSeededSource(42)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Intn(20), b.Intn(20))
	}
}

func TestCryptoSource_Intn_InRange(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 1000; i++ {
		v := src.Intn(6)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 6)
	}
}

func TestCryptoSource_Intn_PanicsOnZero(t *testing.T) {
	src := dice.NewCryptoSource()
	assert.Panics(t, func() { src.Intn(0) })
}

func TestNewSeed(t *testing.T) {
	_, err := dice.NewSeed()
	require.NoError(t, err)
}

func TestRollResult_String(t *testing.T) {
	r := dice.RollResult{Sides: 20, Count: 1, Advantage: dice.WithAdvantage, Dice: []int{7, 15}, Total: 15}
	assert.Equal(t, "1d20 advantage [7 15] = 15", r.String())
}

func TestParse(t *testing.T) {
	tests := []struct {
		expr string
		want dice.Expression
	}{
		{"d8", dice.Expression{Count: 1, Sides: 8}},
		{"1d6", dice.Expression{Count: 1, Sides: 6}},
		{"2D6", dice.Expression{Count: 2, Sides: 6}},
		{" 1d12 ", dice.Expression{Count: 1, Sides: 12}},
	}
	for _, tc := range tests {
		got, err := dice.Parse(tc.expr)
		require.NoError(t, err, tc.expr)
		assert.Equal(t, tc.want, got)
	}
}

func TestParse_Errors(t *testing.T) {
	for _, expr := range []string{"", "8", "xd6", "1dx", "0d6", "11d6", "1d1", "1d101"} {
		_, err := dice.Parse(expr)
		assert.Error(t, err, "expr=%q", expr)
	}
}

func TestExpression_String(t *testing.T) {
	e, err := dice.Parse("2d6")
	require.NoError(t, err)
	assert.Equal(t, "2d6", e.String())
}

func TestLoggedRoller_LogsRolls(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	roller := dice.NewLoggedRoller(dice.NewSequenceSource(11, 4), zap.New(core))

	res, err := roller.RollAggregate(20, 1, dice.Disadvantage)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Total)

	entries := logs.FilterMessage("dice roll").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(4), entries[0].ContextMap()["total"])

	_, err = roller.RollAggregate(1, 1, dice.Straight)
	assert.ErrorIs(t, err, rules.ErrInvalidRange)
	assert.Equal(t, 1, logs.Len(), "failed rolls must not be logged")
}
