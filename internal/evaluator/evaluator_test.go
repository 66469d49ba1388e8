package evaluator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/genericpoker/internal/card"
	"github.com/lox/genericpoker/internal/evaluator"
	"github.com/lox/genericpoker/internal/ranking"
	"github.com/lox/genericpoker/internal/rules"
)

func newTestEvaluator(t *testing.T) *evaluator.Evaluator {
	t.Helper()
	cache := ranking.NewCache(ranking.Source{Name: string(rules.EvalHigh), Deck: ranking.StandardDeck52()})
	return evaluator.New(cache)
}

func TestEvaluateHighTotalOrder(t *testing.T) {
	e := newTestEvaluator(t)

	flush, err := e.Evaluate(card.MustParseCards("2s5s9sJsKs"), rules.EvalHigh, nil)
	require.NoError(t, err)
	pair, err := e.Evaluate(card.MustParseCards("2c2d9h5s3c"), rules.EvalHigh, nil)
	require.NoError(t, err)

	assert.True(t, flush.Beats(pair))
	assert.False(t, pair.Beats(flush))
	assert.Equal(t, 0, flush.Compare(flush))
}

func TestEvaluateA5LowWheelBeatsRough(t *testing.T) {
	e := newTestEvaluator(t)

	wheel, err := e.Evaluate(card.MustParseCards("As2c3d4h5s"), rules.EvalA5Low, nil)
	require.NoError(t, err)
	rough, err := e.Evaluate(card.MustParseCards("9s8c7d6h2s"), rules.EvalA5Low, nil)
	require.NoError(t, err)

	assert.True(t, wheel.Beats(rough))
}

func TestQualifierRejectsOutOfWindowLow(t *testing.T) {
	e := newTestEvaluator(t)

	good, err := e.Evaluate(card.MustParseCards("As2c3d4h8s"), rules.EvalA5Low, &rules.Qualifier{Low: 1, High: 56})
	require.NoError(t, err)
	assert.True(t, good.Qualified)

	bad, err := e.Evaluate(card.MustParseCards("As2c3d4h9s"), rules.EvalA5Low, &rules.Qualifier{Low: 1, High: 56})
	require.NoError(t, err)
	assert.False(t, bad.Qualified)
}

func TestEvalBadugiRewardsFourDistinctRanksAndSuits(t *testing.T) {
	e := newTestEvaluator(t)

	rainbow, err := e.Evaluate(card.MustParseCards("As2c3d4h"), rules.EvalBadugi, nil)
	require.NoError(t, err)
	threeCard, err := e.Evaluate(card.MustParseCards("As2c3dAd"), rules.EvalBadugi, nil)
	require.NoError(t, err)
	assert.True(t, rainbow.Beats(threeCard))
}

func TestEvalHighWildPrefersBestSubstitution(t *testing.T) {
	e := newTestEvaluator(t)

	hand := card.MustParseCards("2s3s4s5s")
	wild := card.New(card.Six, card.Clubs).WithWildRole(card.RoleWild)
	hand = append(hand, wild)

	r, err := e.Evaluate(hand, rules.EvalHighWild, nil)
	require.NoError(t, err)
	assert.Equal(t, "Straight Flush", r.Classification)
}

// Converting any card of a hand to a wild role never produces a worse best
// rank: the original card is always among the substitution candidates'
// outcomes or dominated by one.
func TestEvalHighWildMonotonicity(t *testing.T) {
	e := newTestEvaluator(t)

	hands := []string{"2s3s4s5s7c", "AsAhKsKhQd", "2c5d9hJsKc", "6c6d6h2s3d"}
	for _, h := range hands {
		plain := card.MustParseCards(h)
		base, err := e.Evaluate(plain, rules.EvalHighWild, nil)
		require.NoError(t, err)

		for i := range plain {
			wilded := append([]card.Card(nil), plain...)
			wilded[i] = wilded[i].WithWildRole(card.RoleWild)
			r, err := e.Evaluate(wilded, rules.EvalHighWild, nil)
			require.NoError(t, err)
			assert.LessOrEqual(t, r.Ordinal, base.Ordinal,
				"wilding %s of %s must not weaken the hand", plain[i], h)
		}
	}
}

// The a5_low ordinal is a position in the global low ordering: the wheel is
// 1, the roughest eight (8-7-6-5-4) is 56, the best nine-low is 57.
func TestAceToFiveLowOrdinalsMatchGlobalOrdering(t *testing.T) {
	e := newTestEvaluator(t)

	cases := map[string]int64{
		"As2c3d4h5s": 1,
		"8s7c6d5h4c": 56,
		"9s4c3d2hAc": 57,
	}
	for hand, want := range cases {
		r, err := e.Evaluate(card.MustParseCards(hand), rules.EvalA5Low, nil)
		require.NoError(t, err)
		assert.Equal(t, want, r.Ordinal, "hand %s", hand)
	}
}
