package selector_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/genericpoker/internal/card"
	evaluator "github.com/lox/genericpoker/internal/evaluator"
	"github.com/lox/genericpoker/internal/ranking"
	"github.com/lox/genericpoker/internal/rules"
	"github.com/lox/genericpoker/internal/selector"
)

func newTestSelector(t *testing.T) *selector.Selector {
	t.Helper()
	cache := ranking.NewCache(ranking.Source{Name: string(rules.EvalHigh), Deck: ranking.StandardDeck52()})
	return selector.New(evaluator.New(cache))
}

func TestSelectPlainHoleAndCommunitySplit(t *testing.T) {
	s := newTestSelector(t)

	hand := selector.Hand{"unassigned": card.MustParseCards("AsKs")}
	community := selector.Community{"board": card.MustParseCards("QsJsTs2d3h")}

	cfg := rules.HandConfig{
		Name:           "high",
		EvaluationType: rules.EvalHigh,
		HoleCards:      2,
		CommunityCards: 3,
	}

	result, err := s.Select(hand, community, cfg)
	require.NoError(t, err)
	assert.Equal(t, "Royal Flush", result.Rank.Classification)
	assert.Len(t, result.Cards, 5)
}

func TestSelectCombinationsPicksBestAcrossSpecs(t *testing.T) {
	s := newTestSelector(t)

	hand := selector.Hand{"unassigned": card.MustParseCards("2c7d")}
	community := selector.Community{
		"board": card.MustParseCards("AsKsQsJsTs"),
	}

	cfg := rules.HandConfig{
		Name:           "omaha-hi-lo-style",
		EvaluationType: rules.EvalHigh,
		Combinations: []rules.CombinationSpec{
			{HoleCards: 2, CommunityCards: 3, CommunitySubset: "board"},
			{HoleCards: 0, CommunityCards: 5, CommunitySubset: "board"},
		},
	}

	result, err := s.Select(hand, community, cfg)
	require.NoError(t, err)
	// The board-only combination (royal flush) beats any line using the
	// player's 2c7d, so it must win even though it appears second.
	assert.Equal(t, "Royal Flush", result.Rank.Classification)
}

func TestSelectAnyCardsEnumeratesFullPool(t *testing.T) {
	s := newTestSelector(t)

	hand := selector.Hand{"unassigned": card.MustParseCards("2s3s")}
	community := selector.Community{"board": card.MustParseCards("4s5s6s")}

	cfg := rules.HandConfig{
		Name:           "five-card-draw-style",
		EvaluationType: rules.EvalHigh,
		AnyCards:       5,
	}

	result, err := s.Select(hand, community, cfg)
	require.NoError(t, err)
	assert.Equal(t, "Straight Flush", result.Rank.Classification)
}

func TestSelectHoleCardsAllowedRestrictsSubset(t *testing.T) {
	s := newTestSelector(t)

	hand := selector.Hand{
		"up":   card.MustParseCards("As"),
		"down": card.MustParseCards("2c3d"),
	}
	community := selector.Community{}

	cfg := rules.HandConfig{
		Name:             "up-cards-only",
		EvaluationType:   rules.EvalHigh,
		HoleCardsAllowed: []string{"up"},
		HoleCards:        1,
		CommunityCards:   0,
	}

	result, err := s.Select(hand, community, cfg)
	require.NoError(t, err)
	require.Len(t, result.Cards, 1)
	assert.Equal(t, card.Ace, result.Cards[0].Rank)
}

// The Omaha constraint: a stronger five-card combination that uses only one
// hole card (here the royal flush through the board hearts) is not legal;
// the best hand must be built from exactly two hole and three board cards.
func TestSelectOmahaRequiresExactlyTwoHoleCards(t *testing.T) {
	s := newTestSelector(t)

	hand := selector.Hand{"unassigned": card.MustParseCards("Th2c3d4s")}
	community := selector.Community{"board": card.MustParseCards("AhKhQhJh9c")}

	cfg := rules.HandConfig{
		Name:           "high",
		EvaluationType: rules.EvalHigh,
		Combinations: []rules.CombinationSpec{
			{HoleCards: 2, CommunityCards: 3, CommunitySubset: "board"},
		},
	}

	result, err := s.Select(hand, community, cfg)
	require.NoError(t, err)
	// One hole card (Th) would complete a royal flush, but the second
	// mandatory hole card breaks it: no flush, no straight remains possible.
	assert.Equal(t, "High Card", result.Rank.Classification)

	holeUsed := 0
	for _, c := range result.Cards {
		for _, h := range hand["unassigned"] {
			if c.Rank == h.Rank && c.Suit == h.Suit {
				holeUsed++
			}
		}
	}
	assert.Equal(t, 2, holeUsed)
	assert.Len(t, result.Cards, 5)
}

func TestSelectCommunitySubsetRequirementsRejectsShortfall(t *testing.T) {
	s := newTestSelector(t)

	hand := selector.Hand{"unassigned": card.MustParseCards("AsKs")}
	community := selector.Community{"board": card.MustParseCards("2c3d")}

	cfg := rules.HandConfig{
		Name:           "needs-five-board",
		EvaluationType: rules.EvalHigh,
		CommunitySubsetRequirements: []rules.CommunitySubsetRequirement{
			{Subset: "board", Count: 5, Required: true},
		},
	}

	_, err := s.Select(hand, community, cfg)
	assert.Error(t, err)
}

func TestSelectPlayerHandSizeVariantsSwitchesConstraint(t *testing.T) {
	s := newTestSelector(t)

	hand := selector.Hand{"unassigned": card.MustParseCards("AsKsQs")}
	community := selector.Community{"board": card.MustParseCards("JsTs2d3h4c")}

	cfg := rules.HandConfig{
		Name:           "draw-variant",
		EvaluationType: rules.EvalHigh,
		HoleCards:      2,
		CommunityCards: 3,
		PlayerHandSizeVariants: map[int]rules.HandConfig{
			3: {
				Name:           "draw-variant-3",
				EvaluationType: rules.EvalHigh,
				HoleCards:      3,
				CommunityCards: 2,
			},
		},
	}

	result, err := s.Select(hand, community, cfg)
	require.NoError(t, err)
	assert.Equal(t, "Royal Flush", result.Rank.Classification)
}
