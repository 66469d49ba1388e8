package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/genericpoker/internal/rules"
)

func TestLoadTexasHoldem(t *testing.T) {
	r, err := rules.Load("../../testdata/rules/texas_holdem.json")
	require.NoError(t, err)

	assert.Equal(t, "Texas Hold'em", r.Game)
	assert.True(t, r.SupportsStructure(rules.NoLimit))
	assert.Equal(t, 52, r.Deck.Cards)
	require.Len(t, r.GamePlay, 10)

	deal, ok := r.GamePlay[1].Action.(rules.DealAction)
	require.True(t, ok)
	assert.Equal(t, rules.LocationPlayer, deal.Location)
	require.Len(t, deal.Cards, 1)
	assert.Equal(t, 2, deal.Cards[0].Number)
	assert.Equal(t, rules.StateFaceDown, deal.Cards[0].State)

	require.Len(t, r.Showdown.BestHand, 1)
	assert.Equal(t, rules.EvalHigh, r.Showdown.BestHand[0].EvaluationType)
}

func TestLoadSevenCardStudBringIn(t *testing.T) {
	r, err := rules.Load("../../testdata/rules/seven_card_stud.json")
	require.NoError(t, err)

	assert.Equal(t, rules.ForcedBetBringIn, r.ForcedBets.Style)
	assert.Equal(t, rules.BringInLowCard, r.ForcedBets.BringInRule)

	bet, ok := r.GamePlay[1].Action.(rules.BetAction)
	require.True(t, ok)
	assert.Equal(t, rules.BetBringIn, bet.Type)
}

func TestLoadRejectsMissingFinalShowdown(t *testing.T) {
	doc := `{
		"game": "No Showdown",
		"players": {"min": 2, "max": 4},
		"deck": {"type": "standard", "cards": 52},
		"bettingStructures": ["NoLimit"],
		"forcedBets": {"style": "antes_only"},
		"bettingOrder": {"initial": "dealer", "subsequent": "dealer"},
		"gamePlay": [
			{"name": "deal", "type": "deal", "location": "player", "cards": [{"number": 5, "state": "face down"}]}
		],
		"showdown": {"bestHand": [{"name": "high", "evaluationType": "high", "anyCards": 5}]}
	}`
	_, err := rules.LoadBytes([]byte(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one showdown")
}

func TestLoadRejectsSeparateHandComparison(t *testing.T) {
	doc := `{
		"game": "Bad Separate",
		"players": {"min": 2, "max": 4},
		"deck": {"type": "standard", "cards": 52},
		"bettingStructures": ["NoLimit"],
		"forcedBets": {"style": "antes_only"},
		"bettingOrder": {"initial": "dealer", "subsequent": "dealer"},
		"gamePlay": [
			{"name": "deal", "type": "deal", "location": "player", "cards": [{"number": 5, "state": "face down"}]},
			{"name": "split", "type": "separate", "cards": [{"hole_subset": "low", "number": 2}], "hand_comparison": "higher_wins"},
			{"name": "final_showdown", "type": "showdown", "showdownType": "final"}
		],
		"showdown": {"bestHand": [{"name": "high", "evaluationType": "high", "anyCards": 5}]}
	}`
	_, err := rules.LoadBytes([]byte(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hand_comparison")
}

func TestLoadRejectsPlayerScopedWild(t *testing.T) {
	doc := `{
		"game": "Bad Wild",
		"players": {"min": 2, "max": 4},
		"deck": {"type": "standard", "cards": 54, "jokers": 2},
		"bettingStructures": ["NoLimit"],
		"forcedBets": {"style": "antes_only"},
		"bettingOrder": {"initial": "dealer", "subsequent": "dealer"},
		"gamePlay": [
			{"name": "deal", "type": "deal", "location": "player", "cards": [{"number": 5, "state": "face down", "wildCards": [{"scope": "player", "rule": "wild"}]}]},
			{"name": "final_showdown", "type": "showdown", "showdownType": "final"}
		],
		"showdown": {"bestHand": [{"name": "high", "evaluationType": "high_wild", "anyCards": 5}]}
	}`
	_, err := rules.LoadBytes([]byte(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "player-scoped wildcards")
}

func TestLoadRejectsDeckCeilingOverflow(t *testing.T) {
	doc := `{
		"game": "Too Many Cards",
		"players": {"min": 2, "max": 9},
		"deck": {"type": "standard", "cards": 52},
		"bettingStructures": ["NoLimit"],
		"forcedBets": {"style": "antes_only"},
		"bettingOrder": {"initial": "dealer", "subsequent": "dealer"},
		"gamePlay": [
			{"name": "deal", "type": "deal", "location": "player", "cards": [{"number": 7, "state": "face down"}]},
			{"name": "final_showdown", "type": "showdown", "showdownType": "final"}
		],
		"showdown": {"bestHand": [{"name": "high", "evaluationType": "high", "anyCards": 5}]}
	}`
	_, err := rules.LoadBytes([]byte(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deck has only")
}

func TestLoadRejectsJokersWithNonWildEvaluation(t *testing.T) {
	doc := `{
		"game": "Joker High",
		"players": {"min": 2, "max": 4},
		"deck": {"type": "standard", "cards": 52, "jokers": 1},
		"bettingStructures": ["NoLimit"],
		"forcedBets": {"style": "antes_only"},
		"bettingOrder": {"initial": "dealer", "subsequent": "dealer"},
		"gamePlay": [
			{"name": "deal", "type": "deal", "location": "player", "cards": [{"number": 5, "state": "face down"}]},
			{"name": "final_showdown", "type": "showdown", "showdownType": "final"}
		],
		"showdown": {"bestHand": [{"name": "high", "evaluationType": "high", "anyCards": 5}]}
	}`
	_, err := rules.LoadBytes([]byte(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot substitute wild cards")
}

func TestLoadRejectsNonNumericPlayerHandSizeKey(t *testing.T) {
	doc := `{
		"game": "Bad Hand Size",
		"players": {"min": 2, "max": 4},
		"deck": {"type": "standard", "cards": 52},
		"bettingStructures": ["NoLimit"],
		"forcedBets": {"style": "antes_only"},
		"bettingOrder": {"initial": "dealer", "subsequent": "dealer"},
		"gamePlay": [
			{"name": "deal", "type": "deal", "location": "player", "cards": [{"number": 5, "state": "face down"}]},
			{"name": "final_showdown", "type": "showdown", "showdownType": "final"}
		],
		"showdown": {"bestHand": [{
			"name": "high",
			"evaluationType": "high",
			"anyCards": 5,
			"playerHandSize": {"5rounds": {"name": "high", "evaluationType": "high", "anyCards": 5}}
		}]}
	}`
	_, err := rules.LoadBytes([]byte(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-numeric hand size key")
}

func TestLoadRejectsDuplicateChoose(t *testing.T) {
	doc := `{
		"game": "Bad Choose",
		"players": {"min": 2, "max": 4},
		"deck": {"type": "standard", "cards": 52},
		"bettingStructures": ["NoLimit"],
		"forcedBets": {"style": "antes_only"},
		"bettingOrder": {"initial": "dealer", "subsequent": "dealer"},
		"gamePlay": [
			{"name": "pick1", "type": "choose", "possible_values": ["a", "b"], "chooser": "dealer"},
			{"name": "pick2", "type": "choose", "possible_values": ["a", "b"], "chooser": "dealer"},
			{"name": "final_showdown", "type": "showdown", "showdownType": "final"}
		],
		"showdown": {"bestHand": [{"name": "high", "evaluationType": "high", "anyCards": 5}]}
	}`
	_, err := rules.LoadBytes([]byte(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at most one choose step")
}
