package game

import (
	"github.com/lox/genericpoker/internal/card"
	"github.com/lox/genericpoker/internal/rules"
)

// evalTrigger decides one rules.Trigger against current hand state. It is
// the single place every conditional_state, ConditionalState,
// ConditionalCardState, and ConditionalBestHand in the engine consults.
func (g *Game) evalTrigger(tr rules.Trigger) bool {
	switch tr.Type {
	case rules.TriggerPlayerChoice:
		return g.chooseValue == tr.ChooseValue
	case rules.TriggerBoardComposition:
		return evalBoardComposition(g.table.Community(tr.Subset), tr.Composition)
	case rules.TriggerCommunityValue:
		val, ok := g.table.Scalar(tr.Subset)
		if !ok {
			cards := g.table.Community(tr.Subset)
			if len(cards) == 0 {
				return false
			}
			val = int(cards[len(cards)-1].Rank)
		}
		return compareOp(val, tr.CompareOp, tr.CompareValue)
	case rules.TriggerPlayerHandSize:
		if p := g.table.Player(g.currentID); p != nil {
			return p.HandSize() == tr.HandSize
		}
		for _, p := range g.table.ActivePlayers() {
			if p.HandSize() == tr.HandSize {
				return true
			}
		}
		return false
	case rules.TriggerAllExposed, rules.TriggerAnyExposed, rules.TriggerNoneExposed:
		return g.evalExposedTrigger(tr.Type)
	default:
		return false
	}
}

// evalExposedTrigger implements the literal reading: "whether every/any/no
// face-down card [that has existed] on the player has been flipped",
// aggregated across every active player rather than one named player, since
// Trigger carries no player reference.
func (g *Game) evalExposedTrigger(kind rules.TriggerType) bool {
	totalFlipped, totalCards := 0, 0
	for _, p := range g.table.ActivePlayers() {
		f, t := p.EverFlippedFraction()
		totalFlipped += f
		totalCards += t
	}
	switch kind {
	case rules.TriggerAllExposed:
		return totalCards > 0 && totalFlipped == totalCards
	case rules.TriggerAnyExposed:
		return totalFlipped > 0
	case rules.TriggerNoneExposed:
		return totalFlipped == 0
	default:
		return false
	}
}

func compareOp(val int, op string, against int) bool {
	switch op {
	case "eq":
		return val == against
	case "gt":
		return val > against
	case "lt":
		return val < against
	case "gte":
		return val >= against
	case "lte":
		return val <= against
	default:
		return false
	}
}

func evalBoardComposition(cards []card.Card, composition string) bool {
	if len(cards) == 0 {
		return false
	}
	switch composition {
	case "all_same_suit":
		for _, c := range cards[1:] {
			if c.Suit != cards[0].Suit {
				return false
			}
		}
		return true
	case "all_same_rank":
		for _, c := range cards[1:] {
			if c.Rank != cards[0].Rank {
				return false
			}
		}
		return true
	default:
		return false
	}
}
