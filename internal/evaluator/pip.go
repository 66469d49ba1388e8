package evaluator

import (
	"fmt"

	"github.com/lox/genericpoker/internal/card"
	"github.com/lox/genericpoker/internal/rules"
)

// evalPipSum classifies "pip target" games (baccarat-like 49/zero/6/21 and
// the generic low_pip_6_cards / low_pip_N families): sum face values
// (tens/picture cards count 0 unless the variant's target says otherwise,
// aces count 1) and rank hands by distance from target, closest wins. A
// target of 0 means "lowest total wins" (zero, low_pip_6_cards, low_pip_N)
// rather than "closest to a number".
func evalPipSum(cards []card.Card, evalType rules.EvaluationType, target int) Rank {
	sum := 0
	for _, c := range cards {
		sum += pipScoreForSumGames(c)
	}

	var distance int
	if target == 0 {
		distance = sum
	} else {
		distance = abs(target - sum)
	}

	return Rank{
		Type:           evalType,
		Ordinal:        int64(distance),
		Classification: fmt.Sprintf("total %d", sum),
		Description:    fmt.Sprintf("%d cards summing to %d", len(cards), sum),
		Qualified:      true,
	}
}

// pipScoreForSumGames is the baccarat-style pip value: ace counts 1,
// 2 through 9 count their rank, all tens and picture cards count 0.
func pipScoreForSumGames(c card.Card) int {
	switch {
	case c.Rank == card.Ace:
		return 1
	case c.Rank >= card.Ten:
		return 0
	default:
		return int(c.Rank)
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
