package evaluator

import (
	"fmt"
	"sort"

	"github.com/lox/genericpoker/internal/card"
	"github.com/lox/genericpoker/internal/rules"
)

// evalBadugi classifies a 4-card hand for badugi: the best sub-hand is the
// largest "rainbow" (distinct ranks, distinct suits) subset, 4 cards beating
// 3 beating 2 beating 1; within equal size, lower pips win. ah selects
// ace-high badugi (aces count as 14 instead of 1).
func evalBadugi(cards []card.Card, ah bool) Rank {
	best := badugiSubset(cards, ah)

	// Size dominates: more valid (rainbow) cards always beats fewer,
	// regardless of pip values, so it sorts into the high bits.
	ordinal := int64(4-len(best)) << 32
	pips := make([]int, len(best))
	for i, c := range best {
		if ah {
			pips[i] = int(c.Rank)
		} else {
			pips[i] = c.Rank.AceLowValue()
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(pips)))
	for _, p := range pips {
		ordinal = ordinal*15 + int64(p)
	}

	return Rank{
		Type:           evalTypeForBadugi(ah),
		Ordinal:        ordinal,
		Classification: fmt.Sprintf("%d-card badugi", len(best)),
		Description:    fmt.Sprintf("%v", best),
		Qualified:      true,
	}
}

func evalTypeForBadugi(ah bool) rules.EvaluationType {
	if ah {
		return rules.EvalBadugiAh
	}
	return rules.EvalBadugi
}

// badugiSubset greedily picks the largest subset of cards with distinct
// ranks and distinct suits, preferring the lowest pip value whenever a rank
// or suit collision forces a choice (the standard badugi reduction rule).
func badugiSubset(cards []card.Card, ah bool) []card.Card {
	sorted := append([]card.Card(nil), cards...)
	sort.Slice(sorted, func(i, j int) bool {
		return pipFor(sorted[i], ah) < pipFor(sorted[j], ah)
	})

	var kept []card.Card
	usedRank := map[card.Rank]bool{}
	usedSuit := map[card.Suit]bool{}
	for _, c := range sorted {
		if usedRank[c.Rank] || usedSuit[c.Suit] {
			continue
		}
		kept = append(kept, c)
		usedRank[c.Rank] = true
		usedSuit[c.Suit] = true
	}
	return kept
}

func pipFor(c card.Card, ah bool) int {
	if ah {
		return int(c.Rank)
	}
	return c.Rank.AceLowValue()
}

// evalHigudi classifies higudi (badugi's high variant, a.k.a. "high-low
// badugi" played for the worst hand among a best-high reduction): the
// largest rainbow subset still governs size, but within it the *highest*
// pip combination wins rather than the lowest.
func evalHigudi(cards []card.Card) Rank {
	best := badugiSubset(cards, true)
	ordinal := int64(4-len(best)) << 32
	pips := make([]int, len(best))
	for i, c := range best {
		pips[i] = int(c.Rank)
	}
	sort.Ints(pips) // ascending, so the encoding below rewards higher pips
	for _, p := range pips {
		ordinal = ordinal*15 + int64(14-p)
	}
	return Rank{
		Type:           rules.EvalHigudi,
		Ordinal:        ordinal,
		Classification: fmt.Sprintf("%d-card higudi", len(best)),
		Description:    fmt.Sprintf("%v", best),
		Qualified:      true,
	}
}
