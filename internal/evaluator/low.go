package evaluator

import (
	"fmt"
	"sort"

	"github.com/lox/genericpoker/internal/card"
	"github.com/lox/genericpoker/internal/rules"
)

// pairedLowOffset places every paired/tripped/quadded low hand after the
// 1287 distinct no-pair lows (C(13,5)) in the a5_low global ordering, so a
// qualifier window expressed in no-pair ordinals (e.g. [1,56] for
// eight-or-better) can never admit a paired hand.
const pairedLowOffset = 1287

// evalAceToFiveLow classifies a 5-card hand under ace-to-five lowball:
// aces always play low, straights and flushes don't count against a hand,
// and a hand is ranked purely by its five pip values, worst (highest) pip
// first. Ordinal 1 is the wheel (5-4-3-2-A); the 56th ordinal is the worst
// eight-high, which is what lets the standard eight-or-better qualifier be
// written as the window [1, 56]. Shared by a5_low, a6_low (the window is
// applied by the qualifier, not the classifier), and a5_low_high's low line.
func evalAceToFiveLow(cards []card.Card, evalType rules.EvaluationType) Rank {
	pips := pipValues(cards)
	sort.Sort(sort.Reverse(sort.IntSlice(pips)))

	return Rank{
		Type:           evalType,
		Ordinal:        aceToFiveOrdinal(pips),
		Classification: "Low",
		Description:    describePips(pips),
		Qualified:      true,
	}
}

// aceToFiveOrdinal maps sorted-descending pip values to the hand's position
// in the a5_low global ordering. A hand of five distinct pips is ranked by
// the combinatorial number system over 5-subsets of {1..13}: the wheel is
// ordinal 1 and 8-7-6-5-4 (the roughest eight) is ordinal 56. Hands with a
// repeated pip rank strictly after every no-pair hand, ordered among
// themselves by duplication severity then pip values.
func aceToFiveOrdinal(pips []int) int64 {
	if distinct(pips) && len(pips) == 5 {
		var rank int64
		for i, p := range pips {
			rank += binomial(p-1, len(pips)-i)
		}
		return rank + 1
	}

	counts := map[int]int{}
	severity := 0
	for _, p := range pips {
		counts[p]++
		if counts[p] > 1 {
			severity++
		}
	}
	var ordinal int64
	for _, p := range pips {
		ordinal = ordinal*14 + int64(p)
	}
	return pairedLowOffset + int64(severity)<<32 + ordinal
}

func distinct(pips []int) bool {
	for i := 1; i < len(pips); i++ {
		if pips[i] == pips[i-1] {
			return false
		}
	}
	return true
}

func binomial(n, k int) int64 {
	if k > n || k < 0 {
		return 0
	}
	result := int64(1)
	for i := 0; i < k; i++ {
		result = result * int64(n-i) / int64(i+1)
	}
	return result
}

// eval27Low classifies under deuce-to-seven lowball: aces play high only
// (never low), and a made straight or flush counts *against* the hand — the
// best possible hand is 7-5-4-3-2 unsuited.
func eval27Low(cards []card.Card) Rank {
	pips := make([]int, len(cards))
	for i, c := range cards {
		pips[i] = int(c.Rank) // aces rank high (14), never low, per 2-7 rules
	}
	sort.Sort(sort.Reverse(sort.IntSlice(pips)))

	var ordinal int64
	for _, p := range pips {
		ordinal = ordinal*15 + int64(p)
	}

	isStraightOrFlush := false
	if len(cards) == 5 {
		c, _ := classifyStraightOrFlush(cards)
		isStraightOrFlush = c
	}
	if isStraightOrFlush {
		ordinal += 1 << 30 // penalize: never confused with a genuinely low hand
	}

	return Rank{
		Type:           rules.Eval27Low,
		Ordinal:        ordinal,
		Classification: "Low",
		Description:    describePipsDescending(pips),
		Qualified:      true,
	}
}

func classifyStraightOrFlush(cards []card.Card) (bool, string) {
	var suitCounts [5]int
	var rankBits uint16
	for _, c := range cards {
		suitCounts[c.Suit]++
		rankBits |= 1 << uint(c.Rank)
	}
	flush := false
	for s := card.Clubs; s <= card.Spades; s++ {
		if suitCounts[s] >= 5 {
			flush = true
		}
	}
	straight := straightHighNoWheel(rankBits)
	switch {
	case flush && straight:
		return true, "Straight Flush"
	case flush:
		return true, "Flush"
	case straight:
		return true, "Straight"
	default:
		return false, ""
	}
}

// straightHighNoWheel checks for 5 consecutive ranks with aces high only
// (2-7 low never treats A-2-3-4-5 as a straight).
func straightHighNoWheel(rankBits uint16) bool {
	for high := int(card.Ace); high >= int(card.Six); high-- {
		mask := uint16(0x1F) << uint(high-4)
		if rankBits&mask == mask {
			return true
		}
	}
	return false
}

func pipValues(cards []card.Card) []int {
	pips := make([]int, len(cards))
	for i, c := range cards {
		pips[i] = c.Rank.AceLowValue()
	}
	return pips
}

func describePips(pips []int) string {
	return fmt.Sprintf("%v low", pips)
}

func describePipsDescending(pips []int) string {
	return fmt.Sprintf("%v", pips)
}
