package ranking

import (
	"sort"

	"github.com/lox/genericpoker/internal/card"
)

// Entry is one row of a built table: a canonical card-set key, its ordinal
// in the evaluator's global ordering (1 = best), and a human classification
// label.
type Entry struct {
	Key            Key
	Ordinal        int32
	Classification string
}

// BuildHigh enumerates every distinct 5-card classification reachable from
// the given deck (standard or a stripped variant) and returns the complete,
// ordered table. Distinct rank/suit combinations that classify identically
// (e.g. any of the four royal flushes) collapse to one Entry per
// combination, because the Key is itself rank/suit-specific — the table
// indexes by *exact card set*, not by abstracted category, so the Entry
// count equals C(len(deck), 5), not the ~7462 distinct categories.
func BuildHigh(deck []card.Card) []Entry {
	entries := make([]Entry, 0, combinationsCount(len(deck), 5))
	type scored struct {
		key   Key
		score int64
		cat   Category
	}
	scoredEntries := make([]scored, 0, cap(entries))

	forEachCombination(deck, 5, func(hand []card.Card) {
		cat, tie := ClassifyHigh(hand)
		scoredEntries = append(scoredEntries, scored{
			key:   CanonicalKey(hand),
			score: Score(cat, tie),
			cat:   cat,
		})
	})

	sort.Slice(scoredEntries, func(i, j int) bool { return scoredEntries[i].score < scoredEntries[j].score })

	// Equal scores share an ordinal: two hands of identical strength (the
	// same straight in different suits, say) must compare as a tie so pots
	// can split.
	ordinal := int32(0)
	prevScore := int64(-1)
	for i, se := range scoredEntries {
		if i == 0 || se.score != prevScore {
			ordinal = int32(i + 1)
			prevScore = se.score
		}
		entries = append(entries, Entry{
			Key:            se.key,
			Ordinal:        ordinal,
			Classification: se.cat.String(),
		})
	}
	return entries
}

// forEachCombination calls fn once per k-combination of items, in
// lexicographic index order, reusing a single scratch buffer.
func forEachCombination(items []card.Card, k int, fn func(combo []card.Card)) {
	n := len(items)
	if k > n || k <= 0 {
		return
	}
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	buf := make([]card.Card, k)
	for {
		for i, ix := range idx {
			buf[i] = items[ix]
		}
		fn(buf)

		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

func combinationsCount(n, k int) int {
	if k > n || k < 0 {
		return 0
	}
	result := 1
	for i := 0; i < k; i++ {
		result = result * (n - i) / (i + 1)
	}
	return result
}

// StandardDeck52 returns the 52 cards of a standard deck in a fixed order,
// suitable for BuildHigh and similar table generators.
func StandardDeck52() []card.Card {
	cards := make([]card.Card, 0, 52)
	for s := card.Clubs; s <= card.Spades; s++ {
		for r := card.Two; r <= card.Ace; r++ {
			cards = append(cards, card.New(r, s))
		}
	}
	return cards
}
