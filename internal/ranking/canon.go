// Package ranking builds and caches the pre-computed hand-ranking lookup
// tables the evaluator consults: for evaluation systems whose
// combinatorial space is large enough to be worth precomputing (the
// high-card family), every distinct 5-card classification is enumerated
// once, sorted into a total order, and indexed by a minimal perfect hash so
// lookup is O(1) with no probing. Smaller systems (badugi, low variants,
// pip-sum games) never need a table: the evaluator package classifies them
// directly, without going through Table/Lookup.
package ranking

import (
	"sort"

	"github.com/lox/genericpoker/internal/card"
)

// Key is a canonical, order-independent encoding of a fixed-size card set:
// each card's (rank, suit) packed into one byte, sorted ascending. Two card
// sets that are permutations of each other produce the same Key.
type Key string

// CanonicalKey sorts cards by their (rank, suit) byte and packs the result.
// Visibility and wild-role tags are not part of the key: a table lookup only
// cares about rank/suit identity.
func CanonicalKey(cards []card.Card) Key {
	bs := make([]byte, len(cards))
	for i, c := range cards {
		bs[i] = c.Key()
	}
	sort.Slice(bs, func(i, j int) bool { return bs[i] < bs[j] })
	return Key(bs)
}
