package ranking

import "github.com/lox/genericpoker/internal/card"

// Table is an immutable, pre-computed hand-ranking lookup: a mapping from
// every distinct 5-card combination of a specific deck to an ordinal in the
// evaluator's global ordering (1 = best) plus a classification label.
// Safe for concurrent read access from any number of Games — it is never
// mutated after Build returns it.
type Table struct {
	name  string
	index *mphIndex
}

// Build generates and indexes a table from the given deck's 5-card
// combinations.
func Build(name string, deck []card.Card) (*Table, error) {
	entries := BuildHigh(deck)
	idx, err := buildIndex(entries)
	if err != nil {
		return nil, err
	}
	return &Table{name: name, index: idx}, nil
}

// Lookup classifies a 5-card hand via the pre-computed table. ok is false
// only if cards is not a combination the table was built from (wrong deck,
// wrong size, or a duplicate card) — that is always a caller bug, not a
// data condition.
func (t *Table) Lookup(cards []card.Card) (ordinal int32, classification string, ok bool) {
	e, found := t.index.lookup(CanonicalKey(cards))
	if !found {
		return 0, "", false
	}
	return e.Ordinal, e.Classification, true
}

// Len reports how many distinct card combinations the table indexes.
func (t *Table) Len() int { return len(t.index.entries) }
