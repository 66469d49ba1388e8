package evaluator

import (
	"github.com/lox/genericpoker/internal/card"
	"github.com/lox/genericpoker/internal/ranking"
	"github.com/lox/genericpoker/internal/rules"
)

// highFamilyDecks maps every evaluation type whose classification is
// standard-high-category-based to the deck its pre-computed table is built
// from. Wild variants (high_wild, high_wild_bug, 27_ja_ffh_high_wild_bug)
// are registered under their own names, so each gets its own table built
// from the deck listed here: substitution happens before lookup (see wild.go), so the table itself
// only ever sees concrete rank/suit cards.
var highFamilyDecks = map[rules.EvaluationType]card.Kind{
	rules.EvalHigh:                  card.Standard,
	rules.EvalHighWild:              card.Standard,
	rules.EvalHighWildBug:           card.Standard,
	rules.Eval36CardFFHHigh:         card.Short6A,
	rules.Eval27JaFFHHighWildBug:    card.Short27JA,
	rules.Eval20CardHigh:            card.ShortTA,
	rules.EvalSokoHigh:              card.Standard,
}

// DefaultSources builds the ranking.Source list for every evaluation type
// backed by a pre-computed table, suitable for ranking.NewCache or
// Cache.EagerLoad.
func DefaultSources() []ranking.Source {
	decksSeen := map[card.Kind][]card.Card{}
	sources := make([]ranking.Source, 0, len(highFamilyDecks))
	for evalType, kind := range highFamilyDecks {
		deck, ok := decksSeen[kind]
		if !ok {
			deck = deckCards(kind)
			decksSeen[kind] = deck
		}
		sources = append(sources, ranking.Source{Name: string(evalType), Deck: deck})
	}
	return sources
}

func deckCards(kind card.Kind) []card.Card {
	cards := make([]card.Card, 0, len(kind.Ranks())*4)
	for _, r := range kind.Ranks() {
		for s := card.Clubs; s <= card.Spades; s++ {
			cards = append(cards, card.New(r, s))
		}
	}
	return cards
}
