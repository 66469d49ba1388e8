package evaluator

import (
	"github.com/lox/genericpoker/internal/card"
	"github.com/lox/genericpoker/internal/ranking"
	"github.com/lox/genericpoker/internal/rules"
)

// evalWildHigh resolves full (WILD) and, when bug is true, restricted (BUG)
// wild-card substitution before classifying. Repeated
// concrete substitutions across branches are memoized so a hand with two
// wild cards never re-classifies the same 5-card set twice.
func (e *Evaluator) evalWildHigh(cards []card.Card, evalType rules.EvaluationType, bug bool) (Rank, error) {
	var wildIdx []int
	for i, c := range cards {
		if c.IsWild() || (bug && c.IsBug()) {
			wildIdx = append(wildIdx, i)
		}
	}
	if len(wildIdx) == 0 {
		return e.evalPlainHigh(cards, evalType)
	}

	candidates := substitutionCandidates(cards)
	memo := map[ranking.Key]Rank{}
	working := append([]card.Card(nil), cards...)

	var best Rank
	haveBest := false
	var evalErr error

	restrictedPos := map[int]bool{}
	if bug {
		for _, pos := range wildIdx {
			if cards[pos].IsBug() && !cards[pos].IsWild() {
				restrictedPos[pos] = true
			}
		}
	}

	var recurse func(wi int)
	recurse = func(wi int) {
		if evalErr != nil {
			return
		}
		if wi == len(wildIdx) {
			key := ranking.CanonicalKey(working)
			r, ok := memo[key]
			if !ok {
				var err error
				r, err = e.evalPlainHigh(working, evalType)
				if err != nil {
					evalErr = err
					return
				}
				memo[key] = r
			}
			if !bugSubstitutionValid(working, wildIdx, restrictedPos, r) {
				return
			}
			if !haveBest || r.Beats(best) {
				best, haveBest = r, true
			}
			return
		}

		pos := wildIdx[wi]
		orig := cards[pos]
		for _, sub := range candidates {
			working[pos] = sub
			recurse(wi + 1)
		}
		working[pos] = orig
	}
	recurse(0)

	if evalErr != nil {
		return Rank{}, evalErr
	}
	return best, nil
}

// bugSubstitutionValid rejects a fully-substituted candidate hand if any
// restricted (bug) position was given a non-ace substitute that didn't end
// up completing a straight or flush.
func bugSubstitutionValid(hand []card.Card, wildIdx []int, restrictedPos map[int]bool, r Rank) bool {
	if len(restrictedPos) == 0 {
		return true
	}
	for _, pos := range wildIdx {
		if !restrictedPos[pos] {
			continue
		}
		if hand[pos].Rank == card.Ace {
			continue
		}
		switch r.Classification {
		case "Straight", "Flush", "Straight Flush", "Royal Flush":
		default:
			return false
		}
	}
	return true
}

// substitutionCandidates returns every standard-deck card not already
// present (by rank+suit) in hand, the pool a wild or bug card may become.
func substitutionCandidates(hand []card.Card) []card.Card {
	used := make(map[byte]bool, len(hand))
	for _, c := range hand {
		used[c.Key()] = true
	}
	out := make([]card.Card, 0, 52-len(hand))
	for s := card.Clubs; s <= card.Spades; s++ {
		for r := card.Two; r <= card.Ace; r++ {
			c := card.New(r, s)
			if !used[c.Key()] {
				out = append(out, c)
			}
		}
	}
	return out
}
