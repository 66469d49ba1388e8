package evaluator

import (
	"fmt"

	"github.com/lox/genericpoker/internal/card"
	"github.com/lox/genericpoker/internal/ranking"
	"github.com/lox/genericpoker/internal/rules"
)

// Evaluator is the stateless entry point
// every BestHandSelector candidate is run through. It holds only a read
// handle to the process-wide ranking cache; nothing here is ever mutated
// per-call.
type Evaluator struct {
	cache *ranking.Cache
}

// New wraps a ranking cache. Construct one Cache per process (see
// ranking.NewCache + DefaultSources) and share it across every Game.
func New(cache *ranking.Cache) *Evaluator {
	return &Evaluator{cache: cache}
}

// Evaluate classifies cards under evalType. Wild roles travel on the cards
// themselves, and only the wild evaluation types substitute them;
// qualifier, if non-nil, filters the result to Unqualified when it falls
// outside the window.
func (e *Evaluator) Evaluate(cards []card.Card, evalType rules.EvaluationType, qualifier *rules.Qualifier) (Rank, error) {
	var (
		r   Rank
		err error
	)
	switch evalType {
	case rules.EvalHigh, rules.EvalSokoHigh, rules.Eval36CardFFHHigh, rules.Eval20CardHigh:
		r, err = e.evalPlainHigh(cards, evalType)
	case rules.EvalHighWild:
		r, err = e.evalWildHigh(cards, evalType, false)
	case rules.EvalHighWildBug, rules.Eval27JaFFHHighWildBug:
		r, err = e.evalWildHigh(cards, evalType, true)
	case rules.EvalA5Low, rules.EvalA6Low:
		r = evalAceToFiveLow(cards, evalType)
	case rules.Eval27Low:
		r = eval27Low(cards)
	case rules.EvalA5LowHigh:
		r = evalAceToFiveLow(cards, evalType)
	case rules.EvalBadugi:
		r = evalBadugi(cards, false)
	case rules.EvalBadugiAh:
		r = evalBadugi(cards, true)
	case rules.EvalHigudi:
		r = evalHigudi(cards)
	case rules.EvalTwoCardHigh:
		r = evalSmallHigh(cards, evalType)
	case rules.EvalOneCardHighSpade:
		r = evalOneCardHighSpade(cards)
	case rules.EvalNeSevenCardHigh:
		r = evalSmallHigh(cards, evalType)
	case rules.EvalLowPip6Cards:
		r = evalPipSum(cards, evalType, 0)
	case rules.EvalPip49:
		r = evalPipSum(cards, evalType, 49)
	case rules.EvalPipZero:
		r = evalPipSum(cards, evalType, 0)
	case rules.EvalPip6:
		r = evalPipSum(cards, evalType, 6)
	case rules.EvalPip21:
		r = evalPipSum(cards, evalType, 21)
	case rules.EvalLowPipN:
		r = evalPipSum(cards, evalType, 0)
	default:
		return Rank{}, fmt.Errorf("evaluator: unknown evaluation type %q", evalType)
	}
	if err != nil {
		return Rank{}, err
	}
	return applyQualifier(r, qualifier), nil
}

// applyQualifier marks r Unqualified if it falls outside [Low, High]. A nil
// qualifier always passes.
func applyQualifier(r Rank, q *rules.Qualifier) Rank {
	if q == nil || !r.Qualified {
		return r
	}
	if int(r.Ordinal) < q.Low || int(r.Ordinal) > q.High {
		r.Qualified = false
	}
	return r
}

func (e *Evaluator) evalPlainHigh(cards []card.Card, evalType rules.EvaluationType) (Rank, error) {
	// The pre-computed table is an optimization, not a requirement: a cache
	// without a registered source for this type (or a hand size the table
	// doesn't index) falls through to direct classification, which produces
	// the same total order.
	if len(cards) == 5 {
		if table, err := e.cache.Get(string(evalType)); err == nil {
			ordinal, classification, ok := table.Lookup(cards)
			if ok {
				return Rank{Type: evalType, Ordinal: int64(ordinal), Classification: classification, Description: classification, Qualified: true}, nil
			}
		}
	}
	cat, tie := ranking.ClassifyHigh(cards)
	return Rank{
		Type:           evalType,
		Ordinal:        ranking.Score(cat, tie),
		Classification: cat.String(),
		Description:    cat.String(),
		Qualified:      true,
	}, nil
}

// evalSmallHigh classifies hands shorter or longer than the standard 5-card
// table (two_card_high, ne_seven_card_high): there is no pre-built table
// for these sizes, so classification always runs the direct classifier.
func evalSmallHigh(cards []card.Card, evalType rules.EvaluationType) Rank {
	cat, tie := ranking.ClassifyHigh(cards)
	return Rank{
		Type:           evalType,
		Ordinal:        ranking.Score(cat, tie),
		Classification: cat.String(),
		Description:    cat.String(),
		Qualified:      true,
	}
}

// evalOneCardHighSpade qualifies only spades; rank alone breaks ties among
// them, highest spade best.
func evalOneCardHighSpade(cards []card.Card) Rank {
	if len(cards) != 1 {
		return Rank{Type: rules.EvalOneCardHighSpade, Qualified: false}
	}
	c := cards[0]
	if c.Suit != card.Spades {
		return Rank{Type: rules.EvalOneCardHighSpade, Qualified: false}
	}
	return Rank{
		Type:           rules.EvalOneCardHighSpade,
		Ordinal:        int64(14 - int(c.Rank)),
		Classification: "High Spade",
		Description:    fmt.Sprintf("%s high spade", c.Rank),
		Qualified:      true,
	}
}
