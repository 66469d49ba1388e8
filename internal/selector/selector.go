// Package selector picks each player's best admissible hand: given the
// hole cards (partitioned into named subsets), the table's community
// regions, and one bestHand line from the rules document, it enumerates
// every admissible combination the line permits and returns the best
// qualifying evaluation plus the exact cards used.
package selector

import (
	"fmt"

	"github.com/lox/genericpoker/internal/card"
	"github.com/lox/genericpoker/internal/evaluator"
	"github.com/lox/genericpoker/internal/rules"
)

// Hand is a player's cards at showdown time, partitioned by subset name.
// The default, unpartitioned subset is conventionally "unassigned".
type Hand map[string][]card.Card

// Community is the table's named community regions at showdown time.
type Community map[string][]card.Card

// All flattens every subset/region into one slice, in map-iteration order;
// callers that need a deterministic order should sort the result
// themselves (Select never depends on flattened order for correctness).
func (h Hand) All() []card.Card {
	var out []card.Card
	for _, cs := range h {
		out = append(out, cs...)
	}
	return out
}

func (c Community) All() []card.Card {
	var out []card.Card
	for _, cs := range c {
		out = append(out, cs...)
	}
	return out
}

// Selector is stateless; the evaluator it wraps is itself stateless.
type Selector struct {
	eval *evaluator.Evaluator
}

func New(eval *evaluator.Evaluator) *Selector {
	return &Selector{eval: eval}
}

// Result is the winning combination for one bestHand line.
type Result struct {
	Rank  evaluator.Rank
	Cards []card.Card
}

// Select finds the best qualifying hand for one HandConfig line.
func (s *Selector) Select(hand Hand, community Community, cfg rules.HandConfig) (Result, error) {
	if len(cfg.PlayerHandSizeVariants) > 0 {
		size := len(hand.All())
		if variant, ok := cfg.PlayerHandSizeVariants[size]; ok {
			cfg = variant
		}
	}

	holeCards := hand.All()
	if len(cfg.HoleCardsAllowed) > 0 {
		holeCards = nil
		for _, subset := range cfg.HoleCardsAllowed {
			holeCards = append(holeCards, hand[subset]...)
		}
	}

	switch {
	case len(cfg.Combinations) > 0:
		return s.bestOverCombinationSpecs(holeCards, community, cfg)
	case len(cfg.CommunityCardCombinations) > 0:
		return s.bestOverNamedRegionSets(holeCards, community, cfg)
	case len(cfg.CommunityCardSelectCombinations) > 0:
		return s.bestOverRegionRanges(holeCards, community, cfg)
	case len(cfg.CommunitySubsetRequirements) > 0:
		return s.bestOverSubsetRequirements(holeCards, community, cfg)
	case cfg.AnyCards > 0 && cfg.HoleCards == 0 && cfg.CommunityCards == 0:
		pool := append(append([]card.Card(nil), holeCards...), community.All()...)
		return s.bestOfSize(pool, cfg.AnyCards, cfg)
	default:
		communityPool := community.All()
		return s.bestFixedSplit(holeCards, communityPool, cfg.HoleCards, cfg.CommunityCards, cfg)
	}
}

func (s *Selector) bestOverCombinationSpecs(hole []card.Card, community Community, cfg rules.HandConfig) (Result, error) {
	var best Result
	haveBest := false
	for _, spec := range cfg.Combinations {
		pool := community.All()
		if spec.CommunitySubset != "" {
			pool = community[spec.CommunitySubset]
		}
		r, err := s.bestFixedSplit(hole, pool, spec.HoleCards, spec.CommunityCards, cfg)
		if err != nil {
			return Result{}, err
		}
		if !haveBest || r.Rank.Beats(best.Rank) {
			best, haveBest = r, true
		}
	}
	if !haveBest {
		return Result{}, fmt.Errorf("selector: no combination spec produced a candidate for %q", cfg.Name)
	}
	return best, nil
}

func (s *Selector) bestOverNamedRegionSets(hole []card.Card, community Community, cfg rules.HandConfig) (Result, error) {
	var best Result
	haveBest := false
	for _, regionSet := range cfg.CommunityCardCombinations {
		var pool []card.Card
		for _, region := range regionSet {
			pool = append(pool, community[region]...)
		}
		r, err := s.bestFixedSplit(hole, pool, cfg.HoleCards, cfg.CommunityCards, cfg)
		if err != nil {
			return Result{}, err
		}
		if !haveBest || r.Rank.Beats(best.Rank) {
			best, haveBest = r, true
		}
	}
	if !haveBest {
		return Result{}, fmt.Errorf("selector: no named region set produced a candidate for %q", cfg.Name)
	}
	return best, nil
}

func (s *Selector) bestOverRegionRanges(hole []card.Card, community Community, cfg rules.HandConfig) (Result, error) {
	// Each spec contributes between Min and Max cards from its region; we
	// enumerate every admissible per-region count combination that sums to
	// CommunityCards, then every concrete card choice within those counts.
	specs := cfg.CommunityCardSelectCombinations
	var best Result
	haveBest := false

	var chooseCounts func(i int, remaining int, picks []int) error
	chooseCounts = func(i int, remaining int, picks []int) error {
		if i == len(specs) {
			if remaining != 0 {
				return nil
			}
			pool := make([]card.Card, 0)
			regionPools := make([][]card.Card, len(specs))
			for idx, spec := range specs {
				regionPools[idx] = community[spec.Region]
			}
			return forEachRegionCombination(regionPools, picks, func(combo []card.Card) error {
				pool = append(pool[:0], combo...)
				r, err := s.bestFixedSplit(hole, pool, cfg.HoleCards, len(pool), cfg)
				if err != nil {
					return err
				}
				if !haveBest || r.Rank.Beats(best.Rank) {
					best, haveBest = r, true
				}
				return nil
			})
		}
		spec := specs[i]
		for n := spec.Min; n <= spec.Max; n++ {
			if n > remaining {
				break
			}
			if err := chooseCounts(i+1, remaining-n, append(picks, n)); err != nil {
				return err
			}
		}
		return nil
	}

	if err := chooseCounts(0, cfg.CommunityCards, nil); err != nil {
		return Result{}, err
	}
	if !haveBest {
		return Result{}, fmt.Errorf("selector: no region-range combination produced a candidate for %q", cfg.Name)
	}
	return best, nil
}

func (s *Selector) bestOverSubsetRequirements(hole []card.Card, community Community, cfg rules.HandConfig) (Result, error) {
	for _, req := range cfg.CommunitySubsetRequirements {
		if req.Required && len(community[req.Subset]) < req.Count {
			return Result{}, fmt.Errorf("selector: required community subset %q has %d cards, need %d", req.Subset, len(community[req.Subset]), req.Count)
		}
	}
	var pool []card.Card
	for _, req := range cfg.CommunitySubsetRequirements {
		pool = append(pool, community[req.Subset]...)
	}
	return s.bestFixedSplit(hole, pool, cfg.HoleCards, cfg.CommunityCards, cfg)
}

// bestFixedSplit enumerates every way to choose exactly holeN hole cards
// and communityN community cards from the given pools, evaluating each.
func (s *Selector) bestFixedSplit(hole, community []card.Card, holeN, communityN int, cfg rules.HandConfig) (Result, error) {
	var best Result
	haveBest := false
	var evalErr error

	forEachCombo(hole, holeN, func(holePick []card.Card) {
		if evalErr != nil {
			return
		}
		forEachCombo(community, communityN, func(commPick []card.Card) {
			if evalErr != nil {
				return
			}
			combo := append(append([]card.Card(nil), holePick...), commPick...)
			r, err := s.eval.Evaluate(combo, cfg.EvaluationType, cfg.Qualifier)
			if err != nil {
				evalErr = err
				return
			}
			if !haveBest || r.Beats(best.Rank) {
				best, haveBest = Result{Rank: r, Cards: combo}, true
			}
		})
	})
	if evalErr != nil {
		return Result{}, evalErr
	}
	if !haveBest {
		return Result{}, fmt.Errorf("selector: no candidate for %q (need %d hole, %d community; have %d, %d)", cfg.Name, holeN, communityN, len(hole), len(community))
	}
	return best, nil
}

// bestOfSize enumerates every k-card combination of pool (anyCards).
func (s *Selector) bestOfSize(pool []card.Card, k int, cfg rules.HandConfig) (Result, error) {
	var best Result
	haveBest := false
	var evalErr error
	forEachCombo(pool, k, func(combo []card.Card) {
		if evalErr != nil {
			return
		}
		r, err := s.eval.Evaluate(combo, cfg.EvaluationType, cfg.Qualifier)
		if err != nil {
			evalErr = err
			return
		}
		if !haveBest || r.Beats(best.Rank) {
			best, haveBest = Result{Rank: r, Cards: append([]card.Card(nil), combo...)}, true
		}
	})
	if evalErr != nil {
		return Result{}, evalErr
	}
	if !haveBest {
		return Result{}, fmt.Errorf("selector: no %d-card candidate for %q", k, cfg.Name)
	}
	return best, nil
}
