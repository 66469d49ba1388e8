// Package showdown resolves a hand's endgame: given the players still live
// at showdown, the pots formed this hand, and a variant's ShowdownConfig,
// it resolves every competing line (high, low, hi-lo, declare-based, or
// classification-partitioned), splits each pot across the lines that
// apply, and returns a serializable breakdown. The flow is evaluate every
// live hand, compare, split ties, hand out chips — over an arbitrary,
// rules-document-defined set of lines.
package showdown

import (
	"github.com/lox/genericpoker/internal/betting"
	"github.com/lox/genericpoker/internal/card"
	"github.com/lox/genericpoker/internal/evaluator"
	"github.com/lox/genericpoker/internal/rules"
	"github.com/lox/genericpoker/internal/selector"
	"github.com/lox/genericpoker/internal/table"
)

// LineResult is one competing line's outcome for one pot.
type LineResult struct {
	Line    string
	Pot     int // index into the original pots slice
	Amount  int
	Winners map[string]int // player id -> chips from this line's share
	Hands   map[string]HandShown
}

// HandShown is what a player held for one line, for projection/reporting.
type HandShown struct {
	Rank  evaluator.Rank
	Cards []card.Card
}

// Manager resolves showdowns; it is stateless beyond the selector/evaluator
// it wraps.
type Manager struct {
	sel *selector.Selector
}

func New(sel *selector.Selector) *Manager {
	return &Manager{sel: sel}
}

// TriggerEval evaluates a rules.Trigger against current hand state, supplied
// by the Game (it alone has access to community cards, choose results, and
// per-player exposure history).
type TriggerEval func(rules.Trigger) bool

// Result is the full resolution of one showdown step: every line's award
// breakdown plus the resulting per-pot chip distribution, ready to apply to
// the table.
type Result struct {
	Lines         []LineResult
	Awards        []betting.Award // aggregated across lines, one entry per original pot
	NoDeclaration []string        // player ids that owed a declaration and gave none
}

// Resolve runs a showdown end to end. declareResults, if the variant uses a
// declare step, maps player id to their declared option name(s); it is nil
// for variants without one. It does not itself apply awards to player
// stacks; call betting.ApplyAwards(players, result.Awards) once satisfied.
func (m *Manager) Resolve(players []*table.Player, pots []betting.Pot, cfg rules.ShowdownConfig, declareResults map[string][]string, t *table.Table, evalTrigger TriggerEval) (*Result, error) {
	lines := cfg.Resolve(evalTrigger)

	byID := make(map[string]*table.Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}

	var noDeclaration []string
	if cfg.DeclarationMode == rules.DeclarationDeclare {
		for _, p := range players {
			if len(declareResults[p.ID]) > 0 {
				continue
			}
			if len(lines) == 1 {
				// Only one line exists, so there is only one thing to
				// declare; the missing declaration is filled in rather than
				// disqualifying the player.
				if declareResults == nil {
					declareResults = map[string][]string{}
				}
				declareResults[p.ID] = []string{lines[0].Name}
				continue
			}
			noDeclaration = append(noDeclaration, p.ID)
		}
	}

	community := selector.Community(t.AllCommunity())

	computed := make([]lineRanks, 0, len(lines))
	for _, line := range lines {
		ranks := map[string]HandShown{}
		for _, p := range players {
			if !eligibleForLine(p, line.Name, cfg.DeclarationMode, declareResults) {
				continue
			}
			if contains(noDeclaration, p.ID) {
				continue
			}
			hand := selector.Hand(p.Hand)
			res, err := m.sel.Select(hand, community, line)
			if err != nil {
				return nil, err
			}
			ranks[p.ID] = HandShown{Rank: res.Rank, Cards: res.Cards}
		}
		partitionByClassification(byID, ranks, cfg.ClassificationPriority)
		computed = append(computed, lineRanks{cfg: line, ranks: ranks})
	}

	if cfg.DeclarationMode == rules.DeclarationDeclare && len(computed) > 1 {
		enforceDeclareBoth(computed, declareResults)
	}

	oddChipOrder := make([]string, len(players))
	for i, p := range players {
		oddChipOrder[i] = p.ID
	}

	aggregate := make([]betting.Award, len(pots))
	for i := range aggregate {
		aggregate[i] = betting.Award{PotIndex: i, Amounts: map[string]int{}}
	}

	var lineResults []LineResult
	for potIdx, pot := range pots {
		// A line with no qualifying eligible player takes no share of this
		// pot: its portion rolls to the lines that do have one.
		var contested []lineRanks
		for _, lr := range computed {
			if anyQualified(pot.Eligible, lr.ranks) {
				contested = append(contested, lr)
			}
		}
		if len(contested) == 0 {
			// Nobody qualified anywhere; split the pot evenly across its
			// eligible players so the chips are never silently dropped.
			awards := betting.AwardPots([]betting.Pot{pot}, func(string) (int64, bool) { return 0, true }, oddChipOrder)
			for id, amt := range awards[0].Amounts {
				aggregate[potIdx].Amounts[id] += amt
			}
			continue
		}
		share := pot.Amount / len(contested)
		remainder := pot.Amount - share*len(contested)
		for i, lr := range contested {
			amount := share
			if i == 0 {
				amount += remainder
			}
			eligible := intersect(pot.Eligible, lr.ranks)
			subPot := betting.Pot{Amount: amount, Eligible: eligible}
			ranks := lr.ranks
			rank := func(id string) (int64, bool) {
				hs, ok := ranks[id]
				if !ok || !hs.Rank.Qualified {
					return 0, false
				}
				return hs.Rank.Ordinal, true
			}
			awards := betting.AwardPots([]betting.Pot{subPot}, rank, oddChipOrder)
			lineResults = append(lineResults, LineResult{Line: lr.cfg.Name, Pot: potIdx, Amount: amount, Winners: awards[0].Amounts, Hands: lr.ranks})
			for id, amt := range awards[0].Amounts {
				aggregate[potIdx].Amounts[id] += amt
			}
		}
	}

	return &Result{Lines: lineResults, Awards: aggregate, NoDeclaration: noDeclaration}, nil
}

// lineRanks pairs one bestHand line with each eligible player's evaluated
// hand for it.
type lineRanks struct {
	cfg   rules.HandConfig
	ranks map[string]HandShown
}

// enforceDeclareBoth applies the standard declare rule: a
// player who declared both ways must win every line outright; otherwise they
// are removed from every line and the remaining players contest as usual.
func enforceDeclareBoth(computed []lineRanks, declareResults map[string][]string) {
	for id, declared := range declareResults {
		if !contains(declared, string(rules.DeclareHighLow)) {
			continue
		}
		winsAll := true
		for _, lr := range computed {
			hs, ok := lr.ranks[id]
			if !ok || !hs.Rank.Qualified {
				winsAll = false
				break
			}
			for other, ohs := range lr.ranks {
				if other == id || !ohs.Rank.Qualified {
					continue
				}
				if ohs.Rank.Ordinal <= hs.Rank.Ordinal {
					winsAll = false
					break
				}
			}
			if !winsAll {
				break
			}
		}
		if !winsAll {
			for _, lr := range computed {
				delete(lr.ranks, id)
			}
		}
	}
}

func eligibleForLine(p *table.Player, lineName string, mode rules.DeclarationMode, declared map[string][]string) bool {
	if mode != rules.DeclarationDeclare {
		return true
	}
	for _, d := range declared[p.ID] {
		if d == lineName || d == string(rules.DeclareHighLow) {
			return true
		}
	}
	return false
}

// partitionByClassification restricts ranks to the highest-priority
// classification group actually present, for variants like razz "face" vs
// "butt" split lines (GLOSSARY "Classification").
func partitionByClassification(byID map[string]*table.Player, ranks map[string]HandShown, priority []string) {
	if len(priority) == 0 {
		return
	}
	present := map[string]bool{}
	for id := range ranks {
		if p, ok := byID[id]; ok && p.Classification != "" {
			present[p.Classification] = true
		}
	}
	for _, class := range priority {
		if present[class] {
			for id := range ranks {
				if p := byID[id]; p != nil && p.Classification != "" && p.Classification != class {
					delete(ranks, id)
				}
			}
			return
		}
	}
}

func anyQualified(ids []string, ranks map[string]HandShown) bool {
	for _, id := range ids {
		if hs, ok := ranks[id]; ok && hs.Rank.Qualified {
			return true
		}
	}
	return false
}

func intersect(ids []string, ranks map[string]HandShown) []string {
	var out []string
	for _, id := range ids {
		if _, ok := ranks[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
