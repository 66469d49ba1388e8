package betting

import (
	"sort"

	"github.com/lox/genericpoker/internal/table"
)

// Pot is one immutable pot-portion.
type Pot struct {
	Amount    int
	Eligible  []string // player ids
}

// BuildPots forms the main pot plus any side pots from each player's total
// hand contribution so far: sort distinct
// contribution levels ascending, and for each level carve out the chips
// every contributor put in up to that level (minus chips already carved
// into a lower layer), with eligibility limited to non-folded players whose
// contribution reaches that level. A layer with exactly one eligible
// player is uncalled money with nobody left to contest it: it is refunded
// directly to that player. A layer with no eligible player (every
// contributor at that level folded) is added to the pot below it.
func BuildPots(players []*table.Player) []Pot {
	type contribution struct {
		id     string
		amount int
		folded bool
	}
	var contribs []contribution
	levelSet := map[int]bool{}
	for _, p := range players {
		if p.TotalPutInThisHand == 0 {
			continue
		}
		contribs = append(contribs, contribution{id: p.ID, amount: p.TotalPutInThisHand, folded: !p.IsActive})
		levelSet[p.TotalPutInThisHand] = true
	}
	levels := make([]int, 0, len(levelSet))
	for l := range levelSet {
		levels = append(levels, l)
	}
	sort.Ints(levels)

	var pots []Pot
	prevSum := 0
	for _, level := range levels {
		sum := 0
		var eligible []string
		for _, c := range contribs {
			contributed := c.amount
			if contributed > level {
				contributed = level
			}
			sum += contributed
			if c.amount >= level && !c.folded {
				eligible = append(eligible, c.id)
			}
		}
		layerAmount := sum - prevSum
		prevSum = sum
		if layerAmount <= 0 {
			continue
		}
		switch len(eligible) {
		case 0:
			// Every contributor at this level has folded; fold the chips
			// into the pot below rather than stranding them.
			if len(pots) > 0 {
				pots[len(pots)-1].Amount += layerAmount
			}
		case 1:
			refundPlayer(players, eligible[0], layerAmount)
		default:
			pots = append(pots, Pot{Amount: layerAmount, Eligible: eligible})
		}
	}
	return pots
}

func refundPlayer(players []*table.Player, id string, amount int) {
	for _, p := range players {
		if p.ID == id {
			p.Stack += amount
			p.TotalPutInThisHand -= amount
			return
		}
	}
}

// Award is one pot's resolution: which player(s) split it, and how many
// chips each receives.
type Award struct {
	PotIndex int
	Amounts  map[string]int // player id -> chips won
}

// RankFunc returns a comparable score for one player in one pot, used only
// to pick winners within that pot; ok is false if the player does not
// qualify (e.g. an unqualified low hand) and therefore cannot win this pot.
type RankFunc func(playerID string) (score int64, ok bool)

// AwardPots resolves every pot against rank (lower score wins, matching
// evaluator.Rank's convention of "smaller ordinal is better"; callers
// evaluating a high-only line where bigger is better should invert their
// scores before calling). Ties split the pot evenly; the remainder (odd
// chips) goes to the first eligible winner in oddChipOrder.
func AwardPots(pots []Pot, rank RankFunc, oddChipOrder []string) []Award {
	orderIndex := make(map[string]int, len(oddChipOrder))
	for i, id := range oddChipOrder {
		orderIndex[id] = i
	}

	awards := make([]Award, 0, len(pots))
	for i, pot := range pots {
		best := int64(0)
		haveBest := false
		var winners []string
		for _, id := range pot.Eligible {
			score, ok := rank(id)
			if !ok {
				continue
			}
			switch {
			case !haveBest || score < best:
				best, haveBest = score, true
				winners = []string{id}
			case score == best:
				winners = append(winners, id)
			}
		}
		if len(winners) == 0 {
			// No eligible player qualified for this pot portion; callers
			// are expected to have applied a documented fallback
			// before reaching here. As a last resort, split among every
			// eligible player so the chips are never silently dropped.
			winners = append(winners, pot.Eligible...)
		}
		sort.Slice(winners, func(a, b int) bool { return orderIndex[winners[a]] < orderIndex[winners[b]] })

		share := pot.Amount / len(winners)
		remainder := pot.Amount - share*len(winners)
		amounts := make(map[string]int, len(winners))
		for idx, id := range winners {
			amt := share
			if idx < remainder {
				amt++
			}
			amounts[id] = amt
		}
		awards = append(awards, Award{PotIndex: i, Amounts: amounts})
	}
	return awards
}

// ApplyAwards credits every award's chips to the corresponding player's
// stack.
func ApplyAwards(players []*table.Player, awards []Award) {
	byID := make(map[string]*table.Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}
	for _, award := range awards {
		for id, amt := range award.Amounts {
			if p, ok := byID[id]; ok {
				p.Stack += amt
			}
		}
	}
}
