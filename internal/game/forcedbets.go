package game

import (
	"fmt"

	"github.com/lox/genericpoker/internal/card"
	"github.com/lox/genericpoker/internal/rules"
	"github.com/lox/genericpoker/internal/table"
)

// resolveForcedBets returns the ForcedBets clause in effect, honoring a
// CHOOSE-conditional forced-bet configuration.
func (g *Game) resolveForcedBets() rules.ForcedBets {
	fb := g.rules.ForcedBets
	if fb.Conditional != nil {
		if clause, ok := fb.Conditional.Clauses[g.chooseValue]; ok {
			return clause
		}
		return fb.Conditional.Default
	}
	return fb
}

func (g *Game) postBlinds() {
	fb := g.resolveForcedBets()
	active := g.table.ActivePlayers()
	if len(active) == 0 {
		return
	}
	g.betting.StartRound(active, g.stakes.SmallBet, g.potFromPriorStreets)
	for i, level := range fb.Blinds {
		if i >= len(active) {
			break
		}
		p := active[i]
		amount := level.Amount * g.stakes.Unit
		posted := g.betting.PostForced(p, amount)
		g.emit(Event{Kind: EvForcedBet, PlayerID: p.ID, Detail: level.Name, Amount: posted})
	}
}

func (g *Game) postAntes() {
	ante := g.stakes.Ante
	if ante == 0 {
		return
	}
	for _, p := range g.table.ActivePlayers() {
		posted := g.betting.PostAnte(p, ante)
		g.emit(Event{Kind: EvForcedBet, PlayerID: p.ID, Detail: "ante", Amount: posted})
	}
}

// postBringIn resolves which player owes the bring-in and posts the
// minimum bring-in amount for them.
func (g *Game) postBringIn() error {
	fb := g.resolveForcedBets()
	active := g.table.ActivePlayers()
	if len(active) == 0 {
		return nil
	}
	bringInEval := fb.BringInEval
	if bringInEval == "" {
		bringInEval = rules.EvalHigh
	}
	var chosen *table.Player
	var chosenKey int64
	haveChosen := false
	for _, p := range active {
		upCards := visibleCards(p)
		if len(upCards) == 0 {
			continue
		}
		r, err := g.eval.Evaluate(upCards, bringInEval, nil)
		if err != nil {
			return fmt.Errorf("game: bring-in evaluation: %w", err)
		}
		key := r.Ordinal
		switch fb.BringInRule {
		case rules.BringInLowCard:
			// Lower ordinal already means a better hand under EvalHigh;
			// bring-in picks the worst up-card, i.e. the largest ordinal.
			if !haveChosen || key > chosenKey {
				chosen, chosenKey, haveChosen = p, key, true
			}
		default: // BringInHighCard, BringInHighCardAhWild
			if !haveChosen || key < chosenKey {
				chosen, chosenKey, haveChosen = p, key, true
			}
		}
	}
	if chosen == nil {
		chosen = active[0]
	}
	if len(fb.Blinds) == 0 {
		g.betting.StartRound(active, g.stakes.SmallBet, g.potFromPriorStreets)
	}
	amount := g.stakes.SmallBet / 5
	if amount < 1 {
		amount = 1
	}
	posted := g.betting.PostForced(chosen, amount)
	g.bringInPlayerID = chosen.ID
	g.emit(Event{Kind: EvForcedBet, PlayerID: chosen.ID, Detail: "bring-in", Amount: posted})
	return nil
}

func visibleCards(p *table.Player) []card.Card {
	var out []card.Card
	for _, cs := range p.Hand {
		for _, c := range cs {
			if c.Visibility == card.FaceUp {
				out = append(out, c)
			}
		}
	}
	return out
}
