package game

import (
	"github.com/lox/genericpoker/internal/betting"
	"github.com/lox/genericpoker/internal/showdown"
)

// runShowdown resolves every contesting line against the pots already
// formed, applies the resulting awards, and returns the hand's result.
func (g *Game) runShowdown(pots []betting.Pot) *GameResult {
	g.state = StateShowdown
	active := g.table.ActivePlayers()

	mgr := showdown.New(g.selector)
	res, err := mgr.Resolve(active, pots, g.rules.Showdown, g.declareResults, g.table, g.evalTrigger)
	if err != nil {
		g.fail(err)
		return &GameResult{Pots: pots, Events: g.events}
	}

	betting.ApplyAwards(g.table.Seated(), res.Awards)
	for _, line := range res.Lines {
		for id, amt := range line.Winners {
			g.emit(Event{Kind: EvPotAwarded, PlayerID: id, Detail: line.Line, Amount: amt})
		}
	}
	g.emit(Event{Kind: EvShowdownReveal})

	return &GameResult{Pots: pots, Awards: res.Awards, Lines: res.Lines, Events: g.events}
}
