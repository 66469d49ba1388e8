package game

import (
	"fmt"

	"github.com/lox/genericpoker/internal/actionerr"
	"github.com/lox/genericpoker/internal/card"
	"github.com/lox/genericpoker/internal/rules"
	"github.com/lox/genericpoker/internal/table"
)

// advanceCardTurn moves to the next active player in pending.turnOrder who
// has not yet acted this step; once every player has, it clears pending so
// Advance can move the cursor on.
func (g *Game) advanceCardTurn() {
	order := g.pending.turnOrder
	for i := g.pending.idx + 1; i < len(order); i++ {
		id := order[i]
		if g.pending.doneIDs[id] {
			continue
		}
		if p := g.table.Player(id); p == nil || !p.IsActive {
			continue
		}
		g.pending.idx = i
		g.setCurrentPlayer(id)
		return
	}
	g.pending = nil
	g.setCurrentPlayer("")
}

func (g *Game) startCardStep(name string, kind pendingKind, draw rules.DrawAction, discard rules.DiscardAction) (bool, error) {
	active := g.table.ActivePlayers()
	if len(active) == 0 {
		return false, nil
	}
	g.state = StateDrawing
	g.pending = &pendingStep{kind: kind, stepName: name, draw: draw, discard: discard, turnOrder: idsOf(active), idx: -1, doneIDs: map[string]bool{}}
	g.advanceCardTurn()
	return g.pending != nil, nil
}

func (g *Game) startExposeStep(name string, a rules.ExposeAction) (bool, error) {
	active := g.table.ActivePlayers()
	if len(active) == 0 {
		return false, nil
	}
	g.pending = &pendingStep{kind: pendExpose, stepName: name, expose: a, turnOrder: idsOf(active), idx: -1, doneIDs: map[string]bool{}}
	g.advanceCardTurn()
	return g.pending != nil, nil
}

func (g *Game) startSeparateStep(name string, a rules.SeparateAction) (bool, error) {
	active := g.table.ActivePlayers()
	if len(active) == 0 {
		return false, nil
	}
	g.pending = &pendingStep{kind: pendSeparate, stepName: name, separate: a, turnOrder: idsOf(active), idx: -1, doneIDs: map[string]bool{}}
	g.advanceCardTurn()
	return g.pending != nil, nil
}

func (g *Game) startReplaceCommunityStep(name string, a rules.ReplaceCommunityAction) (bool, error) {
	active := g.table.ActivePlayers()
	if len(active) == 0 {
		return false, nil
	}
	order := active
	if a.StartingFrom != "" {
		order = rotateTo(active, a.StartingFrom)
	}
	g.pending = &pendingStep{kind: pendReplaceCommunity, stepName: name, replace: a, turnOrder: idsOf(order), idx: -1, doneIDs: map[string]bool{}}
	g.advanceCardTurn()
	return g.pending != nil, nil
}

// startPassStep is simultaneous: every active player must act before the
// step resolves, in any order. startDeclareStep is simultaneous only when
// the declare action sets Simultaneous; otherwise players act in turn.
func (g *Game) startPassStep(name string, a rules.PassAction) (bool, error) {
	active := g.table.ActivePlayers()
	if len(active) == 0 {
		return false, nil
	}
	targets, err := table.RotationTargets(active, string(a.Direction))
	if err != nil {
		return false, err
	}
	tmap := map[string]*table.Player{}
	for id, p := range targets {
		tmap[id] = p
	}
	g.pending = &pendingStep{kind: pendPass, stepName: name, pass: a, turnOrder: idsOf(active), simultaneous: true, doneIDs: map[string]bool{}, passTargets: tmap}
	g.setCurrentPlayer("")
	return true, nil
}

func (g *Game) startDeclareStep(name string, a rules.DeclareAction) (bool, error) {
	active := g.table.ActivePlayers()
	if len(active) == 0 {
		return false, nil
	}
	g.pending = &pendingStep{kind: pendDeclare, stepName: name, declare: a, turnOrder: idsOf(active), simultaneous: a.Simultaneous, doneIDs: map[string]bool{}}
	if !a.Simultaneous {
		g.pending.idx = -1
		g.advanceCardTurn()
		return g.pending != nil, nil
	}
	g.setCurrentPlayer("")
	return true, nil
}

func (g *Game) startChooseStep(name string, a rules.ChooseAction) (bool, error) {
	chooser := a.Chooser
	if chooser == "dealer" {
		chooser = dealerID(g.table)
	}
	if chooser == "" || g.table.Player(chooser) == nil {
		active := g.table.ActivePlayers()
		if len(active) > 0 {
			chooser = active[0].ID
		}
	}
	if chooser == "" {
		g.chooseStepName = name
		g.chooseValue = a.Default
		return false, nil
	}
	g.pending = &pendingStep{kind: pendChoose, stepName: name, choose: a, turnOrder: []string{chooser}, idx: -1, doneIDs: map[string]bool{}}
	g.setCurrentPlayer(chooser)
	return true, nil
}

func containsAll(have []card.Card, want []card.Card) bool {
	pool := append([]card.Card(nil), have...)
	for _, w := range want {
		found := false
		for i, c := range pool {
			if c == w {
				pool = append(pool[:i], pool[i+1:]...)
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (g *Game) applyDraw(playerID string, in PlayerActionInput) *actionerr.Error {
	p := g.table.Player(playerID)
	spec := firstDrawSpec(g.pending.draw)
	if len(in.Cards) < spec.MinNumber || len(in.Cards) > spec.Number {
		return actionerr.New(actionerr.AmountOutOfRange, "draw count out of range")
	}
	subset := resolveSubset(spec.HoleSubset)
	if !containsAll(p.Hand[subset], in.Cards) {
		return actionerr.New(actionerr.IllegalCardSelection, "player does not hold the named cards")
	}
	state := card.FaceDown
	if spec.State == rules.StateFaceUp {
		state = card.FaceUp
	}
	fresh := g.table.ReplaceDrawn(p, subset, in.Cards, state, spec.PreserveState)
	g.emit(Event{Kind: EvDraw, PlayerID: playerID, Cards: fresh})
	g.pending.doneIDs[playerID] = true
	g.advanceCardTurn()
	return nil
}

func (g *Game) applyDiscard(playerID string, in PlayerActionInput) *actionerr.Error {
	p := g.table.Player(playerID)
	spec := firstDiscardSpec(g.pending.discard)
	if len(in.Cards) < spec.MinNumber || len(in.Cards) > spec.Number {
		return actionerr.New(actionerr.AmountOutOfRange, "discard count out of range")
	}
	subset := resolveSubset(spec.HoleSubset)
	if !containsAll(p.Hand[subset], in.Cards) {
		return actionerr.New(actionerr.IllegalCardSelection, "player does not hold the named cards")
	}
	g.table.Discard(p, subset, in.Cards)
	g.emit(Event{Kind: EvDiscard, PlayerID: playerID, Cards: in.Cards})
	g.pending.doneIDs[playerID] = true
	g.advanceCardTurn()
	return nil
}

func (g *Game) applyExpose(playerID string, in PlayerActionInput) *actionerr.Error {
	p := g.table.Player(playerID)
	spec := firstExposeSpec(g.pending.expose)
	if len(in.Cards) < spec.MinNumber || len(in.Cards) > spec.Number {
		return actionerr.New(actionerr.AmountOutOfRange, "expose count out of range")
	}
	if !containsAll(p.Cards(), in.Cards) {
		return actionerr.New(actionerr.IllegalCardSelection, "player does not hold the named cards")
	}
	g.table.ExposeAny(p, in.Cards)
	g.emit(Event{Kind: EvExpose, PlayerID: playerID, Cards: in.Cards})
	g.pending.doneIDs[playerID] = true
	g.advanceCardTurn()
	return nil
}

func (g *Game) applyPass(playerID string, in PlayerActionInput) *actionerr.Error {
	p := g.table.Player(playerID)
	if len(in.Cards) != g.pending.pass.Count {
		return actionerr.New(actionerr.AmountOutOfRange, "pass requires exactly the configured card count")
	}
	if !containsAll(p.Cards(), in.Cards) {
		return actionerr.New(actionerr.IllegalCardSelection, "player does not hold the named cards")
	}
	target := g.pending.passTargets[playerID]
	if target == nil {
		return actionerr.New(actionerr.ActionNotLegal, "no pass target resolved")
	}
	subset := ""
	for s, cs := range p.Hand {
		if containsAll(cs, in.Cards) {
			subset = s
			break
		}
	}
	g.table.Pass(p, target, subset, in.Cards)
	g.emit(Event{Kind: EvPass, PlayerID: playerID, Detail: target.ID, Cards: in.Cards})
	g.pending.doneIDs[playerID] = true
	if allDone(g.pending) {
		g.pending = nil
		g.setCurrentPlayer("")
	}
	return nil
}

func (g *Game) applySeparate(playerID string, in PlayerActionInput) *actionerr.Error {
	p := g.table.Player(playerID)

	// Resolve every spec's card picks up front so an invalid selection
	// leaves the hand untouched.
	type move struct {
		from, to string
		cards    []card.Card
	}
	remaining := append([]card.Card(nil), in.Cards...)
	var moves []move
	for _, spec := range g.pending.separate.Cards {
		subset := resolveSubset(spec.HoleSubset)
		var chosen []card.Card
		var leftover []card.Card
		for _, c := range remaining {
			if len(chosen) < spec.Number && containsAll(p.Hand[subset], []card.Card{c}) {
				chosen = append(chosen, c)
			} else {
				leftover = append(leftover, c)
			}
		}
		if len(chosen) != spec.Number {
			return actionerr.New(actionerr.IllegalCardSelection,
				fmt.Sprintf("separate needs %d cards from %q", spec.Number, subset))
		}
		remaining = leftover
		moves = append(moves, move{from: subset, to: subset + "_separated", cards: chosen})
	}

	if reqs := g.pending.separate.VisibilityRequirements; len(reqs) > 0 {
		faceDownAfter := map[string]int{}
		for subset, cs := range p.Hand {
			for _, c := range cs {
				if c.Visibility == card.FaceDown {
					faceDownAfter[subset]++
				}
			}
		}
		for _, m := range moves {
			for _, c := range m.cards {
				if c.Visibility == card.FaceDown {
					faceDownAfter[m.from]--
					faceDownAfter[m.to]++
				}
			}
		}
		for subset, minDown := range reqs {
			if faceDownAfter[subset] < minDown {
				return actionerr.New(actionerr.IllegalCardSelection,
					fmt.Sprintf("subset %q must keep at least %d face-down cards", subset, minDown))
			}
		}
	}

	for _, m := range moves {
		g.table.Separate(p, m.from, m.to, m.cards)
	}
	g.emit(Event{Kind: EvSeparate, PlayerID: playerID, Cards: in.Cards})
	g.pending.doneIDs[playerID] = true
	g.advanceCardTurn()
	return nil
}

func (g *Game) applyDeclare(playerID string, in PlayerActionInput) *actionerr.Error {
	if len(in.Declaration) == 0 {
		return actionerr.New(actionerr.NoDeclaration, "")
	}
	valid := map[rules.DeclareOption]bool{}
	for _, o := range g.pending.declare.Options {
		valid[o] = true
	}
	for _, d := range in.Declaration {
		if !valid[rules.DeclareOption(d)] {
			return actionerr.New(actionerr.AmbiguousDeclaration, "unrecognized declaration "+d)
		}
	}
	if g.declareResults == nil {
		g.declareResults = map[string][]string{}
	}
	g.declareResults[playerID] = append([]string(nil), in.Declaration...)
	g.pending.doneIDs[playerID] = true
	if g.pending.simultaneous {
		if allDone(g.pending) {
			g.pending = nil
			g.setCurrentPlayer("")
		}
	} else {
		g.advanceCardTurn()
	}
	return nil
}

func (g *Game) applyChoose(playerID string, in PlayerActionInput) *actionerr.Error {
	valid := false
	for _, v := range g.pending.choose.PossibleValues {
		if v == in.ChooseValue {
			valid = true
			break
		}
	}
	if !valid {
		return actionerr.New(actionerr.ActionNotLegal, "value not offered")
	}
	g.chooseStepName = g.pending.stepName
	g.chooseValue = in.ChooseValue
	g.table.Player(playerID).GameChoices[g.pending.stepName] = in.ChooseValue
	g.emit(Event{Kind: EvChoose, PlayerID: playerID, Detail: in.ChooseValue})
	g.pending = nil
	g.setCurrentPlayer("")
	return nil
}

// applyReplaceCommunity swaps an entire named region for fresh cards when
// the player names exactly that region's current contents. Replacing a
// sub-count of a region while leaving the rest in place is not modeled;
// variants that only ever replace whole regions (the common case) are
// unaffected.
func (g *Game) applyReplaceCommunity(playerID string, in PlayerActionInput) *actionerr.Error {
	if len(in.Cards) == 0 || len(in.Cards) > g.pending.replace.CardsToReplace {
		return actionerr.New(actionerr.AmountOutOfRange, "too many cards named")
	}
	for _, region := range g.table.CommunityRegions() {
		current := g.table.Community(region)
		if !containsAll(current, in.Cards) {
			continue
		}
		vis := card.FaceUp
		if len(current) > 0 {
			vis = current[0].Visibility
		}
		g.table.RemoveCommunityRegion(region)
		fresh := g.table.DealToCommunity(region, len(in.Cards), vis)
		g.emit(Event{Kind: EvReplaceCommunity, PlayerID: playerID, Detail: region, Cards: fresh})
		break
	}
	g.pending.doneIDs[playerID] = true
	g.advanceCardTurn()
	return nil
}

func resolveSubset(s string) string {
	if s == "" {
		return table.DefaultSubset
	}
	return s
}

func allDone(p *pendingStep) bool {
	for _, id := range p.turnOrder {
		if !p.doneIDs[id] {
			return false
		}
	}
	return true
}

func (g *Game) rollDie() int {
	if g.rngSeed == nil {
		return 1
	}
	return g.rngSeed.RollDie()
}
