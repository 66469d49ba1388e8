// This file implements the player-facing action surface: computing legal
// ActionOptions for the player to move, and validating/applying a
// PlayerAction against whichever pendingStep the cursor is currently
// blocked on. Every path follows the same compute-options, validate,
// mutate, emit-event order.
package game

import (
	"github.com/lox/genericpoker/internal/actionerr"
	"github.com/lox/genericpoker/internal/betting"
	"github.com/lox/genericpoker/internal/card"
	"github.com/lox/genericpoker/internal/rules"
	"github.com/lox/genericpoker/internal/table"
)

// OptionKind is the closed set of action kinds a driver may offer a player.
type OptionKind string

const (
	OptFold              OptionKind = "fold"
	OptCheck             OptionKind = "check"
	OptCall              OptionKind = "call"
	OptBet               OptionKind = "bet"
	OptRaise             OptionKind = "raise"
	OptDraw              OptionKind = "draw"
	OptDiscard           OptionKind = "discard"
	OptExpose            OptionKind = "expose"
	OptPass              OptionKind = "pass"
	OptSeparate          OptionKind = "separate"
	OptDeclare           OptionKind = "declare"
	OptChoose            OptionKind = "choose"
	OptReplaceCommunity  OptionKind = "replace_community"
)

// ActionOption is one legal move for the player whose turn it is.
type ActionOption struct {
	Kind          OptionKind
	Min, Max      int // chip amount bounds (bet/raise/call) or card-count bounds
	CardsRequired int
	Choices       []string // declare/choose's named options
}

// PlayerActionInput is the driver's request.
type PlayerActionInput struct {
	Kind        OptionKind
	Amount      int
	Cards       []card.Card
	Declaration []string
	ChooseValue string
}

// ActionResult reports the outcome of one PlayerAction call.
type ActionResult struct {
	OK     bool
	Err    *actionerr.Error
	Events []Event
}

// ValidActions returns the legal ActionOptions for playerID, or nil if it
// is not currently their turn.
func (g *Game) ValidActions(playerID string) []ActionOption {
	if g.fatal != nil || g.pending == nil || g.currentID != playerID {
		return nil
	}
	switch g.pending.kind {
	case pendBet:
		p := g.table.Player(playerID)
		if p == nil {
			return nil
		}
		var out []ActionOption
		for _, opt := range g.betting.LegalActions(p) {
			out = append(out, ActionOption{Kind: OptionKind(opt.Kind), Min: opt.Min, Max: opt.Max})
		}
		return out
	case pendDraw:
		spec := firstDrawSpec(g.pending.draw)
		return []ActionOption{{Kind: OptDraw, Min: spec.MinNumber, Max: spec.Number}}
	case pendDiscard:
		spec := firstDiscardSpec(g.pending.discard)
		return []ActionOption{{Kind: OptDiscard, Min: spec.MinNumber, Max: spec.Number}}
	case pendExpose:
		spec := firstExposeSpec(g.pending.expose)
		return []ActionOption{{Kind: OptExpose, Min: spec.MinNumber, Max: spec.Number}}
	case pendPass:
		return []ActionOption{{Kind: OptPass, CardsRequired: g.pending.pass.Count}}
	case pendSeparate:
		return []ActionOption{{Kind: OptSeparate}}
	case pendDeclare:
		choices := make([]string, len(g.pending.declare.Options))
		for i, o := range g.pending.declare.Options {
			choices[i] = string(o)
		}
		return []ActionOption{{Kind: OptDeclare, Choices: choices}}
	case pendChoose:
		return []ActionOption{{Kind: OptChoose, Choices: g.pending.choose.PossibleValues}}
	case pendReplaceCommunity:
		return []ActionOption{{Kind: OptReplaceCommunity, Max: g.pending.replace.CardsToReplace}}
	default:
		return nil
	}
}

// PlayerAction applies one driver-submitted action for playerID. On
// success it auto-progresses the hand (if enabled) before returning.
func (g *Game) PlayerAction(playerID string, in PlayerActionInput) *ActionResult {
	if g.fatal != nil {
		return &ActionResult{Err: actionerr.New(actionerr.ActionNotLegal, "game has a fatal condition")}
	}
	if g.pending == nil {
		return &ActionResult{Err: actionerr.New(actionerr.ActionNotLegal, "no action is currently pending")}
	}
	if !g.pending.simultaneous && g.currentID != playerID {
		return &ActionResult{Err: actionerr.New(actionerr.NotYourTurn, "")}
	}
	if g.pending.simultaneous && g.pending.doneIDs[playerID] {
		return &ActionResult{Err: actionerr.New(actionerr.ActionNotLegal, "already acted this step")}
	}

	if !g.pending.simultaneous {
		g.chargeTimeBank(playerID)
	}

	before := len(g.events)
	var aerr *actionerr.Error
	switch g.pending.kind {
	case pendBet:
		aerr = g.applyBet(playerID, in)
	case pendDraw:
		aerr = g.applyDraw(playerID, in)
	case pendDiscard:
		aerr = g.applyDiscard(playerID, in)
	case pendExpose:
		aerr = g.applyExpose(playerID, in)
	case pendPass:
		aerr = g.applyPass(playerID, in)
	case pendSeparate:
		aerr = g.applySeparate(playerID, in)
	case pendDeclare:
		aerr = g.applyDeclare(playerID, in)
	case pendChoose:
		aerr = g.applyChoose(playerID, in)
	case pendReplaceCommunity:
		aerr = g.applyReplaceCommunity(playerID, in)
	}
	if aerr != nil {
		return &ActionResult{Err: aerr}
	}
	if g.autoProgress {
		if err := g.Advance(); err != nil {
			return &ActionResult{Err: actionerr.New(actionerr.ActionNotLegal, err.Error())}
		}
	}
	return &ActionResult{OK: true, Events: append([]Event(nil), g.events[before:]...)}
}

func (g *Game) applyBet(playerID string, in PlayerActionInput) *actionerr.Error {
	p := g.table.Player(playerID)
	if p == nil {
		return actionerr.New(actionerr.ActionNotLegal, "unknown player")
	}
	kind := betting.ActionKind(in.Kind)
	if err := g.betting.Apply(p, kind, in.Amount); err != nil {
		if ae, ok := err.(*actionerr.Error); ok {
			return ae
		}
		return actionerr.New(actionerr.ActionNotLegal, err.Error())
	}
	switch kind {
	case betting.Fold:
		g.emit(Event{Kind: EvFold, PlayerID: playerID})
	case betting.Check:
		g.emit(Event{Kind: EvCheck, PlayerID: playerID})
	case betting.Call:
		g.emit(Event{Kind: EvCall, PlayerID: playerID, Amount: in.Amount})
	case betting.Bet:
		g.emit(Event{Kind: EvBet, PlayerID: playerID, Amount: in.Amount})
	case betting.Raise:
		g.emit(Event{Kind: EvRaise, PlayerID: playerID, Amount: in.Amount})
	}
	g.advanceBettingTurn()
	return nil
}

// advanceBettingTurn moves to the next live bettor, or closes the round
// (clearing pending so Advance can move the cursor on) once RoundOver.
func (g *Game) advanceBettingTurn() {
	active := g.table.ActivePlayers()
	if len(active) <= 1 {
		// Everyone else folded; close out the street so Advance can end the
		// hand unopposed.
		g.potFromPriorStreets += sumContributions(g.table.Seated())
		g.closeOpenBettingRound()
		g.pending = nil
		g.setCurrentPlayer("")
		return
	}
	if g.betting.RoundOver(active) {
		g.potFromPriorStreets += sumContributions(g.table.Seated())
		g.closeOpenBettingRound()
		g.pending = nil
		g.setCurrentPlayer("")
		return
	}
	order := g.pending.turnOrder
	idx := g.pending.idx
	for i := 1; i <= len(order); i++ {
		next := (idx + i) % len(order)
		p := g.table.Player(order[next])
		if p != nil && p.IsActive && !p.IsAllIn {
			g.pending.idx = next
			g.setCurrentPlayer(order[next])
			return
		}
	}
	// No live, non-all-in bettor remains; treat as round over.
	g.potFromPriorStreets += sumContributions(g.table.Seated())
	g.closeOpenBettingRound()
	g.pending = nil
	g.setCurrentPlayer("")
}

func sumContributions(players []*table.Player) int {
	total := 0
	for _, p := range players {
		total += p.CurrentBetThisRound
	}
	return total
}

// startBettingRound opens a new betting street and enters BETTING state.
func (g *Game) startBettingRound(stepName string, a rules.BetAction) (bool, error) {
	active := g.table.ActivePlayers()
	if len(liveNonAllIn(active)) < 2 {
		return false, nil // everyone but one is all-in; nothing to bet over
	}
	size := g.streetBetSize(stepName, a)
	if !g.betting.IsOpen() {
		g.betting.StartRound(active, size, g.potFromPriorStreets)
	}
	order := g.firstActorOrder(active)
	g.hadBettingRound = true
	g.state = StateBetting
	g.pending = &pendingStep{kind: pendBet, stepName: stepName, bet: a, turnOrder: idsOf(order), idx: -1}
	g.advanceBettingTurn()
	if g.pending == nil {
		return false, nil
	}
	return true, nil
}

func liveNonAllIn(players []*table.Player) []*table.Player {
	var out []*table.Player
	for _, p := range players {
		if p.IsActive && !p.IsAllIn {
			out = append(out, p)
		}
	}
	return out
}

func idsOf(players []*table.Player) []string {
	out := make([]string, len(players))
	for i, p := range players {
		out[i] = p.ID
	}
	return out
}

// firstActorOrder picks the seating order a betting round starts from.
func (g *Game) firstActorOrder(active []*table.Player) []*table.Player {
	rule := g.rules.BettingOrder.Subsequent
	if !g.hadBettingRound {
		rule = g.rules.BettingOrder.Initial
	}
	if cond := g.rules.BettingOrder.Conditional; cond != nil {
		if o, ok := cond[g.chooseValue]; ok {
			if g.hadBettingRound {
				rule = o.Subsequent
			} else {
				rule = o.Initial
			}
		}
	}
	switch rule {
	case rules.OrderBringIn:
		// The bring-in already has money in; action opens one seat to their
		// left and comes back around so they keep the option to complete.
		return rotateBy(rotateTo(active, g.bringInPlayerID), 1)
	case rules.OrderDealer:
		return rotateTo(active, dealerID(g.table))
	case rules.OrderLeftOfDealer:
		return active
	case rules.OrderHighHand:
		return rotateTo(active, g.bestExposedHandID(active))
	case rules.OrderAfterBigBlind:
		return rotateBy(active, len(g.resolveForcedBets().Blinds))
	default:
		return active
	}
}

// bestExposedHandID picks the player whose face-up cards make the strongest
// high hand, the lead-out rule for stud streets after third. Returns
// "" (no rotation) if nobody has an exposed card.
func (g *Game) bestExposedHandID(active []*table.Player) string {
	bestID := ""
	var bestOrdinal int64
	for _, p := range active {
		up := visibleCards(p)
		if len(up) == 0 {
			continue
		}
		r, err := g.eval.Evaluate(up, rules.EvalHigh, nil)
		if err != nil {
			continue
		}
		if bestID == "" || r.Ordinal < bestOrdinal {
			bestID, bestOrdinal = p.ID, r.Ordinal
		}
	}
	return bestID
}

func rotateBy(players []*table.Player, n int) []*table.Player {
	if len(players) == 0 || n%len(players) == 0 {
		return players
	}
	n = n % len(players)
	out := make([]*table.Player, 0, len(players))
	out = append(out, players[n:]...)
	out = append(out, players[:n]...)
	return out
}

func dealerID(t *table.Table) string {
	for _, p := range t.Seated() {
		if p.Seat == t.DealerSeat() {
			return p.ID
		}
	}
	return ""
}

func rotateTo(active []*table.Player, startID string) []*table.Player {
	if startID == "" {
		return active
	}
	idx := -1
	for i, p := range active {
		if p.ID == startID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return active
	}
	out := make([]*table.Player, 0, len(active))
	out = append(out, active[idx:]...)
	out = append(out, active[:idx]...)
	return out
}

// streetBetSize resolves a voluntary bet step's fixed increment.
func (g *Game) streetBetSize(stepName string, a rules.BetAction) int {
	switch a.Type {
	case rules.BetBig:
		return g.stakes.BigBet
	case rules.BetSmall:
		return g.stakes.SmallBet
	}
	if g.structure != rules.Limit {
		return g.stakes.BigBet
	}
	idx, total := g.voluntaryBetRoundIndex(stepName)
	if total == 0 {
		return g.stakes.SmallBet
	}
	if idx < (total+1)/2 {
		return g.stakes.SmallBet
	}
	return g.stakes.BigBet
}

func (g *Game) voluntaryBetRoundIndex(stepName string) (idx, total int) {
	var names []string
	var walk func(steps []rules.Step)
	walk = func(steps []rules.Step) {
		for _, s := range steps {
			switch a := s.Action.(type) {
			case rules.BetAction:
				if a.Type == "" || a.Type == rules.BetSmall || a.Type == rules.BetBig {
					names = append(names, s.Name)
				}
			case rules.GroupedActions:
				for _, sub := range a.Actions {
					if ba, ok := sub.(rules.BetAction); ok && (ba.Type == "" || ba.Type == rules.BetSmall || ba.Type == rules.BetBig) {
						names = append(names, s.Name)
					}
				}
			}
		}
	}
	walk(g.rules.GamePlay)
	total = len(names)
	for i, n := range names {
		if n == stepName {
			return i, total
		}
	}
	return 0, total
}

func firstDrawSpec(a rules.DrawAction) rules.DrawSpec {
	if len(a.Cards) == 0 {
		return rules.DrawSpec{}
	}
	return a.Cards[0]
}

func firstDiscardSpec(a rules.DiscardAction) rules.DiscardSpec {
	if len(a.Cards) == 0 {
		return rules.DiscardSpec{}
	}
	return a.Cards[0]
}

func firstExposeSpec(a rules.ExposeAction) rules.ExposeSpec {
	if len(a.Cards) == 0 {
		return rules.ExposeSpec{}
	}
	return a.Cards[0]
}
