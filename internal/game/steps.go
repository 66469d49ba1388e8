package game

import (
	"fmt"

	"github.com/lox/genericpoker/internal/card"
	"github.com/lox/genericpoker/internal/rules"
	"github.com/lox/genericpoker/internal/table"
)

// pendingKind names which family of player input the engine is waiting on.
type pendingKind string

const (
	pendBet               pendingKind = "bet"
	pendDraw              pendingKind = "draw"
	pendDiscard           pendingKind = "discard"
	pendExpose            pendingKind = "expose"
	pendPass              pendingKind = "pass"
	pendSeparate          pendingKind = "separate"
	pendDeclare           pendingKind = "declare"
	pendChoose            pendingKind = "choose"
	pendReplaceCommunity  pendingKind = "replace_community"
)

// pendingStep captures the in-progress player-input phase of the step the
// cursor is currently on. Non-simultaneous kinds (bet, draw, discard,
// expose, separate, replace_community) walk turnOrder one id at a time;
// simultaneous kinds (pass, declare) collect every id before resolving.
type pendingStep struct {
	kind         pendingKind
	stepName     string
	turnOrder    []string
	idx          int
	doneIDs      map[string]bool
	simultaneous bool

	bet     rules.BetAction
	draw    rules.DrawAction
	discard rules.DiscardAction
	expose  rules.ExposeAction
	pass    rules.PassAction
	separate rules.SeparateAction
	declare rules.DeclareAction
	choose  rules.ChooseAction
	replace rules.ReplaceCommunityAction

	passTargets map[string]*table.Player
}

// runStep gates on the step's own conditional_state, then dispatches on the
// action kind. blocked is true if the step now needs player input; the
// caller (Advance) leaves the cursor in place until that input arrives.
// A false trigger either skips the step or, when false_state names a card
// state, re-states a deal and runs it anyway.
func (g *Game) runStep(step rules.Step) (blocked bool, err error) {
	if cs := step.ConditionalState; cs != nil {
		state := cs.TrueState
		if !g.evalTrigger(cs.Trigger) {
			state = cs.FalseState
			if state == "" || state == "skip" {
				return false, nil
			}
		}
		if override := actionWithState(step.Action, state); override != nil {
			return g.runAction(step.Name, override)
		}
	}
	return g.runAction(step.Name, step.Action)
}

// actionWithState returns a copy of a deal action with every card's state
// replaced, or nil when state names no card state (the step then runs
// unmodified).
func actionWithState(a rules.Action, state string) rules.Action {
	cs := rules.CardState(state)
	if cs != rules.StateFaceUp && cs != rules.StateFaceDown {
		return nil
	}
	deal, ok := a.(rules.DealAction)
	if !ok {
		return nil
	}
	specs := append([]rules.DealSpec(nil), deal.Cards...)
	for i := range specs {
		specs[i].State = cs
		specs[i].ConditionalState = nil
	}
	deal.Cards = specs
	return deal
}

func (g *Game) runAction(name string, action rules.Action) (bool, error) {
	switch a := action.(type) {
	case rules.BetAction:
		return g.runBet(name, a)
	case rules.DealAction:
		if err := g.runDeal(a); err != nil {
			return false, err
		}
		return false, nil
	case rules.DrawAction:
		return g.startCardStep(name, pendDraw, a, rules.DiscardAction{})
	case rules.DiscardAction:
		return g.startCardStep(name, pendDiscard, rules.DrawAction{}, a)
	case rules.ExposeAction:
		return g.startExposeStep(name, a)
	case rules.PassAction:
		return g.startPassStep(name, a)
	case rules.SeparateAction:
		return g.startSeparateStep(name, a)
	case rules.DeclareAction:
		return g.startDeclareStep(name, a)
	case rules.ChooseAction:
		return g.startChooseStep(name, a)
	case rules.ReplaceCommunityAction:
		return g.startReplaceCommunityStep(name, a)
	case rules.RemoveAction:
		g.runRemove(a)
		return false, nil
	case rules.RollDieAction:
		g.runRollDie(a)
		return false, nil
	case rules.ShowdownAction:
		if a.Type == rules.ShowdownIntermediate {
			// An intermediate showdown reveals without awarding; the final
			// one settles the pots and ends the hand.
			g.emit(Event{Kind: EvShowdownReveal, Detail: "intermediate"})
			return false, nil
		}
		g.finishHand(false)
		return true, nil
	case rules.GroupedActions:
		return g.runGrouped(name, a)
	default:
		return false, fmt.Errorf("game: unhandled step action %T", action)
	}
}

// runGrouped executes each sub-action of a groupedActions step in sequence,
// resuming a partially-completed group across driver turns via groupStack.
func (g *Game) runGrouped(name string, a rules.GroupedActions) (bool, error) {
	var frame *groupFrame
	if len(g.groupStack) > 0 {
		frame = &g.groupStack[len(g.groupStack)-1]
	} else {
		g.groupStack = append(g.groupStack, groupFrame{actions: a.Actions})
		frame = &g.groupStack[len(g.groupStack)-1]
	}
	for frame.index < len(frame.actions) {
		blocked, err := g.runAction(name, frame.actions[frame.index])
		if err != nil {
			return false, err
		}
		if blocked {
			return true, nil
		}
		frame.index++
	}
	g.groupStack = g.groupStack[:len(g.groupStack)-1]
	return false, nil
}

// runDeal deals every DealSpec in a deal action, honoring per-spec
// conditional card state and wild-card tagging. Running the
// deck dry mid-deal is engine-fatal.
func (g *Game) runDeal(a rules.DealAction) error {
	g.state = StateDealing
	for _, spec := range a.Cards {
		state := spec.State
		if spec.ConditionalState != nil {
			if g.evalTrigger(spec.ConditionalState.Trigger) {
				state = spec.ConditionalState.TrueState
			} else {
				state = spec.ConditionalState.FalseState
			}
		}
		vis := card.FaceDown
		if state == rules.StateFaceUp {
			vis = card.FaceUp
		}
		switch a.Location {
		case rules.LocationCommunity:
			dealt := g.table.DealToCommunity(spec.Subset, spec.Number, vis)
			if len(dealt) < spec.Number {
				return fmt.Errorf("game: deck exhausted dealing %d to community region %q", spec.Number, spec.Subset)
			}
			applyWildRules(dealt, spec.WildCards)
			g.emit(Event{Kind: EvDeal, Detail: "community:" + spec.Subset, Cards: snapshot(dealt)})
		default:
			for _, p := range g.table.ActivePlayers() {
				dealtVis := vis
				if spec.ProtectionOption != nil {
					// The fee is an extra forced
					// pot contribution, paid here automatically in exchange
					// for keeping the card face down rather than whatever
					// state it would otherwise take.
					posted := g.betting.PostAnte(p, spec.ProtectionOption.Fee)
					g.emit(Event{Kind: EvForcedBet, PlayerID: p.ID, Detail: "protection", Amount: posted})
					dealtVis = card.FaceDown
				}
				dealt := g.table.DealToPlayer(p, spec.Number, dealtVis, spec.Subset)
				if len(dealt) < spec.Number {
					return fmt.Errorf("game: deck exhausted dealing %d to player %s", spec.Number, p.ID)
				}
				applyWildRules(dealt, spec.WildCards)
				g.emit(Event{Kind: EvDeal, PlayerID: p.ID, Detail: spec.Subset, Cards: snapshot(dealt)})
			}
		}
	}
	return nil
}

// snapshot copies a card slice that aliases live table state, so the event
// log stays fixed even as the underlying cards later flip or move.
func snapshot(cards []card.Card) []card.Card {
	out := make([]card.Card, len(cards))
	copy(out, cards)
	return out
}

// applyWildRules tags freshly dealt cards with their configured wild
// role. scope:player is rejected at load time, so only the game-wide
// "wild" and "bug" sub-rules ever reach here.
func applyWildRules(dealt []card.Card, rulesSpecs []rules.WildCardRule) {
	if len(rulesSpecs) == 0 {
		return
	}
	for _, wr := range rulesSpecs {
		role := card.RoleWild
		if wr.Rule == rules.WildSubBug {
			role = card.RoleBug
		}
		for i := range dealt {
			dealt[i].Wild = role
		}
	}
}

func (g *Game) runRemove(a rules.RemoveAction) {
	for _, subset := range a.Subsets {
		cards := g.table.Community(subset)
		if removeMatches(cards, a.Criteria) {
			g.table.RemoveCommunityRegion(subset)
			g.emit(Event{Kind: EvRemove, Detail: subset, Cards: cards})
		}
	}
}

// removeMatches implements the criteria a RemoveAction names. "lowest
// unless all same" is Oklahoma's pruned-river rule: the region is removed
// unless every card in it shares the same rank.
func removeMatches(cards []card.Card, criteria string) bool {
	if len(cards) == 0 {
		return false
	}
	if criteria == "lowest_unless_all_same" {
		for _, c := range cards[1:] {
			if c.Rank != cards[0].Rank {
				return true
			}
		}
		return false
	}
	return true
}

func (g *Game) runRollDie(a rules.RollDieAction) {
	// Rolling lazily here, from the die stream of the hand's rng.Seeded
	// (derived from the same seed as the deck shuffle), keeps a single
	// roll_die step reproducible without requiring the Game to pre-allocate
	// rolls it may never reach.
	value := g.rollDie()
	g.table.SetScalar(a.Subset, value)
	g.emit(Event{Kind: EvRollDie, Detail: a.Subset, Amount: value})
}

// runBet handles every BetAction variant: forced postings execute
// immediately and never block; a voluntary round blocks until every live
// player has acted and matched the current bet.
func (g *Game) runBet(name string, a rules.BetAction) (bool, error) {
	switch a.Type {
	case rules.BetBlinds:
		g.postBlinds()
		return false, nil
	case rules.BetAntes:
		g.postAntes()
		return false, nil
	case rules.BetBringIn:
		if err := g.postBringIn(); err != nil {
			return false, err
		}
		return false, nil
	default:
		return g.startBettingRound(name, a)
	}
}
