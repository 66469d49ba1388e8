// Package game implements the central state machine: it walks a variant's
// configured gameplay steps, mediating between internal/table,
// internal/betting, and internal/evaluator/internal/selector (via
// internal/showdown) on behalf of whatever external driver owns the Game.
// The hand loop is the same turn-taking and auto-progress shape a fixed
// Hold'em engine would use, generalized to an arbitrary,
// rules-document-defined step sequence.
package game

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/genericpoker/internal/betting"
	"github.com/lox/genericpoker/internal/card"
	evaluator "github.com/lox/genericpoker/internal/evaluator"
	"github.com/lox/genericpoker/internal/ranking"
	"github.com/lox/genericpoker/internal/rng"
	"github.com/lox/genericpoker/internal/rules"
	"github.com/lox/genericpoker/internal/selector"
	"github.com/lox/genericpoker/internal/table"
)

// State is the closed set of states a Game can report.
type State string

const (
	StateWaiting  State = "WAITING"
	StateBetting  State = "BETTING_ROUND"
	StateDealing  State = "DEALING"
	StateDrawing  State = "DRAWING"
	StateShowdown State = "SHOWDOWN"
	StateComplete State = "COMPLETE"
)

// Stakes resolves a variant's forced-bet amounts into absolute chips. A
// BlindLevel's Amount is a multiple of Unit.
type Stakes struct {
	Unit     int
	SmallBet int
	BigBet   int
	Ante     int
}

// Game is created fresh per hand; the Table it wraps outlives many Games.
type Game struct {
	rules     *rules.Rules
	structure rules.BettingStructure
	stakes    Stakes
	table     *table.Table
	betting   *betting.Manager
	eval      *evaluator.Evaluator
	selector  *selector.Selector
	logger    *log.Logger

	autoProgress bool

	state       State
	cursor      int
	currentID   string
	events      []Event
	result      *GameResult
	potFromPriorStreets int

	chooseStepName string
	chooseValue    string

	hadBettingRound bool // a voluntary round has opened this hand; later rounds use the subsequent-order rule

	declareResults map[string][]string // player id -> declared options, hidden until showdown

	pending *pendingStep

	startingChipTotal int
	fatal             error

	groupStack []groupFrame // nested cursor for groupedActions
	bringInPlayerID string

	rngSeed *rng.Seeded

	// clock/turnStarted/timeBankMillis back the time-bank bookkeeping the
	// driver reads but the engine itself never enforces.
	clock          quartz.Clock
	turnStarted    time.Time
	timeBankMillis int64
}

type groupFrame struct {
	actions []rules.Action
	index   int
}

// New constructs a Game bound to one table, rules document, and betting
// structure. rulesDoc must already be validated (rules.Load does this).
func New(rulesDoc *rules.Rules, structure rules.BettingStructure, stakes Stakes, t *table.Table, eval *evaluator.Evaluator, logger *log.Logger) (*Game, error) {
	if !rulesDoc.SupportsStructure(structure) {
		return nil, fmt.Errorf("game: variant %q does not support structure %s", rulesDoc.Game, structure)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Game{
		rules:     rulesDoc,
		structure: structure,
		stakes:    stakes,
		table:     t,
		betting:   betting.NewManager(structure),
		eval:      eval,
		selector:  selector.New(eval),
		logger:    logger,
		state:     StateWaiting,
		autoProgress: true,
		clock:          quartz.NewReal(),
		timeBankMillis: 30000,
	}, nil
}

// SetAutoProgress toggles auto-progress. Enabled by default.
func (g *Game) SetAutoProgress(v bool) { g.autoProgress = v }

// SetClock overrides the clock the time-bank bookkeeping reads from,
// letting tests substitute quartz.NewMock for deterministic elapsed-time
// assertions instead of real wall-clock delay.
func (g *Game) SetClock(c quartz.Clock) { g.clock = c }

// SetTimeBank sets the time bank (in milliseconds) a player starts a hand
// with, if they don't already carry one forward from a prior hand.
func (g *Game) SetTimeBank(ms int64) { g.timeBankMillis = ms }

// setCurrentPlayer updates whose turn it is and, when handing the turn to
// someone, starts that player's time-bank clock.
func (g *Game) setCurrentPlayer(id string) {
	g.currentID = id
	if id != "" {
		g.turnStarted = g.clock.Now()
	} else {
		g.turnStarted = time.Time{}
	}
}

// chargeTimeBank debits the elapsed wall-clock time since playerID's turn
// began from their time bank, floored at zero. It never causes a timeout;
// timeouts are entirely the driver's concern.
func (g *Game) chargeTimeBank(playerID string) {
	if g.turnStarted.IsZero() {
		return
	}
	elapsed := g.clock.Since(g.turnStarted).Milliseconds()
	if p := g.table.Player(playerID); p != nil {
		p.TimeBankMillis -= elapsed
		if p.TimeBankMillis < 0 {
			p.TimeBankMillis = 0
		}
	}
	g.turnStarted = time.Time{}
}

// TimeBankRemaining reports playerID's live remaining time bank: their
// stored balance minus however long their current turn has run so far, if
// it is currently their turn.
func (g *Game) TimeBankRemaining(playerID string) int64 {
	p := g.table.Player(playerID)
	if p == nil {
		return 0
	}
	remaining := p.TimeBankMillis
	if playerID == g.currentID && !g.turnStarted.IsZero() {
		remaining -= g.clock.Since(g.turnStarted).Milliseconds()
	}
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

// State returns the Game's current coarse state.
func (g *Game) State() State { return g.state }

// CurrentPlayer returns the id of the player whose turn it is, or "" if
// none.
func (g *Game) CurrentPlayer() string { return g.currentID }

// Result returns the hand's outcome once COMPLETE, else nil.
func (g *Game) Result() *GameResult { return g.result }

// Events returns the complete, monotonically-appended event log for this
// hand.
func (g *Game) Events() []Event { return g.events }

// Table returns the underlying table, for the driver to add/remove players
// between hands.
func (g *Game) Table() *table.Table { return g.table }

// AddPlayer seats a new player between hands.
func (g *Game) AddPlayer(id, name string, seat, stack int) error {
	return g.table.AddPlayer(id, name, seat, stack)
}

// RemovePlayer removes a player immediately if no hand is in progress, or
// flags their seat for clearing at the next hand boundary otherwise.
func (g *Game) RemovePlayer(id string) {
	if g.state == StateWaiting || g.state == StateComplete {
		g.table.RemovePlayer(id)
		return
	}
	if p := g.table.Player(id); p != nil {
		p.RequestLeave()
		if p.ID == g.currentID && g.pending != nil && g.pending.kind == pendBet {
			// A pending wagering turn cannot be left hanging: the departure
			// is processed as an immediate fold.
			g.PlayerAction(id, PlayerActionInput{Kind: OptFold})
			return
		}
		// Out of turn (or mid card step): the player stops contesting the
		// pot, forfeiting any equity; the seat clears at hand boundary.
		p.IsActive = false
		if g.pending != nil {
			if g.pending.simultaneous {
				g.pending.doneIDs[id] = true
				if allDone(g.pending) {
					g.pending = nil
					g.setCurrentPlayer("")
				}
			} else if p.ID == g.currentID {
				g.advanceCardTurn()
			}
		}
		g.Advance()
	}
}

// Rules returns the variant's validated rules document.
func (g *Game) Rules() *rules.Rules { return g.rules }

func (g *Game) emit(e Event) {
	g.events = append(g.events, e)
}

// FatalError returns the engine-fatal condition that halted the hand, if
// any. Once set, Advance and
// PlayerAction stop doing anything further.
func (g *Game) FatalError() error { return g.fatal }

func (g *Game) fail(err error) error {
	g.fatal = err
	g.logger.Error("engine-fatal condition", "err", err, "game", g.rules.Game)
	return err
}

// StartHand resets the table for a new hand, posts forced bets, and
// advances to the first point requiring input.
// mockDeck, if non-nil, is used verbatim instead of a freshly shuffled
// deck, which is what makes mock-deck tests deterministic.
func (g *Game) StartHand(seed int64, mockDeck card.Source) error {
	if g.fatal != nil {
		return g.fatal
	}
	g.rngSeed = rng.New(seed)
	var src card.Source
	if mockDeck != nil {
		src = mockDeck
	} else {
		src = card.NewDeck(g.rules.Deck.Type, g.rules.Deck.Jokers, g.rngSeed.DeckRand())
	}
	g.table.ResetForHand(src)
	g.events = nil
	g.result = nil
	g.cursor = 0
	g.currentID = ""
	g.chooseStepName = ""
	g.chooseValue = ""
	g.hadBettingRound = false
	g.bringInPlayerID = ""
	g.declareResults = map[string][]string{}
	g.pending = nil
	g.potFromPriorStreets = 0
	g.groupStack = nil
	g.state = StateDealing
	g.startingChipTotal = g.table.TotalChips()
	for _, p := range g.table.ActivePlayers() {
		if p.TimeBankMillis <= 0 {
			p.TimeBankMillis = g.timeBankMillis
		}
	}
	g.turnStarted = time.Time{}

	g.emit(Event{Kind: EvButtonMoved, Detail: fmt.Sprintf("button at seat %d", g.table.DealerSeat())})

	return g.Advance()
}

// Advance progresses the state machine through every step that requires no
// driver input. It stops as soon as a step needs a
// player decision, or the hand completes. If auto-progress is disabled, it
// executes exactly one step (or the next required sub-action) per call.
func (g *Game) Advance() error {
	if g.fatal != nil {
		return g.fatal
	}
	for {
		if g.state == StateComplete {
			return nil
		}
		if g.pending != nil {
			// Waiting on player input; nothing to advance.
			return nil
		}
		if g.checkHandOver() {
			continue
		}
		if g.cursor >= len(g.rules.GamePlay) {
			g.finishHand(false)
			return nil
		}
		step := g.rules.GamePlay[g.cursor]
		blocked, err := g.runStep(step)
		if err != nil {
			return g.fail(err)
		}
		if blocked {
			return nil
		}
		if len(g.groupStack) == 0 {
			g.cursor++
		}
		if !g.autoProgress {
			return nil
		}
	}
}

// checkHandOver reports whether only one active player remains and, if so,
// ends the hand immediately awarding every pot to them without a showdown.
func (g *Game) checkHandOver() bool {
	if g.state == StateComplete {
		return false
	}
	active := g.table.ActivePlayers()
	if len(active) > 1 {
		return false
	}
	g.finishHand(true)
	return true
}

func (g *Game) finishHand(unopposed bool) {
	if g.state == StateComplete {
		return
	}
	g.closeOpenBettingRound()
	// Folded players' street commitments are not reset by CloseRound (it only
	// sees active players); clear every seat so TotalChips sums stacks alone.
	for _, p := range g.table.Seated() {
		p.CurrentBetThisRound = 0
	}
	pots := betting.BuildPots(g.table.Seated())
	if unopposed {
		active := g.table.ActivePlayers()
		var winnerID string
		if len(active) == 1 {
			winnerID = active[0].ID
		}
		awards := make([]betting.Award, 0, len(pots))
		for i, pot := range pots {
			amt := map[string]int{}
			if winnerID != "" {
				amt[winnerID] = pot.Amount
			}
			awards = append(awards, betting.Award{PotIndex: i, Amounts: amt})
		}
		betting.ApplyAwards(g.table.Seated(), awards)
		g.result = &GameResult{Pots: pots, Awards: awards, Events: g.events, Unopposed: true}
	} else {
		res := g.runShowdown(pots)
		g.result = res
	}
	g.table.ApplyDeferredRemovals()
	g.emit(Event{Kind: EvHandComplete})
	g.state = StateComplete
	g.currentID = ""
	g.verifyChipConservation()
}

func (g *Game) closeOpenBettingRound() {
	if g.state == StateBetting {
		// Seated, not just active: a player who folded mid-street still has a
		// street commitment to sweep into the pot ledger.
		g.betting.CloseRound(g.table.Seated())
	}
}

func (g *Game) verifyChipConservation() {
	total := g.table.TotalChips()
	if total != g.startingChipTotal {
		g.fail(fmt.Errorf("game: chip conservation violated: have %d, started with %d", total, g.startingChipTotal))
	}
}

// NewDefaultCache is a convenience most drivers use at process start: one
// shared, lazily-built ranking cache for every Game.
func NewDefaultCache() *ranking.Cache {
	return ranking.NewCache(evaluator.DefaultSources()...)
}
