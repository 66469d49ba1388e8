// Package table owns the physical game state: seating, the dealer button,
// named community card regions, the deck, and the deal/draw/discard/
// expose/pass/separate primitives that move cards between the deck and
// player hands while respecting visibility, with an arbitrary number of
// named subsets per player and named community regions per variant.
// Betting math lives in internal/betting; step sequencing lives in
// internal/game.
package table

import "github.com/lox/genericpoker/internal/card"

const unassignedSubset = "unassigned"

// DefaultSubset is where dealt cards land when a deal step names no subset.
const DefaultSubset = unassignedSubset

// Player is one seated participant's full state.
type Player struct {
	ID   string
	Name string
	Seat int

	Stack int

	IsActive bool // still contesting the pot this hand
	IsAllIn  bool

	// Hand partitions the player's cards by named subset; the zero value
	// subset is DefaultSubset.
	Hand map[string][]card.Card

	CurrentBetThisRound int
	TotalPutInThisHand  int

	TimeBankMillis int64

	// Declaration holds the player's secret showdown declaration(s), if the
	// variant's gamePlay includes a declare step.
	Declaration []string

	// Classification is an orthogonal showdown category (e.g. razz
	// face/butt) assigned by a rules-defined rule the driver or a
	// dedicated step computes.
	Classification string

	// GameChoices records every choose step's resolved value, keyed by the
	// step name, for conditional steps and for the projector to display.
	GameChoices map[string]string

	// flippedEver tracks, per subset and card position, whether a card has
	// ever been face up during the hand.
	flippedEver map[string][]bool

	// leaveIntent / removed model the deferred-removal lifecycle.
	leaveIntent bool
	removed     bool
}

// NewPlayer creates a seated player with an empty hand.
func NewPlayer(id, name string, seat, stack int) *Player {
	return &Player{
		ID:          id,
		Name:        name,
		Seat:        seat,
		Stack:       stack,
		Hand:        map[string][]card.Card{},
		GameChoices: map[string]string{},
		flippedEver: map[string][]bool{},
	}
}

// Cards returns every card the player holds across all subsets, in no
// guaranteed order.
func (p *Player) Cards() []card.Card {
	var out []card.Card
	for _, cs := range p.Hand {
		out = append(out, cs...)
	}
	return out
}

// HandSize is the player's total card count across subsets.
func (p *Player) HandSize() int {
	n := 0
	for _, cs := range p.Hand {
		n += len(cs)
	}
	return n
}

// AddCards appends cards to the named subset, creating it if necessary, and
// records their initial visibility in the exposure history.
func (p *Player) AddCards(subset string, cards []card.Card) {
	if subset == "" {
		subset = unassignedSubset
	}
	p.Hand[subset] = append(p.Hand[subset], cards...)
	for _, c := range cards {
		p.flippedEver[subset] = append(p.flippedEver[subset], c.Visibility == card.FaceUp)
	}
}

// RequestLeave marks the player's departure intent. The caller
// (Game) decides whether that is an immediate fold or a deferred one based
// on whose turn it currently is.
func (p *Player) RequestLeave() { p.leaveIntent = true }

// LeaveRequested reports whether RequestLeave has been called and the seat
// has not yet been cleared.
func (p *Player) LeaveRequested() bool { return p.leaveIntent }

// AnyExposed reports whether at least one card in the player's hand is
// currently face up.
func (p *Player) AnyExposed() bool {
	for _, cs := range p.Hand {
		for _, c := range cs {
			if c.Visibility == card.FaceUp {
				return true
			}
		}
	}
	return false
}

// AllExposed reports whether every card in the player's hand is currently
// face up. A player with no cards reports true (vacuously).
func (p *Player) AllExposed() bool {
	for _, cs := range p.Hand {
		for _, c := range cs {
			if c.Visibility != card.FaceUp {
				return false
			}
		}
	}
	return true
}

// NoneExposed is the complement of AnyExposed.
func (p *Player) NoneExposed() bool { return !p.AnyExposed() }

// EverFlippedFraction reports, of every card this player has ever held, the
// fraction that was flipped face up at some point during the hand — the
// literal reading of all/any/none_exposed: "whether every/any/no face-down
// card on the player has been flipped".
func (p *Player) EverFlippedFraction() (flipped, total int) {
	for _, flags := range p.flippedEver {
		for _, f := range flags {
			total++
			if f {
				flipped++
			}
		}
	}
	return
}
