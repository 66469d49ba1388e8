package game

import "github.com/lox/genericpoker/internal/card"

// EventKind is the closed set of observable occurrences the engine logs.
type EventKind string

const (
	EvButtonMoved       EventKind = "button_moved"
	EvForcedBet         EventKind = "forced_bet"
	EvDeal              EventKind = "deal"
	EvCheck             EventKind = "check"
	EvBet               EventKind = "bet"
	EvCall              EventKind = "call"
	EvRaise             EventKind = "raise"
	EvFold              EventKind = "fold"
	EvDraw              EventKind = "draw"
	EvDiscard           EventKind = "discard"
	EvExpose            EventKind = "expose"
	EvPass              EventKind = "pass"
	EvSeparate          EventKind = "separate"
	EvDeclare           EventKind = "declare"
	EvChoose            EventKind = "choose"
	EvRemove            EventKind = "remove"
	EvRollDie           EventKind = "roll_die"
	EvReplaceCommunity  EventKind = "replace_community"
	EvShowdownReveal    EventKind = "showdown_reveal"
	EvPotAwarded        EventKind = "pot_awarded"
	EvHandComplete      EventKind = "hand_complete"
)

// Event is one entry in the hand's append-only log. Not every field applies
// to every Kind; unused fields are left zero.
type Event struct {
	Kind     EventKind
	PlayerID string
	Detail   string
	Amount   int
	Cards    []card.Card
}
