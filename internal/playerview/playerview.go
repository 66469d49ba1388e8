// Package playerview projects a pure, non-mutating snapshot of a Game from
// one observer's perspective, hiding every other player's face-down cards
// while still showing the observer their own: redact what the viewer
// shouldn't see, then enumerate what they can do.
package playerview

import (
	"github.com/lox/genericpoker/internal/card"
	"github.com/lox/genericpoker/internal/game"
)

// CardView is one card as a given observer may see it. A hidden card
// carries ShowsBack true and no rank/suit.
type CardView struct {
	Rank     string
	Suit     string
	FaceUp   bool
	ShowsBack bool
}

func project(c card.Card, reveal bool) CardView {
	if c.Visibility == card.FaceUp || reveal {
		return CardView{Rank: c.Rank.String(), Suit: c.Suit.String(), FaceUp: c.Visibility == card.FaceUp}
	}
	return CardView{ShowsBack: true}
}

// SeatView is one seated player as the observer sees them.
type SeatView struct {
	ID             string
	Name           string
	Seat           int
	Stack          int
	IsActive       bool
	IsAllIn        bool
	Hand           map[string][]CardView
	TimeBankMillis int64
}

// View is the complete per-observer snapshot.
type View struct {
	State         game.State
	CurrentPlayer string
	ObserverID    string
	Seats         []SeatView
	Community     map[string][]CardView
	ValidActions  []game.ActionOption
	Result        *game.GameResult
}

// For builds the snapshot visible to observerID. Passing "" (a spectator
// with no seat) hides every hole card.
func For(g *game.Game, observerID string) View {
	t := g.Table()
	v := View{
		State:         g.State(),
		CurrentPlayer: g.CurrentPlayer(),
		ObserverID:    observerID,
		Community:     map[string][]CardView{},
		ValidActions:  g.ValidActions(observerID),
		Result:        g.Result(),
	}
	for _, region := range t.CommunityRegions() {
		cards := t.Community(region)
		views := make([]CardView, len(cards))
		for i, c := range cards {
			views[i] = project(c, false)
		}
		v.Community[region] = views
	}
	for _, p := range t.Seated() {
		reveal := p.ID == observerID
		sv := SeatView{ID: p.ID, Name: p.Name, Seat: p.Seat, Stack: p.Stack, IsActive: p.IsActive, IsAllIn: p.IsAllIn, Hand: map[string][]CardView{}, TimeBankMillis: g.TimeBankRemaining(p.ID)}
		for subset, cards := range p.Hand {
			views := make([]CardView, len(cards))
			for i, c := range cards {
				views[i] = project(c, reveal)
			}
			sv.Hand[subset] = views
		}
		v.Seats = append(v.Seats, sv)
	}
	return v
}
