package table

import (
	"fmt"

	"github.com/lox/genericpoker/internal/card"
)

// TakeCards removes the named cards from the player's subset, by value,
// and returns them in the order found. It is the caller's responsibility
// (Game) to have already validated ownership, count, and visibility; a
// mismatch here is a programmer error, not player input, so it panics.
func (p *Player) TakeCards(subset string, cards []card.Card) []card.Card {
	if subset == "" {
		subset = unassignedSubset
	}
	have := p.Hand[subset]
	out := make([]card.Card, 0, len(cards))
	for _, want := range cards {
		idx := -1
		for i, c := range have {
			if c == want {
				idx = i
				break
			}
		}
		if idx < 0 {
			panic(fmt.Sprintf("table: player %s does not hold %v in subset %q", p.ID, want, subset))
		}
		out = append(out, have[idx])
		have = append(have[:idx], have[idx+1:]...)
	}
	p.Hand[subset] = have
	return out
}

// Discard removes the named cards from the player's hand without
// replacement, sending them to the muck (simply dropped; the engine keeps
// no discard pile beyond the deck's own draw log).
func (t *Table) Discard(p *Player, subset string, cards []card.Card) {
	p.TakeCards(subset, cards)
}

// ReplaceDrawn discards the named cards from subset and deals n replacement
// cards into the same subset in the given state. If preserveState is true,
// each replacement inherits the visibility of the card it replaced
// position-for-position.
func (t *Table) ReplaceDrawn(p *Player, subset string, discarded []card.Card, state card.Visibility, preserveState bool) []card.Card {
	removed := p.TakeCards(subset, discarded)
	fresh := t.Draw(len(discarded))
	for i := range fresh {
		v := state
		if preserveState && i < len(removed) {
			v = removed[i].Visibility
		}
		fresh[i].Visibility = v
	}
	p.AddCards(subset, fresh)
	return fresh
}

// ExposeAny flips the named cards face up in place, searching every subset
// the player holds.
func (t *Table) ExposeAny(p *Player, cards []card.Card) {
	for subset := range p.Hand {
		t.Expose(p, subset, cards)
	}
}

// Expose flips the named cards face up in place.
func (t *Table) Expose(p *Player, subset string, cards []card.Card) {
	if subset == "" {
		subset = unassignedSubset
	}
	have := p.Hand[subset]
	for _, want := range cards {
		for i, c := range have {
			if c == want {
				have[i] = c.FaceUp()
				if i < len(p.flippedEver[subset]) {
					p.flippedEver[subset][i] = true
				}
				break
			}
		}
	}
	p.Hand[subset] = have
}

// Pass moves the given cards from src's subset into dst's subset,
// preserving each card's current visibility.
func (t *Table) Pass(src, dst *Player, subset string, cards []card.Card) {
	moved := src.TakeCards(subset, cards)
	dst.AddCards(subset, moved)
}

// Separate moves count cards out of fromSubset into toSubset without
// drawing, for the separate step. Which specific cards move is
// the caller's choice (the player names them); Separate only performs the
// mechanical move.
func (t *Table) Separate(p *Player, fromSubset, toSubset string, cards []card.Card) {
	moved := p.TakeCards(fromSubset, cards)
	p.AddCards(toSubset, moved)
}

// RotationTargets returns, for each player in active (taken in the order
// given), the player they pass their cards to: the next one for "left",
// the previous one for "right", and the one halfway round for "across".
// Across requires an even number of active players.
func RotationTargets(active []*Player, direction string) (map[string]*Player, error) {
	n := len(active)
	if n == 0 {
		return nil, nil
	}
	targets := make(map[string]*Player, n)
	switch direction {
	case "left":
		for i, p := range active {
			targets[p.ID] = active[(i+1)%n]
		}
	case "right":
		for i, p := range active {
			targets[p.ID] = active[(i-1+n)%n]
		}
	case "across":
		if n%2 != 0 {
			return nil, fmt.Errorf("table: pass direction \"across\" requires an even number of players, got %d", n)
		}
		for i, p := range active {
			targets[p.ID] = active[(i+n/2)%n]
		}
	default:
		return nil, fmt.Errorf("table: unknown pass direction %q", direction)
	}
	return targets, nil
}
