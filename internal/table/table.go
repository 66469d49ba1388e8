package table

import (
	"fmt"
	"sort"

	"github.com/lox/genericpoker/internal/card"
)

// Table outlives any single hand: seats and the button persist across
// hands; a new Game resets the per-hand portions, including the deck, via
// ResetForHand.
type Table struct {
	seats map[int]*Player
	order []int // seat indices in clockwise order, fixed at construction

	dealerSeat int
	haveDealt  bool // false until the first hand has moved the button once

	deck    card.Source
	drawLog []card.Card

	community      map[string][]card.Card
	communityOrder []string // first-reference order, for deterministic projection

	// scalars holds non-card community state, e.g. a roll_die result
	// recorded against a named region.
	scalars map[string]int
}

// New creates an empty table with room for maxSeats seats, numbered
// 0..maxSeats-1 clockwise.
func New(maxSeats int) *Table {
	order := make([]int, maxSeats)
	for i := range order {
		order[i] = i
	}
	return &Table{
		seats:     map[int]*Player{},
		order:     order,
		community: map[string][]card.Card{},
		scalars:   map[string]int{},
	}
}

// AddPlayer seats a player. It is a configuration error for the seat to
// already be occupied or out of range.
func (t *Table) AddPlayer(id, name string, seat, stack int) error {
	if seat < 0 || seat >= len(t.order) {
		return fmt.Errorf("table: seat %d out of range [0,%d)", seat, len(t.order))
	}
	if _, ok := t.seats[seat]; ok {
		return fmt.Errorf("table: seat %d already occupied", seat)
	}
	t.seats[seat] = NewPlayer(id, name, seat, stack)
	return nil
}

// RemovePlayer clears a seat immediately. Mid-hand removal is the Game's
// responsibility: it should call RequestLeave on the Player instead
// and only call RemovePlayer once the hand reaches a boundary.
func (t *Table) RemovePlayer(id string) {
	for seat, p := range t.seats {
		if p.ID == id {
			delete(t.seats, seat)
			return
		}
	}
}

// Player returns the player with the given id, or nil.
func (t *Table) Player(id string) *Player {
	for _, p := range t.seats {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Seated returns every seated player ordered by seat index.
func (t *Table) Seated() []*Player {
	seats := make([]int, 0, len(t.seats))
	for s := range t.seats {
		seats = append(seats, s)
	}
	sort.Ints(seats)
	out := make([]*Player, 0, len(seats))
	for _, s := range seats {
		out = append(out, t.seats[s])
	}
	return out
}

// DealerSeat returns the current button's seat index.
func (t *Table) DealerSeat() int { return t.dealerSeat }

// MoveButton advances the button to the next occupied seat clockwise,
// skipping empty seats. The very first hand leaves the button wherever it was
// constructed (seat 0) if that seat is occupied, else advances to find one.
func (t *Table) MoveButton() {
	if len(t.seats) == 0 {
		return
	}
	if !t.haveDealt {
		t.haveDealt = true
		if _, ok := t.seats[t.dealerSeat]; ok {
			return
		}
	}
	start := t.dealerSeat
	for i := 1; i <= len(t.order); i++ {
		next := (start + i) % len(t.order)
		if _, ok := t.seats[next]; ok {
			t.dealerSeat = next
			return
		}
	}
}

// SeatsClockwiseFrom returns every occupied seat's player once, starting
// just after fromSeat and wrapping around, so fromSeat's own player (if
// any) comes last.
func (t *Table) SeatsClockwiseFrom(fromSeat int) []*Player {
	out := make([]*Player, 0, len(t.seats))
	for i := 1; i <= len(t.order); i++ {
		seat := (fromSeat + i) % len(t.order)
		if p, ok := t.seats[seat]; ok {
			out = append(out, p)
		}
	}
	return out
}

// ActivePlayers returns seated players still contesting the pot, in seat
// order starting after the button.
func (t *Table) ActivePlayers() []*Player {
	var out []*Player
	for _, p := range t.SeatsClockwiseFrom(t.dealerSeat) {
		if p.IsActive {
			out = append(out, p)
		}
	}
	return out
}

// ResetForHand clears per-hand state: cards return to nobody, every seated
// player with a positive stack becomes active, the deck is replaced, and
// the button moves.
func (t *Table) ResetForHand(deck card.Source) {
	t.MoveButton()
	t.deck = deck
	t.drawLog = nil
	t.community = map[string][]card.Card{}
	t.communityOrder = nil
	t.scalars = map[string]int{}
	for _, p := range t.seats {
		p.Hand = map[string][]card.Card{}
		p.GameChoices = map[string]string{}
		p.flippedEver = map[string][]bool{}
		p.CurrentBetThisRound = 0
		p.TotalPutInThisHand = 0
		p.Declaration = nil
		p.Classification = ""
		p.IsAllIn = false
		p.leaveIntent = false
		p.IsActive = p.Stack > 0 && !p.removed
	}
}

// ApplyDeferredRemovals clears any seat whose occupant asked to leave
// out-of-turn during the hand that just ended.
func (t *Table) ApplyDeferredRemovals() {
	for seat, p := range t.seats {
		if p.leaveIntent {
			delete(t.seats, seat)
		}
	}
}

// Deck exposes the active deck for steps (bet amounts, bring-in selection)
// that need it read-only.
func (t *Table) Deck() card.Source { return t.deck }

// Draw pulls n cards from the deck, recording them in the table-level draw
// log. It returns
// fewer than n cards, never an error, if the deck runs out; callers treat a
// short draw against a non-optional deal as engine-fatal.
func (t *Table) Draw(n int) []card.Card {
	cards := t.deck.DrawN(n)
	t.drawLog = append(t.drawLog, cards...)
	return cards
}

// DrawLog returns every card drawn from the deck so far this hand, in order.
func (t *Table) DrawLog() []card.Card {
	out := make([]card.Card, len(t.drawLog))
	copy(out, t.drawLog)
	return out
}

// DealToPlayer gives n freshly-drawn cards, in the requested state, to the
// player's named subset. The returned slice aliases the cards now held in
// the subset, so the caller may tag wild roles on it and have them stick.
func (t *Table) DealToPlayer(p *Player, n int, state card.Visibility, subset string) []card.Card {
	cards := t.Draw(n)
	for i := range cards {
		cards[i].Visibility = state
	}
	p.AddCards(subset, cards)
	if subset == "" {
		subset = unassignedSubset
	}
	held := p.Hand[subset]
	return held[len(held)-len(cards):]
}

// DealToCommunity gives n freshly-drawn cards to a named community region,
// creating the region on first reference. As with DealToPlayer, the returned slice aliases the
// region's stored cards.
func (t *Table) DealToCommunity(region string, n int, state card.Visibility) []card.Card {
	cards := t.Draw(n)
	for i := range cards {
		cards[i].Visibility = state
	}
	if _, ok := t.community[region]; !ok {
		t.communityOrder = append(t.communityOrder, region)
	}
	t.community[region] = append(t.community[region], cards...)
	stored := t.community[region]
	return stored[len(stored)-len(cards):]
}

// Community returns the named region's current cards.
func (t *Table) Community(region string) []card.Card { return t.community[region] }

// CommunityRegions returns every region name in first-reference order.
func (t *Table) CommunityRegions() []string {
	out := make([]string, len(t.communityOrder))
	copy(out, t.communityOrder)
	return out
}

// AllCommunity flattens every region into one map, for the selector.
func (t *Table) AllCommunity() map[string][]card.Card {
	out := make(map[string][]card.Card, len(t.community))
	for k, v := range t.community {
		cp := make([]card.Card, len(v))
		copy(cp, v)
		out[k] = cp
	}
	return out
}

// RemoveCommunityRegion deletes a region entirely.
func (t *Table) RemoveCommunityRegion(region string) {
	delete(t.community, region)
	for i, r := range t.communityOrder {
		if r == region {
			t.communityOrder = append(t.communityOrder[:i], t.communityOrder[i+1:]...)
			break
		}
	}
}

// SetScalar records a non-card community value (roll_die's result).
func (t *Table) SetScalar(name string, value int) { t.scalars[name] = value }

// Scalar returns a previously recorded scalar and whether it was set.
func (t *Table) Scalar(name string) (int, bool) { v, ok := t.scalars[name]; return v, ok }

// TotalChips sums every seated player's stack plus every chip currently
// committed this round, for the chip-conservation invariant; the betting
// manager's pot ledger is added by the caller since the table itself does
// not track pot contents.
func (t *Table) TotalChips() int {
	total := 0
	for _, p := range t.seats {
		total += p.Stack + p.CurrentBetThisRound
	}
	return total
}
