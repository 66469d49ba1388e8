// Package betting implements the wagering manager: the per-round ledger,
// legal-action computation, and round-termination logic, covering the
// Check/Call/Bet/Raise/Fold vocabulary and the "facing a bet vs. not"
// branch under any of the three structures over an arbitrary street size.
// Pot and side-pot formation plus award distribution live in pots.go.
package betting

import (
	"github.com/lox/genericpoker/internal/actionerr"
	"github.com/lox/genericpoker/internal/rules"
	"github.com/lox/genericpoker/internal/table"
)

// ActionKind is the closed set of wagering actions a player may take.
type ActionKind string

const (
	Check ActionKind = "check"
	Bet   ActionKind = "bet"
	Call  ActionKind = "call"
	Raise ActionKind = "raise"
	Fold  ActionKind = "fold"
)

// Option is one legal action available to the player whose turn it is.
type Option struct {
	Kind ActionKind
	Min  int
	Max  int
}

// maxRaisesPerStreet is the Limit-structure cap.
const maxRaisesPerStreet = 4

// Manager tracks one betting round's ledger. A new Manager (or a call to
// StartRound) begins each street; the Game owns exactly one live Manager
// per hand and discards it once the hand ends.
type Manager struct {
	structure  rules.BettingStructure
	streetSize int // the Limit fixed increment; also NoLimit/PotLimit's minimum open

	priorPotTotal int // chips already in pots formed on earlier streets this hand

	currentBet  int
	minRaise    int
	raises      int
	headsUp     bool
	bets        map[string]*playerBet
	actedSince  map[string]bool
	order       []string // active player ids, turn order, fixed for the round
	closed      bool
	open        bool

	// noReraise holds the ids of players who had already acted this round
	// when a short (non-full) all-in raise landed; the short-raise rule bars them from
	// raising again until a subsequent full raise reopens action for
	// everyone. Nil means action is fully open.
	noReraise map[string]bool
}

type playerBet struct {
	amount  int
	allIn   bool
}

// NewManager constructs a Manager for one hand's sequence of rounds. Call
// StartRound at the top of each betting street.
func NewManager(structure rules.BettingStructure) *Manager {
	return &Manager{structure: structure}
}

// StartRound resets the ledger for a new street. streetSize is the Limit
// fixed bet size for this street (ignored by NoLimit/PotLimit except as the
// minimum opening bet); priorPotTotal is every chip already committed to
// pots from earlier streets this hand, needed for the PotLimit cap formula.
func (m *Manager) StartRound(active []*table.Player, streetSize, priorPotTotal int) {
	m.streetSize = streetSize
	m.priorPotTotal = priorPotTotal
	m.currentBet = 0
	m.minRaise = streetSize
	m.raises = 0
	m.headsUp = len(active) == 2
	m.bets = make(map[string]*playerBet, len(active))
	m.actedSince = make(map[string]bool, len(active))
	m.order = make([]string, 0, len(active))
	m.closed = false
	m.open = true
	m.noReraise = nil
	for _, p := range active {
		m.bets[p.ID] = &playerBet{}
		m.order = append(m.order, p.ID)
	}
}

// amountToCall is how much more p must add to match CurrentBet.
func (m *Manager) amountToCall(p *table.Player) int {
	owed := m.currentBet - m.bets[p.ID].amount
	if owed < 0 {
		return 0
	}
	return owed
}

// structureCap returns the maximum total-this-round amount a bet or raise
// may reach for p under the active structure.
func (m *Manager) structureCap(p *table.Player) int {
	switch m.structure {
	case rules.Limit:
		return m.currentBet + m.streetSize
	case rules.NoLimit:
		return m.bets[p.ID].amount + p.Stack
	case rules.PotLimit:
		toCall := m.amountToCall(p)
		// Pot-after-call = every chip already in pots, plus every chip
		// already committed by anyone this round, plus the call itself.
		roundTotal := 0
		for _, b := range m.bets {
			roundTotal += b.amount
		}
		potAfterCall := m.priorPotTotal + roundTotal + toCall
		maxTotal := m.currentBet + potAfterCall
		cap := m.bets[p.ID].amount + p.Stack
		if maxTotal < cap {
			cap = maxTotal
		}
		return cap
	default:
		return m.bets[p.ID].amount + p.Stack
	}
}

// LegalActions computes the per-turn action set for p.
func (m *Manager) LegalActions(p *table.Player) []Option {
	if p.IsAllIn || !p.IsActive {
		return nil
	}
	cap := m.structureCap(p)
	maxAdd := p.Stack

	if m.currentBet == 0 {
		opts := []Option{{Kind: Check}}
		if maxAdd > 0 {
			min := m.streetSize
			if min > cap-m.bets[p.ID].amount {
				min = cap - m.bets[p.ID].amount
			}
			if min > maxAdd {
				min = maxAdd
			}
			max := cap - m.bets[p.ID].amount
			if max > maxAdd {
				max = maxAdd
			}
			if max > 0 {
				opts = append(opts, Option{Kind: Bet, Min: min, Max: max})
			}
		}
		return opts
	}

	opts := []Option{{Kind: Fold}}
	toCall := m.amountToCall(p)
	if toCall > 0 {
		callAmt := toCall
		if callAmt > maxAdd {
			callAmt = maxAdd
		}
		opts = append(opts, Option{Kind: Call, Min: callAmt, Max: callAmt})
	} else {
		opts = append(opts, Option{Kind: Check})
	}

	raiseCapped := (m.structure == rules.Limit && !m.headsUp && m.raises >= maxRaisesPerStreet) || m.noReraise[p.ID]
	if !raiseCapped {
		minRaiseTo := m.currentBet + m.minRaise
		maxRaiseTo := cap
		addMin := minRaiseTo - m.bets[p.ID].amount
		addMax := maxRaiseTo - m.bets[p.ID].amount
		if addMax > maxAdd {
			addMax = maxAdd
		}
		if addMin > maxAdd {
			addMin = maxAdd // short all-in raise, still offered at the capped amount
		}
		if addMax > toCall && addMax > 0 {
			opts = append(opts, Option{Kind: Raise, Min: addMin, Max: addMax})
		}
	}
	return opts
}

// Apply validates and commits one action for p, adding amount on top of
// whatever p has already committed this round. amount is the TOTAL
// additional chips p puts in for Bet/Call/Raise (not the resulting street
// total); Fold and Check carry no amount.
func (m *Manager) Apply(p *table.Player, kind ActionKind, amount int) error {
	opts := m.LegalActions(p)
	var matched *Option
	for i := range opts {
		if opts[i].Kind == kind {
			matched = &opts[i]
			break
		}
	}
	if matched == nil {
		return actionerr.New(actionerr.ActionNotLegal, "action "+string(kind)+" is not available")
	}
	switch kind {
	case Fold:
		p.IsActive = false
	case Check:
	case Call, Bet, Raise:
		if amount < matched.Min || amount > matched.Max {
			return actionerr.New(actionerr.AmountOutOfRange, "amount out of range")
		}
		if amount > p.Stack {
			return actionerr.New(actionerr.InsufficientChips, "insufficient chips")
		}
		p.Stack -= amount
		bet := m.bets[p.ID]
		bet.amount += amount
		p.CurrentBetThisRound = bet.amount
		p.TotalPutInThisHand += amount
		if p.Stack == 0 {
			p.IsAllIn = true
			bet.allIn = true
		}
		if bet.amount > m.currentBet {
			// The opening Bet is not itself a raise and never counts
			// against the per-street raise cap; only a subsequent Raise
			// does, and only a full one (meeting or exceeding the last
			// increment) reopens action for players who already acted this
			// round — a short all-in raise does not.
			if kind == Raise {
				isFullRaise := bet.amount >= m.currentBet+m.minRaise
				if isFullRaise {
					m.minRaise = bet.amount - m.currentBet
					m.raises++
					m.resetActedExcept(p.ID)
					m.noReraise = nil
				} else {
					if m.noReraise == nil {
						m.noReraise = map[string]bool{}
					}
					for id, acted := range m.actedSince {
						if acted && id != p.ID {
							m.noReraise[id] = true
						}
					}
				}
			}
			m.currentBet = bet.amount
		}
	}
	m.actedSince[p.ID] = true
	return nil
}

func (m *Manager) resetActedExcept(id string) {
	for pid := range m.actedSince {
		m.actedSince[pid] = pid == id
	}
}

// RoundOver reports whether every active, non-all-in player has matched
// CurrentBet and acted at least once since the last aggressive action.
func (m *Manager) RoundOver(active []*table.Player) bool {
	liveCount := 0
	for _, p := range active {
		if !p.IsActive || p.IsAllIn {
			continue
		}
		liveCount++
		if m.bets[p.ID].amount != m.currentBet {
			return false
		}
		if !m.actedSince[p.ID] {
			return false
		}
	}
	return true
}

// CloseRound pushes every committed chip into contributions and zeroes the
// round ledger. TotalPutInThisHand already reflects the
// contribution (Apply updates it eagerly), so this only resets the
// per-round view.
func (m *Manager) CloseRound(active []*table.Player) {
	for _, p := range active {
		p.CurrentBetThisRound = 0
	}
	m.closed = true
	m.open = false
}

// IsOpen reports whether a round is currently in progress (or was just
// opened by a forced-bet posting this street) — used to tell a forced
// "post_blinds"/"bring-in" step apart from a later, fresh street so the
// voluntary bet step immediately following a forced one continues the same
// round instead of wiping out the blinds/bring-in already posted.
func (m *Manager) IsOpen() bool { return m.open }

// PostForced commits a forced bet (blind, ante, bring-in) outside the
// normal legal-action flow. If the player's stack is short, they post all-in for
// whatever they have.
func (m *Manager) PostForced(p *table.Player, amount int) int {
	if amount > p.Stack {
		amount = p.Stack
	}
	p.Stack -= amount
	bet := m.bets[p.ID]
	if bet == nil {
		bet = &playerBet{}
		m.bets[p.ID] = bet
	}
	bet.amount += amount
	p.CurrentBetThisRound = bet.amount
	p.TotalPutInThisHand += amount
	if bet.amount > m.currentBet {
		m.currentBet = bet.amount
	}
	if p.Stack == 0 {
		p.IsAllIn = true
		bet.allIn = true
	}
	return amount
}

// PostAnte commits dead money: the chips go straight toward the player's
// hand total without raising the round's current bet or counting as the
// player's street commitment, so an ante (or a protection fee) never forces
// anyone else to call it. Short stacks post all-in for whatever they have.
func (m *Manager) PostAnte(p *table.Player, amount int) int {
	if amount > p.Stack {
		amount = p.Stack
	}
	p.Stack -= amount
	p.TotalPutInThisHand += amount
	if p.Stack == 0 {
		p.IsAllIn = true
	}
	return amount
}

// CurrentBet returns the round's current high-water mark.
func (m *Manager) CurrentBet() int { return m.currentBet }
