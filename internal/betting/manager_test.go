package betting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/genericpoker/internal/rules"
	"github.com/lox/genericpoker/internal/table"
)

func seatPlayers(stacks map[string]int) []*table.Player {
	out := make([]*table.Player, 0, len(stacks))
	i := 0
	for id, stack := range stacks {
		p := table.NewPlayer(id, id, i, stack)
		p.IsActive = true
		out = append(out, p)
		i++
	}
	return out
}

func TestLegalActionsNoBetYetOffersCheckAndBet(t *testing.T) {
	active := seatPlayers(map[string]int{"A": 100, "B": 100})
	m := NewManager(rules.NoLimit)
	m.StartRound(active, 10, 0)

	opts := m.LegalActions(active[0])
	kinds := map[ActionKind]bool{}
	for _, o := range opts {
		kinds[o.Kind] = true
	}
	assert.True(t, kinds[Check])
	assert.True(t, kinds[Bet])
	assert.False(t, kinds[Fold])
}

func TestLegalActionsFacingABetOffersFoldCallRaise(t *testing.T) {
	active := seatPlayers(map[string]int{"A": 100, "B": 100})
	m := NewManager(rules.NoLimit)
	m.StartRound(active, 10, 0)
	require.NoError(t, m.Apply(active[0], Bet, 10))

	opts := m.LegalActions(active[1])
	kinds := map[ActionKind]Option{}
	for _, o := range opts {
		kinds[o.Kind] = o
	}
	assert.Contains(t, kinds, Fold)
	assert.Contains(t, kinds, Call)
	assert.Equal(t, 10, kinds[Call].Min)
	assert.Contains(t, kinds, Raise)
}

func TestLimitCapsRaisesAtFourExceptHeadsUp(t *testing.T) {
	active := seatPlayers(map[string]int{"A": 1000, "B": 1000, "C": 1000})
	m := NewManager(rules.Limit)
	m.StartRound(active, 10, 0)

	// A bets, B raises, C raises, A raises, B raises: that's 4 raises after
	// the opening bet. A 5th raise should not be offered. Amounts are chips
	// added; each raise lifts the current bet by one street size (10).
	require.NoError(t, m.Apply(active[0], Bet, 10))
	require.NoError(t, m.Apply(active[1], Raise, 20))
	require.NoError(t, m.Apply(active[2], Raise, 30))
	require.NoError(t, m.Apply(active[0], Raise, 30))
	require.NoError(t, m.Apply(active[1], Raise, 30))

	opts := m.LegalActions(active[2])
	for _, o := range opts {
		assert.NotEqual(t, Raise, o.Kind, "5th raise must not be legal at the Limit cap")
	}
}

func TestShortAllInRaiseDoesNotReopenActionForPlayersAlreadyActed(t *testing.T) {
	a := table.NewPlayer("A", "A", 0, 1000)
	b := table.NewPlayer("B", "B", 1, 1000)
	c := table.NewPlayer("C", "C", 2, 15)
	a.IsActive, b.IsActive, c.IsActive = true, true, true
	active := []*table.Player{a, b, c}

	m := NewManager(rules.NoLimit)
	m.StartRound(active, 10, 0)

	require.NoError(t, m.Apply(a, Bet, 10))
	require.NoError(t, m.Apply(b, Call, 10))
	// C goes all-in for only 15 total: a raise of 5 on top of the current
	// bet of 10, short of the 10-chip full-raise increment.
	require.NoError(t, m.Apply(c, Raise, 15))
	assert.True(t, c.IsAllIn)

	// A and B already acted this round and face a short raise: they may
	// call the extra 5 or fold, but not raise again.
	for _, p := range []*table.Player{a, b} {
		opts := m.LegalActions(p)
		for _, o := range opts {
			assert.NotEqual(t, Raise, o.Kind, "player %s should not be able to re-raise a short all-in", p.ID)
		}
	}
}

func TestFullRaiseReopensActionEvenAfterAShortAllIn(t *testing.T) {
	a := table.NewPlayer("A", "A", 0, 1000)
	b := table.NewPlayer("B", "B", 1, 15)
	c := table.NewPlayer("C", "C", 2, 1000)
	a.IsActive, b.IsActive, c.IsActive = true, true, true
	active := []*table.Player{a, b, c}

	m := NewManager(rules.NoLimit)
	m.StartRound(active, 10, 0)

	require.NoError(t, m.Apply(a, Bet, 10))
	require.NoError(t, m.Apply(b, Raise, 15)) // short all-in raise, bars A
	require.NoError(t, m.Apply(c, Raise, 50))  // full raise: reopens for everyone

	opts := m.LegalActions(a)
	var hasRaise bool
	for _, o := range opts {
		if o.Kind == Raise {
			hasRaise = true
		}
	}
	assert.True(t, hasRaise, "a full raise must reopen action even for a player barred by an earlier short all-in")
}

func TestRoundOverRequiresEveryoneMatchedAndActed(t *testing.T) {
	active := seatPlayers(map[string]int{"A": 100, "B": 100})
	m := NewManager(rules.NoLimit)
	m.StartRound(active, 10, 0)

	assert.False(t, m.RoundOver(active))
	require.NoError(t, m.Apply(active[0], Check, 0))
	assert.False(t, m.RoundOver(active))
	require.NoError(t, m.Apply(active[1], Check, 0))
	assert.True(t, m.RoundOver(active))
}

func TestPotLimitCapIsPotPlusBetsPlusCall(t *testing.T) {
	active := seatPlayers(map[string]int{"A": 1000, "B": 1000})
	m := NewManager(rules.PotLimit)
	m.StartRound(active, 10, 100) // 100 already in pots from earlier streets

	require.NoError(t, m.Apply(active[0], Bet, 20))
	opts := m.LegalActions(active[1])
	var raise Option
	for _, o := range opts {
		if o.Kind == Raise {
			raise = o
		}
	}
	// Pot after call = 100 (prior) + 20 (A's bet) + 20 (B's call) = 140;
	// max raise-to total = currentBet(20) + potAfterCall(140) = 160, so B
	// may add up to 160 chips this round.
	assert.Equal(t, 160, raise.Max)
}

func TestPostForcedAllInWhenShortOfFullBlind(t *testing.T) {
	p := table.NewPlayer("A", "A", 0, 5)
	p.IsActive = true
	m := NewManager(rules.Limit)
	m.StartRound([]*table.Player{p}, 10, 0)

	posted := m.PostForced(p, 10)
	assert.Equal(t, 5, posted)
	assert.Equal(t, 0, p.Stack)
	assert.True(t, p.IsAllIn)
}
