package table_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/genericpoker/internal/card"
	"github.com/lox/genericpoker/internal/table"
)

func newTable(t *testing.T, stacks map[int]int) *table.Table {
	t.Helper()
	maxSeat := 0
	for seat := range stacks {
		if seat > maxSeat {
			maxSeat = seat
		}
	}
	tbl := table.New(maxSeat + 1)
	for seat, stack := range stacks {
		require.NoError(t, tbl.AddPlayer(playerID(seat), playerID(seat), seat, stack))
	}
	return tbl
}

func playerID(seat int) string {
	return string(rune('a' + seat))
}

func emptyDeck() card.Source { return card.NewMockDeck(nil) }

func TestButtonSkipsEmptySeats(t *testing.T) {
	tbl := newTable(t, map[int]int{0: 100, 3: 100, 4: 100})

	tbl.ResetForHand(emptyDeck())
	assert.Equal(t, 0, tbl.DealerSeat(), "first hand keeps the button where it started")

	tbl.ResetForHand(emptyDeck())
	assert.Equal(t, 3, tbl.DealerSeat(), "seats 1 and 2 are empty and must be skipped")

	tbl.ResetForHand(emptyDeck())
	assert.Equal(t, 4, tbl.DealerSeat())

	tbl.ResetForHand(emptyDeck())
	assert.Equal(t, 0, tbl.DealerSeat(), "button wraps around")
}

func TestResetForHandActivatesOnlyFundedPlayers(t *testing.T) {
	tbl := newTable(t, map[int]int{0: 100, 1: 0})
	tbl.ResetForHand(emptyDeck())

	assert.True(t, tbl.Player("a").IsActive)
	assert.False(t, tbl.Player("b").IsActive, "a busted stack cannot be dealt in")
}

func TestDealToPlayerSetsVisibilityAndSubset(t *testing.T) {
	tbl := newTable(t, map[int]int{0: 100})
	tbl.ResetForHand(card.NewMockDeck(card.MustParseCards("AsKs2d")))

	p := tbl.Player("a")
	dealt := tbl.DealToPlayer(p, 2, card.FaceDown, "")
	require.Len(t, dealt, 2)
	assert.Equal(t, card.FaceDown, dealt[0].Visibility)
	assert.Len(t, p.Hand[table.DefaultSubset], 2)

	up := tbl.DealToPlayer(p, 1, card.FaceUp, "door")
	require.Len(t, up, 1)
	assert.Equal(t, card.FaceUp, up[0].Visibility)
	assert.Len(t, p.Hand["door"], 1)
	assert.Equal(t, 3, p.HandSize())
}

func TestDealToCommunityCreatesRegionOnFirstReference(t *testing.T) {
	tbl := newTable(t, map[int]int{0: 100})
	tbl.ResetForHand(card.NewMockDeck(card.MustParseCards("AsKsQs2d")))

	tbl.DealToCommunity("Flop 1", 3, card.FaceUp)
	tbl.DealToCommunity("Turn", 1, card.FaceUp)

	assert.Equal(t, []string{"Flop 1", "Turn"}, tbl.CommunityRegions())
	assert.Len(t, tbl.Community("Flop 1"), 3)
	assert.Len(t, tbl.Community("Turn"), 1)
}

func TestPassPreservesVisibility(t *testing.T) {
	tbl := newTable(t, map[int]int{0: 100, 1: 100})
	tbl.ResetForHand(card.NewMockDeck(card.MustParseCards("AsKs")))

	src, dst := tbl.Player("a"), tbl.Player("b")
	tbl.DealToPlayer(src, 1, card.FaceDown, "")
	tbl.DealToPlayer(src, 1, card.FaceUp, "")

	held := append([]card.Card(nil), src.Hand[table.DefaultSubset]...)
	tbl.Pass(src, dst, table.DefaultSubset, held)

	assert.Empty(t, src.Hand[table.DefaultSubset])
	got := dst.Hand[table.DefaultSubset]
	require.Len(t, got, 2)
	assert.Equal(t, card.FaceDown, got[0].Visibility)
	assert.Equal(t, card.FaceUp, got[1].Visibility)
}

func TestSeparatePartitionsWithoutDrawing(t *testing.T) {
	tbl := newTable(t, map[int]int{0: 100})
	tbl.ResetForHand(card.NewMockDeck(card.MustParseCards("AsKsQsJs2d")))

	p := tbl.Player("a")
	tbl.DealToPlayer(p, 5, card.FaceDown, "")
	moved := append([]card.Card(nil), p.Hand[table.DefaultSubset][:2]...)
	tbl.Separate(p, table.DefaultSubset, "two_card", moved)

	assert.Len(t, p.Hand[table.DefaultSubset], 3)
	assert.Len(t, p.Hand["two_card"], 2)
	assert.Equal(t, 5, p.HandSize())
}

func TestExposeFlipsAndRecordsHistory(t *testing.T) {
	tbl := newTable(t, map[int]int{0: 100})
	tbl.ResetForHand(card.NewMockDeck(card.MustParseCards("AsKs")))

	p := tbl.Player("a")
	tbl.DealToPlayer(p, 2, card.FaceDown, "")
	first := p.Hand[table.DefaultSubset][0]
	tbl.Expose(p, table.DefaultSubset, []card.Card{first})

	assert.Equal(t, card.FaceUp, p.Hand[table.DefaultSubset][0].Visibility)
	assert.Equal(t, card.FaceDown, p.Hand[table.DefaultSubset][1].Visibility)
	flipped, total := p.EverFlippedFraction()
	assert.Equal(t, 1, flipped)
	assert.Equal(t, 2, total)
}

func TestRotationTargets(t *testing.T) {
	players := []*table.Player{
		table.NewPlayer("a", "a", 0, 100),
		table.NewPlayer("b", "b", 1, 100),
		table.NewPlayer("c", "c", 2, 100),
		table.NewPlayer("d", "d", 3, 100),
	}

	left, err := table.RotationTargets(players, "left")
	require.NoError(t, err)
	assert.Equal(t, "b", left["a"].ID)
	assert.Equal(t, "a", left["d"].ID)

	across, err := table.RotationTargets(players, "across")
	require.NoError(t, err)
	assert.Equal(t, "c", across["a"].ID)

	_, err = table.RotationTargets(players[:3], "across")
	assert.Error(t, err, "across needs an even player count")

	_, err = table.RotationTargets(players, "sideways")
	assert.Error(t, err)
}

func TestDeferredRemovalClearsSeatAtHandBoundary(t *testing.T) {
	tbl := newTable(t, map[int]int{0: 100, 1: 100})
	tbl.ResetForHand(emptyDeck())

	tbl.Player("b").RequestLeave()
	require.NotNil(t, tbl.Player("b"))

	tbl.ApplyDeferredRemovals()
	assert.Nil(t, tbl.Player("b"))
	assert.NotNil(t, tbl.Player("a"))
}

func TestDrawLogRecordsExactOrder(t *testing.T) {
	tbl := newTable(t, map[int]int{0: 100})
	want := card.MustParseCards("AsKsQs")
	tbl.ResetForHand(card.NewMockDeck(want))

	tbl.Draw(2)
	tbl.Draw(1)
	log := tbl.DrawLog()
	require.Len(t, log, 3)
	for i, c := range want {
		assert.Equal(t, c.Rank, log[i].Rank)
		assert.Equal(t, c.Suit, log[i].Suit)
	}
}
