package card

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeckComposition(t *testing.T) {
	d := NewDeck(Standard, 0, rand.New(rand.NewSource(1)))
	require.Equal(t, 52, d.Remaining())

	seen := map[Card]bool{}
	for {
		c, ok := d.Draw()
		if !ok {
			break
		}
		require.False(t, seen[c], "duplicate card %s", c)
		seen[c] = true
	}
	assert.Len(t, seen, 52)
}

func TestDeckWithJokers(t *testing.T) {
	d := NewDeck(Standard, 2, rand.New(rand.NewSource(1)))
	require.Equal(t, 54, d.Remaining())

	jokers := 0
	for _, c := range d.DrawN(54) {
		if c.IsJoker() {
			jokers++
		}
	}
	assert.Equal(t, 2, jokers)
}

func TestShortDeckKinds(t *testing.T) {
	cases := map[Kind]int{
		Standard:  52,
		Short6A:   36,
		ShortTA:   20,
		Short27JA: 40,
	}
	for kind, want := range cases {
		d := NewDeck(kind, 0, rand.New(rand.NewSource(1)))
		assert.Equal(t, want, d.Remaining(), "kind %s", kind)
	}
}

func TestDeckShuffleIsDeterministicForASeed(t *testing.T) {
	d1 := NewDeck(Standard, 0, rand.New(rand.NewSource(42)))
	d2 := NewDeck(Standard, 0, rand.New(rand.NewSource(42)))
	assert.Equal(t, d1.DrawN(52), d2.DrawN(52))
}

func TestDeckPushBackRewindsDrawLog(t *testing.T) {
	d := NewDeck(Standard, 0, rand.New(rand.NewSource(1)))
	c, ok := d.Draw()
	require.True(t, ok)
	require.Len(t, d.DrawLog(), 1)

	d.PushBack(c)
	assert.Empty(t, d.DrawLog())
	assert.Equal(t, 52, d.Remaining())
}

func TestMockDeckDealsSuppliedOrder(t *testing.T) {
	want := MustParseCards("AsKsQsJsTs")
	m := NewMockDeck(want)
	assert.Equal(t, 5, m.Remaining())
	got := m.DrawN(5)
	assert.Equal(t, want, got)
	assert.Equal(t, 0, m.Remaining())
	_, ok := m.Draw()
	assert.False(t, ok)
}
