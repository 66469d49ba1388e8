package card

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCards(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Card
		wantErr  bool
	}{
		{
			name:  "royal flush",
			input: "AsKsQsJsTs",
			expected: []Card{
				New(Ace, Spades), New(King, Spades), New(Queen, Spades),
				New(Jack, Spades), New(Ten, Spades),
			},
		},
		{
			name:  "case insensitive",
			input: "asKHqDjc",
			expected: []Card{
				New(Ace, Spades), New(King, Hearts), New(Queen, Diamonds), New(Jack, Clubs),
			},
		},
		{
			name:  "joker",
			input: "XxAs",
			expected: []Card{
				NewJoker(), New(Ace, Spades),
			},
		},
		{name: "invalid rank", input: "ZsKs", wantErr: true},
		{name: "invalid suit", input: "AzKs", wantErr: true},
		{name: "odd length", input: "As2", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCards(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCardKeyIsOrderIndependentForIdenticalCards(t *testing.T) {
	a := New(Ace, Spades)
	b := New(Ace, Spades)
	assert.Equal(t, a.Key(), b.Key())
}

func TestWildRoleRoundTrip(t *testing.T) {
	c := New(Two, Clubs)
	require.False(t, c.IsWild())
	wild := c.WithWildRole(RoleWild)
	assert.True(t, wild.IsWild())
	assert.False(t, wild.IsBug())
	bug := c.WithWildRole(RoleBug)
	assert.True(t, bug.IsBug())
}

func TestVisibilityToggle(t *testing.T) {
	c := New(King, Hearts)
	assert.Equal(t, FaceDown, c.Visibility)
	assert.Equal(t, FaceUp, c.FaceUp().Visibility)
	assert.Equal(t, FaceDown, c.FaceUp().FaceDown().Visibility)
}
