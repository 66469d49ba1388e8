// End-to-end scenarios from the hand state machine's testable properties:
// chip conservation, pot correctness under all-ins, and deterministic
// replay, driven the way a real frontend would — start_hand, then
// player_action calls in turn order, reading state back through the public
// surface only.
package game_test

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lox/genericpoker/internal/card"
	"github.com/lox/genericpoker/internal/evaluator"
	"github.com/lox/genericpoker/internal/game"
	"github.com/lox/genericpoker/internal/rules"
	"github.com/lox/genericpoker/internal/table"
)

// testEval shares one ranking cache across every test in the package, the
// way a real deployment shares it across Games; each table still builds
// lazily on first use.
var testEval = evaluator.New(game.NewDefaultCache())

func newHoldemGame(t *testing.T, seats map[int]struct {
	id    string
	stack int
}) (*game.Game, *rules.Rules) {
	t.Helper()
	r, err := rules.Load("../../testdata/rules/texas_holdem.json")
	require.NoError(t, err)

	tbl := table.New(len(seats))
	for seat, p := range seats {
		require.NoError(t, tbl.AddPlayer(p.id, p.id, seat, p.stack))
	}

	g, err := game.New(r, rules.NoLimit, game.Stakes{Unit: 1, SmallBet: 1, BigBet: 2}, tbl, testEval, nil)
	require.NoError(t, err)
	return g, r
}

// passiveChoice is the default passive action: check over call, stand
// pat on draws, the first offered value on choose/declare, minimum otherwise.
func passiveChoice(opts []game.ActionOption) game.PlayerActionInput {
	for _, o := range opts {
		if o.Kind == game.OptCheck {
			return game.PlayerActionInput{Kind: o.Kind}
		}
	}
	for _, o := range opts {
		if o.Kind == game.OptCall {
			return game.PlayerActionInput{Kind: o.Kind, Amount: o.Min}
		}
	}
	o := opts[0]
	switch o.Kind {
	case game.OptDraw, game.OptDiscard, game.OptExpose:
		return game.PlayerActionInput{Kind: o.Kind}
	case game.OptChoose:
		return game.PlayerActionInput{Kind: o.Kind, ChooseValue: o.Choices[0]}
	case game.OptDeclare:
		return game.PlayerActionInput{Kind: o.Kind, Declaration: []string{o.Choices[0]}}
	}
	return game.PlayerActionInput{Kind: o.Kind, Amount: o.Min}
}

// playPassively drives a started hand to COMPLETE using passiveChoice at
// every decision point.
func playPassively(t *testing.T, g *game.Game) {
	t.Helper()
	for steps := 0; g.State() != game.StateComplete; steps++ {
		require.Less(t, steps, 200, "hand did not complete")
		require.Nil(t, g.FatalError())
		cur := g.CurrentPlayer()
		require.NotEmpty(t, cur, "stalled without a current player in state %s", g.State())
		opts := g.ValidActions(cur)
		require.NotEmpty(t, opts)
		res := g.PlayerAction(cur, passiveChoice(opts))
		require.True(t, res.OK, "%v", res.Err)
	}
	require.Nil(t, g.FatalError())
}

// Hold'em heads-up, stakes 1/2, stacks 100/100: preflop the
// player to act folds and the pot (the sum of both blinds) goes entirely to
// the other player.
func TestHeadsUpPreflopFoldAwardsPotToRemainingPlayer(t *testing.T) {
	g, _ := newHoldemGame(t, map[int]struct {
		id    string
		stack int
	}{
		0: {"p0", 100},
		1: {"p1", 100},
	})

	require.NoError(t, g.StartHand(1, nil))
	require.Equal(t, game.StateBetting, g.State())

	blindTotal := 0
	for _, e := range g.Events() {
		if e.Kind == game.EvForcedBet {
			blindTotal += e.Amount
		}
	}
	require.Equal(t, 3, blindTotal)

	blindOf := map[string]int{}
	for _, e := range g.Events() {
		if e.Kind == game.EvForcedBet {
			blindOf[e.PlayerID] += e.Amount
		}
	}

	cur := g.CurrentPlayer()
	require.NotEmpty(t, cur)
	var other string
	for _, p := range g.Table().Seated() {
		if p.ID != cur {
			other = p.ID
		}
	}

	res := g.PlayerAction(cur, game.PlayerActionInput{Kind: game.OptFold})
	require.True(t, res.OK, "%v", res.Err)
	require.NoError(t, g.Advance())

	require.Equal(t, game.StateComplete, g.State())
	require.NotNil(t, g.Result())
	require.True(t, g.Result().Unopposed)
	require.Nil(t, g.FatalError())

	require.Equal(t, 100-blindOf[cur], g.Table().Player(cur).Stack)
	require.Equal(t, 100-blindOf[other]+blindTotal, g.Table().Player(other).Stack)
	totalAfter := g.Table().Player("p0").Stack + g.Table().Player("p1").Stack
	require.Equal(t, 200, totalAfter)
}

// Three-handed all-in cascade. Stacks 10/40/100; every
// player shoves their entire remaining stack the moment it's their turn, the
// textbook case for exactly three pots: 30 (all three eligible), 60 (the two
// larger stacks eligible), and 0 (the stack-100 player's excess, uncontested
// and refunded).
func TestThreeHandedAllInCascadeFormsThreeEligiblePots(t *testing.T) {
	g, _ := newHoldemGame(t, map[int]struct {
		id    string
		stack int
	}{
		0: {"a", 10},
		1: {"b", 40},
		2: {"c", 100},
	})

	// Hole cards go out clockwise from the seat after the button (b, c, a);
	// c is dealt the nut hand so both contested pots land on one player.
	deck := card.NewMockDeck(card.MustParseCards(
		"7c2d" + "AsAh" + "9h8h" + // hole: b, c, a
			"AdKcQc" + "2s" + "3d")) // board
	require.NoError(t, g.StartHand(7, deck))

	for g.State() == game.StateBetting {
		cur := g.CurrentPlayer()
		require.NotEmpty(t, cur)
		opts := g.ValidActions(cur)
		require.NotEmpty(t, opts)

		var chosen *game.ActionOption
		for i := range opts {
			if opts[i].Kind == game.OptRaise || opts[i].Kind == game.OptBet {
				chosen = &opts[i]
			}
		}
		var res *game.ActionResult
		if chosen != nil {
			res = g.PlayerAction(cur, game.PlayerActionInput{Kind: chosen.Kind, Amount: chosen.Max})
		} else {
			for i := range opts {
				if opts[i].Kind == game.OptCall {
					chosen = &opts[i]
				}
			}
			require.NotNil(t, chosen, "player %s has no bet/raise/call option", cur)
			res = g.PlayerAction(cur, game.PlayerActionInput{Kind: game.OptCall, Amount: chosen.Min})
		}
		require.True(t, res.OK, "%v", res.Err)
	}

	require.Equal(t, game.StateComplete, g.State())
	require.Nil(t, g.FatalError())

	result := g.Result()
	require.NotNil(t, result)
	// The third layer (c's excess 60 beyond b's all-in level) has only one
	// eligible contributor and is refunded directly rather than registered
	// as a zero-contested pot.
	require.Len(t, result.Pots, 2)
	require.Equal(t, 30, result.Pots[0].Amount)
	require.ElementsMatch(t, []string{"a", "b", "c"}, result.Pots[0].Eligible)
	require.Equal(t, 60, result.Pots[1].Amount)
	require.ElementsMatch(t, []string{"b", "c"}, result.Pots[1].Eligible)

	// c's set of aces takes both contested pots; the uncontested 60 came
	// straight back as a refund.
	require.Equal(t, 0, g.Table().Player("a").Stack)
	require.Equal(t, 0, g.Table().Player("b").Stack)
	require.Equal(t, 150, g.Table().Player("c").Stack)
}

// Every rules document shipped with the engine loads and plays to COMPLETE
// under default passive actions, conserving chips throughout.
func TestCorpusRuleDocsPlayToCompleteWithPassiveActions(t *testing.T) {
	paths, err := filepath.Glob("../../testdata/rules/*.json")
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		path := path
		t.Run(filepath.Base(path), func(t *testing.T) {
			r, err := rules.Load(path)
			require.NoError(t, err)

			tbl := table.New(r.Players.Min)
			for i := 0; i < r.Players.Min; i++ {
				require.NoError(t, tbl.AddPlayer(fmt.Sprintf("p%d", i), fmt.Sprintf("p%d", i), i, 1000))
			}
			g, err := game.New(r, r.BettingStructures[0], game.Stakes{Unit: 1, SmallBet: 10, BigBet: 20}, tbl, testEval, nil)
			require.NoError(t, err)

			require.NoError(t, g.StartHand(42, nil))
			playPassively(t, g)

			require.NotNil(t, g.Result())
			total := 0
			for _, p := range tbl.Seated() {
				total += p.Stack
			}
			require.Equal(t, r.Players.Min*1000, total)
		})
	}
}

// Seven-card stud: the lowest exposed third-street card owes the bring-in,
// and the hand plays to a single correctly-sized pot.
func TestSevenCardStudLowestUpCardPostsBringIn(t *testing.T) {
	r, err := rules.Load("../../testdata/rules/seven_card_stud.json")
	require.NoError(t, err)

	tbl := table.New(3)
	for seat, id := range map[int]string{0: "a", 1: "b", 2: "c"} {
		require.NoError(t, tbl.AddPlayer(id, id, seat, 100))
	}
	g, err := game.New(r, rules.Limit, game.Stakes{Unit: 1, SmallBet: 10, BigBet: 20}, tbl, testEval, nil)
	require.NoError(t, err)

	// Dealing runs clockwise from the seat after the button (seat 0), so the
	// draw order is b, c, a per spec batch: first both down cards, then the
	// door card. c's 2c is the low door card and owes the bring-in.
	deck := card.NewMockDeck(card.MustParseCards(
		"AsKs" + "QhJh" + "Th9h" + // down: b, c, a
			"8d" + "2c" + "Ad" + // door: b, c, a
			"3c4c5c" + "3d4d5d" + "3h4h5h" + // fourth through sixth streets
			"6c6d6h")) // seventh street, face down
	require.NoError(t, g.StartHand(0, deck))

	bringInBy := ""
	for _, e := range g.Events() {
		if e.Kind == game.EvForcedBet && e.Detail == "bring-in" {
			bringInBy = e.PlayerID
		}
	}
	require.Equal(t, "c", bringInBy)

	playPassively(t, g)

	result := g.Result()
	require.NotNil(t, result)
	require.Len(t, result.Pots, 1)
	require.Equal(t, 6, result.Pots[0].Amount)

	// a's board runs 5c 5d 5h: trips beat the other players' smaller sets.
	require.Equal(t, 104, tbl.Player("a").Stack)
	require.Equal(t, 98, tbl.Player("b").Stack)
	require.Equal(t, 98, tbl.Player("c").Stack)
}

// Badugi triple draw: standing pat is legal on every draw, and a four-card
// rainbow A-2-3-4 wins the showdown.
func TestBadugiTripleDrawStandPatRainbowWins(t *testing.T) {
	r, err := rules.Load("../../testdata/rules/badugi.json")
	require.NoError(t, err)

	tbl := table.New(2)
	require.NoError(t, tbl.AddPlayer("a", "a", 0, 100))
	require.NoError(t, tbl.AddPlayer("b", "b", 1, 100))
	g, err := game.New(r, rules.Limit, game.Stakes{Unit: 1, SmallBet: 2, BigBet: 4}, tbl, testEval, nil)
	require.NoError(t, err)

	// b is first after the button: b draws the rainbow wheel, a draws two
	// pairs that reduce to a two-card badugi.
	deck := card.NewMockDeck(card.MustParseCards("As2c3d4h" + "KsKhQsQh"))
	require.NoError(t, g.StartHand(0, deck))

	drawEvents := 0
	for g.State() != game.StateComplete {
		require.Nil(t, g.FatalError())
		cur := g.CurrentPlayer()
		require.NotEmpty(t, cur)
		opts := g.ValidActions(cur)
		require.NotEmpty(t, opts)
		if opts[0].Kind == game.OptDraw {
			require.Zero(t, opts[0].Min, "standing pat must be legal")
			drawEvents++
		}
		res := g.PlayerAction(cur, passiveChoice(opts))
		require.True(t, res.OK, "%v", res.Err)
	}

	require.Equal(t, 6, drawEvents, "two players across three draw rounds")
	require.Equal(t, 102, tbl.Player("b").Stack)
	require.Equal(t, 98, tbl.Player("a").Stack)
}

// The same rules, seed, and action sequence replay to
// bit-identical events and stacks.
func TestDeterministicReplayYieldsIdenticalEventsAndStacks(t *testing.T) {
	run := func() ([]game.Event, map[string]int) {
		g, _ := newHoldemGame(t, map[int]struct {
			id    string
			stack int
		}{
			0: {"p0", 500},
			1: {"p1", 500},
			2: {"p2", 500},
		})
		require.NoError(t, g.StartHand(1234, nil))
		playPassively(t, g)
		stacks := map[string]int{}
		for _, p := range g.Table().Seated() {
			stacks[p.ID] = p.Stack
		}
		return g.Events(), stacks
	}

	events1, stacks1 := run()
	events2, stacks2 := run()
	require.Equal(t, events1, events2)
	require.Equal(t, stacks1, stacks2)
}
