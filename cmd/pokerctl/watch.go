// This file implements WatchCmd's read-only bubbletea viewer: a hand is
// driven entirely by default passive actions (the same bot policy PlayCmd's
// loop uses) while the terminal renders the projector's spectator
// view of each step, laid out from the engine's community regions and
// per-player named subsets (internal/playerview.View).
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/genericpoker/internal/evaluator"
	"github.com/lox/genericpoker/internal/game"
	"github.com/lox/genericpoker/internal/playerview"
	"github.com/lox/genericpoker/internal/rules"
	"github.com/lox/genericpoker/internal/table"
)

var (
	watchBorderStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#626262")).Padding(0, 1)
	watchDimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
	watchActiveStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
)

type watchTickMsg time.Time

func watchTick() tea.Cmd {
	return tea.Tick(400*time.Millisecond, func(t time.Time) tea.Msg { return watchTickMsg(t) })
}

// watchModel is the bubbletea model for one hand's read-only playback. It
// owns the Game and advances it one default-action step per tick; a
// spectator PlayerView (observer "") is re-projected after every advance so
// no hole card the terminal draws ever leaks what a real observer would not
// see.
type watchModel struct {
	g      *game.Game
	logger *log.Logger

	logViewport viewport.Model
	logLines    []string

	width, height int
	done          bool
	err           error
}

func newWatchModel(g *game.Game, logger *log.Logger) *watchModel {
	vp := viewport.New(40, 10)
	return &watchModel{g: g, logger: logger.WithPrefix("watch"), logViewport: vp}
}

func (m *watchModel) Init() tea.Cmd { return watchTick() }

func (m *watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.logViewport.Width = m.width - 4
		m.logViewport.Height = 8
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		}
	case watchTickMsg:
		if m.done {
			return m, nil
		}
		m.step()
		if m.done {
			return m, nil
		}
		return m, watchTick()
	}
	return m, nil
}

// step advances the hand by exactly one default-action decision, or
// recognizes completion/fatal error.
func (m *watchModel) step() {
	if m.g.FatalError() != nil {
		m.err = m.g.FatalError()
		m.done = true
		return
	}
	if m.g.State() == game.StateComplete {
		m.done = true
		return
	}
	cur := m.g.CurrentPlayer()
	if cur == "" {
		// Auto-progress already carried the hand as far as it can without
		// input; nothing more to drive this tick.
		if m.g.State() == game.StateComplete {
			m.done = true
		}
		return
	}
	opts := m.g.ValidActions(cur)
	if len(opts) == 0 {
		m.done = true
		return
	}
	res := m.g.PlayerAction(cur, defaultAction(opts))
	for _, e := range res.Events {
		m.logLines = append(m.logLines, fmt.Sprintf("%s %s", e.Kind, e.PlayerID))
	}
	m.logViewport.SetContent(strings.Join(m.logLines, "\n"))
	m.logViewport.GotoBottom()
	if res.Err != nil {
		m.err = fmt.Errorf("watch: %s", res.Err.Error())
		m.done = true
	}
}

func (m *watchModel) View() string {
	view := playerview.For(m.g, "")
	var b strings.Builder
	fmt.Fprintf(&b, "%s  state=%s\n\n", watchActiveStyle.Render(string(m.g.Rules().Game)), view.State)

	for region, cards := range view.Community {
		fmt.Fprintf(&b, "%s: %s\n", region, renderCards(cards))
	}
	b.WriteString("\n")

	for _, s := range view.Seats {
		marker := "  "
		style := lipgloss.NewStyle()
		if s.ID == view.CurrentPlayer {
			marker = "> "
			style = watchActiveStyle
		}
		status := ""
		if !s.IsActive {
			status = " (folded)"
		} else if s.IsAllIn {
			status = " (all-in)"
		}
		fmt.Fprintf(&b, "%s%s\n", marker, style.Render(fmt.Sprintf("%-12s stack=%-6d%s", s.Name, s.Stack, status)))
	}

	b.WriteString("\n" + watchBorderStyle.Render(m.logViewport.View()))

	if m.done {
		if m.err != nil {
			b.WriteString("\n\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5555")).Render(m.err.Error()))
		} else if res := view.Result; res != nil {
			fmt.Fprintf(&b, "\n\n%s\n", watchDimStyle.Render(fmt.Sprintf("hand complete: %d pot(s) awarded", len(res.Pots))))
		}
		b.WriteString(watchDimStyle.Render("\n\npress q to exit"))
	} else {
		b.WriteString(watchDimStyle.Render("\n\npress q to quit"))
	}
	return b.String()
}

func renderCards(cards []playerview.CardView) string {
	if len(cards) == 0 {
		return watchDimStyle.Render("(none)")
	}
	var parts []string
	for _, c := range cards {
		if c.ShowsBack {
			parts = append(parts, "??")
			continue
		}
		parts = append(parts, c.Rank+c.Suit)
	}
	return strings.Join(parts, " ")
}

// runWatch seats c.Seats passive players at a fresh table, starts one hand
// with the configured seed, and runs the bubbletea viewer until the hand
// completes or the user quits.
func runWatch(c *WatchCmd, logger *log.Logger) error {
	doc, err := rules.Load(c.Rules)
	if err != nil {
		return err
	}
	if len(doc.BettingStructures) == 0 {
		return fmt.Errorf("watch: %s declares no betting structures", doc.Game)
	}
	structure := doc.BettingStructures[0]

	t := table.New(c.Seats)
	for i := 0; i < c.Seats && i < doc.Players.Max; i++ {
		if err := t.AddPlayer(fmt.Sprintf("p%d", i), fmt.Sprintf("Player %d", i+1), i, 1000); err != nil {
			return err
		}
	}

	cache := game.NewDefaultCache()
	eval := evaluator.New(cache)
	stakes := game.Stakes{Unit: 1, SmallBet: 10, BigBet: 20, Ante: 0}
	g, err := game.New(doc, structure, stakes, t, eval, logger)
	if err != nil {
		return err
	}
	if err := g.StartHand(c.Seed, nil); err != nil {
		return err
	}

	m := newWatchModel(g, logger)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
