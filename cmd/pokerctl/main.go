// Command pokerctl is the engine's command-line driver: validating rules
// documents, pre-building hand-ranking tables, playing one hand through with
// default passive actions, and watching a hand play out read-only. One kong-parsed
// subcommand per operation, over an arbitrary rules document.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"github.com/lox/genericpoker/internal/evaluator"
	"github.com/lox/genericpoker/internal/game"
	"github.com/lox/genericpoker/internal/rules"
	"github.com/lox/genericpoker/internal/table"
)

// CLI is pokerctl's top-level command set.
type CLI struct {
	LogLevel   string `help:"Set the log level" enum:"debug,info,warn,error" default:"info"`
	ForceColor bool   `help:"Force colored log output even when not attached to a terminal"`

	Validate ValidateCmd `cmd:"" help:"Parse and validate a rules document"`
	Rankgen  RankgenCmd  `cmd:"" help:"Pre-build every registered hand-ranking table"`
	Play     PlayCmd     `cmd:"" help:"Play one hand with default passive actions, printing each turn's options"`
	Watch    WatchCmd    `cmd:"" help:"Watch a hand of bots play out in the terminal"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli, kong.Name("pokerctl"), kong.Description("Drive the generic poker engine from the command line."))

	logger := newLogger(cli.LogLevel, cli.ForceColor)
	if err := ctx.Run(logger); err != nil {
		logger.Error("command failed", "err", err)
		os.Exit(1)
	}
}

func newLogger(level string, forceColor bool) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	parsed, err := log.ParseLevel(level)
	if err != nil {
		parsed = log.InfoLevel
	}
	logger.SetLevel(parsed)
	if forceColor {
		logger.SetColorProfile(termenv.TrueColor)
	}
	return logger
}

// ValidateCmd parses and validates a rules document, reporting the first
// ConfigError found.
type ValidateCmd struct {
	Path string `arg:"" help:"Path to the rules JSON document"`
}

func (c *ValidateCmd) Run(logger *log.Logger) error {
	doc, err := rules.Load(c.Path)
	if err != nil {
		return err
	}
	logger.Info("rules document valid", "game", doc.Game, "structures", doc.BettingStructures, "steps", len(doc.GamePlay))
	return nil
}

// RankgenCmd eagerly builds every hand-ranking table the process-wide cache
// knows how to build, optionally persisting them for later runs to load
// instead of rebuilding.
type RankgenCmd struct {
	Out string `help:"Directory to persist the built tables into" type:"path"`
}

func (c *RankgenCmd) Run(logger *log.Logger) error {
	cache := game.NewDefaultCache()
	if c.Out != "" {
		if err := os.MkdirAll(c.Out, 0o755); err != nil {
			return fmt.Errorf("rankgen: %w", err)
		}
		cache.SetPersistDir(c.Out)
	}
	names := cache.Registered()
	if err := cache.EagerLoad(context.Background(), names...); err != nil {
		return fmt.Errorf("rankgen: %w", err)
	}
	for _, name := range names {
		t, err := cache.Get(name)
		if err != nil {
			return fmt.Errorf("rankgen: %s: %w", name, err)
		}
		logger.Info("table built", "name", name, "combinations", t.Len())
	}
	return nil
}

// PlayCmd seats a fixed set of named players and drives one hand with
// defaultAction at every decision point, printing each decision point's
// legal actions and the final result.
type PlayCmd struct {
	Rules  string `arg:"" help:"Path to the rules JSON document"`
	Seed   int64  `help:"Deterministic seed for the shuffle" default:"0"`
	Stack  int    `help:"Starting stack size" default:"1000"`
	Small  int    `help:"Small bet/blind size" default:"10"`
	Big    int    `help:"Big bet/blind size" default:"20"`
	Seats  int    `help:"Number of seats" default:"6"`
}

func (c *PlayCmd) Run(logger *log.Logger) error {
	doc, err := rules.Load(c.Rules)
	if err != nil {
		return err
	}
	structure := doc.BettingStructures[0]
	t := table.New(c.Seats)
	for i := 0; i < c.Seats && i < doc.Players.Max; i++ {
		if err := t.AddPlayer(fmt.Sprintf("p%d", i), fmt.Sprintf("Player %d", i), i, c.Stack); err != nil {
			return err
		}
	}
	cache := game.NewDefaultCache()
	eval := evaluator.New(cache)
	stakes := game.Stakes{Unit: 1, SmallBet: c.Small, BigBet: c.Big, Ante: 0}
	g, err := game.New(doc, structure, stakes, t, eval, logger)
	if err != nil {
		return err
	}
	if err := g.StartHand(c.Seed, nil); err != nil {
		return err
	}
	for g.State() != game.StateComplete {
		cur := g.CurrentPlayer()
		if cur == "" {
			break
		}
		opts := g.ValidActions(cur)
		fmt.Printf("%s to act: %+v\n", cur, opts)
		if len(opts) == 0 {
			break
		}
		res := g.PlayerAction(cur, defaultAction(opts))
		if !res.OK {
			return fmt.Errorf("play: %s", res.Err)
		}
	}
	if err := g.FatalError(); err != nil {
		return err
	}
	fmt.Printf("hand complete: %+v\n", g.Result())
	return nil
}

// WatchCmd is the bubbletea-based read-only viewer, documented further in
// watch.go.
type WatchCmd struct {
	Rules string `arg:"" help:"Path to the rules JSON document"`
	Seed  int64  `help:"Deterministic seed for the shuffle" default:"0"`
	Seats int    `help:"Number of seats" default:"6"`
}

func (c *WatchCmd) Run(logger *log.Logger) error {
	return runWatch(c, logger)
}

// defaultAction picks the default passive move for an arbitrary
// ActionOption list: check over call over fold, stand pat on draws, the
// first offered choice on declare/choose. Shared by PlayCmd's loop and
// WatchCmd's bot-driven viewer.
func defaultAction(opts []game.ActionOption) game.PlayerActionInput {
	if len(opts) == 0 {
		return game.PlayerActionInput{}
	}
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
	case game.OptDeclare:
		if len(o.Choices) > 0 {
			return game.PlayerActionInput{Kind: o.Kind, Declaration: []string{o.Choices[0]}}
		}
	case game.OptChoose:
		if len(o.Choices) > 0 {
			return game.PlayerActionInput{Kind: o.Kind, ChooseValue: o.Choices[0]}
		}
	case game.OptDraw, game.OptDiscard, game.OptExpose, game.OptSeparate, game.OptReplaceCommunity, game.OptPass:
		return game.PlayerActionInput{Kind: o.Kind}
	}
	return game.PlayerActionInput{Kind: o.Kind, Amount: o.Min}
}
