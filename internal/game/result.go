package game

import (
	"github.com/lox/genericpoker/internal/betting"
	"github.com/lox/genericpoker/internal/showdown"
)

// GameResult is a completed hand's outcome: a plain value so drivers can
// serialize it directly.
type GameResult struct {
	Pots      []betting.Pot
	Awards    []betting.Award
	Lines     []showdown.LineResult
	Events    []Event
	Unopposed bool // true if every other player folded before a showdown was reached
}
