package rules

import "fmt"

// ConfigError is an engine-fatal rules-document problem: malformed JSON,
// an unknown enumerated value, or a feature that must be rejected rather
// than guessed at. It is never produced by player input.
type ConfigError struct {
	Path   string // dotted JSON-ish path for diagnostics, e.g. "gamePlay[2].deal.cards[0]"
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Path == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

func configErrf(path, format string, args ...any) *ConfigError {
	return &ConfigError{Path: path, Reason: fmt.Sprintf(format, args...)}
}
