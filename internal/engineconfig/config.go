// Package engineconfig loads a deployment's engine-level configuration —
// default stakes, betting structure, and logging — from an HCL file,
// distinct from the per-variant JSON rules documents internal/rules
// parses. One tagged struct, one hclsimple.DecodeFile call.
package engineconfig

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/hclsimple"

	"github.com/lox/genericpoker/internal/game"
	"github.com/lox/genericpoker/internal/rules"
)

// StakesConfig mirrors game.Stakes in HCL form.
type StakesConfig struct {
	Unit     int `hcl:"unit"`
	SmallBet int `hcl:"small_bet"`
	BigBet   int `hcl:"big_bet"`
	Ante     int `hcl:"ante,optional"`
}

// TableConfig describes one table's seating and starting structure.
type TableConfig struct {
	Name      string       `hcl:"name,label"`
	Seats     int          `hcl:"seats"`
	Structure string       `hcl:"structure"`
	Stakes    StakesConfig `hcl:"stakes,block"`
}

// Config is the root of an engine deployment's HCL document.
type Config struct {
	LogLevel    string        `hcl:"log_level,optional"`
	RulesDir    string        `hcl:"rules_dir,optional"`
	RankingsDir string        `hcl:"rankings_dir,optional"`
	Tables      []TableConfig `hcl:"table,block"`
}

// Load parses and decodes an HCL config file at path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := hclsimple.DecodeFile(path, nil, &cfg); err != nil {
		return nil, fmt.Errorf("engineconfig: %w", err)
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	return &cfg, nil
}

// Stakes converts a StakesConfig block into the game package's Stakes
// value.
func (s StakesConfig) Stakes() game.Stakes {
	return game.Stakes{Unit: s.Unit, SmallBet: s.SmallBet, BigBet: s.BigBet, Ante: s.Ante}
}

// BettingStructure parses the table's configured betting structure name.
func (t TableConfig) BettingStructure() (rules.BettingStructure, error) {
	switch t.Structure {
	case string(rules.Limit), string(rules.NoLimit), string(rules.PotLimit):
		return rules.BettingStructure(t.Structure), nil
	default:
		return "", fmt.Errorf("engineconfig: unknown betting structure %q", t.Structure)
	}
}
