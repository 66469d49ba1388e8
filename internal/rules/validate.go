package rules

import "fmt"

// validate enforces the structural invariants a loaded document must satisfy
// before any downstream package (ranking, evaluator, betting, table, engine,
// showdown) is allowed to consume it. Every rejection returns a
// *ConfigError naming the offending path; nothing here guesses at intent.
func validate(r *Rules) error {
	if r.Game == "" {
		return configErrf("game", "must be non-empty")
	}
	if r.Players.Min < 1 || r.Players.Max < r.Players.Min {
		return configErrf("players", "invalid min/max %d/%d", r.Players.Min, r.Players.Max)
	}
	if r.Deck.Cards <= 0 {
		return configErrf("deck.cards", "must be positive")
	}
	if len(r.BettingStructures) == 0 {
		return configErrf("bettingStructures", "must list at least one supported structure")
	}

	if err := validateForcedBets(&r.ForcedBets, "forcedBets"); err != nil {
		return err
	}

	chooseSeen := false
	var chooseIndex = -1
	for i, step := range r.GamePlay {
		path := fmt.Sprintf("gamePlay[%d]", i)
		if step.Name == "" {
			return configErrf(path+".name", "must be non-empty")
		}
		if _, ok := step.Action.(ChooseAction); ok {
			if chooseSeen {
				return configErrf(path, "a variant may have at most one choose step")
			}
			chooseSeen = true
			chooseIndex = i
		}
		if step.ConditionalState != nil && step.ConditionalState.Trigger.Type == TriggerPlayerChoice {
			if !chooseSeen {
				return configErrf(path+".conditional_state", "player_choice trigger references a choose step that has not occurred yet")
			}
		}
		if err := validateAction(step.Action, path); err != nil {
			return err
		}
	}
	_ = chooseIndex

	if r.ForcedBets.Style != ForcedBetBringIn && !forcedBetsReferencesBringIn(&r.ForcedBets) {
		if gamePlayHasBringIn(r.GamePlay) {
			return configErrf("gamePlay", "bet{bring-in} present but forcedBets.style is never bring-in")
		}
	}

	finalShowdowns := 0
	for i, step := range r.GamePlay {
		countShowdowns(step.Action, &finalShowdowns)
		_ = i
	}
	if finalShowdowns != 1 {
		return configErrf("gamePlay", "a variant must have exactly one showdown{type: final} step, found %d", finalShowdowns)
	}

	if err := validateShowdown(&r.Showdown, "showdown"); err != nil {
		return err
	}

	if r.Deck.Jokers > 0 {
		if err := validateJokerEvaluations(&r.Showdown); err != nil {
			return err
		}
	}

	perPlayer, community := maxDealtCards(r.GamePlay)
	if ceiling := perPlayer*r.Players.Max + community; ceiling > r.Deck.Cards+r.Deck.Jokers {
		return configErrf("gamePlay",
			"at %d players the variant can hold %d cards at once, but the deck has only %d",
			r.Players.Max, ceiling, r.Deck.Cards+r.Deck.Jokers)
	}

	return nil
}

// maxDealtCards totals the cards a hand can hold simultaneously: every deal
// step's count, per player and per community region. Draws replace rather
// than grow, and pass/separate only move cards, so deal steps alone bound
// the ceiling.
func maxDealtCards(steps []Step) (perPlayer, community int) {
	var walk func(a Action)
	walk = func(a Action) {
		switch act := a.(type) {
		case DealAction:
			for _, spec := range act.Cards {
				if act.Location == LocationCommunity {
					community += spec.Number
				} else {
					perPlayer += spec.Number
				}
			}
		case GroupedActions:
			for _, sub := range act.Actions {
				walk(sub)
			}
		}
	}
	for _, s := range steps {
		walk(s.Action)
	}
	return perPlayer, community
}

// validateJokerEvaluations requires every showdown line of a joker deck to
// use a wild-capable evaluation type: a joker has no rank/suit identity, so
// an evaluator with no substitution step cannot classify it.
func validateJokerEvaluations(s *ShowdownConfig) error {
	check := func(hs []HandConfig, path string) error {
		for i, h := range hs {
			switch h.EvaluationType {
			case EvalHighWild, EvalHighWildBug, Eval27JaFFHHighWildBug:
			default:
				return configErrf(fmt.Sprintf("%s[%d].evaluationType", path, i),
					"deck has jokers but %q cannot substitute wild cards", h.EvaluationType)
			}
		}
		return nil
	}
	if err := check(s.BestHand, "showdown.bestHand"); err != nil {
		return err
	}
	if err := check(s.DefaultBestHand, "showdown.defaultBestHand"); err != nil {
		return err
	}
	for i, c := range s.ConditionalBestHands {
		if err := check(c.BestHand, fmt.Sprintf("showdown.conditionalBestHands[%d].bestHand", i)); err != nil {
			return err
		}
	}
	return nil
}

func validateForcedBets(fb *ForcedBets, path string) error {
	switch fb.Style {
	case ForcedBetBlinds:
		if len(fb.Blinds) == 0 && fb.Conditional == nil {
			return configErrf(path+".blinds", "style blinds requires at least one blind level")
		}
	case ForcedBetBringIn:
		if fb.BringInRule == "" && fb.Conditional == nil {
			return configErrf(path+".rule", "style bring-in requires a rule")
		}
	case ForcedBetAntesOnly:
	default:
		return configErrf(path+".style", "unrecognized forced-bet style %q", fb.Style)
	}
	if fb.Conditional != nil {
		if fb.Conditional.ChooseValue == "" && len(fb.Conditional.Clauses) == 0 {
			return configErrf(path+".conditional", "conditional forced bets require chooseValue or clauses")
		}
		for k, clause := range fb.Conditional.Clauses {
			if err := validateForcedBets(&clause, path+".conditional.clauses["+k+"]"); err != nil {
				return err
			}
		}
	}
	return nil
}

func forcedBetsReferencesBringIn(fb *ForcedBets) bool {
	if fb.Style == ForcedBetBringIn {
		return true
	}
	if fb.Conditional == nil {
		return false
	}
	for _, clause := range fb.Conditional.Clauses {
		if forcedBetsReferencesBringIn(&clause) {
			return true
		}
	}
	return forcedBetsReferencesBringIn(&fb.Conditional.Default)
}

func gamePlayHasBringIn(steps []Step) bool {
	for _, s := range steps {
		if hasBringIn(s.Action) {
			return true
		}
	}
	return false
}

func hasBringIn(a Action) bool {
	switch act := a.(type) {
	case BetAction:
		return act.Type == BetBringIn
	case GroupedActions:
		for _, sub := range act.Actions {
			if hasBringIn(sub) {
				return true
			}
		}
	}
	return false
}

func countShowdowns(a Action, n *int) {
	switch act := a.(type) {
	case ShowdownAction:
		if act.Type == ShowdownFinal {
			*n++
		}
	case GroupedActions:
		for _, sub := range act.Actions {
			countShowdowns(sub, n)
		}
	}
}

// validateAction rejects features whose behavior is underspecified and
// must not be silently guessed at: separate.hand_comparison and
// player-scoped wildcards.
func validateAction(a Action, path string) error {
	switch act := a.(type) {
	case SeparateAction:
		if act.HandComparison != "" {
			return configErrf(path+".hand_comparison", "separate.hand_comparison is not supported; express the comparison as a trigger-gated conditional_state instead")
		}
		for i, c := range act.Cards {
			if c.Number <= 0 {
				return configErrf(fmt.Sprintf("%s.cards[%d].number", path, i), "must be positive")
			}
		}
	case DealAction:
		for i, c := range act.Cards {
			if err := validateWildCards(c.WildCards, fmt.Sprintf("%s.cards[%d].wildCards", path, i)); err != nil {
				return err
			}
		}
	case ChooseAction:
		if len(act.PossibleValues) == 0 {
			return configErrf(path+".possible_values", "must list at least one value")
		}
	case GroupedActions:
		if len(act.Actions) == 0 {
			return configErrf(path+".actions", "groupedActions must contain at least one action")
		}
		for i, sub := range act.Actions {
			if err := validateAction(sub, fmt.Sprintf("%s.actions[%d]", path, i)); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateWildCards(rules []WildCardRule, path string) error {
	for i, w := range rules {
		switch w.Scope {
		case WildScopeGame:
		case WildScopePlayer:
			return configErrf(fmt.Sprintf("%s[%d].scope", path, i), "player-scoped wildcards are not supported")
		default:
			return configErrf(fmt.Sprintf("%s[%d].scope", path, i), "unrecognized wild scope %q", w.Scope)
		}
		switch w.Rule {
		case WildSubFull, WildSubBug:
		default:
			return configErrf(fmt.Sprintf("%s[%d].rule", path, i), "unrecognized wild rule %q", w.Rule)
		}
	}
	return nil
}

func validateShowdown(s *ShowdownConfig, path string) error {
	if len(s.BestHand) == 0 && len(s.ConditionalBestHands) == 0 {
		return configErrf(path+".bestHand", "must declare at least one bestHand line or conditionalBestHands clause")
	}
	for i, h := range s.BestHand {
		if err := validateHandConfig(&h, fmt.Sprintf("%s.bestHand[%d]", path, i)); err != nil {
			return err
		}
	}
	for i, c := range s.ConditionalBestHands {
		for j, h := range c.BestHand {
			if err := validateHandConfig(&h, fmt.Sprintf("%s.conditionalBestHands[%d].bestHand[%d]", path, i, j)); err != nil {
				return err
			}
		}
	}
	for i, h := range s.DefaultBestHand {
		if err := validateHandConfig(&h, fmt.Sprintf("%s.defaultBestHand[%d]", path, i)); err != nil {
			return err
		}
	}
	return nil
}

func validateHandConfig(h *HandConfig, path string) error {
	if h.EvaluationType == "" {
		return configErrf(path+".evaluationType", "must be set")
	}
	if err := validateWildCards(h.WildCards, path+".wildCards"); err != nil {
		return err
	}
	if h.Qualifier != nil && h.Qualifier.Low > h.Qualifier.High {
		return configErrf(path+".qualifier", "low (%d) exceeds high (%d)", h.Qualifier.Low, h.Qualifier.High)
	}
	for size, variant := range h.PlayerHandSizeVariants {
		if size <= 0 {
			return configErrf(path+".playerHandSize", "hand size key must be positive, got %d", size)
		}
		if err := validateHandConfig(&variant, fmt.Sprintf("%s.playerHandSize[%d]", path, size)); err != nil {
			return err
		}
	}
	return nil
}
