package rules

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/lox/genericpoker/internal/card"
)

// Load parses a rules document from a filesystem path and returns the
// validated, immutable model, or a *ConfigError (possibly wrapped) if the
// document is malformed.
func Load(path string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules document: %w", err)
	}
	return LoadBytes(data)
}

// LoadBytes parses an in-memory rules document.
func LoadBytes(data []byte) (*Rules, error) {
	var doc document
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing rules document: %w", err)
	}

	r, err := convert(&doc)
	if err != nil {
		return nil, err
	}
	if err := validate(r); err != nil {
		return nil, err
	}
	return r, nil
}

func convert(doc *document) (*Rules, error) {
	r := &Rules{
		Game:       doc.Game,
		Category:   doc.Category,
		References: doc.References,
		Players:    PlayerCounts{Min: doc.Players.Min, Max: doc.Players.Max},
		Deck: Deck{
			Type:   card.Kind(doc.Deck.Type),
			Cards:  doc.Deck.Cards,
			Jokers: doc.Deck.Jokers,
		},
	}

	for _, s := range doc.BettingStructures {
		r.BettingStructures = append(r.BettingStructures, BettingStructure(s))
	}

	fb, err := convertForcedBets(&doc.ForcedBets, "forcedBets")
	if err != nil {
		return nil, err
	}
	r.ForcedBets = fb

	r.BettingOrder = convertBettingOrder(&doc.BettingOrder)

	for i, ds := range doc.GamePlay {
		step, err := convertStep(&ds, fmt.Sprintf("gamePlay[%d]", i))
		if err != nil {
			return nil, err
		}
		r.GamePlay = append(r.GamePlay, step)
	}

	sd, err := convertShowdown(&doc.Showdown)
	if err != nil {
		return nil, err
	}
	r.Showdown = sd

	return r, nil
}

func convertForcedBets(d *docForcedBets, path string) (ForcedBets, error) {
	fb := ForcedBets{
		Style:       ForcedBetStyle(d.Style),
		BringInRule: BringInRule(d.Rule),
		BringInEval: EvaluationType(d.BringInEval),
	}
	for _, b := range d.Blinds {
		fb.Blinds = append(fb.Blinds, BlindLevel{Name: b.Name, Amount: b.Amount})
	}
	switch fb.Style {
	case ForcedBetBlinds, ForcedBetBringIn, ForcedBetAntesOnly:
	default:
		return fb, configErrf(path+".style", "unknown forced-bet style %q", d.Style)
	}
	if d.Conditional != nil {
		cond := &ConditionalForcedBets{ChooseValue: d.Conditional.ChooseValue, Clauses: map[string]ForcedBets{}}
		for k, v := range d.Conditional.Clauses {
			sub, err := convertForcedBets(&v, path+".conditional.clauses["+k+"]")
			if err != nil {
				return fb, err
			}
			cond.Clauses[k] = sub
		}
		if d.Conditional.Default != nil {
			def, err := convertForcedBets(d.Conditional.Default, path+".conditional.default")
			if err != nil {
				return fb, err
			}
			cond.Default = def
		}
		fb.Conditional = cond
	}
	return fb, nil
}

func convertBettingOrder(d *docBettingOrder) BettingOrder {
	bo := BettingOrder{
		Initial:    BettingOrderRule(d.Initial),
		Subsequent: BettingOrderRule(d.Subsequent),
	}
	if d.Conditional != nil {
		bo.Conditional = map[string]BettingOrder{}
		for k, v := range d.Conditional {
			bo.Conditional[k] = convertBettingOrder(&v)
		}
	}
	return bo
}

func convertTrigger(d docTrigger) Trigger {
	return Trigger{
		Type:         TriggerType(d.Type),
		ChooseValue:  d.ChooseValue,
		Subset:       d.Subset,
		Composition:  d.Composition,
		CompareOp:    d.CompareOp,
		CompareValue: d.CompareValue,
		HandSize:     d.HandSize,
	}
}

func convertConditionalState(d *docConditionalState) *ConditionalState {
	if d == nil {
		return nil
	}
	return &ConditionalState{
		Trigger:    convertTrigger(d.Trigger),
		TrueState:  d.TrueState,
		FalseState: d.FalseState,
	}
}

func convertConditionalCardState(d *docConditionalState) *ConditionalCardState {
	if d == nil {
		return nil
	}
	return &ConditionalCardState{
		Trigger:    convertTrigger(d.Trigger),
		TrueState:  CardState(d.TrueState),
		FalseState: CardState(d.FalseState),
	}
}

func convertWildRules(ds []docWildCardRule) []WildCardRule {
	out := make([]WildCardRule, 0, len(ds))
	for _, d := range ds {
		out = append(out, WildCardRule{Scope: WildScope(d.Scope), Rule: WildSubRule(d.Rule)})
	}
	return out
}

func convertCardState(d docCardState) DealSpec {
	return DealSpec{
		Number:           d.Number,
		State:            CardState(d.State),
		Subset:           d.Subset,
		WildCards:        convertWildRules(d.WildCards),
		ConditionalState: convertConditionalCardState(d.ConditionalState),
		ProtectionOption: convertProtection(d.ProtectionOption),
	}
}

func convertProtection(d *struct {
	Fee int `json:"fee"`
}) *ProtectionOption {
	if d == nil {
		return nil
	}
	return &ProtectionOption{Fee: d.Fee}
}

func convertDrawSpec(d docCardState) DrawSpec {
	return DrawSpec{
		Number:        d.Number,
		MinNumber:     d.MinNumber,
		State:         CardState(d.State),
		HoleSubset:    d.HoleSubset,
		PreserveState: d.PreserveState,
		Rule:          d.Rule,
	}
}

func convertDiscardSpec(d docCardState) DiscardSpec {
	return DiscardSpec{
		Number:          d.Number,
		MinNumber:       d.MinNumber,
		State:           CardState(d.State),
		HoleSubset:      d.HoleSubset,
		Rule:            d.Rule,
		DiscardLocation: Location(d.DiscardLocation),
		DiscardSubset:   d.DiscardSubset,
		EntireSubset:    d.EntireSubset,
		OncePerStep:     d.OncePerStep,
	}
}

func convertExposeSpec(d docCardState) ExposeSpec {
	return ExposeSpec{Number: d.Number, MinNumber: d.MinNumber, State: CardState(d.State), Immediate: d.Immediate}
}

func convertStep(d *docStep, path string) (Step, error) {
	action, err := convertAction(StepKind(d.Type), d.Raw, path)
	if err != nil {
		return Step{}, err
	}
	return Step{
		Name:             d.Name,
		Action:           action,
		ConditionalState: convertConditionalState(d.ConditionalState),
	}, nil
}

func convertAction(kind StepKind, raw json.RawMessage, path string) (Action, error) {
	switch kind {
	case StepBet:
		var d docBetAction
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, wrapJSON(path, err)
		}
		return BetAction{Type: BetType(d.Type)}, nil
	case StepDeal:
		var d docDealAction
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, wrapJSON(path, err)
		}
		specs := make([]DealSpec, 0, len(d.Cards))
		actionWilds := convertWildRules(d.WildCards)
		for _, c := range d.Cards {
			spec := convertCardState(c)
			// An action-level wildCards clause applies to every card batch
			// the step deals, on top of any per-batch clause.
			spec.WildCards = append(spec.WildCards, actionWilds...)
			specs = append(specs, spec)
		}
		return DealAction{Location: Location(d.Location), Cards: specs}, nil
	case StepDraw:
		var d docDrawAction
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, wrapJSON(path, err)
		}
		specs := make([]DrawSpec, 0, len(d.Cards))
		for _, c := range d.Cards {
			specs = append(specs, convertDrawSpec(c))
		}
		return DrawAction{Cards: specs}, nil
	case StepDiscard:
		var d docDiscardAction
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, wrapJSON(path, err)
		}
		specs := make([]DiscardSpec, 0, len(d.Cards))
		for _, c := range d.Cards {
			specs = append(specs, convertDiscardSpec(c))
		}
		return DiscardAction{Cards: specs}, nil
	case StepExpose:
		var d docExposeAction
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, wrapJSON(path, err)
		}
		specs := make([]ExposeSpec, 0, len(d.Cards))
		for _, c := range d.Cards {
			specs = append(specs, convertExposeSpec(c))
		}
		return ExposeAction{Cards: specs}, nil
	case StepPass:
		var d docPassAction
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, wrapJSON(path, err)
		}
		return PassAction{Direction: PassDirection(d.Direction), Count: d.Count}, nil
	case StepSeparate:
		var d docSeparateAction
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, wrapJSON(path, err)
		}
		specs := make([]SeparateCardSpec, 0, len(d.Cards))
		for _, c := range d.Cards {
			specs = append(specs, SeparateCardSpec{HoleSubset: c.HoleSubset, Number: c.Number})
		}
		return SeparateAction{
			Cards:                  specs,
			VisibilityRequirements: d.VisibilityRequirements,
			HandComparison:         d.HandComparison,
		}, nil
	case StepDeclare:
		var d docDeclareAction
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, wrapJSON(path, err)
		}
		opts := make([]DeclareOption, 0, len(d.Options))
		for _, o := range d.Options {
			opts = append(opts, DeclareOption(o))
		}
		return DeclareAction{Options: opts, PerPot: d.PerPot, Simultaneous: d.Simultaneous}, nil
	case StepChoose:
		var d docChooseAction
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, wrapJSON(path, err)
		}
		return ChooseAction{PossibleValues: d.PossibleValues, Chooser: d.Chooser, Default: d.Default}, nil
	case StepReplaceCommunity:
		var d docReplaceCommunityAction
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, wrapJSON(path, err)
		}
		return ReplaceCommunityAction{
			CardsToReplace: d.CardsToReplace,
			Order:          BettingOrderRule(d.Order),
			StartingFrom:   d.StartingFrom,
		}, nil
	case StepRemove:
		var d docRemoveAction
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, wrapJSON(path, err)
		}
		return RemoveAction{Type: d.Type, Criteria: d.Criteria, Subsets: d.Subsets}, nil
	case StepRollDie:
		var d docRollDieAction
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, wrapJSON(path, err)
		}
		return RollDieAction{Subset: d.Subset}, nil
	case StepShowdown:
		var d docShowdownStep
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, wrapJSON(path, err)
		}
		return ShowdownAction{Type: ShowdownType(d.Type)}, nil
	case StepGroupedActions:
		var d docGroupedActions
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, wrapJSON(path, err)
		}
		actions := make([]Action, 0, len(d.Actions))
		for i, sub := range d.Actions {
			a, err := convertAction(StepKind(sub.Type), sub.Raw, fmt.Sprintf("%s.actions[%d]", path, i))
			if err != nil {
				return nil, err
			}
			actions = append(actions, a)
		}
		return GroupedActions{Actions: actions}, nil
	default:
		return nil, configErrf(path, "unknown step type %q", kind)
	}
}

func wrapJSON(path string, err error) error {
	return configErrf(path, "%v", err)
}

func convertHandConfig(d docHandConfig, path string) (HandConfig, error) {
	hc := HandConfig{
		Name:            d.Name,
		EvaluationType:  EvaluationType(d.EvaluationType),
		AnyCards:        d.AnyCards,
		HoleCards:       d.HoleCards,
		CommunityCards:  d.CommunityCards,
		CommunityCardCombinations: d.CommunityCardCombinations,
		WildCards:       convertWildRules(d.WildCards),
		CommunitySubset: d.CommunitySubset,
		HoleCardsAllowed: d.HoleCardsAllowed,
	}
	for _, c := range d.Combinations {
		hc.Combinations = append(hc.Combinations, CombinationSpec{
			HoleCards: c.HoleCards, CommunityCards: c.CommunityCards, CommunitySubset: c.CommunitySubset,
		})
	}
	for _, c := range d.CommunityCardSelectCombinations {
		hc.CommunityCardSelectCombinations = append(hc.CommunityCardSelectCombinations, CommunitySelectSpec{
			Region: c.Region, Min: c.Min, Max: c.Max,
		})
	}
	for _, c := range d.CommunitySubsetRequirements {
		hc.CommunitySubsetRequirements = append(hc.CommunitySubsetRequirements, CommunitySubsetRequirement{
			Subset: c.Subset, Count: c.Count, Required: c.Required,
		})
	}
	if d.Qualifier != nil {
		hc.Qualifier = &Qualifier{Low: d.Qualifier.LowIndex, High: d.Qualifier.HighIndex}
	}
	if len(d.PlayerHandSize) > 0 {
		hc.PlayerHandSizeVariants = map[int]HandConfig{}
		for k, v := range d.PlayerHandSize {
			size, err := strconv.Atoi(k)
			if err != nil {
				return hc, configErrf(path+".playerHandSize", "non-numeric hand size key %q", k)
			}
			sub, err := convertHandConfig(v, fmt.Sprintf("%s.playerHandSize[%s]", path, k))
			if err != nil {
				return hc, err
			}
			hc.PlayerHandSizeVariants[size] = sub
		}
	}
	return hc, nil
}

func convertShowdown(d *docShowdown) (ShowdownConfig, error) {
	sd := ShowdownConfig{
		Order:                  BettingOrderRule(d.Order),
		StartingFrom:           d.StartingFrom,
		CardsRequired:          d.CardsRequired,
		DeclarationMode:        DeclarationMode(d.DeclarationMode),
		ClassificationPriority: d.ClassificationPriority,
	}
	for i, h := range d.BestHand {
		hc, err := convertHandConfig(h, fmt.Sprintf("showdown.bestHand[%d]", i))
		if err != nil {
			return sd, err
		}
		sd.BestHand = append(sd.BestHand, hc)
	}
	for i, h := range d.DefaultBestHand {
		hc, err := convertHandConfig(h, fmt.Sprintf("showdown.defaultBestHand[%d]", i))
		if err != nil {
			return sd, err
		}
		sd.DefaultBestHand = append(sd.DefaultBestHand, hc)
	}
	for i, c := range d.ConditionalBestHands {
		cbh := ConditionalBestHand{Trigger: convertTrigger(c.Trigger)}
		for j, h := range c.BestHand {
			hc, err := convertHandConfig(h, fmt.Sprintf("showdown.conditionalBestHands[%d].bestHand[%d]", i, j))
			if err != nil {
				return sd, err
			}
			cbh.BestHand = append(cbh.BestHand, hc)
		}
		sd.ConditionalBestHands = append(sd.ConditionalBestHands, cbh)
	}
	return sd, nil
}
