package rules

import "encoding/json"

// document is the wire shape of a rules JSON file. It is decoded once
// by Load and converted into the typed, validated Rules model; nothing
// downstream of Load ever sees raw JSON again.
type document struct {
	Game       string   `json:"game"`
	Category   string   `json:"category"`
	References []string `json:"references"`
	Players    struct {
		Min int `json:"min"`
		Max int `json:"max"`
	} `json:"players"`
	Deck struct {
		Type   string `json:"type"`
		Cards  int    `json:"cards"`
		Jokers int    `json:"jokers"`
	} `json:"deck"`
	BettingStructures []string `json:"bettingStructures"`
	ForcedBets        docForcedBets `json:"forcedBets"`
	BettingOrder      docBettingOrder `json:"bettingOrder"`
	GamePlay          []docStep `json:"gamePlay"`
	Showdown          docShowdown `json:"showdown"`
}

type docForcedBets struct {
	Style       string `json:"style"`
	Blinds      []struct {
		Name   string `json:"name"`
		Amount int    `json:"amount"`
	} `json:"blinds"`
	Rule        string `json:"rule"`
	BringInEval string `json:"bringInEval"`
	Conditional *struct {
		ChooseValue string                    `json:"chooseValue"`
		Clauses     map[string]docForcedBets  `json:"clauses"`
		Default     *docForcedBets            `json:"default"`
	} `json:"conditional"`
}

type docBettingOrder struct {
	Initial     string                       `json:"initial"`
	Subsequent  string                       `json:"subsequent"`
	Conditional map[string]docBettingOrder  `json:"conditional"`
}

type docTrigger struct {
	Type         string `json:"type"`
	ChooseValue  string `json:"chooseValue"`
	Subset       string `json:"subset"`
	Composition  string `json:"composition"`
	CompareOp    string `json:"compareOp"`
	CompareValue int    `json:"compareValue"`
	HandSize     int    `json:"handSize"`
}

type docConditionalState struct {
	Trigger    docTrigger `json:"trigger"`
	TrueState  string     `json:"true_state"`
	FalseState string     `json:"false_state"`
}

// docStep carries the step's name plus the raw JSON of its action payload;
// the action's own "type" discriminator picks which typed struct to decode
// into (see steps.go's closed Action set).
type docStep struct {
	Name             string              `json:"name"`
	Type             string              `json:"type"`
	ConditionalState *docConditionalState `json:"conditional_state"`
	Raw              json.RawMessage     `json:"-"`
}

// UnmarshalJSON captures the whole object as Raw while still picking off
// Name/Type/ConditionalState, since the remaining fields vary by Type.
func (d *docStep) UnmarshalJSON(b []byte) error {
	type alias docStep
	var a alias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	*d = docStep(a)
	d.Raw = append(json.RawMessage(nil), b...)
	return nil
}

type docCardState struct {
	Number           int                 `json:"number"`
	MinNumber        int                 `json:"min_number"`
	State            string              `json:"state"`
	Subset           string              `json:"subset"`
	HoleSubset       string              `json:"hole_subset"`
	WildCards        []docWildCardRule   `json:"wildCards"`
	ConditionalState *docConditionalState `json:"conditional_state"`
	ProtectionOption *struct {
		Fee int `json:"fee"`
	} `json:"protection_option"`
	PreserveState   bool   `json:"preserve_state"`
	Rule            string `json:"rule"`
	DiscardLocation string `json:"discardLocation"`
	DiscardSubset   string `json:"discardSubset"`
	EntireSubset    bool   `json:"entire_subset"`
	OncePerStep     bool   `json:"oncePerStep"`
	Immediate       bool   `json:"immediate"`
}

type docWildCardRule struct {
	Scope string `json:"scope"`
	Rule  string `json:"rule"`
}

type docSeparateCard struct {
	HoleSubset string `json:"hole_subset"`
	Number     int    `json:"number"`
}

type docDealAction struct {
	Location  string         `json:"location"`
	Cards     []docCardState `json:"cards"`
	WildCards []docWildCardRule `json:"wildCards"`
}

type docDrawAction struct {
	Cards []docCardState `json:"cards"`
}

type docDiscardAction struct {
	Cards []docCardState `json:"cards"`
}

type docExposeAction struct {
	Cards []docCardState `json:"cards"`
}

type docPassAction struct {
	Direction string `json:"direction"`
	Count     int    `json:"count"`
}

type docSeparateAction struct {
	Cards                  []docSeparateCard `json:"cards"`
	VisibilityRequirements map[string]int    `json:"visibility_requirements"`
	HandComparison         string            `json:"hand_comparison"`
}

type docDeclareAction struct {
	Options      []string `json:"options"`
	PerPot       bool     `json:"per_pot"`
	Simultaneous bool     `json:"simultaneous"`
}

type docChooseAction struct {
	PossibleValues []string `json:"possible_values"`
	Value          string   `json:"value"`
	Chooser        string   `json:"chooser"`
	Default        string   `json:"default"`
}

type docReplaceCommunityAction struct {
	CardsToReplace int    `json:"cardsToReplace"`
	Order          string `json:"order"`
	StartingFrom   string `json:"startingFrom"`
}

type docRemoveAction struct {
	Type     string   `json:"type"`
	Criteria string   `json:"criteria"`
	Subsets  []string `json:"subsets"`
}

type docRollDieAction struct {
	Subset string `json:"subset"`
}

type docShowdownStep struct {
	Type string `json:"showdownType"`
}

type docGroupedActions struct {
	Actions []docStep `json:"actions"`
}

type docBetAction struct {
	Type string `json:"betType"`
}

type docQualifier struct {
	LowIndex  int `json:"low_idx"`
	HighIndex int `json:"high_idx"`
}

type docCombination struct {
	HoleCards       int    `json:"holeCards"`
	CommunityCards  int    `json:"communityCards"`
	CommunitySubset string `json:"community_subset"`
}

type docCommunitySelect struct {
	Region string `json:"region"`
	Min    int    `json:"min"`
	Max    int    `json:"max"`
}

type docCommunitySubsetRequirement struct {
	Subset   string `json:"subset"`
	Count    int    `json:"count"`
	Required bool   `json:"required"`
}

type docHandConfig struct {
	Name                             string                          `json:"name"`
	EvaluationType                   string                          `json:"evaluationType"`
	AnyCards                         int                             `json:"anyCards"`
	HoleCards                        int                             `json:"holeCards"`
	CommunityCards                   int                             `json:"communityCards"`
	Combinations                     []docCombination                `json:"combinations"`
	CommunityCardCombinations        [][]string                      `json:"communityCardCombinations"`
	CommunityCardSelectCombinations  []docCommunitySelect            `json:"communityCardSelectCombinations"`
	CommunitySubsetRequirements      []docCommunitySubsetRequirement `json:"communitySubsetRequirements"`
	Qualifier                        *docQualifier                   `json:"qualifier"`
	WildCards                        []docWildCardRule               `json:"wildCards"`
	CommunitySubset                  string                          `json:"community_subset"`
	HoleCardsAllowed                 []string                        `json:"holeCardsAllowed"`
	PlayerHandSize                   map[string]docHandConfig        `json:"playerHandSize"`
}

type docConditionalBestHand struct {
	Trigger  docTrigger      `json:"trigger"`
	BestHand []docHandConfig `json:"bestHand"`
}

type docShowdown struct {
	Order                  string                   `json:"order"`
	StartingFrom           string                   `json:"startingFrom"`
	CardsRequired          string                   `json:"cardsRequired"`
	DeclarationMode        string                   `json:"declaration_mode"`
	ClassificationPriority []string                 `json:"classification_priority"`
	BestHand               []docHandConfig          `json:"bestHand"`
	ConditionalBestHands   []docConditionalBestHand `json:"conditionalBestHands"`
	DefaultBestHand        []docHandConfig          `json:"defaultBestHand"`
}
