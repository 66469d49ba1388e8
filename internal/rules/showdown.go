package rules

// Qualifier is an ordinal window into the evaluator's global ordering for a
// given evaluation type; a hand outside [Low, High] does not compete for
// this pot portion.
type Qualifier struct {
	Low  int
	High int
}

// CombinationSpec is one entry of a bestHand config's "combinations" array.
type CombinationSpec struct {
	HoleCards       int
	CommunityCards  int
	CommunitySubset string
}

// CommunitySelectSpec is one entry of "communityCardSelectCombinations"
//: take between Min and Max cards from Region.
type CommunitySelectSpec struct {
	Region string
	Min    int
	Max    int
}

// CommunitySubsetRequirement is one entry of "communitySubsetRequirements".
type CommunitySubsetRequirement struct {
	Subset   string
	Count    int
	Required bool
}

// HandConfig is one line ("pot portion") of a showdown's bestHand array.
type HandConfig struct {
	Name           string
	EvaluationType EvaluationType
	AnyCards       int
	HoleCards      int
	CommunityCards int

	Combinations                    []CombinationSpec
	CommunityCardCombinations       [][]string
	CommunityCardSelectCombinations []CommunitySelectSpec
	CommunitySubsetRequirements     []CommunitySubsetRequirement

	Qualifier        *Qualifier
	WildCards        []WildCardRule
	CommunitySubset  string
	HoleCardsAllowed []string // restrict hole cards to the union of these subsets

	// PlayerHandSizeVariants selects among several constraints by the
	// player's current hand size, keyed by hand size.
	PlayerHandSizeVariants map[int]HandConfig
}

// DeclarationMode is the closed set of ways competitors for a line are
// determined.
type DeclarationMode string

const (
	DeclarationNone    DeclarationMode = ""
	DeclarationDeclare DeclarationMode = "declare"
)

// ShowdownConfig is a variant's showdown configuration.
type ShowdownConfig struct {
	Order               BettingOrderRule
	StartingFrom        string
	CardsRequired       string
	DeclarationMode     DeclarationMode
	ClassificationPriority []string

	BestHand            []HandConfig
	ConditionalBestHands []ConditionalBestHand
	DefaultBestHand      []HandConfig
}

// ConditionalBestHand selects a bestHand array based on a trigger.
type ConditionalBestHand struct {
	Trigger  Trigger
	BestHand []HandConfig
}

// Resolve returns the bestHand lines in effect: the first
// conditionalBestHands clause whose trigger eval reports true, else
// DefaultBestHand when conditional clauses exist and a default is set,
// else BestHand. eval is the caller's trigger evaluator (it sees the
// recorded CHOOSE value and the rest of the hand state).
func (s ShowdownConfig) Resolve(eval func(Trigger) bool) []HandConfig {
	for _, cond := range s.ConditionalBestHands {
		if eval(cond.Trigger) {
			return cond.BestHand
		}
	}
	if len(s.ConditionalBestHands) > 0 && s.DefaultBestHand != nil {
		return s.DefaultBestHand
	}
	return s.BestHand
}
