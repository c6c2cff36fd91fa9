package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Strategy selects the formula used to combine factor sub-scores.
// The zero value is SmartBalance.
type Strategy int

const (
	SmartBalance Strategy = iota
	FastestWins
	HighImpact
	DeadlineDriven
)

var strategyNames = map[Strategy]string{
	SmartBalance:   "smart_balance",
	FastestWins:    "fastest_wins",
	HighImpact:     "high_impact",
	DeadlineDriven: "deadline_driven",
}

var strategyDescriptions = map[Strategy]string{
	SmartBalance:   "Balanced priority scoring",
	FastestWins:    "Prioritizing quick wins",
	HighImpact:     "Prioritizing high-impact tasks",
	DeadlineDriven: "Prioritizing deadlines",
}

// Strategies lists every strategy in display order.
func Strategies() []Strategy {
	return []Strategy{SmartBalance, FastestWins, HighImpact, DeadlineDriven}
}

// ParseStrategy maps a strategy name to a Strategy. Unknown names fall back
// to SmartBalance and report false.
func ParseStrategy(name string) (Strategy, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	for s, n := range strategyNames {
		if n == key {
			return s, true
		}
	}
	return SmartBalance, false
}

// normalize treats out-of-range values as SmartBalance.
func (s Strategy) normalize() Strategy {
	if _, ok := strategyNames[s]; ok {
		return s
	}
	return SmartBalance
}

// Name returns the wire name of the strategy.
func (s Strategy) Name() string {
	return strategyNames[s.normalize()]
}

// String implements fmt.Stringer.
func (s Strategy) String() string {
	return s.Name()
}

// Description returns the human-readable strategy label.
func (s Strategy) Description() string {
	return strategyDescriptions[s.normalize()]
}

// Breakdown holds the four factor sub-scores of a task.
type Breakdown struct {
	Urgency    int `json:"urgency" yaml:"urgency"`
	Importance int `json:"importance" yaml:"importance"`
	Effort     int `json:"effort" yaml:"effort"`
	Dependency int `json:"dependency" yaml:"dependency"`
}

type weights struct {
	urgency, importance, effort, dependency decimal.Decimal
}

var (
	one  = decimal.NewFromInt(1)
	zero = decimal.Zero

	strategyWeights = map[Strategy]weights{
		SmartBalance: {urgency: one, importance: one, effort: one, dependency: one},
		FastestWins: {
			urgency:    decimal.RequireFromString("0.5"),
			importance: decimal.RequireFromString("0.3"),
			effort:     decimal.NewFromInt(3),
			dependency: zero,
		},
		HighImpact: {
			urgency:    decimal.RequireFromString("0.5"),
			importance: decimal.NewFromInt(3),
			effort:     decimal.RequireFromString("0.2"),
			dependency: zero,
		},
		DeadlineDriven: {
			urgency:    decimal.NewFromInt(3),
			importance: decimal.RequireFromString("0.5"),
			effort:     decimal.RequireFromString("0.2"),
			dependency: zero,
		},
	}
)

// Combine computes the exact total score for b. Only SmartBalance counts the
// dependency sub-score.
func (s Strategy) Combine(b Breakdown) decimal.Decimal {
	w := strategyWeights[s.normalize()]
	return decimal.NewFromInt(int64(b.Urgency)).Mul(w.urgency).
		Add(decimal.NewFromInt(int64(b.Importance)).Mul(w.importance)).
		Add(decimal.NewFromInt(int64(b.Effort)).Mul(w.effort)).
		Add(decimal.NewFromInt(int64(b.Dependency)).Mul(w.dependency))
}

// PriorityLevel is the coarse tier derived from a total score.
type PriorityLevel string

const (
	PriorityLow    PriorityLevel = "low"
	PriorityMedium PriorityLevel = "medium"
	PriorityHigh   PriorityLevel = "high"
)

var (
	highThreshold   = decimal.NewFromInt(100)
	mediumThreshold = decimal.NewFromInt(50)
)

// LevelFor returns the priority tier for total.
func LevelFor(total decimal.Decimal) PriorityLevel {
	switch {
	case total.GreaterThanOrEqual(highThreshold):
		return PriorityHigh
	case total.GreaterThanOrEqual(mediumThreshold):
		return PriorityMedium
	default:
		return PriorityLow
	}
}
