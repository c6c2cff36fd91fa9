package types

import (
	"github.com/felixgeelhaar/triage/internal/engine/sdk"
	"github.com/felixgeelhaar/triage/internal/ranking/domain"
)

// RankingEngine extends the base Engine with task ranking capabilities.
// Ranking engines score a batch of tasks under a strategy, pick the tasks
// to work on first and report circular dependencies.
type RankingEngine interface {
	sdk.Engine

	// Rank scores every task in the batch and orders them by descending score.
	Rank(ctx *sdk.ExecutionContext, input RankInput) (*RankOutput, error)

	// Suggest returns the top tasks under balanced scoring with reasons.
	Suggest(ctx *sdk.ExecutionContext, input SuggestInput) (*SuggestOutput, error)

	// DetectCycles reports circular dependencies in the batch.
	DetectCycles(ctx *sdk.ExecutionContext, input CycleInput) (*CycleOutput, error)
}

// RankInput is a batch of raw tasks plus the requested strategy name.
type RankInput struct {
	Tasks []domain.RawTask `json:"tasks"`

	// Strategy is a strategy name. Empty means the engine's configured default;
	// unknown names fall back to smart_balance.
	Strategy string `json:"strategy,omitempty"`
}

// RankOutput holds the ranked batch.
type RankOutput struct {
	Strategy domain.Strategy     `json:"strategy"`
	Tasks    []domain.ScoredTask `json:"tasks"`
}

// SuggestInput is a batch of raw tasks plus the number of suggestions wanted.
type SuggestInput struct {
	Tasks []domain.RawTask `json:"tasks"`

	// Count is the number of suggestions. Zero means the engine's configured default.
	Count int `json:"count,omitempty"`
}

// SuggestOutput holds the ordered suggestions.
type SuggestOutput struct {
	Suggestions []domain.Suggestion `json:"suggestions"`
}

// CycleInput is a batch of raw tasks to check for circular dependencies.
type CycleInput struct {
	Tasks []domain.RawTask `json:"tasks"`
}

// CycleOutput holds one warning per detected cycle entry point.
type CycleOutput struct {
	Warnings []string `json:"warnings"`
}

// Ranking engine capabilities.
const (
	CapabilityRankTasks     = "rank_tasks"
	CapabilitySuggestTasks  = "suggest_tasks"
	CapabilityDetectCycles  = "detect_cycles"
	CapabilityStrategyAware = "strategy_aware"
)
