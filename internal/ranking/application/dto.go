package application

import (
	"github.com/felixgeelhaar/triage/internal/ranking/domain"
)

const dateLayout = "2006-01-02"

// ScoreBreakdown mirrors the four factor sub-scores.
type ScoreBreakdown struct {
	Urgency    int `json:"urgency" yaml:"urgency"`
	Importance int `json:"importance" yaml:"importance"`
	Effort     int `json:"effort" yaml:"effort"`
	Dependency int `json:"dependency" yaml:"dependency"`
}

// TaskResult is the wire form of a scored task.
type TaskResult struct {
	ID                 any            `json:"id" yaml:"id"`
	Title              string         `json:"title" yaml:"title"`
	DueDate            *string        `json:"due_date" yaml:"due_date"`
	Importance         int            `json:"importance" yaml:"importance"`
	EstimatedHours     int            `json:"estimated_hours" yaml:"estimated_hours"`
	Dependencies       []any          `json:"dependencies" yaml:"dependencies"`
	Score              float64        `json:"score" yaml:"score"`
	PriorityLevel      string         `json:"priority_level" yaml:"priority_level"`
	ScoreBreakdown     ScoreBreakdown `json:"score_breakdown" yaml:"score_breakdown"`
	Explanation        string         `json:"explanation" yaml:"explanation"`
	Strategy           string         `json:"strategy" yaml:"strategy"`
	ValidationWarnings []string       `json:"validation_warnings" yaml:"validation_warnings"`
}

// SuggestedTask is a TaskResult with its position and reasons.
type SuggestedTask struct {
	TaskResult    `yaml:",inline"`
	Rank          int      `json:"rank" yaml:"rank"`
	WhyWorkOnThis []string `json:"why_work_on_this" yaml:"why_work_on_this"`
}

// AnalysisResult is the outcome of Analyze.
type AnalysisResult struct {
	StrategyUsed string       `json:"strategy_used" yaml:"strategy_used"`
	TotalTasks   int          `json:"total_tasks" yaml:"total_tasks"`
	Tasks        []TaskResult `json:"tasks" yaml:"tasks"`
	Warnings     []string     `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Cached       bool         `json:"-" yaml:"-"`
}

// SuggestionResult is the outcome of Suggest.
type SuggestionResult struct {
	Suggestions []SuggestedTask `json:"suggestions" yaml:"suggestions"`
	Warnings    []string        `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// StrategyInfo describes one scoring strategy.
type StrategyInfo struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

func toTaskResult(task domain.ScoredTask) TaskResult {
	var due *string
	if task.DueDate != nil {
		s := task.DueDate.Format(dateLayout)
		due = &s
	}

	deps := task.Dependencies
	if deps == nil {
		deps = []any{}
	}
	warnings := task.Warnings
	if warnings == nil {
		warnings = []string{}
	}

	return TaskResult{
		ID:             task.ID,
		Title:          task.Title,
		DueDate:        due,
		Importance:     task.Importance,
		EstimatedHours: task.EstimatedHours,
		Dependencies:   deps,
		Score:          task.Score.InexactFloat64(),
		PriorityLevel:  string(task.PriorityLevel),
		ScoreBreakdown: ScoreBreakdown{
			Urgency:    task.Breakdown.Urgency,
			Importance: task.Breakdown.Importance,
			Effort:     task.Breakdown.Effort,
			Dependency: task.Breakdown.Dependency,
		},
		Explanation:        task.Explanation,
		Strategy:           task.Strategy,
		ValidationWarnings: warnings,
	}
}

func toTaskResults(tasks []domain.ScoredTask) []TaskResult {
	results := make([]TaskResult, 0, len(tasks))
	for _, task := range tasks {
		results = append(results, toTaskResult(task))
	}
	return results
}

func toSuggestedTasks(suggestions []domain.Suggestion) []SuggestedTask {
	results := make([]SuggestedTask, 0, len(suggestions))
	for _, s := range suggestions {
		results = append(results, SuggestedTask{
			TaskResult:    toTaskResult(s.ScoredTask),
			Rank:          s.Rank,
			WhyWorkOnThis: s.WhyWorkOnThis,
		})
	}
	return results
}
