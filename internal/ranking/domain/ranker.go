package domain

import (
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ScorePrecision is the number of decimal places kept in a total score.
const ScorePrecision = 2

const explanationSeparator = " | "

// Reasons given for a suggestion.
const (
	ReasonDueSoon       = "This task is due very soon or overdue"
	ReasonUpcoming      = "This task has an upcoming deadline"
	ReasonHighImportant = "It has high importance to you"
	ReasonQuickWin      = "It's a quick win that can be completed fast"
	ReasonBlocking      = "Other tasks are waiting on this one"
	ReasonBalanced      = "It has a balanced priority based on all factors"
)

// ScoredTask is a validated task with its computed priority.
type ScoredTask struct {
	ID             any
	Title          string
	DueDate        *time.Time
	Importance     int
	EstimatedHours int
	Dependencies   []any
	Warnings       []string

	Score         decimal.Decimal
	PriorityLevel PriorityLevel
	Breakdown     Breakdown
	Explanation   string
	Strategy      string
}

// Suggestion is a top-ranked task with the reasons to work on it first.
type Suggestion struct {
	ScoredTask
	Rank          int
	WhyWorkOnThis []string
}

// Ranker scores, ranks and explains task batches relative to a clock.
type Ranker struct {
	// Now supplies the current time; the calendar date is used as "today".
	Now func() time.Time
}

// NewRanker creates a Ranker backed by the wall clock.
func NewRanker() *Ranker {
	return &Ranker{Now: time.Now}
}

func (r *Ranker) today() time.Time {
	if r == nil || r.Now == nil {
		return dateOf(time.Now())
	}
	return dateOf(r.Now())
}

// Score validates raw and computes its priority under strategy. all is the
// complete batch used for dependency counting.
func (r *Ranker) Score(raw RawTask, all []RawTask, strategy Strategy) ScoredTask {
	return scoreTask(raw, all, strategy, r.today())
}

func scoreTask(raw RawTask, all []RawTask, strategy Strategy, today time.Time) ScoredTask {
	task := Validate(raw)

	urgency := UrgencyScore(task.DueDate, today)
	importance := ImportanceScore(task.Importance)
	effort := EffortScore(task.EstimatedHours)
	dependency := DependencyScore(task.ID, all)

	breakdown := Breakdown{
		Urgency:    urgency.Score,
		Importance: importance.Score,
		Effort:     effort.Score,
		Dependency: dependency.Score,
	}
	total := strategy.Combine(breakdown)

	parts := make([]string, 0, 4)
	if urgency.Score > 0 {
		parts = append(parts, urgency.Explanation)
	}
	parts = append(parts, importance.Explanation, effort.Explanation)
	if dependency.Score > 0 {
		parts = append(parts, dependency.Explanation)
	}

	return ScoredTask{
		ID:             task.ID,
		Title:          task.Title,
		DueDate:        task.DueDate,
		Importance:     task.Importance,
		EstimatedHours: task.EstimatedHours,
		Dependencies:   task.Dependencies,
		Warnings:       task.Warnings,
		Score:          total.Round(ScorePrecision),
		PriorityLevel:  LevelFor(total),
		Breakdown:      breakdown,
		Explanation:    strings.Join(parts, explanationSeparator),
		Strategy:       strategy.Description(),
	}
}

// Rank scores every task in all and returns them ordered by descending score.
// Tasks with equal scores keep their input order.
func (r *Ranker) Rank(all []RawTask, strategy Strategy) []ScoredTask {
	today := r.today()
	scored := make([]ScoredTask, 0, len(all))
	for _, raw := range all {
		scored = append(scored, scoreTask(raw, all, strategy, today))
	}

	slices.SortStableFunc(scored, func(a, b ScoredTask) int {
		return b.Score.Cmp(a.Score)
	})
	return scored
}

// Suggest returns up to count top tasks under SmartBalance, each with the
// reasons it should be worked on first.
func (r *Ranker) Suggest(all []RawTask, count int) []Suggestion {
	if count <= 0 {
		return []Suggestion{}
	}

	ranked := r.Rank(all, SmartBalance)
	if len(ranked) > count {
		ranked = ranked[:count]
	}

	suggestions := make([]Suggestion, 0, len(ranked))
	for i, task := range ranked {
		suggestions = append(suggestions, Suggestion{
			ScoredTask:    task,
			Rank:          i + 1,
			WhyWorkOnThis: reasonsFor(task),
		})
	}
	return suggestions
}

func reasonsFor(task ScoredTask) []string {
	reasons := make([]string, 0, 4)
	switch {
	case task.Breakdown.Urgency >= UrgencyTomorrow:
		reasons = append(reasons, ReasonDueSoon)
	case task.Breakdown.Urgency >= UrgencyWeek:
		reasons = append(reasons, ReasonUpcoming)
	}
	if task.Importance >= 8 {
		reasons = append(reasons, ReasonHighImportant)
	}
	if task.Breakdown.Effort >= 10 {
		reasons = append(reasons, ReasonQuickWin)
	}
	if task.Breakdown.Dependency > 0 {
		reasons = append(reasons, ReasonBlocking)
	}
	if len(reasons) == 0 {
		reasons = append(reasons, ReasonBalanced)
	}
	return reasons
}
