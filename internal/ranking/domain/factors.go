package domain

import (
	"fmt"
	"time"
)

// Factor is a single sub-score together with its human-readable rationale.
type Factor struct {
	Score       int
	Explanation string
}

// Points awarded per factor band.
const (
	UrgencyOverdue   = 100
	UrgencyToday     = 90
	UrgencyTomorrow  = 80
	UrgencyThreeDays = 50
	UrgencyWeek      = 30
	UrgencyTwoWeeks  = 15
	UrgencyLater     = 5

	ImportanceMultiplier = 5

	EffortQuickWin = 15
	EffortMedium   = 8
	EffortStandard = 0
	EffortLarge    = -5

	DependencyPointsPerBlocked = 20
)

const noDependencyBonus = "No dependency bonus"

// UrgencyScore scores how close the due date is to today.
func UrgencyScore(due *time.Time, today time.Time) Factor {
	if due == nil {
		return Factor{0, "No due date specified"}
	}

	days := daysBetween(today, *due)
	switch {
	case days < 0:
		return Factor{UrgencyOverdue, fmt.Sprintf("OVERDUE by %d day(s)!", -days)}
	case days == 0:
		return Factor{UrgencyToday, "Due TODAY!"}
	case days == 1:
		return Factor{UrgencyTomorrow, "Due tomorrow"}
	case days <= 3:
		return Factor{UrgencyThreeDays, fmt.Sprintf("Due in %d days", days)}
	case days <= 7:
		return Factor{UrgencyWeek, fmt.Sprintf("Due in %d days", days)}
	case days <= 14:
		return Factor{UrgencyTwoWeeks, fmt.Sprintf("Due in %d days", days)}
	default:
		return Factor{UrgencyLater, fmt.Sprintf("Due in %d days", days)}
	}
}

// ImportanceScore scales the user's 1-10 importance rating.
func ImportanceScore(importance int) Factor {
	score := importance * ImportanceMultiplier
	switch {
	case importance >= 8:
		return Factor{score, fmt.Sprintf("High importance (%d/10)", importance)}
	case importance >= 5:
		return Factor{score, fmt.Sprintf("Medium importance (%d/10)", importance)}
	default:
		return Factor{score, fmt.Sprintf("Low importance (%d/10)", importance)}
	}
}

// EffortScore rewards short tasks and penalizes long ones.
func EffortScore(hours int) Factor {
	switch {
	case hours < 2:
		return Factor{EffortQuickWin, fmt.Sprintf("Quick win (%dh)", hours)}
	case hours <= 4:
		return Factor{EffortMedium, fmt.Sprintf("Medium effort (%dh)", hours)}
	case hours <= 8:
		return Factor{EffortStandard, fmt.Sprintf("Standard task (%dh)", hours)}
	default:
		return Factor{EffortLarge, fmt.Sprintf("Large task (%dh)", hours)}
	}
}

// DependencyScore awards points for every task in all that lists id among its
// raw dependencies.
func DependencyScore(id any, all []RawTask) Factor {
	if id == nil {
		return Factor{0, noDependencyBonus}
	}

	blocked := 0
	for _, task := range all {
		for _, dep := range task.Dependencies() {
			if SameID(dep, id) {
				blocked++
				break
			}
		}
	}

	if blocked == 0 {
		return Factor{0, noDependencyBonus}
	}
	return Factor{blocked * DependencyPointsPerBlocked, fmt.Sprintf("Blocks %d other task(s)", blocked)}
}
