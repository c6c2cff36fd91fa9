package application

import (
	"time"

	"github.com/felixgeelhaar/triage/internal/ranking/domain"
)

// DemoTasks returns a small sample batch with due dates relative to today.
func DemoTasks(today time.Time) []domain.RawTask {
	day := func(offset int) string {
		return today.AddDate(0, 0, offset).Format(dateLayout)
	}
	return []domain.RawTask{
		{
			"id":              1,
			"title":           "Complete project documentation",
			"due_date":        day(1),
			"importance":      7,
			"estimated_hours": 3,
			"dependencies":    []any{},
		},
		{
			"id":              2,
			"title":           "Fix critical login bug",
			"due_date":        day(0),
			"importance":      9,
			"estimated_hours": 1,
			"dependencies":    []any{},
		},
		{
			"id":              3,
			"title":           "Review pull requests",
			"due_date":        day(6),
			"importance":      5,
			"estimated_hours": 2,
			"dependencies":    []any{},
		},
	}
}
