package application

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/felixgeelhaar/triage/internal/ranking/domain"
)

// Batch is a decoded request body.
type Batch struct {
	Tasks    []domain.RawTask
	Strategy string
	Count    int
}

// DecodeBatch accepts the generic value produced by a JSON or YAML decoder:
// either a bare list of tasks or an envelope {tasks, strategy, count}.
// A missing tasks key yields an empty batch; a non-string strategy is
// ignored so the default applies.
func DecodeBatch(body any) (Batch, error) {
	switch v := body.(type) {
	case []any:
		tasks, err := decodeTasks(v)
		return Batch{Tasks: tasks}, err

	case map[string]any:
		var batch Batch
		if raw, ok := v["tasks"]; ok && raw != nil {
			list, ok := raw.([]any)
			if !ok {
				return Batch{}, fmt.Errorf(`%w: "tasks" must be a list`, ErrInvalidRequest)
			}
			tasks, err := decodeTasks(list)
			if err != nil {
				return Batch{}, err
			}
			batch.Tasks = tasks
		}
		if s, ok := v["strategy"].(string); ok {
			batch.Strategy = s
		}
		if raw, ok := v["count"]; ok && raw != nil {
			count, ok := wholeNumber(raw)
			if !ok {
				return Batch{}, fmt.Errorf(`%w: "count" must be an integer`, ErrInvalidRequest)
			}
			batch.Count = count
		}
		return batch, nil

	default:
		return Batch{}, fmt.Errorf(`%w: expected a list of tasks or an object with a "tasks" key`, ErrInvalidRequest)
	}
}

func decodeTasks(list []any) ([]domain.RawTask, error) {
	tasks := make([]domain.RawTask, 0, len(list))
	for i, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: task %d is not an object", ErrInvalidRequest, i)
		}
		tasks = append(tasks, domain.RawTask(obj))
	}
	return tasks, nil
}

func wholeNumber(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		return int(i), err == nil
	}
	return 0, false
}
