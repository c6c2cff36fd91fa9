// Package domain holds the task ranking engine: input normalization, factor
// scoring, strategy combination, cycle detection and ranking. Everything in
// this package is pure and safe for concurrent use.
package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Field names read from a RawTask.
const (
	FieldID             = "id"
	FieldTitle          = "title"
	FieldDueDate        = "due_date"
	FieldImportance     = "importance"
	FieldEstimatedHours = "estimated_hours"
	FieldDependencies   = "dependencies"
)

// Defaults applied by Validate.
const (
	DefaultTitle          = "Untitled Task"
	DefaultImportance     = 5
	DefaultEstimatedHours = 1
	MinImportance         = 1
	MaxImportance         = 10
)

// Validation warnings.
const (
	WarnMissingImportance   = "Missing importance, using default (5)"
	WarnInvalidImportance   = "Invalid importance value, using default (5)"
	WarnImportanceMin       = "Importance adjusted to minimum (1)"
	WarnImportanceMax       = "Importance adjusted to maximum (10)"
	WarnInvalidHours        = "Invalid estimated_hours, using default (1)"
	WarnInvalidDependencies = "Invalid dependencies format, using empty list"
	WarnInvalidDueDate      = "Missing or invalid due_date"
)

// RawTask is an untrusted task record as decoded from the caller.
type RawTask map[string]any

// Field returns the value stored under name. A JSON null counts as absent.
func (r RawTask) Field(name string) (any, bool) {
	v, ok := r[name]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// ID returns the task identifier if present.
func (r RawTask) ID() (any, bool) {
	return r.Field(FieldID)
}

// Dependencies returns the raw dependency values, or nil when the field is
// absent or not a sequence.
func (r RawTask) Dependencies() []any {
	v, ok := r.Field(FieldDependencies)
	if !ok {
		return nil
	}
	deps, _ := asSequence(v)
	return deps
}

// ValidatedTask is the canonical form of a task after Validate.
type ValidatedTask struct {
	ID             any
	Title          string
	DueDate        *time.Time
	Importance     int
	EstimatedHours int
	Dependencies   []any
	Warnings       []string
}

// Validate normalizes raw into a ValidatedTask. Invalid or missing fields are
// replaced with defaults and described in Warnings; Validate never fails.
func Validate(raw RawTask) ValidatedTask {
	task := ValidatedTask{
		Title:          DefaultTitle,
		Importance:     DefaultImportance,
		EstimatedHours: DefaultEstimatedHours,
		Dependencies:   []any{},
		Warnings:       []string{},
	}

	if id, ok := raw.ID(); ok {
		task.ID = id
	}

	if title, ok := raw.Field(FieldTitle); ok {
		if s := fmt.Sprint(title); s != "" {
			task.Title = s
		}
	}

	if due, ok := ParseDate(raw[FieldDueDate]); ok {
		task.DueDate = &due
	}

	if v, ok := raw.Field(FieldImportance); ok {
		if importance, ok := coerceInt(v); ok {
			switch {
			case importance < MinImportance:
				importance = MinImportance
				task.Warnings = append(task.Warnings, WarnImportanceMin)
			case importance > MaxImportance:
				importance = MaxImportance
				task.Warnings = append(task.Warnings, WarnImportanceMax)
			}
			task.Importance = importance
		} else {
			task.Warnings = append(task.Warnings, WarnInvalidImportance)
		}
	} else {
		task.Warnings = append(task.Warnings, WarnMissingImportance)
	}

	if v, ok := raw.Field(FieldEstimatedHours); ok {
		if hours, ok := coerceInt(v); ok {
			// Clamped without a warning, unlike importance.
			task.EstimatedHours = max(hours, DefaultEstimatedHours)
		} else {
			task.Warnings = append(task.Warnings, WarnInvalidHours)
		}
	}

	if v, ok := raw.Field(FieldDependencies); ok {
		if deps, ok := asSequence(v); ok {
			task.Dependencies = deps
		} else {
			task.Warnings = append(task.Warnings, WarnInvalidDependencies)
		}
	}

	if task.DueDate == nil {
		task.Warnings = append(task.Warnings, WarnInvalidDueDate)
	}

	return task
}

// coerceInt converts numeric-like values to an int using truncation toward zero.
func coerceInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint:
		if n > math.MaxInt {
			return math.MaxInt, true
		}
		return int(n), true
	case uint8:
		return int(n), true
	case uint16:
		return int(n), true
	case uint32:
		return int(n), true
	case uint64:
		if n > math.MaxInt {
			return math.MaxInt, true
		}
		return int(n), true
	case float32:
		return floatToInt(float64(n))
	case float64:
		return floatToInt(n)
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), true
		}
		if f, err := n.Float64(); err == nil {
			return floatToInt(f)
		}
		return 0, false
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 0)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return 0, false
		}
		// out of range saturates at the int bounds
		return int(i), true
	default:
		return 0, false
	}
}

func floatToInt(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	switch {
	case f >= math.MaxInt:
		return math.MaxInt, true
	case f <= math.MinInt:
		return math.MinInt, true
	}
	return int(math.Trunc(f)), true
}

// asSequence converts any slice or array (other than byte strings) to []any.
func asSequence(v any) ([]any, bool) {
	if v == nil {
		return nil, false
	}
	if items, ok := v.([]any); ok {
		return items, true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return nil, false
		}
		items := make([]any, rv.Len())
		for i := range items {
			items[i] = rv.Index(i).Interface()
		}
		return items, true
	default:
		return nil, false
	}
}

// idKey maps an identifier onto a comparable key so that numerically equal
// ids of different Go types match. Non-comparable values have no key.
func idKey(v any) (any, bool) {
	if v == nil {
		return nil, false
	}
	switch n := v.(type) {
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return f, true
		}
		return n.String(), true
	case string, bool:
		return n, true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	if !rv.Type().Comparable() {
		return nil, false
	}
	return v, true
}

// SameID reports whether two identifiers are equal.
func SameID(a, b any) bool {
	ka, ok := idKey(a)
	if !ok {
		return false
	}
	kb, ok := idKey(b)
	if !ok {
		return false
	}
	return ka == kb
}
