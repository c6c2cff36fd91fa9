package runtime

import (
	"maps"
	"sync"
	"time"
)

// MetricsCollector collects runtime metrics for engines. It also implements
// sdk.MetricsRecorder so engines can report their own counters.
type MetricsCollector struct {
	mu       sync.RWMutex
	metrics  map[string]*EngineMetrics
	counters map[string]int64
}

// CallStats aggregates the outcome and latency of a series of calls.
type CallStats struct {
	TotalCalls      int64         `json:"total_calls"`
	SuccessfulCalls int64         `json:"successful_calls"`
	FailedCalls     int64         `json:"failed_calls"`
	TotalDuration   time.Duration `json:"total_duration"`
	AverageDuration time.Duration `json:"average_duration"`
	MinDuration     time.Duration `json:"min_duration"`
	MaxDuration     time.Duration `json:"max_duration"`
	LastCallAt      time.Time     `json:"last_call_at"`
}

func (s *CallStats) record(at time.Time, duration time.Duration, failed bool) {
	s.TotalCalls++
	s.TotalDuration += duration
	s.LastCallAt = at
	if failed {
		s.FailedCalls++
	} else {
		s.SuccessfulCalls++
	}

	if s.TotalCalls == 1 {
		s.MinDuration = duration
		s.MaxDuration = duration
	} else {
		s.MinDuration = min(s.MinDuration, duration)
		s.MaxDuration = max(s.MaxDuration, duration)
	}
	s.AverageDuration = s.TotalDuration / time.Duration(s.TotalCalls)
}

// EngineMetrics contains metrics for a single engine.
type EngineMetrics struct {
	EngineID string `json:"engine_id"`
	CallStats

	// LastError is the last error message, if any.
	LastError string `json:"last_error,omitempty"`

	// CircuitBreakerState is the current circuit breaker state.
	CircuitBreakerState string `json:"circuit_breaker_state"`

	// CircuitOpenCount counts calls rejected by an open breaker.
	CircuitOpenCount int64 `json:"circuit_open_count"`

	// Operations holds per-operation stats keyed by operation name.
	Operations map[string]CallStats `json:"operations"`
}

// NewMetricsCollector creates a new metrics collector.
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		metrics:  make(map[string]*EngineMetrics),
		counters: make(map[string]int64),
	}
}

// RecordOperation records metrics for an engine operation.
func (m *MetricsCollector) RecordOperation(engineID, operation string, duration time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	metrics := m.engine(engineID)
	metrics.record(now, duration, err != nil)
	if err != nil {
		metrics.LastError = err.Error()
	}

	op := metrics.Operations[operation]
	op.record(now, duration, err != nil)
	metrics.Operations[operation] = op
}

// RecordCircuitBreakerChange records a circuit breaker state change.
func (m *MetricsCollector) RecordCircuitBreakerChange(engineID, state string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.engine(engineID).CircuitBreakerState = state
}

// RecordCircuitOpen records a call rejected by an open circuit breaker.
func (m *MetricsCollector) RecordCircuitOpen(engineID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.engine(engineID).CircuitOpenCount++
}

// Get returns a copy of the metrics for one engine, or nil.
func (m *MetricsCollector) Get(engineID string) *EngineMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	metrics, exists := m.metrics[engineID]
	if !exists {
		return nil
	}
	c := metrics.clone()
	return &c
}

// GetAll returns copies of the metrics for all engines.
func (m *MetricsCollector) GetAll() map[string]EngineMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[string]EngineMetrics, len(m.metrics))
	for id, metrics := range m.metrics {
		result[id] = metrics.clone()
	}
	return result
}

// CounterValue returns the accumulated value of a counter reported by an engine.
func (m *MetricsCollector) CounterValue(name string) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.counters[name]
}

// Reset clears all metrics.
func (m *MetricsCollector) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metrics = make(map[string]*EngineMetrics)
	m.counters = make(map[string]int64)
}

// Counter accumulates a named counter. Tags are ignored.
func (m *MetricsCollector) Counter(name string, value int64, _ ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[name] += value
}

// Gauge is accepted for sdk.MetricsRecorder and discarded.
func (m *MetricsCollector) Gauge(string, float64, ...string) {}

// Histogram is accepted for sdk.MetricsRecorder and discarded.
func (m *MetricsCollector) Histogram(string, float64, ...string) {}

// Timing is accepted for sdk.MetricsRecorder; call latency comes from RecordOperation.
func (m *MetricsCollector) Timing(string, time.Duration, ...string) {}

func (m *MetricsCollector) engine(engineID string) *EngineMetrics {
	if metrics, exists := m.metrics[engineID]; exists {
		return metrics
	}
	metrics := &EngineMetrics{
		EngineID:   engineID,
		Operations: make(map[string]CallStats),
	}
	m.metrics[engineID] = metrics
	return metrics
}

func (em *EngineMetrics) clone() EngineMetrics {
	c := *em
	c.Operations = maps.Clone(em.Operations)
	return c
}

// Snapshot contains a point-in-time view of all metrics.
type Snapshot struct {
	Timestamp time.Time                `json:"timestamp"`
	Engines   map[string]EngineMetrics `json:"engines"`
	Counters  map[string]int64         `json:"counters"`
	Summary   SnapshotSummary          `json:"summary"`
}

// SnapshotSummary contains aggregated summary statistics.
type SnapshotSummary struct {
	TotalEngines    int     `json:"total_engines"`
	TotalCalls      int64   `json:"total_calls"`
	TotalSuccessful int64   `json:"total_successful"`
	TotalFailed     int64   `json:"total_failed"`
	SuccessRate     float64 `json:"success_rate"`

	// EnginesWithOpenCircuit lists engines whose breaker is currently open.
	EnginesWithOpenCircuit []string `json:"engines_with_open_circuit"`
}

// TakeSnapshot creates a snapshot of current metrics.
func (m *MetricsCollector) TakeSnapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snapshot := Snapshot{
		Timestamp: time.Now(),
		Engines:   make(map[string]EngineMetrics, len(m.metrics)),
		Counters:  maps.Clone(m.counters),
	}

	summary := SnapshotSummary{TotalEngines: len(m.metrics)}
	for id, metrics := range m.metrics {
		snapshot.Engines[id] = metrics.clone()
		summary.TotalCalls += metrics.TotalCalls
		summary.TotalSuccessful += metrics.SuccessfulCalls
		summary.TotalFailed += metrics.FailedCalls
		if metrics.CircuitBreakerState == "open" {
			summary.EnginesWithOpenCircuit = append(summary.EnginesWithOpenCircuit, id)
		}
	}
	if summary.TotalCalls > 0 {
		summary.SuccessRate = float64(summary.TotalSuccessful) / float64(summary.TotalCalls)
	}
	snapshot.Summary = summary

	return snapshot
}
