package measure

import (
	"fmt"
	"sync"
	"time"
)

const (
	// TotalMetricName observes every evaluated combination.
	TotalMetricName = "grid"
	stepPrefix      = "step:"
	conditionPrefix = "condition:"
)

// StepMetricName is the name of the metric observing the combinations where the step is present.
func StepMetricName(label string) string {
	return stepPrefix + label
}

// ConditionMetricName is the name of the metric observing the combinations rejected by the condition.
func ConditionMetricName(index int) string {
	return fmt.Sprintf("%s%d", conditionPrefix, index)
}

type DefaultMeasure struct {
	mu            sync.RWMutex
	Metrics       map[string]Metric
	totalDuration time.Duration
}

func NewDefaultMeasure() *DefaultMeasure {
	return &DefaultMeasure{
		Metrics: make(map[string]Metric),
	}
}

// AddMetric registers a metric. Adding a name twice returns the existing metric.
func (m *DefaultMeasure) AddMetric(name string) Metric {
	m.mu.Lock()
	defer m.mu.Unlock()

	if mt, ok := m.Metrics[name]; ok {
		return mt
	}
	mt := &DefaultMetric{}
	m.Metrics[name] = mt

	return mt
}

func (m *DefaultMeasure) GetMetric(name string) Metric {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.Metrics[name]
}

func (m *DefaultMeasure) AllMetrics() map[string]Metric {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := make(map[string]Metric, len(m.Metrics))
	for name, mt := range m.Metrics {
		all[name] = mt
	}

	return all
}

func (m *DefaultMeasure) SetTotalDuration(elapsed time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totalDuration = round(elapsed)
}

func (m *DefaultMeasure) GetTotalDuration() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.totalDuration
}

func round(d time.Duration) time.Duration {
	switch {
	case d > time.Hour:
		d = d.Round(time.Minute)
	case d > time.Second:
		d = d.Round(time.Millisecond)
	case d > time.Millisecond:
		d = d.Round(time.Microsecond)
	}

	return d
}

var _ Measure = (*DefaultMeasure)(nil)
