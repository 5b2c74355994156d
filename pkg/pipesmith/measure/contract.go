package measure

import "time"

// Measure holds the metrics of a generation run, keyed by name.
type Measure interface {
	AddMetric(name string) Metric
	GetMetric(name string) Metric
	AllMetrics() map[string]Metric
	SetTotalDuration(elapsed time.Duration)
	GetTotalDuration() time.Duration
}

// Metric counts the combinations a subject took part in.
type Metric interface {
	Observe(accepted bool)
	Evaluated() int64
	Accepted() int64
	Rejected() int64
	AcceptanceRate() float64
}
