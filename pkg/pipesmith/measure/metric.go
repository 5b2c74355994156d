package measure

import "sync"

type DefaultMetric struct {
	mu        sync.Mutex
	evaluated int64
	accepted  int64
}

func (mt *DefaultMetric) Observe(accepted bool) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.evaluated++
	if accepted {
		mt.accepted++
	}
}

func (mt *DefaultMetric) Evaluated() int64 {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.evaluated
}

func (mt *DefaultMetric) Accepted() int64 {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.accepted
}

func (mt *DefaultMetric) Rejected() int64 {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.evaluated - mt.accepted
}

// AcceptanceRate is the share of observed combinations that were accepted, 0 when nothing was observed.
func (mt *DefaultMetric) AcceptanceRate() float64 {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	if mt.evaluated == 0 {
		return 0
	}

	return float64(mt.accepted) / float64(mt.evaluated)
}

var _ Metric = (*DefaultMetric)(nil)
