// Package store keeps the rule graph of a grid in memory: step labels are vertices and every condition adds edges
// from its target step to its dependent steps.
package store

import (
	"sort"
	"sync"

	"github.com/dominikbraun/graph"
)

// RuleStore is a graph.Store keyed by step label.
type RuleStore struct {
	lock       sync.RWMutex
	steps      map[string]string
	properties map[string]*graph.VertexProperties

	// dependents and triggers index the same edges from both ends.
	dependents map[string]map[string]graph.Edge[string] // target -> dependent
	triggers   map[string]map[string]graph.Edge[string] // dependent -> target
}

func NewRuleStore() *RuleStore {
	return &RuleStore{
		steps:      make(map[string]string),
		properties: make(map[string]*graph.VertexProperties),
		dependents: make(map[string]map[string]graph.Edge[string]),
		triggers:   make(map[string]map[string]graph.Edge[string]),
	}
}

func (s *RuleStore) AddVertex(label string, step string, p graph.VertexProperties) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.steps[label]; ok {
		return graph.ErrVertexAlreadyExists
	}
	s.steps[label] = step
	s.properties[label] = &p

	return nil
}

func (s *RuleStore) ListVertices() ([]string, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	labels := make([]string, 0, len(s.steps))
	for label := range s.steps {
		labels = append(labels, label)
	}

	return labels, nil
}

func (s *RuleStore) VertexCount() (int, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return len(s.steps), nil
}

func (s *RuleStore) Vertex(label string) (string, graph.VertexProperties, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	step, ok := s.steps[label]
	if !ok {
		return step, graph.VertexProperties{}, graph.ErrVertexNotFound
	}

	return step, *s.properties[label], nil
}

// UpdateVertex applies options to the properties of a step.
func (s *RuleStore) UpdateVertex(label string, options ...func(*graph.VertexProperties)) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	p, ok := s.properties[label]
	if !ok {
		return graph.ErrVertexNotFound
	}
	if p.Attributes == nil {
		p.Attributes = make(map[string]string)
	}
	for _, opt := range options {
		opt(p)
	}

	return nil
}

func (s *RuleStore) RemoveVertex(label string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.steps[label]; !ok {
		return graph.ErrVertexNotFound
	}
	if len(s.dependents[label]) > 0 || len(s.triggers[label]) > 0 {
		return graph.ErrVertexHasEdges
	}

	delete(s.dependents, label)
	delete(s.triggers, label)
	delete(s.steps, label)
	delete(s.properties, label)

	return nil
}

func (s *RuleStore) AddEdge(target, dependent string, edge graph.Edge[string]) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.dependents[target]; !ok {
		s.dependents[target] = make(map[string]graph.Edge[string])
	}
	s.dependents[target][dependent] = edge

	if _, ok := s.triggers[dependent]; !ok {
		s.triggers[dependent] = make(map[string]graph.Edge[string])
	}
	s.triggers[dependent][target] = edge

	return nil
}

func (s *RuleStore) UpdateEdge(target, dependent string, edge graph.Edge[string]) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.dependents[target][dependent]; !ok {
		return graph.ErrEdgeNotFound
	}
	s.dependents[target][dependent] = edge
	s.triggers[dependent][target] = edge

	return nil
}

func (s *RuleStore) RemoveEdge(target, dependent string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	delete(s.dependents[target], dependent)
	delete(s.triggers[dependent], target)

	return nil
}

func (s *RuleStore) Edge(target, dependent string) (graph.Edge[string], error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	edge, ok := s.dependents[target][dependent]
	if !ok {
		return graph.Edge[string]{}, graph.ErrEdgeNotFound
	}

	return edge, nil
}

func (s *RuleStore) ListEdges() ([]graph.Edge[string], error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	res := make([]graph.Edge[string], 0)
	for _, edges := range s.dependents {
		for _, edge := range edges {
			res = append(res, edge)
		}
	}

	return res, nil
}

// Dependents returns the steps constrained by conditions targeting label, sorted.
func (s *RuleStore) Dependents(label string) []string {
	s.lock.RLock()
	defer s.lock.RUnlock()

	res := make([]string, 0, len(s.dependents[label]))
	for dependent := range s.dependents[label] {
		res = append(res, dependent)
	}
	sort.Strings(res)

	return res
}

var _ graph.Store[string, string] = (*RuleStore)(nil)
