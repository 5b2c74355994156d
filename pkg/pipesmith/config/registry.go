package config

import (
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// Registry maps the implementation names used in grid files to implementation handles.
type Registry[T any] struct {
	mu    sync.RWMutex
	impls map[string]T
}

func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{
		impls: make(map[string]T),
	}
}

// Register adds an implementation under name.
func (r *Registry[T]) Register(name string, impl T) error {
	if name == "" {
		return ErrEmptyName
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.impls[name]; ok {
		return errors.Wrapf(ErrAlreadyRegistered, "%q", name)
	}
	r.impls[name] = impl

	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry[T]) MustRegister(name string, impl T) *Registry[T] {
	if err := r.Register(name, impl); err != nil {
		panic(err)
	}

	return r
}

func (r *Registry[T]) Resolve(name string) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	impl, ok := r.impls[name]

	return impl, ok
}

// Names returns the registered names, sorted.
func (r *Registry[T]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.impls))
	for name := range r.impls {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}
