// Package registry implements the ownership arena of the parameter objects
// created as side effects of deserialization.
//
// Reading a key or a composite parameter set from a stream creates parameter
// objects that the caller never asked for (the LWE parameters of a LWE key,
// the TLWE parameters of a TGSW parameter set, ...). These objects are shared
// by pointer with everything read afterwards, so they are registered in a
// Registry that keeps them alive until Teardown.
package registry

import (
	"sync"
)

// Releaser is implemented by registered objects that hold resources to
// release on Teardown.
type Releaser interface {
	Release()
}

// Registry is a set of objects indexed by pointer identity, kept in order of
// registration. A Registry is safe for concurrent use.
type Registry struct {
	mu    sync.Mutex
	owned map[any]struct{}
	order []any
}

// New creates a new empty Registry.
func New() *Registry {
	return &Registry{owned: map[any]struct{}{}}
}

var (
	defaultMutex    sync.Mutex
	defaultRegistry = New()
)

// Default returns the process-wide Registry.
func Default() *Registry {
	defaultMutex.Lock()
	defer defaultMutex.Unlock()
	return defaultRegistry
}

// SetDefault replaces the process-wide Registry and returns the previous one.
func SetDefault(r *Registry) (previous *Registry) {
	defaultMutex.Lock()
	defer defaultMutex.Unlock()
	previous, defaultRegistry = defaultRegistry, r
	return
}

// Register adds obj to the registry. It returns false if obj was already
// registered or is nil. obj should be a pointer.
func (r *Registry) Register(obj any) bool {

	if obj == nil {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.owned[obj]; ok {
		return false
	}

	r.owned[obj] = struct{}{}
	r.order = append(r.order, obj)

	return true
}

// Contains returns true if obj is registered.
func (r *Registry) Contains(obj any) bool {
	if obj == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.owned[obj]
	return ok
}

// Len returns the number of registered objects.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.order)
}

// Objects returns the registered objects in order of registration.
func (r *Registry) Objects() []any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]any{}, r.order...)
}

// Teardown empties the registry. Objects implementing Releaser are released
// in reverse order of registration.
func (r *Registry) Teardown() {

	r.mu.Lock()
	order := r.order
	r.order = nil
	r.owned = map[any]struct{}{}
	r.mu.Unlock()

	for i := len(order) - 1; i >= 0; i-- {
		if rel, ok := order[i].(Releaser); ok {
			rel.Release()
		}
	}
}
