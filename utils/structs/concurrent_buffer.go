package structs

import "sync"

// SyncPool is a typed wrapper around [sync.Pool].
type SyncPool[T any] struct {
	pool *sync.Pool
}

// NewSyncPool creates a new SyncPool.
// f creates a new object when none is available in the pool.
func NewSyncPool[T any](f func() T) *SyncPool[T] {
	return &SyncPool[T]{
		pool: &sync.Pool{
			New: func() any {
				return f()
			},
		},
	}
}

// Get returns an object of type T from the pool.
func (spool *SyncPool[T]) Get() T {
	return spool.pool.Get().(T)
}

// Put returns buff to the pool.
func (spool *SyncPool[T]) Put(buff T) {
	spool.pool.Put(buff)
}
