package mem

import (
	"sync"
	"unsafe"
)

// SyncPool is the thread-safe Pool variant. Every Allocate and Deallocate
// runs under one mutex, so it is safe to share across goroutines at the cost
// of fully serialized access; under heavy contention the lock can dominate
// the cost of the pooled fast path.
type SyncPool struct {
	mu   sync.Mutex
	pool *Pool
}

// NewSyncPool creates a synchronized pool with the same configuration
// surface as NewPool.
func NewSyncPool(upstream Resource, opts *PoolOptions) *SyncPool {
	return &SyncPool{pool: NewPool(upstream, opts)}
}

// Allocate implements Resource.
func (s *SyncPool) Allocate(size, align int) (unsafe.Pointer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pool.Allocate(size, align)
}

// Deallocate implements Resource.
func (s *SyncPool) Deallocate(p unsafe.Pointer, size, align int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pool.Deallocate(p, size, align)
}

// IsEqual implements Resource. Synchronized pools are equal only to
// themselves.
func (s *SyncPool) IsEqual(other Resource) bool {
	o, ok := other.(*SyncPool)
	return ok && o == s
}

// Release returns every chunk to upstream and drops the freelists.
func (s *SyncPool) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pool.Release()
}

// Stats returns a snapshot of the underlying pool.
func (s *SyncPool) Stats() PoolStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pool.Stats()
}

var _ Resource = (*SyncPool)(nil)
