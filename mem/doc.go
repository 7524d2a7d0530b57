// Package mem provides composable memory resources: a small family of
// interchangeable allocation strategies that can be nested so one strategy
// supplies memory to another.
//
// # Overview
//
// The core abstraction is the Resource interface:
//
//   - Allocate(size, align): obtain size bytes at the given alignment
//   - Deallocate(p, size, align): return a block obtained from an equal resource
//   - IsEqual(other): whether two resources may safely free each other's blocks
//
// Resources delegate unmet requests to an upstream resource, forming a chain.
// A request descends the chain until some resource satisfies or fails it; the
// result ascends back unchanged except for observation by decorators.
//
// # Implementations
//
// Monotonic: bump-pointer arena over a chain of fixed blocks
//
//   - O(1) allocation, Deallocate is a no-op
//   - Pulls new blocks from upstream when exhausted (geometric growth)
//   - Release returns every upstream block in one pass
//   - Back it with a caller-supplied buffer and a Null upstream to bound
//     allocations to fixed storage
//
// Pool: size-classed freelist allocator
//
//   - Freed blocks are retained per size class and reused, preserving spatial
//     locality for node-shaped workloads
//   - Chunks are carved out of upstream and only returned at Release
//   - Requests above the largest pooled block bypass the pool entirely
//   - SyncPool is the mutex-guarded variant for shared use
//
// Null: always-failing resource, used to cap growth
//
// Tracker: transparent decorator emitting an Event per operation to a
// caller-pluggable Sink (writer, slog, counting probe)
//
// Heap and Mapped: terminal resources backed by the Go heap and by anonymous
// page mappings respectively; Heap is the initial process default.
//
// # Usage Example
//
//	keep := mem.NewTracker("keeppool", mem.Heap(), mem.WriterSink(os.Stdout))
//	arena := mem.NewMonotonic(10000, keep, nil)
//	defer arena.Release()
//
//	pool := mem.NewSyncPool(arena, nil)
//	defer pool.Release()
//
//	p, err := pool.Allocate(64, 8)
//	if err != nil {
//	    return err
//	}
//	// ... use p ...
//	pool.Deallocate(p, 64, 8)
//
// # Deallocation Contract
//
// Every successful Allocate must be matched by exactly one Deallocate with the
// identical size and alignment, directed at a resource equal (IsEqual) to the
// allocating one. Violations are reported as ErrMismatch where detection is
// cheap; otherwise behavior is undefined.
//
// # Thread Safety
//
// Monotonic and Pool are not safe for concurrent use; share them behind
// external synchronization or use SyncPool. Heap and Mapped are safe for
// concurrent use. The default-resource slot must be established before any
// concurrent allocation activity begins (see SetDefault).
package mem
