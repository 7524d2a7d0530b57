package mem

import (
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"unsafe"
)

// Op identifies which resource operation an Event describes.
type Op uint8

const (
	OpAllocate Op = iota + 1
	OpDeallocate
)

// String implements fmt.Stringer.
func (op Op) String() string {
	switch op {
	case OpAllocate:
		return "allocate"
	case OpDeallocate:
		return "deallocate"
	default:
		return "unknown"
	}
}

// Event is the structured record a Tracker emits for each operation, before
// forwarding it upstream.
type Event struct {
	Label string
	Op    Op
	Bytes int
	Align int
}

// Sink receives tracker events. Implementations must be safe for concurrent
// use when the tracked chain is shared across goroutines.
type Sink interface {
	Record(ev Event)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ev Event)

// Record implements Sink.
func (f SinkFunc) Record(ev Event) { f(ev) }

// WriterSink returns a sink printing one line per event, in the form
// "label allocate 64 bytes (align 8)".
func WriterSink(w io.Writer) Sink {
	return SinkFunc(func(ev Event) {
		fmt.Fprintf(w, "%s %s %d bytes (align %d)\n", ev.Label, ev.Op, ev.Bytes, ev.Align)
	})
}

// SlogSink returns a sink logging each event at Info level. A nil logger
// means slog.Default().
func SlogSink(l *slog.Logger) Sink {
	if l == nil {
		l = slog.Default()
	}
	return SinkFunc(func(ev Event) {
		l.Info("mem traffic",
			"label", ev.Label,
			"op", ev.Op.String(),
			"bytes", ev.Bytes,
			"align", ev.Align)
	})
}

// CountingSink tallies events. Useful as a test probe and for verifying that
// a resource produces no upstream traffic across a scope.
type CountingSink struct {
	Allocs       atomic.Int64
	Deallocs     atomic.Int64
	AllocBytes   atomic.Int64
	DeallocBytes atomic.Int64
}

// Record implements Sink.
func (s *CountingSink) Record(ev Event) {
	switch ev.Op {
	case OpAllocate:
		s.Allocs.Add(1)
		s.AllocBytes.Add(int64(ev.Bytes))
	case OpDeallocate:
		s.Deallocs.Add(1)
		s.DeallocBytes.Add(int64(ev.Bytes))
	}
}

// Tracker wraps an upstream resource, forwards every call unchanged, and
// emits an Event per call to its sink. It holds a non-owning reference: the
// upstream must outlive the tracker, and the tracker has no Release.
type Tracker struct {
	label    string
	upstream Resource
	sink     Sink
}

// NewTracker creates a tracking decorator around upstream. A nil upstream
// means Default(); a nil sink discards events.
func NewTracker(label string, upstream Resource, sink Sink) *Tracker {
	if upstream == nil {
		upstream = Default()
	}
	return &Tracker{label: label, upstream: upstream, sink: sink}
}

// Label returns the tracker's label.
func (t *Tracker) Label() string {
	return t.label
}

// Upstream returns the wrapped resource.
func (t *Tracker) Upstream() Resource {
	return t.upstream
}

// Allocate implements Resource: emit, then forward. Failures propagate
// unchanged.
func (t *Tracker) Allocate(size, align int) (unsafe.Pointer, error) {
	t.emit(Event{Label: t.label, Op: OpAllocate, Bytes: size, Align: align})
	return t.upstream.Allocate(size, align)
}

// Deallocate implements Resource: emit, then forward.
func (t *Tracker) Deallocate(p unsafe.Pointer, size, align int) error {
	t.emit(Event{Label: t.label, Op: OpDeallocate, Bytes: size, Align: align})
	return t.upstream.Deallocate(p, size, align)
}

// IsEqual implements Resource. Two trackers are equal when their labels match
// and their upstreams are equal, transitively. Independently constructed
// decorators around equal pools may therefore interoperate, while different
// labels keep resources distinct even over the same upstream.
func (t *Tracker) IsEqual(other Resource) bool {
	o, ok := other.(*Tracker)
	return ok && o.label == t.label && t.upstream.IsEqual(o.upstream)
}

func (t *Tracker) emit(ev Event) {
	if t.sink != nil {
		t.sink.Record(ev)
	}
}

var _ Resource = (*Tracker)(nil)
