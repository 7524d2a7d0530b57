package mem

// defaultResource is the process-wide slot holding the resource used when
// none is explicitly supplied.
var defaultResource Resource = Heap()

// Default returns the current process-wide default resource. The initial
// default is Heap().
func Default() Resource {
	return defaultResource
}

// SetDefault installs r as the process-wide default resource and returns the
// previous one. Passing nil restores the heap resource.
//
// The slot is deliberately unsynchronized: establish the default before any
// concurrent allocation activity begins, and restore a previous value only
// after all users of the old default have finished.
func SetDefault(r Resource) Resource {
	prev := defaultResource
	if r == nil {
		r = Heap()
	}
	defaultResource = r
	return prev
}
