package widget

// Dispatcher schedules functions on the host's UI event loop. Functions dispatched from any goroutine
// must run one at a time, in dispatch order, on that loop.
type Dispatcher interface {
	Dispatch(fn func())
}

// DispatchFunc adapts a function to the Dispatcher interface.
type DispatchFunc func(fn func())

// Dispatch calls f(fn).
func (f DispatchFunc) Dispatch(fn func()) {
	f(fn)
}
