package grid

import "slices"

// Observable is a value that announces changes
// OnChange registers fn and returns a function that removes it
type Observable interface {
	OnChange(fn func()) (unsubscribe func())
}

// Value is an observable holder for model values such as colors, positions and sizes
type Value[T comparable] struct {
	v        T
	version  uint64
	next     int
	handlers map[int]func()
}

// NewValue creates a value with an initial content
func NewValue[T comparable](v T) *Value[T] {
	return &Value[T]{v: v, handlers: make(map[int]func())}
}

// Get returns the current value
func (o *Value[T]) Get() T {
	return o.v
}

// Version increments on every effective change
func (o *Value[T]) Version() uint64 {
	return o.version
}

// Set stores v and notifies handlers in registration order if it differs from the current value
func (o *Value[T]) Set(v T) {
	if o.v == v {
		return
	}
	o.v = v
	o.version++

	ids := make([]int, 0, len(o.handlers))
	for id := range o.handlers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		if fn, ok := o.handlers[id]; ok {
			fn()
		}
	}
}

// OnChange implements Observable
func (o *Value[T]) OnChange(fn func()) func() {
	if o.handlers == nil {
		o.handlers = make(map[int]func())
	}
	id := o.next
	o.next++
	o.handlers[id] = fn
	return func() {
		delete(o.handlers, id)
	}
}
