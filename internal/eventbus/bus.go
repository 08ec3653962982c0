// Package eventbus implements the compositor's synchronous, single-threaded
// signal fan-out: named callbacks invoked in registration order on the
// caller's own goroutine.
package eventbus

import "reflect"

// Callback is a subscriber to a named event. Arguments are untyped at this
// boundary; see internal/compositor/events.go for the tagged-variant payloads the compositor
// actually emits.
type Callback func(args ...any)

// Bus is a mapping from event name to an ordered list of subscribers.
// Not safe for concurrent use: per §5, all emissions happen on the
// event-loop thread.
type Bus struct {
	listeners map[string][]Callback
}

// New returns an empty bus.
func New() *Bus {
	return &Bus{listeners: make(map[string][]Callback)}
}

// On appends cb to name's subscriber list. The same callback value may be
// registered more than once; each registration is independent.
func (b *Bus) On(name string, cb Callback) {
	b.listeners[name] = append(b.listeners[name], cb)
}

// Off removes the first subscriber for name whose underlying function
// pointer matches cb. Deletes the list entirely once empty. A second Off
// for an already-removed callback is a no-op.
func (b *Bus) Off(name string, cb Callback) {
	subs, ok := b.listeners[name]
	if !ok {
		return
	}
	target := reflect.ValueOf(cb).Pointer()
	for i, sub := range subs {
		if reflect.ValueOf(sub).Pointer() == target {
			subs = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	if len(subs) == 0 {
		delete(b.listeners, name)
		return
	}
	b.listeners[name] = subs
}

// Emit invokes every current subscriber of name, in registration order, on
// the calling goroutine. Subscribers are responsible for recovering their
// own panics; Emit does not catch them.
func (b *Bus) Emit(name string, args ...any) {
	// Copy the subscriber slice so a listener adding/removing a subscription
	// mid-emit doesn't perturb this call's iteration.
	subs := append([]Callback(nil), b.listeners[name]...)
	for _, cb := range subs {
		cb(args...)
	}
}
