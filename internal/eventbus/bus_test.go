package eventbus

import "testing"

func TestEmitOrdersListenersByRegistration(t *testing.T) {
	bus := New()
	var order []string
	bus.On("map", func(args ...any) { order = append(order, "a") })
	bus.On("map", func(args ...any) { order = append(order, "b") })

	bus.Emit("map")

	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Errorf("expected [a b], got %v", order)
	}
}

func TestOffRemovesFirstMatchOnly(t *testing.T) {
	bus := New()
	var calls int
	cb := func(args ...any) { calls++ }

	bus.On("commit", cb)
	bus.On("commit", cb)
	bus.Off("commit", cb)
	bus.Emit("commit")

	if calls != 1 {
		t.Errorf("expected 1 call after removing one of two identical subscriptions, got %d", calls)
	}
}

func TestOffIsANoOpOnceAlreadyRemoved(t *testing.T) {
	bus := New()
	var calls int
	cb := func(args ...any) { calls++ }

	bus.On("destroy", cb)
	bus.Off("destroy", cb)
	bus.Off("destroy", cb) // should not panic or misbehave

	bus.Emit("destroy")
	if calls != 0 {
		t.Errorf("expected 0 calls, got %d", calls)
	}
}

func TestEmitOnUnknownNameIsANoOp(t *testing.T) {
	bus := New()
	bus.Emit("unmap") // must not panic
}

func TestArgsAreDeliveredToEachListener(t *testing.T) {
	bus := New()
	var got uint64
	bus.On("unmap", func(args ...any) {
		got = args[0].(uint64)
	})
	bus.Emit("unmap", uint64(42))

	if got != 42 {
		t.Errorf("expected 42, got %d", got)
	}
}
