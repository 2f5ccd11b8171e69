package event

import (
	"reflect"
	"testing"
)

type ping struct{ N int }
type pong struct{ N int }

func TestBusDeliversNextTickInEmissionOrder(t *testing.T) {
	b := NewBus()
	var got []string
	Subscribe(b, func(p ping) { got = append(got, "ping") })
	Subscribe(b, func(p pong) { got = append(got, "pong") })

	Emit(b, ping{1})
	Emit(b, pong{2})
	Emit(b, ping{3})

	if n := b.DispatchAll(); n != 0 {
		t.Fatalf("events must not be visible before a swap, dispatched %d", n)
	}
	b.SwapBuffers()
	if n := b.DispatchAll(); n != 3 {
		t.Fatalf("dispatched %d, want 3", n)
	}
	if want := []string{"ping", "pong", "ping"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("order = %v, want %v", got, want)
	}

	b.SwapBuffers()
	if n := b.DispatchAll(); n != 0 {
		t.Fatalf("front should be empty after second swap, dispatched %d", n)
	}
}

func TestBusHandlerEmitsForNextTick(t *testing.T) {
	b := NewBus()
	count := 0
	Subscribe(b, func(p ping) {
		count++
		if p.N < 3 {
			Emit(b, ping{p.N + 1})
		}
	})
	Emit(b, ping{1})
	for i := 0; i < 5; i++ {
		b.SwapBuffers()
		b.DispatchAll()
	}
	if count != 3 {
		t.Fatalf("handler ran %d times, want 3", count)
	}
}
