package dispatch

import (
	"sync"
	"testing"

	"github.com/learnloop/realtime/pkg/protocol"
)

func newMessageFrame() protocol.Frame {
	return &protocol.NewMessage{MessageID: "m1", RoomID: "r1", Content: "hi"}
}

func TestDispatch_InvokesHandlersInRegistrationOrder(t *testing.T) {
	d := New()

	var order []string
	d.On(protocol.KindNewMessage, func(protocol.Frame) { order = append(order, "h1") })
	d.On(protocol.KindNewMessage, func(protocol.Frame) { order = append(order, "h2") })

	d.Dispatch(newMessageFrame())

	if len(order) != 2 {
		t.Fatalf("expected 2 invocations, got %d", len(order))
	}
	if order[0] != "h1" || order[1] != "h2" {
		t.Errorf("expected insertion order [h1 h2], got %v", order)
	}
}

func TestDispatch_WildcardReceivesEveryFrame(t *testing.T) {
	d := New()

	var typed, wild int
	d.On(protocol.KindNewMessage, func(protocol.Frame) { typed++ })
	d.On(protocol.KindAny, func(protocol.Frame) { wild++ })

	d.Dispatch(newMessageFrame())
	d.Dispatch(&protocol.UserTyping{UserID: "u1", IsTyping: true})
	d.Dispatch(&protocol.Unknown{Type: "mystery"})

	if typed != 1 {
		t.Errorf("typed handler: expected 1 invocation, got %d", typed)
	}
	if wild != 3 {
		t.Errorf("wildcard handler: expected 3 invocations, got %d", wild)
	}
}

func TestDispatch_PanicIsolation(t *testing.T) {
	d := New()

	var h2, wild int
	d.On(protocol.KindNewMessage, func(protocol.Frame) { panic("h1 blew up") })
	d.On(protocol.KindNewMessage, func(protocol.Frame) { h2++ })
	d.On(protocol.KindAny, func(protocol.Frame) { wild++ })

	d.Dispatch(newMessageFrame())

	if h2 != 1 {
		t.Errorf("h2 should still run exactly once after h1 panics, got %d", h2)
	}
	if wild != 1 {
		t.Errorf("wildcard should still run exactly once after h1 panics, got %d", wild)
	}
}

func TestDispatch_NoHandlersIsSilent(t *testing.T) {
	d := New()
	// Must not panic or error.
	d.Dispatch(newMessageFrame())
	d.Dispatch(&protocol.Unknown{Type: "nobody_home"})
}

func TestOff_RemovesHandler(t *testing.T) {
	d := New()

	var count int
	sub := d.On(protocol.KindNewMessage, func(protocol.Frame) { count++ })

	d.Dispatch(newMessageFrame())
	d.Off(sub)
	d.Dispatch(newMessageFrame())

	if count != 1 {
		t.Errorf("expected 1 invocation after Off, got %d", count)
	}
	if got := d.HandlerCount(protocol.KindNewMessage); got != 0 {
		t.Errorf("expected empty registry after Off, got %d", got)
	}

	// Double removal is a no-op.
	d.Off(sub)
}

func TestOff_DuringDispatchDoesNotAffectCurrentPass(t *testing.T) {
	d := New()

	var h1, h2 int
	var sub2 Subscription
	d.On(protocol.KindNewMessage, func(protocol.Frame) {
		h1++
		d.Off(sub2) // unsubscribe a later handler mid-pass
	})
	sub2 = d.On(protocol.KindNewMessage, func(protocol.Frame) { h2++ })

	d.Dispatch(newMessageFrame())

	if h2 != 1 {
		t.Errorf("h2 must still run in the pass that removed it, got %d invocations", h2)
	}

	d.Dispatch(newMessageFrame())
	if h2 != 1 {
		t.Errorf("h2 must not run after removal took effect, got %d invocations", h2)
	}
	if h1 != 2 {
		t.Errorf("h1 should have run twice, got %d", h1)
	}
}

func TestOn_DuringDispatchTakesEffectNextPass(t *testing.T) {
	d := New()

	var late int
	var once sync.Once
	d.On(protocol.KindNewMessage, func(protocol.Frame) {
		once.Do(func() {
			d.On(protocol.KindNewMessage, func(protocol.Frame) { late++ })
		})
	})

	d.Dispatch(newMessageFrame())
	if late != 0 {
		t.Errorf("handler added mid-pass must not run in that pass, got %d", late)
	}

	d.Dispatch(newMessageFrame())
	if late != 1 {
		t.Errorf("handler added mid-pass should run on the next pass, got %d", late)
	}
}

func TestDispatcher_ConcurrentUse(t *testing.T) {
	d := New()

	var mu sync.Mutex
	var count int
	d.On(protocol.KindNewMessage, func(protocol.Frame) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	const workers = 8
	const perWorker = 50

	var wg sync.WaitGroup
	wg.Add(workers * 2)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				d.Dispatch(newMessageFrame())
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				sub := d.On(protocol.KindUserTyping, func(protocol.Frame) {})
				d.Off(sub)
			}
		}()
	}
	wg.Wait()

	if count != workers*perWorker {
		t.Errorf("expected %d dispatches, got %d", workers*perWorker, count)
	}
}
