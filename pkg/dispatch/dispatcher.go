package dispatch

import (
	"log/slog"
	"sync"

	"github.com/learnloop/realtime/pkg/logging"
	"github.com/learnloop/realtime/pkg/protocol"
)

// Handler consumes one inbound frame. Handlers must be independent of each
// other: invocation order within a dispatch pass is insertion order but is
// not a contract.
type Handler func(protocol.Frame)

// Subscription identifies one registered handler for later removal.
type Subscription struct {
	kind protocol.Kind
	id   uint64
}

type registration struct {
	id uint64
	fn Handler
}

// Dispatcher demultiplexes inbound frames to registered handlers.
// It is safe for concurrent use.
type Dispatcher struct {
	mu       sync.Mutex
	handlers map[protocol.Kind][]registration
	nextID   uint64
	log      *slog.Logger
}

// New creates an empty dispatcher.
func New() *Dispatcher {
	return &Dispatcher{
		handlers: make(map[protocol.Kind][]registration),
		log:      logging.Nop(),
	}
}

// SetLogger sets the operational logger for the dispatcher.
func (d *Dispatcher) SetLogger(log *slog.Logger) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if log != nil {
		d.log = log
	} else {
		d.log = logging.Nop()
	}
}

// On registers a handler for the given frame kind. Multiple handlers per kind
// are allowed; all of them run on every matching frame. Register under
// protocol.KindAny to receive every frame.
func (d *Dispatcher) On(kind protocol.Kind, fn Handler) Subscription {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	d.handlers[kind] = append(d.handlers[kind], registration{id: d.nextID, fn: fn})
	return Subscription{kind: kind, id: d.nextID}
}

// Off removes a previously registered handler. Removing an already removed
// subscription is a no-op. Removal during a running dispatch pass does not
// affect that pass.
func (d *Dispatcher) Off(sub Subscription) {
	d.mu.Lock()
	defer d.mu.Unlock()
	regs := d.handlers[sub.kind]
	for i, reg := range regs {
		if reg.id == sub.id {
			d.handlers[sub.kind] = append(regs[:i:i], regs[i+1:]...)
			break
		}
	}
	if len(d.handlers[sub.kind]) == 0 {
		delete(d.handlers, sub.kind)
	}
}

// HandlerCount returns the number of handlers registered for a kind.
func (d *Dispatcher) HandlerCount(kind protocol.Kind) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.handlers[kind])
}

// Dispatch invokes every handler registered for the frame's kind, then every
// wildcard handler, passing the full frame to both. A frame whose kind has no
// registrations is dropped silently.
func (d *Dispatcher) Dispatch(frame protocol.Frame) {
	d.mu.Lock()
	regs := d.handlers[frame.Kind()]
	wild := d.handlers[protocol.KindAny]
	snapshot := make([]registration, 0, len(regs)+len(wild))
	snapshot = append(snapshot, regs...)
	snapshot = append(snapshot, wild...)
	d.mu.Unlock()

	for _, reg := range snapshot {
		d.invoke(reg.fn, frame)
	}
}

func (d *Dispatcher) invoke(fn Handler, frame protocol.Frame) {
	defer func() {
		if r := recover(); r != nil {
			d.mu.Lock()
			log := d.log
			d.mu.Unlock()
			log.Error("frame handler panicked", "kind", frame.Kind().String(), "panic", r)
		}
	}()
	fn(frame)
}
