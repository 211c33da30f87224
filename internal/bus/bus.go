// Package bus implements the dual-channel change notification layer: an
// intra-process observer registry for consumers living in the publishing
// process, plus pluggable transports that rebroadcast events to other
// processes. Remote deliveries that originated locally are dropped, so each
// event reaches every observer exactly once.
package bus

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hubsync/backend/domain"
)

// Event is the payload delivered to observers on every mutation.
type Event struct {
	Collection domain.Collection `json:"type"`
	Source     domain.Source     `json:"source"`
	Origin     string            `json:"origin"`
	Data       json.RawMessage   `json:"data,omitempty"`
}

// Handler consumes a single event.
type Handler func(Event)

// Transport rebroadcasts events beyond the local process. Start hands the
// transport a delivery callback for events received from elsewhere.
type Transport interface {
	Publish(event Event) error
	Start(deliver func(Event)) error
	Close() error
}

// Bus fans mutations out to local observers and attached transports.
type Bus struct {
	origin string
	logger *zap.Logger

	mu         sync.RWMutex
	observers  map[domain.Collection]map[int]Handler
	nextID     int
	transports []Transport
}

// New creates a bus with a unique origin id.
func New(logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{
		origin:    uuid.NewString(),
		logger:    logger,
		observers: make(map[domain.Collection]map[int]Handler),
	}
}

// Origin returns the id stamped onto locally published events.
func (b *Bus) Origin() string {
	return b.origin
}

// Attach starts a transport and registers it for publishing.
func (b *Bus) Attach(t Transport) error {
	if t == nil {
		return nil
	}
	if err := t.Start(b.deliverRemote); err != nil {
		return err
	}
	b.mu.Lock()
	b.transports = append(b.transports, t)
	b.mu.Unlock()
	return nil
}

// Subscribe registers a handler for one collection and returns its
// unsubscribe function. Multiple handlers per collection are supported.
func (b *Bus) Subscribe(collection domain.Collection, fn Handler) func() {
	if fn == nil {
		return func() {}
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	handlers, ok := b.observers[collection]
	if !ok {
		handlers = make(map[int]Handler)
		b.observers[collection] = handlers
	}
	id := b.nextID
	b.nextID++
	handlers[id] = fn

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.observers[collection], id)
	}
}

// Publish encodes data, stamps the local origin, and fans the event out to
// local observers and every attached transport.
func (b *Bus) Publish(collection domain.Collection, source domain.Source, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		b.logger.Error("failed to encode event payload",
			zap.String("collection", string(collection)), zap.Error(err))
		return
	}

	event := Event{
		Collection: collection,
		Source:     source,
		Origin:     b.origin,
		Data:       payload,
	}

	b.deliverLocal(event)

	b.mu.RLock()
	transports := append([]Transport(nil), b.transports...)
	b.mu.RUnlock()

	for _, t := range transports {
		if err := t.Publish(event); err != nil {
			b.logger.Warn("transport publish failed", zap.Error(err))
		}
	}
}

// Close shuts down all attached transports.
func (b *Bus) Close() error {
	b.mu.Lock()
	transports := b.transports
	b.transports = nil
	b.mu.Unlock()

	var last error
	for _, t := range transports {
		if err := t.Close(); err != nil {
			last = err
		}
	}
	return last
}

func (b *Bus) deliverLocal(event Event) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.observers[event.Collection]))
	for _, fn := range b.observers[event.Collection] {
		handlers = append(handlers, fn)
	}
	b.mu.RUnlock()

	for _, fn := range handlers {
		b.invoke(fn, event)
	}
}

// deliverRemote forwards transport events to local observers, dropping
// events that originated here: the cross-process channel must not echo back
// into the publishing process.
func (b *Bus) deliverRemote(event Event) {
	if event.Origin == b.origin {
		return
	}
	b.deliverLocal(event)
}

// invoke isolates observer failures so one panicking handler cannot starve
// the rest.
func (b *Bus) invoke(fn Handler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event observer panicked",
				zap.String("collection", string(event.Collection)),
				zap.Any("panic", r))
		}
	}()
	fn(event)
}
