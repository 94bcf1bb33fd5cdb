// Package bus implements a synchronous publish/subscribe bus with typed
// topics. A topic may have one producer; whenever a subscriber registers, the
// bus pulls the producer's current value and delivers it to the newcomer, so
// late subscribers are never left without state.
package bus

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrNilHandler indicates a nil subscriber or producer was registered.
	ErrNilHandler = errors.New("bus: nil handler")
	// ErrAlreadyRegistered indicates the same subscriber was registered twice on a topic.
	ErrAlreadyRegistered = errors.New("bus: already registered")
	// ErrProducerExists indicates a topic already has a producer.
	ErrProducerExists = errors.New("bus: producer already registered")
	// ErrNotRegistered indicates an unknown or already removed registration.
	ErrNotRegistered = errors.New("bus: not registered")
)

// Role tells whether a registration is a subscriber or a producer.
type Role int

const (
	RoleSubscriber Role = iota
	RoleProducer
)

func (r Role) String() string {
	if r == RoleProducer {
		return "producer"
	}
	return "subscriber"
}

// Registration is the handle returned by Subscribe and Produce. Pass it to
// Bus.Unregister exactly once.
type Registration struct {
	id     uuid.UUID
	bus    *Bus
	topic  topicKey
	role   Role
	owner  any
	active atomic.Bool

	deliver func(event any)
	produce func() (any, bool)
}

// ID returns the registration's unique identifier.
func (r *Registration) ID() uuid.UUID { return r.id }

// Topic returns the name of the topic the registration belongs to.
func (r *Registration) Topic() string { return r.topic.name }

// Role returns whether r is a subscriber or a producer.
func (r *Registration) Role() Role { return r.role }

// Active reports whether r still receives events (or supplies values).
func (r *Registration) Active() bool { return r.active.Load() }

func (r *Registration) String() string {
	return fmt.Sprintf("%s %s on %q", r.role, r.id, r.topic.name)
}

// Bus dispatches events from producers and posters to subscribers.
// Delivery is synchronous and happens on the calling goroutine. Handlers may
// register, unregister and post re-entrantly.
type Bus struct {
	mu          sync.Mutex
	subscribers map[topicKey][]*Registration
	producers   map[topicKey]*Registration
	log         *zap.SugaredLogger
}

// Option configures a Bus.
type Option func(*Bus)

// WithLogger sets the logger used for registration and dispatch traces.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(b *Bus) {
		if l != nil {
			b.log = l
		}
	}
}

// New creates an empty Bus.
func New(opts ...Option) *Bus {
	b := &Bus{
		subscribers: make(map[topicKey][]*Registration),
		producers:   make(map[topicKey]*Registration),
		log:         zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe adds s to the topic's delivery list. If the topic has a producer
// with a current value, that value is delivered to s before Subscribe returns.
func Subscribe[E any](b *Bus, t Topic[E], s Subscriber[E]) (*Registration, error) {
	if isNil(s) {
		return nil, fmt.Errorf("%w: subscriber for %q", ErrNilHandler, t.name)
	}

	reg := &Registration{
		id:      uuid.New(),
		bus:     b,
		topic:   t.key(),
		role:    RoleSubscriber,
		owner:   s,
		deliver: func(event any) { s.Handle(event.(E)) },
	}

	b.mu.Lock()
	for _, existing := range b.subscribers[reg.topic] {
		if sameOwner(existing.owner, s) {
			b.mu.Unlock()
			return nil, fmt.Errorf("%w: %T on %q", ErrAlreadyRegistered, s, t.name)
		}
	}
	reg.active.Store(true)
	b.subscribers[reg.topic] = append(b.subscribers[reg.topic], reg)
	producer := b.producers[reg.topic]
	b.mu.Unlock()

	b.log.Debugw("Registered", "registration", reg.String())

	if producer != nil {
		b.replay(producer, []*Registration{reg})
	}
	return reg, nil
}

// Produce registers p as the topic's producer. Existing subscribers receive
// the producer's current value immediately.
func Produce[E any](b *Bus, t Topic[E], p Producer[E]) (*Registration, error) {
	if isNil(p) {
		return nil, fmt.Errorf("%w: producer for %q", ErrNilHandler, t.name)
	}

	reg := &Registration{
		id:      uuid.New(),
		bus:     b,
		topic:   t.key(),
		role:    RoleProducer,
		owner:   p,
		produce: func() (any, bool) { return p.Produce() },
	}

	b.mu.Lock()
	if existing := b.producers[reg.topic]; existing != nil {
		b.mu.Unlock()
		return nil, fmt.Errorf("%w: %q already served by %s", ErrProducerExists, t.name, existing.id)
	}
	reg.active.Store(true)
	b.producers[reg.topic] = reg
	subs := slices.Clone(b.subscribers[reg.topic])
	b.mu.Unlock()

	b.log.Debugw("Registered", "registration", reg.String(), "subscribers", len(subs))

	b.replay(reg, subs)
	return reg, nil
}

// Post delivers event to every active subscriber of t in registration order
// and returns the number of deliveries. An event nobody receives is reposted
// to DeadEvents.
func Post[E any](b *Bus, t Topic[E], event E) int {
	key := t.key()

	b.mu.Lock()
	subs := slices.Clone(b.subscribers[key])
	b.mu.Unlock()

	delivered := 0
	for _, s := range subs {
		// Unregistered mid-dispatch.
		if !s.active.Load() {
			continue
		}
		s.deliver(event)
		delivered++
	}

	b.log.Debugw("Posted", "topic", t.name, "delivered", delivered)

	if delivered == 0 && key != DeadEvents.key() {
		Post(b, DeadEvents, DeadEvent{Topic: t.name, Event: event})
	}
	return delivered
}

// Subscribers returns the number of active subscribers on t.
func Subscribers[E any](b *Bus, t Topic[E]) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subscribers[t.key()])
}

// HasProducer reports whether t currently has a producer.
func HasProducer[E any](b *Bus, t Topic[E]) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.producers[t.key()] != nil
}

// Unregister removes a subscriber or producer. It returns ErrNotRegistered
// when reg was already removed or belongs to another bus.
func (b *Bus) Unregister(reg *Registration) error {
	if reg == nil || reg.bus != b {
		return ErrNotRegistered
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if !reg.active.CompareAndSwap(true, false) {
		return fmt.Errorf("%w: %s", ErrNotRegistered, reg)
	}

	switch reg.role {
	case RoleProducer:
		if b.producers[reg.topic] == reg {
			delete(b.producers, reg.topic)
		}
	default:
		subs := slices.DeleteFunc(b.subscribers[reg.topic], func(r *Registration) bool { return r == reg })
		if len(subs) == 0 {
			delete(b.subscribers, reg.topic)
		} else {
			b.subscribers[reg.topic] = subs
		}
	}

	b.log.Debugw("Unregistered", "registration", reg.String())
	return nil
}

// replay pulls the producer's current value and hands it to subs.
func (b *Bus) replay(producer *Registration, subs []*Registration) {
	if len(subs) == 0 || !producer.active.Load() {
		return
	}
	event, ok := producer.produce()
	if !ok {
		b.log.Debugw("Producer has no current value", "registration", producer.String())
		return
	}
	for _, s := range subs {
		if s.active.Load() {
			s.deliver(event)
		}
	}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Func, reflect.Map, reflect.Chan, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// sameOwner reports whether a and b are the same handler object. Only pointer
// handlers have an identity; function adapters are never treated as duplicates.
func sameOwner(a, b any) bool {
	if reflect.TypeOf(a).Kind() != reflect.Pointer {
		return false
	}
	return a == b
}
