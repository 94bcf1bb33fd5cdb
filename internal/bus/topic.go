package bus

import "reflect"

// Topic identifies a stream of events of type E. Delivery is resolved on the
// exact (name, E) pair: a subscriber only ever sees events posted to the same
// topic value, so no type hierarchy is consulted at dispatch time.
type Topic[E any] struct {
	name string
}

// NewTopic returns a topic with the given name.
// Panics if name is empty (programmer error).
func NewTopic[E any](name string) Topic[E] {
	if name == "" {
		panic("bus: NewTopic called with empty name")
	}
	return Topic[E]{name: name}
}

// Name returns the topic name used in logs and dead events.
func (t Topic[E]) Name() string {
	return t.name
}

func (t Topic[E]) key() topicKey {
	return topicKey{name: t.name, typ: reflect.TypeOf((*E)(nil)).Elem()}
}

// topicKey is the registry index. Two topics sharing a name but carrying
// different event types never collide.
type topicKey struct {
	name string
	typ  reflect.Type
}

// Subscriber receives events posted to a topic.
type Subscriber[E any] interface {
	Handle(event E)
}

// SubscriberFunc adapts a plain function to Subscriber.
type SubscriberFunc[E any] func(event E)

// Handle calls f(event).
func (f SubscriberFunc[E]) Handle(event E) {
	f(event)
}

// Producer supplies the current value of a topic on demand.
// The boolean result is false when there is no current value.
type Producer[E any] interface {
	Produce() (E, bool)
}

// ProducerFunc adapts a plain function to Producer.
type ProducerFunc[E any] func() (E, bool)

// Produce calls f().
func (f ProducerFunc[E]) Produce() (E, bool) {
	return f()
}

// DeadEvent wraps an event that was posted while its topic had no
// subscribers.
type DeadEvent struct {
	Topic string
	Event any
}

// DeadEvents receives every event that found no subscriber.
var DeadEvents = NewTopic[DeadEvent]("bus.dead")
