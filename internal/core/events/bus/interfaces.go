package bus

import "time"

// EventBus is an in-process pub/sub bus used to carry discrete input
// (edge-triggered actions) from input sources to the controllers that act on
// them.
//
// - Topics scope delivery, e.g. one topic per rig. Handlers subscribe by
//   topic and Event.Type().
// - Delivery is synchronous, in the publisher's goroutine, in subscription
//   order.
// - Handler errors are joined and returned from Publish.
// - Metrics are only collected while at least one observer is registered.
//
// All methods are safe for concurrent use.
type EventBus interface {
	// Publish delivers events on topic in order and joins their errors.
	Publish(topic string, events ...Event) error
	Subscribe(topic, eventType string, handler EventHandler) (Subscription, error)
	Unsubscribe(Subscription) error

	AddObserver(obs EventBusObserver)
	GetMetrics() EventBusMetrics
}

// Event is an immutable message on the bus.
type Event interface {
	Type() string
	Source() string
	Timestamp() time.Time
	Data() any
}

// EventHandler is invoked once per delivered event.
type EventHandler func(event Event) error

// Subscription is a handler bound to an event type within a topic.
type Subscription interface {
	ID() string
	Topic() string
	EventType() string
	IsActive() bool
	// Cancel de-registers the handler. Multiple calls are safe.
	Cancel() error
}

// EventBusObserver is told about every publish and delivery.
type EventBusObserver interface {
	OnPublish(topic, eventType string, event Event)
	OnDelivered(topic, eventType string, handlers int, err error, durationMicros int64)
}

type EventBusMetrics struct {
	Published         uint64
	DeliveredHandlers uint64
	Errors            uint64
	SubscribersActive uint64
	Topics            uint64
}
