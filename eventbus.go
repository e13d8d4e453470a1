package soaecs

import "reflect"

// EntityCreated is published by an EntityAllocator after Create hands out a handle.
type EntityCreated struct {
	Entity Entity
}

// EntityDestroyed is published by an EntityAllocator after a handle is retired.
type EntityDestroyed struct {
	Entity Entity
	// Parked is true when the slot hit MaxGeneration and will never be reused.
	Parked bool
}

// EntitiesReset is published by an EntityAllocator after Reset. Every handle issued before it is
// void, and indices start over from 1.
type EntitiesReset struct{}

// ColumnsReallocated is published by a ColumnStore whenever its backing runs move. Every field
// view obtained before the event is stale.
type ColumnsReallocated struct {
	OldCapacity int
	NewCapacity int
	Generation  uint64
}

// EventBus is a small synchronous, type-keyed publish/subscribe hub. The allocator, column store
// and transform component use it to observe each other without holding references.
//
// The zero value is ready to use. It is not safe for concurrent use.
type EventBus struct {
	handlers map[reflect.Type][]any
}

// Subscribe registers handler for events of type T. Handlers run in subscription order.
func Subscribe[T any](bus *EventBus, handler func(T)) {
	t := reflect.TypeFor[T]()
	if bus.handlers == nil {
		bus.handlers = make(map[reflect.Type][]any)
	}
	bus.handlers[t] = append(bus.handlers[t], handler)
}

// Publish calls every handler subscribed to T with event. A nil bus is allowed and drops the
// event, which lets producers publish unconditionally.
func Publish[T any](bus *EventBus, event T) {
	if bus == nil {
		return
	}
	for _, h := range bus.handlers[reflect.TypeFor[T]()] {
		h.(func(T))(event)
	}
}
