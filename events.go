package rigview

// Subscriber names used by the viewport for clip-complete events.
const (
	SubscriberAutoplay  = "autoplay"
	SubscriberRecording = "recording"
)

type completeHandler struct {
	id   uint32
	name string
	fn   func(clip string)
}

// EventBus fans clip-complete events out to named subscribers. Each name
// holds at most one handler; subscribing again under the same name
// replaces the previous handler.
type EventBus struct {
	handlers []completeHandler
	nextID   uint32
}

// Subscription allows removing a handler registered on an EventBus.
type Subscription struct {
	id  uint32
	bus *EventBus
}

// Remove unregisters the handler. Removing twice, or removing a handler
// that was replaced, is a no-op.
func (s Subscription) Remove() {
	if s.bus == nil {
		return
	}
	for i := range s.bus.handlers {
		if s.bus.handlers[i].id == s.id {
			s.bus.removeAt(i)
			return
		}
	}
}

// Subscribe registers fn under name, replacing any handler already
// registered under that name.
func (b *EventBus) Subscribe(name string, fn func(clip string)) Subscription {
	b.Unsubscribe(name)
	b.nextID++
	b.handlers = append(b.handlers, completeHandler{id: b.nextID, name: name, fn: fn})
	return Subscription{id: b.nextID, bus: b}
}

// Unsubscribe removes the handler registered under name, if any.
func (b *EventBus) Unsubscribe(name string) {
	for i := range b.handlers {
		if b.handlers[i].name == name {
			b.removeAt(i)
			return
		}
	}
}

// Has reports whether a handler is registered under name.
func (b *EventBus) Has(name string) bool {
	for i := range b.handlers {
		if b.handlers[i].name == name {
			return true
		}
	}
	return false
}

// Len returns the number of registered handlers.
func (b *EventBus) Len() int {
	return len(b.handlers)
}

// Publish delivers a clip-complete event to every subscriber in
// registration order. Handlers may subscribe or unsubscribe while the event
// is being delivered; the set is snapshotted first.
func (b *EventBus) Publish(clip string) {
	if len(b.handlers) == 0 {
		return
	}
	snapshot := make([]completeHandler, len(b.handlers))
	copy(snapshot, b.handlers)
	for _, h := range snapshot {
		if b.live(h.id) {
			h.fn(clip)
		}
	}
}

// Clear removes every handler.
func (b *EventBus) Clear() {
	for i := range b.handlers {
		b.handlers[i] = completeHandler{}
	}
	b.handlers = b.handlers[:0]
}

func (b *EventBus) live(id uint32) bool {
	for i := range b.handlers {
		if b.handlers[i].id == id {
			return true
		}
	}
	return false
}

func (b *EventBus) removeAt(i int) {
	copy(b.handlers[i:], b.handlers[i+1:])
	b.handlers[len(b.handlers)-1] = completeHandler{}
	b.handlers = b.handlers[:len(b.handlers)-1]
}
