package rigview

// EventStore is the interface for optional ECS integration. When set on a
// viewport, viewport events are forwarded to it.
type EventStore interface {
	EmitEvent(event ViewportEvent)
}

// EventType identifies a viewport event.
type EventType uint8

const (
	EventLoaded          EventType = iota // the runtime finished loading
	EventLoadFailed                       // the runtime failed to load
	EventClipChange                       // the active clip changed
	EventZoomChange                       // the logical zoom changed
	EventPanChange                        // the logical pan changed
	EventRecordingChange                  // recording started or stopped
	EventSnapshot                         // a still image was saved
	EventNotice                           // a user-facing notice was raised
)

var eventTypeNames = [...]string{
	EventLoaded:          "loaded",
	EventLoadFailed:      "load-failed",
	EventClipChange:      "clip-change",
	EventZoomChange:      "zoom-change",
	EventPanChange:       "pan-change",
	EventRecordingChange: "recording-change",
	EventSnapshot:        "snapshot",
	EventNotice:          "notice",
}

// String returns the event type name.
func (t EventType) String() string {
	if int(t) < len(eventTypeNames) {
		return eventTypeNames[t]
	}
	return "unknown"
}

// ViewportEvent carries viewport state changes for the ECS bridge. Only
// the fields relevant to Type are set.
type ViewportEvent struct {
	Type      EventType
	Asset     string
	Mode      Mode
	Clip      string
	Zoom      float64
	Pan       Vec2
	Recording bool
	Message   string
}
