package handles

// Handle is an opaque reference to a value in a table.
type Handle uint32

// Mark is set on every handle word so handles never collide with native
// addresses, which fit in 32 bits.
const Mark uint64 = 1 << 62

// Word returns the native word carrying h.
func (h Handle) Word() uint64 {
	if h == 0 {
		return 0
	}
	return Mark | uint64(h)
}

// FromWord recovers a handle from a native word. ok is false for words that
// were not produced by Word.
func FromWord(w uint64) (h Handle, ok bool) {
	if w&Mark == 0 || w&^Mark > 0xffffffff {
		return 0, false
	}
	return Handle(w &^ Mark), true
}

// EventType identifies a lifecycle notification.
type EventType uint8

const (
	EventCreated EventType = iota
	EventDropped
)

// Event is sent to observers when a handle is created or dropped.
type Event struct {
	Value  any
	Kind   string
	Handle Handle
	Type   EventType
}

// Observer receives handle lifecycle events.
type Observer interface {
	OnHandleEvent(Event)
}

// Dropper is optionally implemented by values that need cleanup when their
// handle is removed.
type Dropper interface {
	Drop()
}
