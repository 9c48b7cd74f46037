package model

// EventType identifies the type of event
type EventType string

const (
	// Sound triggers
	EventStart EventType = "start"
	EventDrop  EventType = "drop"
	EventClear EventType = "clear"

	// Synchronization triggers
	EventStateChanged    EventType = "state_changed"
	EventAttack          EventType = "attack"
	EventGarbageReceived EventType = "garbage_received"
	EventHold            EventType = "hold"
	EventGameOver        EventType = "game_over"
	EventWin             EventType = "win"
)

// Event is emitted by engine operations and drained by collaborators
type Event struct {
	Type  EventType
	Rows  int // Rows cleared (EventClear)
	Lines int // Garbage lines sent or received (EventAttack, EventGarbageReceived)
}

// IsSound returns true for events that map to a sound effect
func (e Event) IsSound() bool {
	switch e.Type {
	case EventStart, EventDrop, EventClear:
		return true
	default:
		return false
	}
}

// ContainsType returns true if any event in the batch has the given type
func ContainsType(events []Event, t EventType) bool {
	for _, e := range events {
		if e.Type == t {
			return true
		}
	}
	return false
}
