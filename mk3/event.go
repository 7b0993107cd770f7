package mk3

import "fmt"

// EventType discriminates the Event union.
type EventType uint8

const (
	EventButtonPressed EventType = iota
	EventButtonReleased
	EventButtonHeld
	EventKnobChanged
	EventAudioChanged
	EventPadHit
)

var eventTypeNames = [...]string{
	"ButtonPressed", "ButtonReleased", "ButtonHeld",
	"KnobChanged", "AudioChanged", "PadHit",
}

func (t EventType) String() string {
	if int(t) < len(eventTypeNames) {
		return eventTypeNames[t]
	}
	return fmt.Sprintf("EventType(%d)", uint8(t))
}

// Event is a discrete input event derived by the tracker (or, for pads,
// passed straight through from the packet). Which fields are meaningful
// depends on Type:
//
//   - ButtonPressed/Released/Held: Element
//   - KnobChanged/AudioChanged: Element, Value, Delta
//   - PadHit: Pad, Velocity, Pressure
//
// Events are ephemeral; they are produced per poll and not retained.
type Event struct {
	Type    EventType
	Element Element

	Value uint16
	Delta int32

	Pad      uint8
	Velocity uint8
	Pressure uint8
}

func (e Event) String() string {
	switch e.Type {
	case EventKnobChanged, EventAudioChanged:
		return fmt.Sprintf("%s(%s value=%d delta=%+d)", e.Type, e.Element, e.Value, e.Delta)
	case EventPadHit:
		return fmt.Sprintf("%s(pad=%d velocity=%d pressure=%d)", e.Type, e.Pad, e.Velocity, e.Pressure)
	default:
		return fmt.Sprintf("%s(%s)", e.Type, e.Element)
	}
}
