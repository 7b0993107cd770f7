package mk3

import "go.uber.org/zap"

// DefaultHeldThreshold is the number of update cycles a button must stay
// pressed before held events start, roughly half a second at 60Hz polling.
const DefaultHeldThreshold = 30

// Tracker diffs successive input states into discrete events. It is
// constructed once per device session and mutated in place by Update; it is
// not safe for concurrent use, callers must serialize access.
type Tracker struct {
	log *zap.Logger

	prev          *InputState
	heldSince     map[Element]uint64
	frame         uint64
	heldThreshold uint64
}

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// WithHeldThreshold overrides the number of frames before held events.
func WithHeldThreshold(frames uint64) TrackerOption {
	return func(t *Tracker) {
		if frames > 0 {
			t.heldThreshold = frames
		}
	}
}

func NewTracker(log *zap.Logger, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		log:           log,
		heldSince:     make(map[Element]uint64),
		heldThreshold: DefaultHeldThreshold,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SetHeldThreshold changes the held threshold for subsequent updates.
// Buttons already past the old threshold keep their press frame, so the new
// value applies to them on the next update. A zero value is ignored.
func (t *Tracker) SetHeldThreshold(frames uint64) {
	if frames > 0 {
		t.heldThreshold = frames
	}
}

// Update ingests the next decoded input state and returns the events it
// implies. Button events come first, then knob changes, then audio changes;
// within each category the fixed element enumeration order applies.
//
// The very first update diffs buttons against an all-false default, so
// press edges are reported, but it never emits knob or audio changes: the
// hardware reports arbitrary resting values before any user interaction and
// those must not surface as spurious deltas.
func (t *Tracker) Update(state InputState) []Event {
	t.frame++
	first := t.prev == nil

	var prev InputState
	if first {
		t.log.Debug("initial input state, suppressing value changes")
	} else {
		prev = *t.prev
	}

	var events []Event
	for _, el := range ButtonElements {
		was, now := prev.Pressed(el), state.Pressed(el)
		switch {
		case !was && now:
			events = append(events, Event{Type: EventButtonPressed, Element: el})
			t.heldSince[el] = t.frame
		case was && now:
			// Re-emitted on every update past the threshold. Consumers
			// rely on the steady stream for auto-repeat behavior.
			if since, ok := t.heldSince[el]; ok && t.frame-since >= t.heldThreshold {
				events = append(events, Event{Type: EventButtonHeld, Element: el})
			}
		case was && !now:
			events = append(events, Event{Type: EventButtonReleased, Element: el})
			delete(t.heldSince, el)
		}
	}

	if !first {
		for _, el := range KnobElements {
			events = appendChange(events, EventKnobChanged, el, prev.Value(el), state.Value(el))
		}
		for _, el := range AudioElements {
			events = appendChange(events, EventAudioChanged, el, prev.Value(el), state.Value(el))
		}
	}

	t.prev = &state
	return events
}

func appendChange(events []Event, typ EventType, el Element, old, new uint16) []Event {
	if old == new {
		return events
	}
	return append(events, Event{
		Type:    typ,
		Element: el,
		Value:   new,
		Delta:   int32(new) - int32(old),
	})
}

// UpdatePads converts decoded pad hits into events. Pads are stateless
// pass-through: every hit in the packet becomes exactly one event, with no
// press/release derivation.
func (t *Tracker) UpdatePads(pads PadState) []Event {
	if len(pads.Hits) == 0 {
		return nil
	}
	events := make([]Event, 0, len(pads.Hits))
	for _, hit := range pads.Hits {
		events = append(events, Event{
			Type:     EventPadHit,
			Pad:      hit.PadNumber,
			Velocity: hit.DataA,
			Pressure: hit.DataB,
		})
	}
	return events
}

// Frame returns the number of updates processed so far.
func (t *Tracker) Frame() uint64 {
	return t.frame
}
