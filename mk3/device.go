package mk3

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Transport is the raw duplex byte channel the device core runs on. The
// USB/HID specifics (interface claiming, endpoints, kernel drivers) live
// behind this interface; the core only needs bytes in and bytes out with a
// distinguishable "no data yet" outcome.
//
// Read blocks for at most the given timeout and returns (nil, nil) when no
// data arrived in time.
type Transport interface {
	Write(p []byte) error
	Read(timeout time.Duration) ([]byte, error)
	Close() error
}

// DefaultPollTimeout bounds a single blocking transport read during event
// polling.
const DefaultPollTimeout = 100 * time.Millisecond

// Device coordinates the codec, the tracker, the LED state and the
// per-display retained framebuffers over a pair of transports: a control
// channel (interrupt-style, input packets and LED packets) and a display
// channel (bulk-style, region packets).
//
// LED setters mutate pending in-memory state only; FlushLEDs writes both
// LED packets in one go, bounding the writes per logical update to exactly
// two regardless of how many setters were called.
//
// All state mutation and all transport writes serialize on one internal
// mutex, so a Device may be polled from a background goroutine while another
// updates LEDs or streams display frames. The blocking control read in
// PollInputEvents runs outside the mutex; only the decoded packet is applied
// under it.
type Device struct {
	log     *zap.Logger
	control Transport
	display Transport

	mu           sync.Mutex
	pollTimeout  time.Duration
	tracker      *Tracker
	buttonLEDs   ButtonLedState
	padLEDs      PadLedState
	ledsDirty    bool
	framebuffers [2]*Framebuffer
}

// DeviceOption configures a Device.
type DeviceOption func(*Device)

// WithPollTimeout overrides the blocking read timeout used by
// PollInputEvents.
func WithPollTimeout(d time.Duration) DeviceOption {
	return func(dev *Device) {
		if d > 0 {
			dev.pollTimeout = d
		}
	}
}

// WithTracker substitutes a preconfigured input tracker.
func WithTracker(t *Tracker) DeviceOption {
	return func(dev *Device) {
		dev.tracker = t
	}
}

// NewDevice wires a device facade over the given transports. The display
// transport may be nil when the bulk interface could not be claimed; in
// that case display writes fail with ErrInvalidParameter but input and LEDs
// keep working.
func NewDevice(log *zap.Logger, control, display Transport, opts ...DeviceOption) *Device {
	fb0, _ := NewFramebuffer(0)
	fb1, _ := NewFramebuffer(1)
	d := &Device{
		log:          log,
		control:      control,
		display:      display,
		pollTimeout:  DefaultPollTimeout,
		framebuffers: [2]*Framebuffer{fb0, fb1},
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.tracker == nil {
		d.tracker = NewTracker(log.Named("tracker"))
	}
	return d
}

// SetPollTimeout changes the blocking read timeout used by subsequent
// PollInputEvents calls. Non-positive values are ignored.
func (d *Device) SetPollTimeout(timeout time.Duration) {
	if timeout <= 0 {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pollTimeout = timeout
}

// SetHeldThreshold changes the tracker's held threshold for subsequent
// updates. A zero value is ignored.
func (d *Device) SetHeldThreshold(frames uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tracker.SetHeldThreshold(frames)
}

// PollInputEvents performs one bounded transport read and runs the decoded
// packet through the tracker. A read timeout yields an empty event list. A
// malformed packet is logged and dropped; polling is never aborted by one
// bad packet.
func (d *Device) PollInputEvents() ([]Event, error) {
	d.mu.Lock()
	timeout := d.pollTimeout
	d.mu.Unlock()

	data, err := d.control.Read(timeout)
	if err != nil {
		return nil, fmt.Errorf("input read: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	switch data[0] {
	case PacketTypeButton:
		state, err := DecodeButtonPacket(data)
		if err != nil {
			d.log.Warn("dropping malformed button packet", zap.Error(err), zap.Int("len", len(data)))
			return nil, nil
		}
		return d.tracker.Update(state), nil
	case PacketTypePad:
		pads, err := DecodePadPacket(data)
		if err != nil {
			d.log.Warn("dropping malformed pad packet", zap.Error(err), zap.Int("len", len(data)))
			return nil, nil
		}
		return d.tracker.UpdatePads(pads), nil
	default:
		d.log.Debug("ignoring packet with unknown type tag", zap.Uint8("tag", data[0]))
		return nil, nil
	}
}

// SetButtonLED sets the pending brightness of a single-color button LED.
// RGB-capable slots accept a brightness too and render it as grayscale.
// Elements without an LED are ignored.
func (d *Device) SetButtonLED(el Element, brightness uint8) {
	d.mu.Lock()
	defer d.mu.Unlock()

	s := &d.buttonLEDs
	switch el {
	case Play:
		s.Play = brightness
	case Rec:
		s.Rec = brightness
	case Stop:
		s.Stop = brightness
	case Restart:
		s.Restart = brightness
	case Erase:
		s.Erase = brightness
	case Tap:
		s.Tap = brightness
	case Follow:
		s.Follow = brightness
	case ChannelMidi:
		s.ChannelMidi = brightness
	case Arranger:
		s.Arranger = brightness
	case ArrowLeft:
		s.ArrowLeft = brightness
	case ArrowRight:
		s.ArrowRight = brightness
	case FileSave:
		s.FileSave = brightness
	case Settings:
		s.Settings = brightness
	case Macro:
		s.Macro = brightness
	case Auto:
		s.Auto = brightness
	case Plugin:
		s.PluginInstance = brightness
	case Mixer:
		s.Mixer = brightness
	case Sampling:
		s.Sampler = brightness
	case Volume:
		s.Volume = brightness
	case Swing:
		s.Swing = brightness
	case NoteRepeat:
		s.NoteRepeat = brightness
	case Tempo:
		s.Tempo = brightness
	case Lock:
		s.Lock = brightness
	case Pitch:
		s.Pitch = brightness
	case Mod:
		s.Mod = brightness
	case Perform:
		s.Perform = brightness
	case Notes:
		s.Notes = brightness
	case Shift:
		s.Shift = brightness
	case FixedVel:
		s.FixedVel = brightness
	case PadMode:
		s.PadMode = brightness
	case Keyboard:
		s.Keyboard = brightness
	case Chords:
		s.Chords = brightness
	case Step:
		s.Step = brightness
	case Scene:
		s.Scene = brightness
	case Pattern:
		s.Pattern = brightness
	case Events:
		s.Events = brightness
	case Variation:
		s.Variation = brightness
	case Duplicate:
		s.Duplicate = brightness
	case Select:
		s.Select = brightness
	case Solo:
		s.Solo = brightness
	case Mute:
		s.Mute = brightness
	case DisplayButton1:
		s.DisplayButton1 = brightness
	case DisplayButton2:
		s.DisplayButton2 = brightness
	case DisplayButton3:
		s.DisplayButton3 = brightness
	case DisplayButton4:
		s.DisplayButton4 = brightness
	case DisplayButton5:
		s.DisplayButton5 = brightness
	case DisplayButton6:
		s.DisplayButton6 = brightness
	case DisplayButton7:
		s.DisplayButton7 = brightness
	case DisplayButton8:
		s.DisplayButton8 = brightness
	case GroupA:
		s.GroupA = ColorFromBrightness(brightness)
	case GroupB:
		s.GroupB = ColorFromBrightness(brightness)
	case GroupC:
		s.GroupC = ColorFromBrightness(brightness)
	case GroupD:
		s.GroupD = ColorFromBrightness(brightness)
	case GroupE:
		s.GroupE = ColorFromBrightness(brightness)
	case GroupF:
		s.GroupF = ColorFromBrightness(brightness)
	case GroupG:
		s.GroupG = ColorFromBrightness(brightness)
	case GroupH:
		s.GroupH = ColorFromBrightness(brightness)
	case BrowserPlugin:
		s.BrowserPlugin = ColorFromBrightness(brightness)
	case EncoderUp:
		s.NavUp = ColorFromBrightness(brightness)
	case EncoderLeft:
		s.NavLeft = ColorFromBrightness(brightness)
	case EncoderRight:
		s.NavRight = ColorFromBrightness(brightness)
	case EncoderDown:
		s.NavDown = ColorFromBrightness(brightness)
	default:
		return
	}
	d.ledsDirty = true
}

// SetButtonLEDColor sets the pending color of an RGB-capable button LED.
// Elements without an RGB LED are ignored.
func (d *Device) SetButtonLEDColor(el Element, color LEDColor) {
	d.mu.Lock()
	defer d.mu.Unlock()

	s := &d.buttonLEDs
	switch el {
	case GroupA:
		s.GroupA = color
	case GroupB:
		s.GroupB = color
	case GroupC:
		s.GroupC = color
	case GroupD:
		s.GroupD = color
	case GroupE:
		s.GroupE = color
	case GroupF:
		s.GroupF = color
	case GroupG:
		s.GroupG = color
	case GroupH:
		s.GroupH = color
	case BrowserPlugin:
		s.BrowserPlugin = color
	case EncoderUp:
		s.NavUp = color
	case EncoderLeft:
		s.NavLeft = color
	case EncoderRight:
		s.NavRight = color
	case EncoderDown:
		s.NavDown = color
	default:
		return
	}
	d.ledsDirty = true
}

// SetPadLED sets the pending color of one pad LED (0-15).
func (d *Device) SetPadLED(pad int, color LEDColor) error {
	if pad < 0 || pad > 15 {
		return fmt.Errorf("%w: pad number must be 0-15, got %d", ErrInvalidParameter, pad)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.padLEDs.Pads[pad] != color {
		d.padLEDs.Pads[pad] = color
		d.ledsDirty = true
	}
	return nil
}

// SetTouchStripLED sets the pending color of one of the 25 touch strip
// LEDs.
func (d *Device) SetTouchStripLED(index int, color LEDColor) error {
	if index < 0 || index >= len(d.padLEDs.TouchStrip) {
		return fmt.Errorf("%w: touch strip LED index must be 0-24, got %d", ErrInvalidParameter, index)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.padLEDs.TouchStrip[index] != color {
		d.padLEDs.TouchStrip[index] = color
		d.ledsDirty = true
	}
	return nil
}

// SetAllPadLEDs sets every pad LED to the same pending color.
func (d *Device) SetAllPadLEDs(color LEDColor) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range d.padLEDs.Pads {
		if d.padLEDs.Pads[i] != color {
			d.padLEDs.Pads[i] = color
			d.ledsDirty = true
		}
	}
}

// ClearAllLEDs resets all pending LED state to off.
func (d *Device) ClearAllLEDs() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.buttonLEDs = ButtonLedState{}
	d.padLEDs = PadLedState{}
	d.ledsDirty = true
}

// FlushLEDs writes the pending LED state to the device: exactly one button
// LED packet and one pad LED packet, whatever number of setter calls
// preceded it. A flush with no pending changes is a no-op.
func (d *Device) FlushLEDs() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.flushLEDsLocked()
}

func (d *Device) flushLEDsLocked() error {
	if !d.ledsDirty {
		return nil
	}
	if err := d.control.Write(d.buttonLEDs.Encode()); err != nil {
		return fmt.Errorf("button LED write: %w", err)
	}
	if err := d.control.Write(d.padLEDs.Encode()); err != nil {
		return fmt.Errorf("pad LED write: %w", err)
	}
	d.ledsDirty = false
	return nil
}

// LEDState returns a snapshot of the pending LED state.
func (d *Device) LEDState() (ButtonLedState, PadLedState) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.buttonLEDs, d.padLEDs
}

// RestoreLEDState replaces the pending LED state wholesale and flushes it.
func (d *Device) RestoreLEDState(buttons ButtonLedState, pads PadLedState) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.buttonLEDs = buttons
	d.padLEDs = pads
	d.ledsDirty = true
	return d.flushLEDsLocked()
}

func (d *Device) writeDisplay(packet []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.writeDisplayLocked(packet)
}

func (d *Device) writeDisplayLocked(packet []byte) error {
	if d.display == nil {
		return fmt.Errorf("%w: display transport not available", ErrInvalidParameter)
	}
	if err := d.display.Write(packet); err != nil {
		return fmt.Errorf("display write: %w", err)
	}
	return nil
}

// WriteDisplayRegion sends raw device-format pixels to a region of one
// display. No Y flip is applied; region data is display coordinate space.
func (d *Device) WriteDisplayRegion(displayID uint8, x, y, width, height int, pixels []byte) error {
	packet, err := BuildRegionPacket(displayID, x, y, width, height, pixels)
	if err != nil {
		return err
	}
	return d.writeDisplay(packet)
}

// WriteDisplayRegionRGB888 converts an RGB888 region and sends it. No Y
// flip is applied.
func (d *Device) WriteDisplayRegionRGB888(displayID uint8, x, y, width, height int, rgb []byte) error {
	packet, err := BuildRegionPacketRGB888(displayID, x, y, width, height, rgb)
	if err != nil {
		return err
	}
	return d.writeDisplay(packet)
}

// FillDisplay fills an entire display with one color via the repeat
// command, which keeps the packet a few dozen bytes instead of a quarter
// megabyte.
func (d *Device) FillDisplay(displayID uint8, r, g, b uint8) error {
	packet, err := BuildFillPacket(displayID, 0, 0, DisplayWidth, DisplayHeight, PackPixel(r, g, b))
	if err != nil {
		return err
	}
	return d.writeDisplay(packet)
}

// FillDisplayHSV fills an entire display with a color given in HSV (h in
// degrees 0-360, s and v in 0-1).
func (d *Device) FillDisplayHSV(displayID uint8, h, s, v float64) error {
	packet, err := BuildFillPacket(displayID, 0, 0, DisplayWidth, DisplayHeight, PackPixelHSV(h, s, v))
	if err != nil {
		return err
	}
	return d.writeDisplay(packet)
}

// WriteDisplayFramebufferRGB888 sends a full RGB888 frame. Full-frame
// writes flip vertically for Unity-style bottom-up textures and replace the
// retained framebuffer used by dirty detection.
func (d *Device) WriteDisplayFramebufferRGB888(displayID uint8, rgb []byte) error {
	if displayID > 1 {
		return fmt.Errorf("%w: display id must be 0 or 1, got %d", ErrInvalidParameter, displayID)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	packet, err := d.framebuffers[displayID].FullUpdate(rgb)
	if err != nil {
		return err
	}
	return d.writeDisplayLocked(packet)
}

// WriteDisplayFramebufferRGB888Dirty sends a full RGB888 frame through the
// dirty-rectangle detector: the first call transmits the whole frame,
// subsequent calls transmit only the block-aligned bounding box of changed
// pixels, and an unchanged frame transmits nothing.
func (d *Device) WriteDisplayFramebufferRGB888Dirty(displayID uint8, rgb []byte) error {
	if displayID > 1 {
		return fmt.Errorf("%w: display id must be 0 or 1, got %d", ErrInvalidParameter, displayID)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	packet, err := d.framebuffers[displayID].DirtyUpdate(rgb)
	if err != nil {
		return err
	}
	if packet == nil {
		return nil
	}
	return d.writeDisplayLocked(packet)
}

// Close closes both transports.
func (d *Device) Close() error {
	var firstErr error
	if d.control != nil {
		if err := d.control.Close(); err != nil {
			firstErr = err
		}
	}
	if d.display != nil {
		if err := d.display.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
