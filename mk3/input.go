package mk3

import (
	"errors"
	"fmt"
)

// ErrInvalidPacket is returned when a packet from the device is malformed:
// wrong type tag or too short. The poll loop logs and drops such packets.
var ErrInvalidPacket = errors.New("invalid packet")

// Wire packet type tags.
const (
	PacketTypeButton     byte = 0x01
	PacketTypePad        byte = 0x02
	PacketTypeButtonLEDs byte = 0x80
	PacketTypePadLEDs    byte = 0x81
	PacketTypeDisplay    byte = 0x84
)

const buttonPacketLen = 42

// ButtonState holds the decoded state of every button on the surface,
// including the hardware presence flags that travel in the same bitmask
// bytes. It is an immutable value object, one per decoded 0x01 packet.
type ButtonState struct {
	// Transport controls.
	Play    bool
	Rec     bool
	Stop    bool
	Restart bool
	Erase   bool
	Tap     bool
	Follow  bool

	// Group buttons A-H.
	GroupA bool
	GroupB bool
	GroupC bool
	GroupD bool
	GroupE bool
	GroupF bool
	GroupG bool
	GroupH bool

	// Mode buttons.
	Notes      bool
	Volume     bool
	Swing      bool
	Tempo      bool
	NoteRepeat bool
	Lock       bool
	PadMode    bool
	Keyboard   bool
	Chords     bool
	Step       bool
	FixedVel   bool
	Scene      bool
	Pattern    bool
	Events     bool

	// Navigation.
	Variation bool
	Duplicate bool
	Select    bool
	Solo      bool
	Mute      bool
	Pitch     bool
	Mod       bool
	Perform   bool

	// Encoder and shift.
	Shift        bool
	EncoderPush  bool
	EncoderUp    bool
	EncoderDown  bool
	EncoderLeft  bool
	EncoderRight bool

	// Display row buttons.
	DisplayButton1 bool
	DisplayButton2 bool
	DisplayButton3 bool
	DisplayButton4 bool
	DisplayButton5 bool
	DisplayButton6 bool
	DisplayButton7 bool
	DisplayButton8 bool

	// System buttons.
	ChannelMidi   bool
	Arranger      bool
	BrowserPlugin bool
	ArrowLeft     bool
	ArrowRight    bool
	FileSave      bool
	Settings      bool
	Macro         bool
	Plugin        bool
	Mixer         bool
	Sampling      bool
	Auto          bool

	// Hardware presence.
	PedalConnected      bool
	MicrophoneConnected bool
}

// KnobState holds the eight 10-bit knobs (0-1023), the 4-bit main encoder
// position (0-15) and the capacitive touch flags.
type KnobState struct {
	Knob1 uint16
	Knob2 uint16
	Knob3 uint16
	Knob4 uint16
	Knob5 uint16
	Knob6 uint16
	Knob7 uint16
	Knob8 uint16

	MainEncoder uint8

	Knob1Touched bool
	Knob2Touched bool
	Knob3Touched bool
	Knob4Touched bool
	Knob5Touched bool
	Knob6Touched bool
	Knob7Touched bool
	Knob8Touched bool

	MainKnobTouched bool
}

// TouchData carries the four raw bytes reported per touch strip finger
// slot. Their exact semantics are only partially reverse-engineered, so
// they are exposed raw and used for change detection only.
type TouchData struct {
	DataA uint8
	DataB uint8
	DataC uint8
	DataD uint8
}

// TouchStripState holds the two finger slots of the touch strip.
type TouchStripState struct {
	Finger1 TouchData
	Finger2 TouchData
}

// AudioState holds the three 16-bit audio levels.
type AudioState struct {
	MicGain         uint16
	HeadphoneVolume uint16
	MasterVolume    uint16
}

// InputState is the complete decoded state of a 0x01 button/knob packet.
// Pure value type, created fresh per packet.
type InputState struct {
	Buttons    ButtonState
	Knobs      KnobState
	TouchStrip TouchStripState
	Audio      AudioState
}

// PadHit is a single 3-byte record from a 0x02 pad packet. DataA and DataB
// carry velocity-like and pressure-like readings that are not fully
// reverse-engineered; they are passed through to the event layer verbatim.
type PadHit struct {
	PadNumber uint8 // 0-15, numbered from top-right to bottom-left
	DataA     uint8
	DataB     uint8
}

// PadState is the ordered list of pad hits decoded from one 0x02 packet.
type PadState struct {
	Hits []PadHit
}

// DecodeButtonPacket parses a 0x01 button/knob packet of at least 42 bytes
// into an InputState. The byte/bit layout is the reverse-engineered wire
// contract and is preserved bit for bit. Malformed input returns
// ErrInvalidPacket; the decoder never substitutes defaults.
func DecodeButtonPacket(data []byte) (InputState, error) {
	var s InputState
	if len(data) < buttonPacketLen {
		return s, fmt.Errorf("%w: button packet is %d bytes, want at least %d", ErrInvalidPacket, len(data), buttonPacketLen)
	}
	if data[0] != PacketTypeButton {
		return s, fmt.Errorf("%w: unexpected type tag 0x%02x", ErrInvalidPacket, data[0])
	}

	b := &s.Buttons
	k := &s.Knobs

	// Byte 1: encoder and system controls.
	b.EncoderPush = data[1]&0x01 != 0
	b.PedalConnected = data[1]&0x02 != 0
	b.EncoderUp = data[1]&0x04 != 0
	b.EncoderRight = data[1]&0x08 != 0
	b.EncoderDown = data[1]&0x10 != 0
	b.EncoderLeft = data[1]&0x20 != 0
	b.Shift = data[1]&0x40 != 0
	b.DisplayButton8 = data[1]&0x80 != 0

	// Byte 2: group buttons A-H.
	b.GroupA = data[2]&0x01 != 0
	b.GroupB = data[2]&0x02 != 0
	b.GroupC = data[2]&0x04 != 0
	b.GroupD = data[2]&0x08 != 0
	b.GroupE = data[2]&0x10 != 0
	b.GroupF = data[2]&0x20 != 0
	b.GroupG = data[2]&0x40 != 0
	b.GroupH = data[2]&0x80 != 0

	// Byte 3: mode buttons.
	b.Notes = data[3]&0x01 != 0
	b.Volume = data[3]&0x02 != 0
	b.Swing = data[3]&0x04 != 0
	b.Tempo = data[3]&0x08 != 0
	b.NoteRepeat = data[3]&0x10 != 0
	b.Lock = data[3]&0x20 != 0

	// Byte 4: more mode buttons.
	b.PadMode = data[4]&0x01 != 0
	b.Keyboard = data[4]&0x02 != 0
	b.Chords = data[4]&0x04 != 0
	b.Step = data[4]&0x08 != 0
	b.FixedVel = data[4]&0x10 != 0
	b.Scene = data[4]&0x20 != 0
	b.Pattern = data[4]&0x40 != 0
	b.Events = data[4]&0x80 != 0

	// Byte 5: navigation and mic presence.
	b.MicrophoneConnected = data[5]&0x01 != 0
	b.Variation = data[5]&0x02 != 0
	b.Duplicate = data[5]&0x04 != 0
	b.Select = data[5]&0x08 != 0
	b.Solo = data[5]&0x10 != 0
	b.Mute = data[5]&0x20 != 0
	b.Pitch = data[5]&0x40 != 0
	b.Mod = data[5]&0x80 != 0

	// Byte 6: transport controls.
	b.Perform = data[6]&0x01 != 0
	b.Restart = data[6]&0x02 != 0
	b.Erase = data[6]&0x04 != 0
	b.Tap = data[6]&0x08 != 0
	b.Follow = data[6]&0x10 != 0
	b.Play = data[6]&0x20 != 0
	b.Rec = data[6]&0x40 != 0
	b.Stop = data[6]&0x80 != 0

	// Byte 7: system buttons.
	b.Macro = data[7]&0x01 != 0
	b.Settings = data[7]&0x02 != 0
	b.ArrowRight = data[7]&0x04 != 0
	b.Sampling = data[7]&0x08 != 0
	b.Mixer = data[7]&0x10 != 0
	b.Plugin = data[7]&0x20 != 0

	// Byte 8: more system buttons.
	b.ChannelMidi = data[8]&0x01 != 0
	b.Arranger = data[8]&0x02 != 0
	b.BrowserPlugin = data[8]&0x04 != 0
	b.ArrowLeft = data[8]&0x08 != 0
	b.FileSave = data[8]&0x10 != 0
	b.Auto = data[8]&0x20 != 0

	// Byte 9: display buttons and main knob touch.
	b.DisplayButton1 = data[9]&0x01 != 0
	b.DisplayButton2 = data[9]&0x02 != 0
	b.DisplayButton3 = data[9]&0x04 != 0
	b.DisplayButton4 = data[9]&0x08 != 0
	b.DisplayButton5 = data[9]&0x10 != 0
	b.DisplayButton6 = data[9]&0x20 != 0
	b.DisplayButton7 = data[9]&0x40 != 0
	k.MainKnobTouched = data[9]&0x80 != 0

	// Byte 10: knob touch flags, wired in reverse order on the device.
	k.Knob8Touched = data[10]&0x01 != 0
	k.Knob7Touched = data[10]&0x02 != 0
	k.Knob6Touched = data[10]&0x04 != 0
	k.Knob5Touched = data[10]&0x08 != 0
	k.Knob4Touched = data[10]&0x10 != 0
	k.Knob3Touched = data[10]&0x20 != 0
	k.Knob2Touched = data[10]&0x40 != 0
	k.Knob1Touched = data[10]&0x80 != 0

	// Byte 11: main encoder position (4-bit).
	k.MainEncoder = data[11] & 0x0F

	// Bytes 12-27: knob positions. Little-endian 10-bit values, low byte
	// full, high two bits in bits 0-1 of the following byte.
	k.Knob1 = knob10(data[12], data[13])
	k.Knob2 = knob10(data[14], data[15])
	k.Knob3 = knob10(data[16], data[17])
	k.Knob4 = knob10(data[18], data[19])
	k.Knob5 = knob10(data[20], data[21])
	k.Knob6 = knob10(data[22], data[23])
	k.Knob7 = knob10(data[24], data[25])
	k.Knob8 = knob10(data[26], data[27])

	// Bytes 28-35: touch strip finger slots.
	s.TouchStrip.Finger1 = TouchData{data[28], data[29], data[30], data[31]}
	s.TouchStrip.Finger2 = TouchData{data[32], data[33], data[34], data[35]}

	// Bytes 36-41: audio levels, little-endian u16.
	s.Audio.MicGain = uint16(data[37])<<8 | uint16(data[36])
	s.Audio.HeadphoneVolume = uint16(data[39])<<8 | uint16(data[38])
	s.Audio.MasterVolume = uint16(data[41])<<8 | uint16(data[40])

	return s, nil
}

func knob10(lo, hi byte) uint16 {
	return uint16(hi&0x03)<<8 | uint16(lo)
}

// DecodePadPacket parses a 0x02 pad packet. Records are 3 bytes each
// starting at offset 1: (pad number, data A, data B). The format carries no
// length prefix; all-zero records are skipped as padding, and the first
// record with a pad number above 15 terminates the scan without error.
func DecodePadPacket(data []byte) (PadState, error) {
	if len(data) == 0 || data[0] != PacketTypePad {
		return PadState{}, fmt.Errorf("%w: not a pad packet", ErrInvalidPacket)
	}

	var hits []PadHit
	for off := 1; off+2 < len(data); off += 3 {
		pad, dataA, dataB := data[off], data[off+1], data[off+2]
		if pad == 0 && dataA == 0 && dataB == 0 {
			// Padding record, keep scanning.
			continue
		}
		if pad > 15 {
			// End of pad data.
			break
		}
		hits = append(hits, PadHit{PadNumber: pad, DataA: dataA, DataB: dataB})
	}
	return PadState{Hits: hits}, nil
}

// Pressed reports whether the given boolean element is active in this
// state. Value elements always report false.
func (s *InputState) Pressed(e Element) bool {
	b, k := &s.Buttons, &s.Knobs
	switch e {
	case Play:
		return b.Play
	case Rec:
		return b.Rec
	case Stop:
		return b.Stop
	case Restart:
		return b.Restart
	case Erase:
		return b.Erase
	case Tap:
		return b.Tap
	case Follow:
		return b.Follow
	case GroupA:
		return b.GroupA
	case GroupB:
		return b.GroupB
	case GroupC:
		return b.GroupC
	case GroupD:
		return b.GroupD
	case GroupE:
		return b.GroupE
	case GroupF:
		return b.GroupF
	case GroupG:
		return b.GroupG
	case GroupH:
		return b.GroupH
	case Notes:
		return b.Notes
	case Volume:
		return b.Volume
	case Swing:
		return b.Swing
	case Tempo:
		return b.Tempo
	case NoteRepeat:
		return b.NoteRepeat
	case Lock:
		return b.Lock
	case PadMode:
		return b.PadMode
	case Keyboard:
		return b.Keyboard
	case Chords:
		return b.Chords
	case Step:
		return b.Step
	case FixedVel:
		return b.FixedVel
	case Scene:
		return b.Scene
	case Pattern:
		return b.Pattern
	case Events:
		return b.Events
	case Variation:
		return b.Variation
	case Duplicate:
		return b.Duplicate
	case Select:
		return b.Select
	case Solo:
		return b.Solo
	case Mute:
		return b.Mute
	case Pitch:
		return b.Pitch
	case Mod:
		return b.Mod
	case Perform:
		return b.Perform
	case Shift:
		return b.Shift
	case EncoderPush:
		return b.EncoderPush
	case EncoderUp:
		return b.EncoderUp
	case EncoderDown:
		return b.EncoderDown
	case EncoderLeft:
		return b.EncoderLeft
	case EncoderRight:
		return b.EncoderRight
	case DisplayButton1:
		return b.DisplayButton1
	case DisplayButton2:
		return b.DisplayButton2
	case DisplayButton3:
		return b.DisplayButton3
	case DisplayButton4:
		return b.DisplayButton4
	case DisplayButton5:
		return b.DisplayButton5
	case DisplayButton6:
		return b.DisplayButton6
	case DisplayButton7:
		return b.DisplayButton7
	case DisplayButton8:
		return b.DisplayButton8
	case ChannelMidi:
		return b.ChannelMidi
	case Arranger:
		return b.Arranger
	case BrowserPlugin:
		return b.BrowserPlugin
	case ArrowLeft:
		return b.ArrowLeft
	case ArrowRight:
		return b.ArrowRight
	case FileSave:
		return b.FileSave
	case Settings:
		return b.Settings
	case Macro:
		return b.Macro
	case Plugin:
		return b.Plugin
	case Mixer:
		return b.Mixer
	case Sampling:
		return b.Sampling
	case Auto:
		return b.Auto
	case PedalConnected:
		return b.PedalConnected
	case MicrophoneConnected:
		return b.MicrophoneConnected
	case Knob1Touch:
		return k.Knob1Touched
	case Knob2Touch:
		return k.Knob2Touched
	case Knob3Touch:
		return k.Knob3Touched
	case Knob4Touch:
		return k.Knob4Touched
	case Knob5Touch:
		return k.Knob5Touched
	case Knob6Touch:
		return k.Knob6Touched
	case Knob7Touch:
		return k.Knob7Touched
	case Knob8Touch:
		return k.Knob8Touched
	case MainKnobTouch:
		return k.MainKnobTouched
	}
	return false
}

// Value returns the current reading of a value element. Boolean elements
// always report zero.
func (s *InputState) Value(e Element) uint16 {
	switch e {
	case Knob1:
		return s.Knobs.Knob1
	case Knob2:
		return s.Knobs.Knob2
	case Knob3:
		return s.Knobs.Knob3
	case Knob4:
		return s.Knobs.Knob4
	case Knob5:
		return s.Knobs.Knob5
	case Knob6:
		return s.Knobs.Knob6
	case Knob7:
		return s.Knobs.Knob7
	case Knob8:
		return s.Knobs.Knob8
	case MainEncoder:
		return uint16(s.Knobs.MainEncoder)
	case MicGain:
		return s.Audio.MicGain
	case HeadphoneVolume:
		return s.Audio.HeadphoneVolume
	case MasterVolume:
		return s.Audio.MasterVolume
	}
	return 0
}
