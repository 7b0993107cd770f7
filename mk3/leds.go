package mk3

// ButtonLEDPacketLen and PadLEDPacketLen are the fixed output packet sizes.
const (
	ButtonLEDPacketLen = 63
	PadLEDPacketLen    = 42
)

// ButtonLedState is the full LED state of the button surface: one
// brightness byte per single-color LED and one LEDColor per RGB-capable
// slot. Encode serializes it to the fixed-offset 0x80 packet.
type ButtonLedState struct {
	// Single-color LEDs.
	ChannelMidi    uint8
	PluginInstance uint8
	Arranger       uint8
	Mixer          uint8
	Sampler        uint8
	ArrowLeft      uint8
	ArrowRight     uint8
	FileSave       uint8
	Settings       uint8
	Auto           uint8
	Macro          uint8
	DisplayButton1 uint8
	DisplayButton2 uint8
	DisplayButton3 uint8
	DisplayButton4 uint8
	DisplayButton5 uint8
	DisplayButton6 uint8
	DisplayButton7 uint8
	DisplayButton8 uint8
	Volume         uint8
	Swing          uint8
	NoteRepeat     uint8
	Tempo          uint8
	Lock           uint8
	Pitch          uint8
	Mod            uint8
	Perform        uint8
	Notes          uint8
	Restart        uint8
	Erase          uint8
	Tap            uint8
	Follow         uint8
	Play           uint8
	Rec            uint8
	Stop           uint8
	Shift          uint8
	FixedVel       uint8
	PadMode        uint8
	Keyboard       uint8
	Chords         uint8
	Step           uint8
	Scene          uint8
	Pattern        uint8
	Events         uint8
	Variation      uint8
	Duplicate      uint8
	Select         uint8
	Solo           uint8
	Mute           uint8

	// RGB LEDs.
	BrowserPlugin LEDColor
	GroupA        LEDColor
	GroupB        LEDColor
	GroupC        LEDColor
	GroupD        LEDColor
	GroupE        LEDColor
	GroupF        LEDColor
	GroupG        LEDColor
	GroupH        LEDColor
	NavUp         LEDColor
	NavLeft       LEDColor
	NavRight      LEDColor
	NavDown       LEDColor
}

// Encode serializes the state into a 63-byte 0x80 packet. Every LED
// occupies one byte at a fixed offset; RGB slots carry the palette wire
// byte instead of a raw brightness.
func (s *ButtonLedState) Encode() []byte {
	p := make([]byte, ButtonLEDPacketLen)
	p[0] = PacketTypeButtonLEDs

	p[1] = s.ChannelMidi
	p[2] = s.PluginInstance
	p[3] = s.Arranger
	p[4] = s.Mixer
	p[5] = s.BrowserPlugin.Value()
	p[6] = s.Sampler
	p[7] = s.ArrowLeft
	p[8] = s.ArrowRight
	p[9] = s.FileSave
	p[10] = s.Settings
	p[11] = s.Auto
	p[12] = s.Macro
	p[13] = s.DisplayButton1
	p[14] = s.DisplayButton2
	p[15] = s.DisplayButton3
	p[16] = s.DisplayButton4
	p[17] = s.DisplayButton5
	p[18] = s.DisplayButton6
	p[19] = s.DisplayButton7
	p[20] = s.DisplayButton8
	p[21] = s.Volume
	p[22] = s.Swing
	p[23] = s.NoteRepeat
	p[24] = s.Tempo
	p[25] = s.Lock
	p[26] = s.Pitch
	p[27] = s.Mod
	p[28] = s.Perform
	p[29] = s.Notes

	p[30] = s.GroupA.Value()
	p[31] = s.GroupB.Value()
	p[32] = s.GroupC.Value()
	p[33] = s.GroupD.Value()
	p[34] = s.GroupE.Value()
	p[35] = s.GroupF.Value()
	p[36] = s.GroupG.Value()
	p[37] = s.GroupH.Value()

	p[38] = s.Restart
	p[39] = s.Erase
	p[40] = s.Tap
	p[41] = s.Follow
	p[42] = s.Play
	p[43] = s.Rec
	p[44] = s.Stop
	p[45] = s.Shift
	p[46] = s.FixedVel
	p[47] = s.PadMode
	p[48] = s.Keyboard
	p[49] = s.Chords
	p[50] = s.Step
	p[51] = s.Scene
	p[52] = s.Pattern
	p[53] = s.Events
	p[54] = s.Variation
	p[55] = s.Duplicate
	p[56] = s.Select
	p[57] = s.Solo
	p[58] = s.Mute

	p[59] = s.NavUp.Value()
	p[60] = s.NavLeft.Value()
	p[61] = s.NavRight.Value()
	p[62] = s.NavDown.Value()

	return p
}

// PadLedState is the LED state of the 25 touch strip RGB LEDs and the 16
// pad RGB LEDs, serialized as a 42-byte 0x81 packet.
type PadLedState struct {
	TouchStrip [25]LEDColor
	Pads       [16]LEDColor
}

// Encode serializes the state into a 42-byte 0x81 packet: touch strip LEDs
// at bytes 1-25, pad LEDs at bytes 26-41.
func (s *PadLedState) Encode() []byte {
	p := make([]byte, PadLEDPacketLen)
	p[0] = PacketTypePadLEDs
	for i, led := range s.TouchStrip {
		p[i+1] = led.Value()
	}
	for i, led := range s.Pads {
		p[i+26] = led.Value()
	}
	return p
}
