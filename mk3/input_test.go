package mk3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buttonPacket(mutate func(p []byte)) []byte {
	p := make([]byte, 42)
	p[0] = PacketTypeButton
	if mutate != nil {
		mutate(p)
	}
	return p
}

func TestDecodeButtonPacketErrors(t *testing.T) {
	type testCase struct {
		name string
		data []byte
	}
	testCases := []testCase{
		{name: "empty", data: nil},
		{name: "short", data: buttonPacket(nil)[:41]},
		{name: "wrong tag", data: buttonPacket(func(p []byte) { p[0] = 0x02 })},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeButtonPacket(tc.data)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidPacket)
		})
	}
}

func TestDecodeButtonPacketBits(t *testing.T) {
	type testCase struct {
		name    string
		mutate  func(p []byte)
		pressed []Element
	}
	testCases := []testCase{
		{
			name:    "play is byte 6 bit 5",
			mutate:  func(p []byte) { p[6] = 0x20 },
			pressed: []Element{Play},
		},
		{
			name:    "shift and encoder push share byte 1",
			mutate:  func(p []byte) { p[1] = 0x41 },
			pressed: []Element{Shift, EncoderPush},
		},
		{
			name:    "group row",
			mutate:  func(p []byte) { p[2] = 0x81 },
			pressed: []Element{GroupA, GroupH},
		},
		{
			name:    "knob touch order is reversed on the wire",
			mutate:  func(p []byte) { p[10] = 0x80 },
			pressed: []Element{Knob1Touch},
		},
		{
			name:    "transport row",
			mutate:  func(p []byte) { p[6] = 0xC0 },
			pressed: []Element{Rec, Stop},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			state, err := DecodeButtonPacket(buttonPacket(tc.mutate))
			require.NoError(t, err)

			want := make(map[Element]bool, len(tc.pressed))
			for _, el := range tc.pressed {
				want[el] = true
			}
			for _, el := range ButtonElements {
				assert.Equal(t, want[el], state.Pressed(el), "element %s", el)
			}
		})
	}
}

func TestDecodeButtonPacketValues(t *testing.T) {
	state, err := DecodeButtonPacket(buttonPacket(func(p []byte) {
		p[11] = 0x0F // main encoder position
		// knob 1 = 0x3FF, knob 8 = 0x155
		p[12], p[13] = 0xFF, 0x03
		p[26], p[27] = 0x55, 0x01
		// audio levels, little-endian
		p[36], p[37] = 0x34, 0x12
		p[40], p[41] = 0xFF, 0xFF
	}))
	require.NoError(t, err)

	assert.Equal(t, uint16(1023), state.Knobs.Knob1)
	assert.Equal(t, uint16(0x155), state.Knobs.Knob8)
	assert.Equal(t, uint8(15), state.Knobs.MainEncoder)
	assert.Equal(t, uint16(0x1234), state.Audio.MicGain)
	assert.Equal(t, uint16(0xFFFF), state.Audio.MasterVolume)

	assert.Equal(t, uint16(1023), state.Value(Knob1))
	assert.Equal(t, uint16(15), state.Value(MainEncoder))
	assert.Equal(t, uint16(0x1234), state.Value(MicGain))
}

func TestDecodeButtonPacketKnobHighBitsMasked(t *testing.T) {
	// Bits 2-7 of the knob high byte carry unrelated data and must not
	// leak into the 10-bit value.
	state, err := DecodeButtonPacket(buttonPacket(func(p []byte) {
		p[14], p[15] = 0x01, 0xFE
	}))
	require.NoError(t, err)
	assert.Equal(t, uint16(0x201), state.Knobs.Knob2)
}

func TestDecodeButtonPacketTouchStrip(t *testing.T) {
	state, err := DecodeButtonPacket(buttonPacket(func(p []byte) {
		p[28], p[29], p[30], p[31] = 1, 2, 3, 4
		p[32], p[33], p[34], p[35] = 5, 6, 7, 8
	}))
	require.NoError(t, err)
	assert.Equal(t, TouchData{1, 2, 3, 4}, state.TouchStrip.Finger1)
	assert.Equal(t, TouchData{5, 6, 7, 8}, state.TouchStrip.Finger2)
}

func TestDecodePadPacket(t *testing.T) {
	type testCase struct {
		name string
		data []byte
		want []PadHit
	}
	testCases := []testCase{
		{
			name: "zero records skipped, scan stops at first pad above 15",
			data: []byte{0x02, 0x05, 0x40, 0x7F, 0x00, 0x00, 0x00, 0x10, 0x30, 0x20},
			want: []PadHit{{PadNumber: 5, DataA: 0x40, DataB: 0x7F}},
		},
		{
			name: "multiple hits",
			data: []byte{0x02, 0x00, 0x10, 0x20, 0x0F, 0x7F, 0x01},
			want: []PadHit{
				{PadNumber: 0, DataA: 0x10, DataB: 0x20},
				{PadNumber: 15, DataA: 0x7F, DataB: 0x01},
			},
		},
		{
			name: "trailing partial record ignored",
			data: []byte{0x02, 0x03, 0x01, 0x02, 0x04, 0x05},
			want: []PadHit{{PadNumber: 3, DataA: 1, DataB: 2}},
		},
		{
			name: "all padding",
			data: []byte{0x02, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
			want: nil,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			state, err := DecodePadPacket(tc.data)
			require.NoError(t, err)
			assert.Equal(t, tc.want, state.Hits)
		})
	}
}

func TestDecodePadPacketErrors(t *testing.T) {
	_, err := DecodePadPacket(nil)
	assert.ErrorIs(t, err, ErrInvalidPacket)
	_, err = DecodePadPacket([]byte{0x01, 0x00})
	assert.ErrorIs(t, err, ErrInvalidPacket)
}
