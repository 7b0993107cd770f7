package mk3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func regionHeader(p []byte) (displayID uint8, x, y, w, h int) {
	displayID = p[2]
	x = int(p[8])<<8 | int(p[9])
	y = int(p[10])<<8 | int(p[11])
	w = int(p[12])<<8 | int(p[13])
	h = int(p[14])<<8 | int(p[15])
	return
}

func TestBuildRegionPacket(t *testing.T) {
	pixels := make([]byte, 8*8*2)
	p, err := BuildRegionPacket(1, 16, 24, 8, 8, pixels)
	require.NoError(t, err)

	// Header, transmit command, payload, blit, end.
	require.Len(t, p, 16+4+len(pixels)+4+4)

	assert.Equal(t, PacketTypeDisplay, p[0])
	assert.Equal(t, uint8(0x60), p[3])
	displayID, x, y, w, h := regionHeader(p)
	assert.Equal(t, uint8(1), displayID)
	assert.Equal(t, 16, x)
	assert.Equal(t, 24, y)
	assert.Equal(t, 8, w)
	assert.Equal(t, 8, h)

	// Transmit command counts pixel pairs, 24-bit big-endian.
	assert.Equal(t, []byte{0x00, 0, 0, 32}, p[16:20])

	assert.Equal(t, []byte{0x03, 0, 0, 0}, p[len(p)-8:len(p)-4])
	assert.Equal(t, []byte{0x40, 0, 0, 0}, p[len(p)-4:])
}

func TestBuildRegionPacketOddPixelCount(t *testing.T) {
	pixels := make([]byte, 3*3*2)
	p, err := BuildRegionPacket(0, 0, 0, 3, 3, pixels)
	require.NoError(t, err)

	// 9 pixels pad to 10, so 5 pairs and 20 payload bytes.
	assert.Equal(t, []byte{0x00, 0, 0, 5}, p[16:20])
	assert.Len(t, p, 16+4+20+4+4)
}

func TestBuildRegionPacketErrors(t *testing.T) {
	type testCase struct {
		name      string
		displayID uint8
		x, y      int
		w, h      int
		pixelLen  int
	}
	testCases := []testCase{
		{name: "display id out of range", displayID: 2, w: 8, h: 8, pixelLen: 128},
		{name: "empty region", w: 0, h: 8},
		{name: "negative origin", x: -1, w: 8, h: 8, pixelLen: 128},
		{name: "exceeds width", x: 476, w: 8, h: 8, pixelLen: 128},
		{name: "exceeds height", y: 270, w: 8, h: 8, pixelLen: 128},
		{name: "pixel length mismatch", w: 8, h: 8, pixelLen: 100},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := BuildRegionPacket(tc.displayID, tc.x, tc.y, tc.w, tc.h, make([]byte, tc.pixelLen))
			assert.ErrorIs(t, err, ErrInvalidParameter)
		})
	}
}

func TestBuildFillPacket(t *testing.T) {
	px := PackPixel(255, 0, 0)
	p, err := BuildFillPacket(0, 0, 0, DisplayWidth, DisplayHeight, px)
	require.NoError(t, err)

	// Fill stays tiny regardless of the region size.
	require.Len(t, p, 16+4+4+4+4)

	pairs := DisplayWidth * DisplayHeight / 2
	assert.Equal(t, []byte{0x01, byte(pairs >> 16), byte(pairs >> 8), byte(pairs)}, p[16:20])
	assert.Equal(t, []byte{0x07, 0xE0, 0x07, 0xE0}, p[20:24])
}

func TestFramebufferFirstUpdateSendsFullFrame(t *testing.T) {
	fb, err := NewFramebuffer(0)
	require.NoError(t, err)

	frame := make([]byte, frameRGB888Len)
	p, err := fb.DirtyUpdate(frame)
	require.NoError(t, err)
	require.NotNil(t, p)

	_, x, y, w, h := regionHeader(p)
	assert.Equal(t, 0, x)
	assert.Equal(t, 0, y)
	assert.Equal(t, DisplayWidth, w)
	assert.Equal(t, DisplayHeight, h)
}

func TestFramebufferUnchangedFrameSendsNothing(t *testing.T) {
	fb, err := NewFramebuffer(0)
	require.NoError(t, err)

	frame := make([]byte, frameRGB888Len)
	_, err = fb.DirtyUpdate(frame)
	require.NoError(t, err)

	p, err := fb.DirtyUpdate(frame)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestFramebufferDirtyRegionBlockAligned(t *testing.T) {
	fb, err := NewFramebuffer(1)
	require.NoError(t, err)

	frame := make([]byte, frameRGB888Len)
	_, err = fb.DirtyUpdate(frame)
	require.NoError(t, err)

	// Incoming frames are bottom-up, so row 10 lands on display row 261.
	next := make([]byte, frameRGB888Len)
	i := (10*DisplayWidth + 20) * 3
	next[i] = 255

	p, err := fb.DirtyUpdate(next)
	require.NoError(t, err)
	require.NotNil(t, p)

	displayID, x, y, w, h := regionHeader(p)
	assert.Equal(t, uint8(1), displayID)
	assert.Equal(t, 16, x)
	assert.Equal(t, 256, y)
	assert.Equal(t, 8, w)
	assert.Equal(t, 8, h)

	// Payload is exactly the 8x8 region: 64 pixels, 32 pairs.
	assert.Equal(t, []byte{0x00, 0, 0, 32}, p[16:20])
}

func TestFramebufferSpanningChange(t *testing.T) {
	fb, err := NewFramebuffer(0)
	require.NoError(t, err)

	frame := make([]byte, frameRGB888Len)
	_, err = fb.DirtyUpdate(frame)
	require.NoError(t, err)

	// Two changed pixels far apart produce one bounding region.
	next := make([]byte, frameRGB888Len)
	next[(100*DisplayWidth+40)*3] = 1
	next[(120*DisplayWidth+200)*3] = 1

	p, err := fb.DirtyUpdate(next)
	require.NoError(t, err)
	require.NotNil(t, p)

	_, x, y, w, h := regionHeader(p)
	assert.Equal(t, 40, x)
	assert.Equal(t, 144, y)
	assert.Equal(t, 168, w)
	assert.Equal(t, 32, h)
}

func TestFramebufferRetainsLatestFrameAfterNoop(t *testing.T) {
	fb, err := NewFramebuffer(0)
	require.NoError(t, err)

	frame := make([]byte, frameRGB888Len)
	_, err = fb.DirtyUpdate(frame)
	require.NoError(t, err)
	_, err = fb.DirtyUpdate(frame)
	require.NoError(t, err)

	// A change relative to the retained frame is still detected after the
	// no-op update.
	next := make([]byte, frameRGB888Len)
	next[0] = 1
	p, err := fb.DirtyUpdate(next)
	require.NoError(t, err)
	assert.NotNil(t, p)
}

func TestFramebufferRejectsWrongSize(t *testing.T) {
	fb, err := NewFramebuffer(0)
	require.NoError(t, err)

	_, err = fb.DirtyUpdate(make([]byte, 100))
	assert.ErrorIs(t, err, ErrInvalidParameter)
	_, err = fb.FullUpdate(make([]byte, frameRGB888Len+1))
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = NewFramebuffer(2)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestFullUpdateFlipsVertically(t *testing.T) {
	fb, err := NewFramebuffer(0)
	require.NoError(t, err)

	// First incoming row is red; the flip moves it to the last
	// transmitted row.
	frame := make([]byte, frameRGB888Len)
	for x := 0; x < DisplayWidth; x++ {
		frame[x*3] = 255
	}

	p, err := fb.FullUpdate(frame)
	require.NoError(t, err)

	red := PackPixel(255, 0, 0)
	lastRow := p[20+(DisplayHeight-1)*DisplayWidth*2 : 20+DisplayHeight*DisplayWidth*2]
	assert.Equal(t, byte(red), lastRow[0])
	assert.Equal(t, byte(red>>8), lastRow[1])
	assert.Zero(t, p[20])
	assert.Zero(t, p[21])
}
