package mk3

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPackPixel(t *testing.T) {
	type testCase struct {
		name    string
		r, g, b uint8
		want    Pixel
	}
	testCases := []testCase{
		{name: "black", want: 0x0000},
		{name: "white", r: 255, g: 255, b: 255, want: 0xFFFF},
		// The channel rotation puts visual red in the split green field,
		// green in the blue field and blue in the red field.
		{name: "red", r: 255, want: 0xE007},
		{name: "green", g: 255, want: 0x1F00},
		{name: "blue", b: 255, want: 0x00F8},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, PackPixel(tc.r, tc.g, tc.b))
		})
	}
}

func TestPixelAppendLE(t *testing.T) {
	out := Pixel(0xE007).appendLE(nil)
	assert.Equal(t, []byte{0x07, 0xE0}, out)
}

func TestPackPixelHSV(t *testing.T) {
	assert.Equal(t, PackPixel(255, 0, 0), PackPixelHSV(0, 1, 1))
	assert.Equal(t, PackPixel(0, 255, 0), PackPixelHSV(120, 1, 1))
	assert.Equal(t, PackPixel(0, 0, 255), PackPixelHSV(240, 1, 1))
	assert.Equal(t, Pixel(0), PackPixelHSV(0, 0, 0))
}

func TestConvertRGB888FlipY(t *testing.T) {
	// 1x2 image: red on top, blue on bottom.
	src := []byte{255, 0, 0, 0, 0, 255}

	dst := make([]byte, 4)
	convertRGB888(dst, src, 1, 2, false)
	assert.Equal(t, []byte{0x07, 0xE0, 0xF8, 0x00}, dst)

	convertRGB888(dst, src, 1, 2, true)
	assert.Equal(t, []byte{0xF8, 0x00, 0x07, 0xE0}, dst)
}
