package mk3

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColorFromRGB(t *testing.T) {
	type testCase struct {
		name    string
		r, g, b uint8
		want    LEDColor
	}
	testCases := []testCase{
		{name: "black is off", want: ColorOff},
		{name: "pure red", r: 255, want: LEDColor{Index: 0, Bright: true}},
		{name: "pure green", g: 255, want: LEDColor{Index: 5, Bright: true}},
		{name: "pure blue", b: 255, want: LEDColor{Index: 9, Bright: true}},
		{name: "white", r: 255, g: 255, b: 255, want: LEDColor{Index: 16, Bright: true}},
		{name: "half red stays red and dim", r: 127, want: LEDColor{Index: 0, Bright: false}},
		{name: "max channel above 127 is bright", r: 128, want: LEDColor{Index: 0, Bright: true}},
		{name: "dark violet snaps to dark purple", r: 64, b: 128, want: LEDColor{Index: 14, Bright: true}},
		{name: "near gray", r: 120, g: 120, b: 120, want: LEDColor{Index: 15, Bright: false}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ColorFromRGB(tc.r, tc.g, tc.b))
		})
	}
}

func TestLEDColorValue(t *testing.T) {
	type testCase struct {
		name  string
		color LEDColor
		want  uint8
	}
	testCases := []testCase{
		{name: "off encodes as zero", color: ColorOff, want: 0},
		{name: "index 0 dim", color: LEDColor{Index: 0, Bright: false}, want: 0},
		{name: "index 0 bright", color: LEDColor{Index: 0, Bright: true}, want: 6},
		{name: "green bright", color: Green(true), want: 26},
		{name: "green dim", color: Green(false), want: 24},
		{name: "white dim crosses the jump", color: White(false), want: 72},
		{name: "white bright", color: White(true), want: 74},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.color.Value())
		})
	}
}

func TestLEDColorValueDistinct(t *testing.T) {
	// Every (index, bright) pair other than the off state must produce a
	// distinct non-zero wire byte.
	seen := map[uint8]LEDColor{}
	for idx := uint8(1); idx <= 16; idx++ {
		for _, bright := range []bool{false, true} {
			c := LEDColor{Index: idx, Bright: bright}
			v := c.Value()
			assert.NotZero(t, v, "color %+v", c)
			prev, dup := seen[v]
			assert.False(t, dup, "colors %+v and %+v share wire byte %d", prev, c, v)
			seen[v] = c
		}
	}
}

func TestNewLEDColorClamps(t *testing.T) {
	assert.Equal(t, uint8(16), NewLEDColor(200, true).Index)
	assert.Equal(t, uint8(4), NewLEDColor(4, false).Index)
}

func TestColorFromBrightness(t *testing.T) {
	assert.Equal(t, ColorOff, ColorFromBrightness(0))
	assert.Equal(t, LEDColor{Index: 16, Bright: false}, ColorFromBrightness(64))
	assert.Equal(t, LEDColor{Index: 16, Bright: true}, ColorFromBrightness(255))
}

func TestLEDColorRGB(t *testing.T) {
	r, g, b := White(true).RGB()
	assert.Equal(t, [3]uint8{255, 255, 255}, [3]uint8{r, g, b})

	r, g, b = White(false).RGB()
	assert.Equal(t, [3]uint8{127, 127, 127}, [3]uint8{r, g, b})

	r, g, b = ColorOff.RGB()
	assert.Equal(t, [3]uint8{0, 0, 0}, [3]uint8{r, g, b})
}
