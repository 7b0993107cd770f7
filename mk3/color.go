package mk3

// LEDColor is the only representation the device accepts for its colored
// LEDs: one of 17 fixed palette entries plus a brightness flag. Arbitrary
// RGB values must be nearest-neighbor mapped onto the palette first.
type LEDColor struct {
	Index  uint8 // palette index, 0-16
	Bright bool
}

// ledPalette is the fixed 17-entry hardware color grid.
var ledPalette = [17][3]uint8{
	{255, 0, 0},     // 0: red
	{255, 165, 0},   // 1: orange
	{255, 200, 0},   // 2: orange-yellow
	{255, 255, 0},   // 3: yellow
	{128, 255, 0},   // 4: yellow-green
	{0, 255, 0},     // 5: green
	{0, 255, 128},   // 6: cyan-green
	{0, 255, 255},   // 7: cyan
	{0, 128, 255},   // 8: light blue
	{0, 0, 255},     // 9: blue
	{128, 0, 255},   // 10: purple
	{255, 0, 255},   // 11: magenta
	{255, 0, 128},   // 12: pink
	{255, 128, 255}, // 13: hot pink
	{64, 0, 128},    // 14: dark purple
	{128, 128, 128}, // 15: gray
	{255, 255, 255}, // 16: white
}

// ColorOff is the unique off encoding: index 0 with the bright flag clear.
var ColorOff = LEDColor{}

// NewLEDColor builds an LEDColor from an explicit palette index, clamped to
// the valid 0-16 range.
func NewLEDColor(index uint8, bright bool) LEDColor {
	if index > 16 {
		index = 16
	}
	return LEDColor{Index: index, Bright: bright}
}

// ColorFromRGB maps an RGB888 triple onto the palette. The exact-zero
// triple maps to the off state. Otherwise the nearest palette entry by
// Euclidean distance wins, ties going to the lowest index, and brightness
// is derived from the maximum channel rather than luminance so that pure
// primaries come out bright.
func ColorFromRGB(r, g, b uint8) LEDColor {
	if r == 0 && g == 0 && b == 0 {
		return ColorOff
	}

	best := 0
	bestDist := int(^uint(0) >> 1)
	for i, p := range ledPalette {
		dr := int(r) - int(p[0])
		dg := int(g) - int(p[1])
		db := int(b) - int(p[2])
		dist := dr*dr + dg*dg + db*db
		if dist < bestDist {
			bestDist = dist
			best = i
		}
	}

	bright := max3(r, g, b) > 127
	return LEDColor{Index: uint8(best), Bright: bright}
}

// ColorFromBrightness builds a grayscale color from a plain brightness
// value, for driving RGB LED slots through the brightness-only setter API.
func ColorFromBrightness(brightness uint8) LEDColor {
	if brightness == 0 {
		return ColorOff
	}
	return LEDColor{Index: 16, Bright: brightness > 127}
}

// Value converts the color to the single wire byte the device expects.
// The formula was recovered from the vendor's desktop software; it is not
// linear and jumps by 4 past 66. The off state bypasses it and encodes
// as zero.
func (c LEDColor) Value() uint8 {
	if c.Index == 0 && !c.Bright {
		return 0
	}

	base := (uint16(c.Index)%17 + 1) * 2
	adjusted := base
	if !c.Bright {
		adjusted--
	}
	result := adjusted*2 + 2
	if result > 66 {
		result += 4
	}
	return uint8(result)
}

// RGB returns the approximate RGB888 rendering of the color, mainly for
// previews and debugging. Dim colors are halved.
func (c LEDColor) RGB() (r, g, b uint8) {
	if c.Index == 0 && !c.Bright {
		return 0, 0, 0
	}
	p := ledPalette[c.Index%17]
	if c.Bright {
		return p[0], p[1], p[2]
	}
	return p[0] / 2, p[1] / 2, p[2] / 2
}

func max3(a, b, c uint8) uint8 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}

// Common palette entries.
func Red(bright bool) LEDColor     { return LEDColor{Index: 0, Bright: bright} }
func Orange(bright bool) LEDColor  { return LEDColor{Index: 1, Bright: bright} }
func Yellow(bright bool) LEDColor  { return LEDColor{Index: 3, Bright: bright} }
func Green(bright bool) LEDColor   { return LEDColor{Index: 5, Bright: bright} }
func Cyan(bright bool) LEDColor    { return LEDColor{Index: 7, Bright: bright} }
func Blue(bright bool) LEDColor    { return LEDColor{Index: 9, Bright: bright} }
func Purple(bright bool) LEDColor  { return LEDColor{Index: 10, Bright: bright} }
func Magenta(bright bool) LEDColor { return LEDColor{Index: 11, Bright: bright} }
func White(bright bool) LEDColor   { return LEDColor{Index: 16, Bright: bright} }
