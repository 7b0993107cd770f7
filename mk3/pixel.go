package mk3

import "math"

// Pixel is one display pixel in the device's 16-bit packing. The layout is
// not standard RGB565: the color channels are rotated (the device's blue
// field carries the visual red information and so on) and green is split
// into high and low fields around blue, packed as GGGB BBBB RRRR RGGG.
// On the wire pixels are transmitted little-endian, low byte first.
type Pixel uint16

// PackPixel converts an RGB888 triple into the device pixel format.
//
// Channel rotation: the device's red field receives the input blue
// channel, green receives red, and blue receives green. This rotation plus
// the split-green packing below is the canonical layout; a divergent
// non-rotated packing exists in older captures and is deliberately not
// implemented (see DESIGN.md).
func PackPixel(r, g, b uint8) Pixel {
	devR := b
	devG := r
	devB := g

	r4 := uint16(devR >> 4)         // red high, 4 bits
	r1 := uint16((devR >> 3) & 0x1) // red low, 1 bit
	b5 := uint16(devB >> 3)         // blue, 5 bits
	gHigh := uint16(devG >> 5)      // green high, 3 bits
	gLow := uint16((devG >> 3) & 0x7)

	return Pixel(gHigh<<13 | b5<<8 | r4<<4 | r1<<3 | gLow)
}

// PackPixelHSV converts an HSV color (h in degrees 0-360, s and v in 0-1)
// into the device pixel format.
func PackPixelHSV(h, s, v float64) Pixel {
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	return PackPixel(uint8((r+m)*255), uint8((g+m)*255), uint8((b+m)*255))
}

// appendLE appends the pixel to dst in wire byte order.
func (p Pixel) appendLE(dst []byte) []byte {
	return append(dst, byte(p), byte(p>>8))
}

// convertRGB888 converts a width*height RGB888 buffer into device pixels,
// 2 bytes per pixel little-endian, optionally flipping vertically. dst must
// be width*height*2 bytes.
func convertRGB888(dst, src []byte, width, height int, flipY bool) {
	for y := 0; y < height; y++ {
		srcY := y
		if flipY {
			srcY = height - 1 - y
		}
		srcRow := srcY * width * 3
		dstRow := y * width * 2
		for x := 0; x < width; x++ {
			si := srcRow + x*3
			px := PackPixel(src[si], src[si+1], src[si+2])
			di := dstRow + x*2
			dst[di] = byte(px)
			dst[di+1] = byte(px >> 8)
		}
	}
}
