package mk3

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// framePixel reads a pixel from a bottom-up frame in display coordinates.
func framePixel(frame []byte, x, y int) [3]uint8 {
	i := ((DisplayHeight-1-y)*DisplayWidth + x) * 3
	return [3]uint8{frame[i], frame[i+1], frame[i+2]}
}

func TestFrameRGB888FromImageExactFit(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	frame := FrameRGB888FromImage(solidImage(DisplayWidth, DisplayHeight, red))
	require.Len(t, frame, frameRGB888Len)

	assert.Equal(t, [3]uint8{255, 0, 0}, framePixel(frame, 0, 0))
	assert.Equal(t, [3]uint8{255, 0, 0}, framePixel(frame, DisplayWidth-1, DisplayHeight-1))
}

func TestFrameRGB888FromImageLetterboxesWideImage(t *testing.T) {
	// 960x272 scales to 480x136, centered vertically with 68 black rows
	// above and below.
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	frame := FrameRGB888FromImage(solidImage(960, 272, white))

	assert.Equal(t, [3]uint8{0, 0, 0}, framePixel(frame, 240, 0))
	assert.Equal(t, [3]uint8{0, 0, 0}, framePixel(frame, 240, 67))
	assert.Equal(t, [3]uint8{255, 255, 255}, framePixel(frame, 0, 68))
	assert.Equal(t, [3]uint8{255, 255, 255}, framePixel(frame, 479, 203))
	assert.Equal(t, [3]uint8{0, 0, 0}, framePixel(frame, 240, 204))
	assert.Equal(t, [3]uint8{0, 0, 0}, framePixel(frame, 240, DisplayHeight-1))
}

func TestFrameRGB888FromImagePillarboxesTallImage(t *testing.T) {
	// 272x544 scales to 136x272, centered horizontally.
	green := color.RGBA{G: 255, A: 255}
	frame := FrameRGB888FromImage(solidImage(272, 544, green))

	assert.Equal(t, [3]uint8{0, 0, 0}, framePixel(frame, 171, 100))
	assert.Equal(t, [3]uint8{0, 255, 0}, framePixel(frame, 172, 100))
	assert.Equal(t, [3]uint8{0, 255, 0}, framePixel(frame, 307, 100))
	assert.Equal(t, [3]uint8{0, 0, 0}, framePixel(frame, 308, 100))
}

func TestFrameRGB888FromImageOrientation(t *testing.T) {
	// Top-left source pixel must land at display (0,0), which is the last
	// row of the bottom-up frame.
	img := solidImage(DisplayWidth, DisplayHeight, color.RGBA{A: 255})
	img.SetRGBA(0, 0, color.RGBA{R: 255, A: 255})

	frame := FrameRGB888FromImage(img)
	assert.Equal(t, [3]uint8{255, 0, 0}, framePixel(frame, 0, 0))
	assert.Equal(t, [3]uint8{0, 0, 0}, framePixel(frame, 0, DisplayHeight-1))
}

func TestFrameRGB888FromImageEmpty(t *testing.T) {
	frame := FrameRGB888FromImage(image.NewRGBA(image.Rectangle{}))
	require.Len(t, frame, frameRGB888Len)
	assert.Equal(t, make([]byte, frameRGB888Len), frame)
}
