package mk3

import "image"

// FrameRGB888FromImage renders an image into a full-display RGB888 frame
// suitable for WriteDisplayFramebufferRGB888: the image is scaled to fit
// 480x272 preserving aspect ratio (nearest neighbor), centered on black,
// and the rows are emitted bottom-up to match the framebuffer convention.
func FrameRGB888FromImage(img image.Image) []byte {
	frame := make([]byte, frameRGB888Len)

	b := img.Bounds()
	srcW, srcH := b.Dx(), b.Dy()
	if srcW == 0 || srcH == 0 {
		return frame
	}

	dstW := DisplayWidth
	dstH := srcH * DisplayWidth / srcW
	if dstH > DisplayHeight {
		dstH = DisplayHeight
		dstW = srcW * DisplayHeight / srcH
	}
	if dstW < 1 {
		dstW = 1
	}
	if dstH < 1 {
		dstH = 1
	}
	offX := (DisplayWidth - dstW) / 2
	offY := (DisplayHeight - dstH) / 2

	for y := 0; y < dstH; y++ {
		sy := b.Min.Y + y*srcH/dstH
		row := ((DisplayHeight-1-(offY+y))*DisplayWidth + offX) * 3
		for x := 0; x < dstW; x++ {
			sx := b.Min.X + x*srcW/dstW
			r, g, bl, _ := img.At(sx, sy).RGBA()
			i := row + x*3
			frame[i] = uint8(r >> 8)
			frame[i+1] = uint8(g >> 8)
			frame[i+2] = uint8(bl >> 8)
		}
	}
	return frame
}
