package mk3

import (
	"errors"
	"fmt"
)

// Display geometry. Each of the two displays is 480x272 with (0,0) at the
// top left in device space.
const (
	DisplayWidth  = 480
	DisplayHeight = 272

	frameRGB888Len = DisplayWidth * DisplayHeight * 3

	// The device addresses the panel in 8-pixel blocks; dirty regions are
	// expanded to block boundaries to avoid edge artifacts.
	displayBlockSize = 8

	// Regions smaller than this in either dimension trigger a full-frame
	// fallback. Tiny region updates are unreliable on the device.
	minRegionSize = 8
)

// Display draw command bytes.
const (
	displayCmdTransmit = 0x00
	displayCmdRepeat   = 0x01
	displayCmdBlit     = 0x03
	displayCmdEnd      = 0x40
)

const (
	displayHeaderLen = 16
	displayCmdLen    = 4
)

// ErrInvalidParameter is returned when a caller supplies an out-of-range
// display id, coordinates outside the panel, or a mismatched buffer
// length. It is always a programming error and is rejected before any
// transport write.
var ErrInvalidParameter = errors.New("invalid parameter")

func validateRegion(displayID uint8, x, y, width, height int) error {
	if displayID > 1 {
		return fmt.Errorf("%w: display id must be 0 or 1, got %d", ErrInvalidParameter, displayID)
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: region %dx%d is empty", ErrInvalidParameter, width, height)
	}
	if x < 0 || y < 0 || x+width > DisplayWidth || y+height > DisplayHeight {
		return fmt.Errorf("%w: region %dx%d at (%d,%d) exceeds display bounds %dx%d",
			ErrInvalidParameter, width, height, x, y, DisplayWidth, DisplayHeight)
	}
	return nil
}

func appendRegionHeader(p []byte, displayID uint8, x, y, width, height int) []byte {
	p = append(p, PacketTypeDisplay, 0x00, displayID, 0x60)
	p = append(p, 0, 0, 0, 0) // reserved
	p = append(p,
		byte(x>>8), byte(x),
		byte(y>>8), byte(y),
		byte(width>>8), byte(width),
		byte(height>>8), byte(height),
	)
	return p
}

// BuildRegionPacket builds a 0x84 display region packet carrying raw
// pixels. pixels must be width*height*2 bytes of device-format pixel data,
// little-endian. An odd pixel count gets one zero padding pixel appended,
// since the transmit command counts payload length in pixel pairs.
func BuildRegionPacket(displayID uint8, x, y, width, height int, pixels []byte) ([]byte, error) {
	if err := validateRegion(displayID, x, y, width, height); err != nil {
		return nil, err
	}
	pixelCount := width * height
	if len(pixels) != pixelCount*2 {
		return nil, fmt.Errorf("%w: pixel data must be %d bytes (%dx%d pixels), got %d",
			ErrInvalidParameter, pixelCount*2, width, height, len(pixels))
	}

	padded := pixelCount
	if padded%2 == 1 {
		padded++
	}
	pairs := padded / 2

	p := make([]byte, 0, displayHeaderLen+displayCmdLen+padded*2+2*displayCmdLen)
	p = appendRegionHeader(p, displayID, x, y, width, height)

	// Transmit command: 24-bit big-endian pixel pair count.
	p = append(p, displayCmdTransmit, byte(pairs>>16), byte(pairs>>8), byte(pairs))
	p = append(p, pixels...)
	if padded != pixelCount {
		p = append(p, 0, 0)
	}

	p = append(p, displayCmdBlit, 0, 0, 0)
	p = append(p, displayCmdEnd, 0, 0, 0)
	return p, nil
}

// BuildFillPacket builds a 0x84 packet that fills a region with a single
// pixel value using the repeat command instead of transmitting raw data.
func BuildFillPacket(displayID uint8, x, y, width, height int, px Pixel) ([]byte, error) {
	if err := validateRegion(displayID, x, y, width, height); err != nil {
		return nil, err
	}
	pixelCount := width * height
	pairs := (pixelCount + 1) / 2

	p := make([]byte, 0, displayHeaderLen+displayCmdLen+4+2*displayCmdLen)
	p = appendRegionHeader(p, displayID, x, y, width, height)

	// Repeat command: the two pixels that follow are repeated pair-count
	// times.
	p = append(p, displayCmdRepeat, byte(pairs>>16), byte(pairs>>8), byte(pairs))
	p = px.appendLE(p)
	p = px.appendLE(p)

	p = append(p, displayCmdBlit, 0, 0, 0)
	p = append(p, displayCmdEnd, 0, 0, 0)
	return p, nil
}

// BuildRegionPacketRGB888 converts an RGB888 region to device pixels and
// builds the region packet. Region-level updates are never Y-flipped; the
// caller's data is already in display coordinate space.
func BuildRegionPacketRGB888(displayID uint8, x, y, width, height int, rgb []byte) ([]byte, error) {
	if err := validateRegion(displayID, x, y, width, height); err != nil {
		return nil, err
	}
	if len(rgb) != width*height*3 {
		return nil, fmt.Errorf("%w: RGB888 data must be %d bytes (%dx%d pixels), got %d",
			ErrInvalidParameter, width*height*3, width, height, len(rgb))
	}
	pixels := make([]byte, width*height*2)
	convertRGB888(pixels, rgb, width, height, false)
	return BuildRegionPacket(displayID, x, y, width, height, pixels)
}

// Framebuffer retains the last fully-applied RGB888 frame of one display,
// stored in display coordinate space (already Y-flip-corrected), and diffs
// incoming frames against it to produce minimal region updates.
type Framebuffer struct {
	displayID uint8
	prev      []byte
}

// NewFramebuffer creates the retained state for one display (0 or 1).
func NewFramebuffer(displayID uint8) (*Framebuffer, error) {
	if displayID > 1 {
		return nil, fmt.Errorf("%w: display id must be 0 or 1, got %d", ErrInvalidParameter, displayID)
	}
	return &Framebuffer{displayID: displayID}, nil
}

// DirtyUpdate ingests a full RGB888 frame (480x272x3 bytes, bottom-up as
// produced by Unity-style texture readbacks) and returns the display packet
// that brings the panel up to date, or nil when nothing changed.
//
// The incoming frame is Y-flipped into display space, scanned pixel by
// pixel against the retained frame, and the bounding box of all differing
// pixels is expanded to 8-pixel block boundaries. Boxes smaller than 8x8 in
// either dimension fall back to a full-frame send. The retained frame is
// always replaced with the new content, whether or not anything is sent.
//
// The scan visits every pixel, which dominates the cost of an update; at
// 480x272 that is acceptable for interactive rates.
func (f *Framebuffer) DirtyUpdate(rgb []byte) ([]byte, error) {
	if len(rgb) != frameRGB888Len {
		return nil, fmt.Errorf("%w: frame must be %d bytes (480x272x3), got %d",
			ErrInvalidParameter, frameRGB888Len, len(rgb))
	}

	flipped := make([]byte, frameRGB888Len)
	for y := 0; y < DisplayHeight; y++ {
		src := (DisplayHeight - 1 - y) * DisplayWidth * 3
		dst := y * DisplayWidth * 3
		copy(flipped[dst:dst+DisplayWidth*3], rgb[src:src+DisplayWidth*3])
	}

	if f.prev == nil {
		f.prev = flipped
		return BuildRegionPacketRGB888(f.displayID, 0, 0, DisplayWidth, DisplayHeight, flipped)
	}

	minX, minY := DisplayWidth, DisplayHeight
	maxX, maxY := -1, -1
	for y := 0; y < DisplayHeight; y++ {
		row := y * DisplayWidth * 3
		for x := 0; x < DisplayWidth; x++ {
			i := row + x*3
			if f.prev[i] != flipped[i] || f.prev[i+1] != flipped[i+1] || f.prev[i+2] != flipped[i+2] {
				if x < minX {
					minX = x
				}
				if x > maxX {
					maxX = x
				}
				if y < minY {
					minY = y
				}
				if y > maxY {
					maxY = y
				}
			}
		}
	}

	if maxX < 0 {
		// No changes; the retained frame is already this content.
		f.prev = flipped
		return nil, nil
	}

	minX = minX / displayBlockSize * displayBlockSize
	minY = minY / displayBlockSize * displayBlockSize
	maxX = min((maxX/displayBlockSize+1)*displayBlockSize-1, DisplayWidth-1)
	maxY = min((maxY/displayBlockSize+1)*displayBlockSize-1, DisplayHeight-1)

	width := maxX - minX + 1
	height := maxY - minY + 1

	if width < minRegionSize || height < minRegionSize {
		f.prev = flipped
		return BuildRegionPacketRGB888(f.displayID, 0, 0, DisplayWidth, DisplayHeight, flipped)
	}

	region := make([]byte, 0, width*height*3)
	for y := minY; y <= maxY; y++ {
		row := (y*DisplayWidth + minX) * 3
		region = append(region, flipped[row:row+width*3]...)
	}

	f.prev = flipped
	return BuildRegionPacketRGB888(f.displayID, minX, minY, width, height, region)
}

// FullUpdate ingests a full RGB888 frame, Y-flips it into display space and
// builds a full-frame packet unconditionally, updating the retained state.
func (f *Framebuffer) FullUpdate(rgb []byte) ([]byte, error) {
	if len(rgb) != frameRGB888Len {
		return nil, fmt.Errorf("%w: frame must be %d bytes (480x272x3), got %d",
			ErrInvalidParameter, frameRGB888Len, len(rgb))
	}
	flipped := make([]byte, frameRGB888Len)
	for y := 0; y < DisplayHeight; y++ {
		src := (DisplayHeight - 1 - y) * DisplayWidth * 3
		dst := y * DisplayWidth * 3
		copy(flipped[dst:dst+DisplayWidth*3], rgb[src:src+DisplayWidth*3])
	}
	f.prev = flipped
	return BuildRegionPacketRGB888(f.displayID, 0, 0, DisplayWidth, DisplayHeight, flipped)
}
