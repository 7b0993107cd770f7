// Package usbdev opens the controller's two USB channels and exposes them
// as mk3.Transport values: the HID interface for input packets and LED
// state, and the bulk vendor interface for display data. Everything
// platform-specific (interface claiming, kernel driver detachment,
// endpoints) stays inside this package.
package usbdev

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/gousb"
	"github.com/sstallion/go-hid"
	"go.uber.org/zap"
)

// Maschine MK3 USB identity and topology.
const (
	VendorID  uint16 = 0x17CC
	ProductID uint16 = 0x1600

	hidInterfaceNumber = 4
	displayInterface   = 5
	displayEndpoint    = 4

	maxInputPacket = 64
)

// ErrDeviceNotFound is returned when no controller is connected.
var ErrDeviceNotFound = errors.New("usbdev: device not found")

// HIDTransport is the interrupt-style control channel (input + LEDs) over
// hidapi.
type HIDTransport struct {
	log *zap.Logger
	dev *hid.Device
}

// OpenControl finds the controller's HID interface and opens it.
func OpenControl(log *zap.Logger) (*HIDTransport, error) {
	if err := hid.Init(); err != nil {
		return nil, fmt.Errorf("usbdev: hidapi init: %w", err)
	}

	var path string
	err := hid.Enumerate(VendorID, ProductID, func(info *hid.DeviceInfo) error {
		if info.InterfaceNbr == hidInterfaceNumber || path == "" {
			path = info.Path
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("usbdev: enumerate: %w", err)
	}
	if path == "" {
		return nil, ErrDeviceNotFound
	}

	dev, err := hid.OpenPath(path)
	if err != nil {
		return nil, fmt.Errorf("usbdev: open %s: %w", path, err)
	}
	log.Info("Opened control channel", zap.String("path", path))
	return &HIDTransport{log: log, dev: dev}, nil
}

func (t *HIDTransport) Write(p []byte) error {
	if _, err := t.dev.Write(p); err != nil {
		return fmt.Errorf("usbdev: hid write: %w", err)
	}
	return nil
}

// Read performs one interrupt read bounded by timeout. A timeout is not an
// error; it yields a nil slice.
func (t *HIDTransport) Read(timeout time.Duration) ([]byte, error) {
	buf := make([]byte, maxInputPacket)
	n, err := t.dev.ReadWithTimeout(buf, timeout)
	if err != nil {
		return nil, fmt.Errorf("usbdev: hid read: %w", err)
	}
	if n == 0 {
		return nil, nil
	}
	return buf[:n], nil
}

func (t *HIDTransport) Close() error {
	return t.dev.Close()
}

// ListDevices enumerates connected controllers.
func ListDevices() ([]hid.DeviceInfo, error) {
	if err := hid.Init(); err != nil {
		return nil, fmt.Errorf("usbdev: hidapi init: %w", err)
	}
	var out []hid.DeviceInfo
	err := hid.Enumerate(VendorID, ProductID, func(info *hid.DeviceInfo) error {
		out = append(out, *info)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("usbdev: enumerate: %w", err)
	}
	return out, nil
}

// BulkTransport is the display channel: a bulk OUT endpoint on the vendor
// interface, opened through libusb. Display traffic is write-only.
type BulkTransport struct {
	log  *zap.Logger
	ctx  *gousb.Context
	dev  *gousb.Device
	done func()
	ep   *gousb.OutEndpoint
}

// OpenDisplay claims the display interface. The kernel driver, if any, is
// detached automatically.
func OpenDisplay(log *zap.Logger) (*BulkTransport, error) {
	ctx := gousb.NewContext()
	dev, err := ctx.OpenDeviceWithVIDPID(gousb.ID(VendorID), gousb.ID(ProductID))
	if err != nil {
		ctx.Close()
		return nil, fmt.Errorf("usbdev: open device: %w", err)
	}
	if dev == nil {
		ctx.Close()
		return nil, ErrDeviceNotFound
	}
	if err := dev.SetAutoDetach(true); err != nil {
		log.Warn("Could not enable kernel driver auto-detach", zap.Error(err))
	}

	cfg, err := dev.Config(1)
	if err != nil {
		dev.Close()
		ctx.Close()
		return nil, fmt.Errorf("usbdev: claim config: %w", err)
	}
	intf, err := cfg.Interface(displayInterface, 0)
	if err != nil {
		cfg.Close()
		dev.Close()
		ctx.Close()
		return nil, fmt.Errorf("usbdev: claim display interface: %w", err)
	}
	done := func() {
		intf.Close()
		cfg.Close()
	}

	ep, err := intf.OutEndpoint(displayEndpoint)
	if err != nil {
		done()
		dev.Close()
		ctx.Close()
		return nil, fmt.Errorf("usbdev: display endpoint: %w", err)
	}

	log.Info("Opened display channel",
		zap.Int("interface", displayInterface),
		zap.Int("endpoint", displayEndpoint))
	return &BulkTransport{log: log, ctx: ctx, dev: dev, done: done, ep: ep}, nil
}

func (t *BulkTransport) Write(p []byte) error {
	if _, err := t.ep.Write(p); err != nil {
		return fmt.Errorf("usbdev: bulk write: %w", err)
	}
	return nil
}

// Read is part of the transport contract but the display channel carries
// no inbound traffic; it always reports no data.
func (t *BulkTransport) Read(time.Duration) ([]byte, error) {
	return nil, nil
}

func (t *BulkTransport) Close() error {
	t.done()
	if err := t.dev.Close(); err != nil {
		t.ctx.Close()
		return err
	}
	return t.ctx.Close()
}
