package app

import "time"

// Config locates the daemon's on-disk state.
type Config struct {
	DataDir      string
	DeviceConfig string
}

// DeviceConfig is the user-editable device tuning, kept in device.yml.
type DeviceConfig struct {
	PollTimeoutMs int  `json:"pollTimeoutMs"`
	HeldThreshold int  `json:"heldThreshold"`
	RestoreLEDs   bool `json:"restoreLeds"`
}

func DefaultDeviceConfig() DeviceConfig {
	return DeviceConfig{
		PollTimeoutMs: 100,
		HeldThreshold: 30,
		RestoreLEDs:   true,
	}
}

func (c DeviceConfig) pollTimeout() time.Duration {
	if c.PollTimeoutMs <= 0 {
		return 100 * time.Millisecond
	}
	return time.Duration(c.PollTimeoutMs) * time.Millisecond
}

func (c DeviceConfig) heldThreshold() uint64 {
	if c.HeldThreshold <= 0 {
		return 30
	}
	return uint64(c.HeldThreshold)
}
