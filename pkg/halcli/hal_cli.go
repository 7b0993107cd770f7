// Package halcli implements the mk3ctl command line interface.
package halcli

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lunarsignals/mk3hal/internal/app"
	"github.com/lunarsignals/mk3hal/internal/usbdev"
	"github.com/lunarsignals/mk3hal/mk3"
)

func Main(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) error {
	dir, err := os.UserConfigDir()
	if err != nil {
		return err
	}
	cmd := NewRootCmd(filepath.Join(dir, "mk3hal"))
	cmd.SetArgs(args)
	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	return cmd.ExecuteContext(ctx)
}

type appProvider func() *app.App

func NewRootCmd(configDir string) *cobra.Command {
	cfg := app.Config{
		DataDir:      filepath.Join(configDir, "data"),
		DeviceConfig: filepath.Join(configDir, "device.yml"),
	}
	rootCmd := &cobra.Command{
		Use:   "mk3ctl",
		Short: "Maschine MK3 controller daemon",
		Long:  `mk3ctl drives a Native Instruments Maschine MK3 controller: it monitors input, manages LEDs and renders to the built-in displays.`,
	}
	var a *app.App
	appProvider := func() *app.App {
		return a
	}
	rootCmd.PersistentFlags().StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "data directory")
	rootCmd.PersistentFlags().StringVar(&cfg.DeviceConfig, "device-config", cfg.DeviceConfig, "device config file")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		var err error
		a, err = app.New(cfg)
		return err
	}
	rootCmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return a.Close()
	}
	rootCmd.AddCommand(NewRun(appProvider))
	rootCmd.AddCommand(NewListDevices())
	rootCmd.AddCommand(NewSetPadLED(appProvider))
	rootCmd.AddCommand(NewClearLEDs(appProvider))
	rootCmd.AddCommand(NewFillDisplay(appProvider))
	rootCmd.AddCommand(NewDisplayImage(appProvider))
	return rootCmd
}

func NewRun(provider appProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the controller daemon",
		Long:  `Run opens the controller, restores the LED scene and streams input events until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return provider().Run(cmd.Context())
		},
	}
}

func NewListDevices() *cobra.Command {
	return &cobra.Command{
		Use:   "list-devices",
		Short: "List connected controllers",
		RunE: func(cmd *cobra.Command, args []string) error {
			devices, err := usbdev.ListDevices()
			if err != nil {
				return err
			}
			jsonB, err := json.MarshalIndent(devices, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(jsonB))
			return nil
		},
	}
}

func NewSetPadLED(provider appProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "set-pad <pad> <r> <g> <b>",
		Short: "Light one pad",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			pad, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid pad number: %w", err)
			}
			rgb, err := parseRGB(args[1:])
			if err != nil {
				return err
			}
			dev, err := provider().OpenDevice(app.DefaultDeviceConfig())
			if err != nil {
				return err
			}
			defer dev.Close()
			if err := dev.SetPadLED(pad, mk3.ColorFromRGB(rgb[0], rgb[1], rgb[2])); err != nil {
				return err
			}
			return dev.FlushLEDs()
		},
	}
}

func NewClearLEDs(provider appProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-leds",
		Short: "Turn off every LED",
		RunE: func(cmd *cobra.Command, args []string) error {
			dev, err := provider().OpenDevice(app.DefaultDeviceConfig())
			if err != nil {
				return err
			}
			defer dev.Close()
			dev.ClearAllLEDs()
			return dev.FlushLEDs()
		},
	}
}

func NewFillDisplay(provider appProvider) *cobra.Command {
	var hsv bool
	cmd := &cobra.Command{
		Use:   "fill-display <display> <r> <g> <b>",
		Short: "Fill a display with a solid color",
		Long:  `Fill a display with a solid color, given as RGB (0-255 per channel) or, with --hsv, as hue in degrees plus saturation and value in 0-1.`,
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			display, err := strconv.Atoi(args[0])
			if err != nil || display < 0 || display > 1 {
				return fmt.Errorf("display must be 0 or 1")
			}
			dev, err := provider().OpenDevice(app.DefaultDeviceConfig())
			if err != nil {
				return err
			}
			defer dev.Close()
			if hsv {
				var c [3]float64
				for i, arg := range args[1:] {
					c[i], err = strconv.ParseFloat(arg, 64)
					if err != nil {
						return fmt.Errorf("invalid HSV component %q: %w", arg, err)
					}
				}
				return dev.FillDisplayHSV(uint8(display), c[0], c[1], c[2])
			}
			rgb, err := parseRGB(args[1:])
			if err != nil {
				return err
			}
			return dev.FillDisplay(uint8(display), rgb[0], rgb[1], rgb[2])
		},
	}
	cmd.Flags().BoolVar(&hsv, "hsv", false, "interpret the color as h s v")
	return cmd
}

func NewDisplayImage(provider appProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "display-image <display> <file>",
		Short: "Render an image file on a display",
		Long:  `Decode a PNG, JPEG or GIF file, scale it to fit 480x272 preserving aspect ratio, and send it to the given display.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			display, err := strconv.Atoi(args[0])
			if err != nil || display < 0 || display > 1 {
				return fmt.Errorf("display must be 0 or 1")
			}
			f, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer f.Close()
			img, _, err := image.Decode(f)
			if err != nil {
				return fmt.Errorf("failed to decode image %s: %w", args[1], err)
			}
			dev, err := provider().OpenDevice(app.DefaultDeviceConfig())
			if err != nil {
				return err
			}
			defer dev.Close()
			return dev.WriteDisplayFramebufferRGB888(uint8(display), mk3.FrameRGB888FromImage(img))
		},
	}
}

func parseRGB(args []string) ([3]uint8, error) {
	var rgb [3]uint8
	for i, arg := range args {
		v, err := strconv.ParseUint(arg, 10, 8)
		if err != nil {
			return rgb, fmt.Errorf("invalid color component %q: %w", arg, err)
		}
		rgb[i] = uint8(v)
	}
	return rgb, nil
}
