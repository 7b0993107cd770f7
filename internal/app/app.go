// Package app assembles the daemon: logging, the badger store, the config
// watcher, the USB transports and the device facade, plus the input
// monitor loop.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync/atomic"

	"github.com/dgraph-io/badger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/lunarsignals/mk3hal/internal/configsvc"
	"github.com/lunarsignals/mk3hal/internal/monitorsvc"
	"github.com/lunarsignals/mk3hal/internal/usbdev"
	"github.com/lunarsignals/mk3hal/mk3"
)

var ledSceneKey = []byte("led/scene")

type App struct {
	config Config
	log    *zap.Logger

	db        *badger.DB
	configSvc *configsvc.Service
}

func New(config Config) (*App, error) {
	loggerConfig := zap.NewDevelopmentConfig()
	loggerConfig.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000000000")
	loggerConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	logger, err := loggerConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	dbOptions := badger.DefaultOptions(filepath.Join(config.DataDir, "db"))
	dbOptions.Logger = &badgerLogger{l: logger.Named("badger")}

	db, err := badger.Open(dbOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	return &App{
		config:    config,
		log:       logger,
		db:        db,
		configSvc: configsvc.New(logger.Named("config")),
	}, nil
}

func (a *App) Logger() *zap.Logger {
	return a.log
}

func (a *App) Close() error {
	return a.db.Close()
}

type badgerLogger struct {
	l *zap.Logger
}

func (l badgerLogger) Errorf(msg string, args ...any) {
	l.l.Error(fmt.Sprintf(msg, args...))
}

func (l badgerLogger) Warningf(msg string, args ...any) {
	l.l.Warn(fmt.Sprintf(msg, args...))
}

func (l badgerLogger) Infof(msg string, args ...any) {
	l.l.Info(fmt.Sprintf(msg, args...))
}

func (l badgerLogger) Debugf(msg string, args ...any) {
	l.l.Debug(fmt.Sprintf(msg, args...))
}

// OpenDevice opens both USB channels and builds the facade from the
// current device configuration. The display channel is optional; when it
// cannot be claimed the device still works for input and LEDs.
func (a *App) OpenDevice(cfg DeviceConfig) (*mk3.Device, error) {
	control, err := usbdev.OpenControl(a.log.Named("hid"))
	if err != nil {
		return nil, err
	}
	var display mk3.Transport
	bulk, err := usbdev.OpenDisplay(a.log.Named("bulk"))
	if err != nil {
		a.log.Warn("Display channel unavailable", zap.Error(err))
	} else {
		display = bulk
	}

	tracker := mk3.NewTracker(a.log.Named("tracker"),
		mk3.WithHeldThreshold(cfg.heldThreshold()))
	dev := mk3.NewDevice(a.log.Named("device"), control, display,
		mk3.WithPollTimeout(cfg.pollTimeout()),
		mk3.WithTracker(tracker))
	return dev, nil
}

// Run starts the daemon and blocks until the context is cancelled.
// The LED scene is restored from the store at startup and snapshotted
// back on shutdown.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return a.configSvc.Start(groupCtx)
	})
	select {
	case <-a.configSvc.Ready():
	case <-groupCtx.Done():
		return group.Wait()
	}

	if err := configsvc.WriteDefault(a.config.DeviceConfig, DefaultDeviceConfig()); err != nil {
		return err
	}
	// The callback is registered before the device is opened, so it picks
	// the device up through an atomic holder filled in below.
	var devHolder atomic.Pointer[mk3.Device]
	deviceCfg, err := configsvc.Register(a.configSvc, a.config.DeviceConfig, DefaultDeviceConfig(),
		func(cfg DeviceConfig, err error) {
			if err != nil {
				a.log.Error("Device config reload failed", zap.Error(err))
				return
			}
			d := devHolder.Load()
			if d == nil {
				return
			}
			d.SetPollTimeout(cfg.pollTimeout())
			d.SetHeldThreshold(cfg.heldThreshold())
			a.log.Info("Device config applied",
				zap.Duration("pollTimeout", cfg.pollTimeout()),
				zap.Uint64("heldThreshold", cfg.heldThreshold()))
		})
	if err != nil {
		return err
	}

	dev, err := a.OpenDevice(deviceCfg)
	if err != nil {
		return err
	}
	defer dev.Close()
	devHolder.Store(dev)

	if deviceCfg.RestoreLEDs {
		if err := a.restoreLEDScene(dev); err != nil {
			a.log.Warn("Could not restore LED scene", zap.Error(err))
		}
	}

	monitor := monitorsvc.New(a.log.Named("monitor"), dev)

	group.Go(func() error {
		return monitor.Start(groupCtx)
	})
	group.Go(func() error {
		return a.logEvents(groupCtx, monitor)
	})

	err = group.Wait()
	if saveErr := a.saveLEDScene(dev); saveErr != nil {
		a.log.Warn("Could not save LED scene", zap.Error(saveErr))
	}
	if err != nil {
		return fmt.Errorf("app failed: %w", err)
	}
	return nil
}

func (a *App) logEvents(ctx context.Context, monitor *monitorsvc.Service) error {
	select {
	case <-monitor.Ready():
	case <-ctx.Done():
		return nil
	}
	ch := monitor.Subscribe(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			a.log.Debug("Input event", zap.String("event", msg.Payload.String()))
		}
	}
}

type ledScene struct {
	Buttons mk3.ButtonLedState `json:"buttons"`
	Pads    mk3.PadLedState    `json:"pads"`
}

func (a *App) saveLEDScene(dev *mk3.Device) error {
	buttons, pads := dev.LEDState()
	data, err := json.Marshal(ledScene{Buttons: buttons, Pads: pads})
	if err != nil {
		return err
	}
	return a.db.Update(func(txn *badger.Txn) error {
		return txn.Set(ledSceneKey, data)
	})
}

func (a *App) restoreLEDScene(dev *mk3.Device) error {
	var scene ledScene
	err := a.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(ledSceneKey)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &scene)
		})
	})
	if err == badger.ErrKeyNotFound {
		return nil
	}
	if err != nil {
		return err
	}
	return dev.RestoreLEDState(scene.Buttons, scene.Pads)
}
