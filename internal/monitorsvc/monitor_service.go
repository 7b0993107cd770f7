// Package monitorsvc runs the input polling loop and fans events out over
// the event bus, keyed by event type so subscribers can pick just the
// traffic they care about.
package monitorsvc

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/lunarsignals/mk3hal/mk3"
	"github.com/lunarsignals/mk3hal/pkg/bus"
)

// EventBus carries tracked input events keyed by their type.
type EventBus = bus.Bus[mk3.EventType, mk3.Event]

type Service struct {
	log   *zap.Logger
	dev   *mk3.Device
	bus   *EventBus
	ready chan struct{}
}

func New(log *zap.Logger, dev *mk3.Device) *Service {
	return &Service{
		log:   log,
		dev:   dev,
		bus:   bus.New[mk3.EventType, mk3.Event](log),
		ready: make(chan struct{}),
	}
}

// Start polls the device until ctx is cancelled. Transport errors abort
// the loop; malformed packets are already dropped inside the device layer.
func (s *Service) Start(ctx context.Context) error {
	busCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		if err := s.bus.Start(busCtx); err != nil {
			s.log.Error("Event bus stopped", zap.Error(err))
		}
	}()
	select {
	case <-s.bus.Ready():
	case <-ctx.Done():
		return ctx.Err()
	}
	close(s.ready)
	s.log.Info("Input monitor started")

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		events, err := s.dev.PollInputEvents()
		if err != nil {
			return fmt.Errorf("monitorsvc: poll: %w", err)
		}
		for _, ev := range events {
			s.bus.Publish(ctx, ev.Type, ev)
		}
	}
}

func (s *Service) Ready() <-chan struct{} {
	return s.ready
}

// Subscribe delivers events of the given types, or all events when no
// types are named. The subscription ends with ctx.
func (s *Service) Subscribe(ctx context.Context, types ...mk3.EventType) <-chan bus.Message[mk3.EventType, mk3.Event] {
	return s.bus.Subscribe(ctx, types...)
}
