// Package bus provides a small in-process pub/sub bus used to fan input
// events out to consumers. Subscribers attach either globally or to a set
// of keys and are detached automatically when their context is cancelled.
package bus

import (
	"context"
	"sync"

	"github.com/puzpuzpuz/xsync/v3"
	"go.uber.org/zap"
)

// Message pairs a routing key with a payload.
type Message[K comparable, M any] struct {
	Key     K
	Payload M
}

// subscription owns one delivery channel. send and close coordinate so
// that the channel is never closed while a delivery is in flight and
// nothing is sent after it closes.
type subscription[K comparable, M any] struct {
	ch   chan Message[K, M]
	done chan struct{}

	mu     sync.Mutex
	closed bool
}

func newSubscription[K comparable, M any]() *subscription[K, M] {
	return &subscription[K, M]{
		ch:   make(chan Message[K, M]),
		done: make(chan struct{}),
	}
}

func (s *subscription[K, M]) send(msg Message[K, M]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.ch <- msg:
	case <-s.done:
	}
}

func (s *subscription[K, M]) close() {
	close(s.done)
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	close(s.ch)
}

// Bus routes messages by key to subscribed channels. Delivery is
// sequential and blocking per message; slow subscribers backpressure the
// publisher. The per-key subscriber lists are replaced wholesale on
// subscribe/detach, so delivery always iterates an immutable snapshot.
type Bus[K comparable, M any] struct {
	log   *zap.Logger
	ready chan struct{}

	ch         chan Message[K, M]
	keySubs    *xsync.MapOf[K, []*subscription[K, M]]
	globalSubs *xsync.MapOf[*subscription[K, M], struct{}]
}

func New[K comparable, M any](log *zap.Logger) *Bus[K, M] {
	return &Bus[K, M]{
		log:        log,
		ready:      make(chan struct{}),
		ch:         make(chan Message[K, M]),
		keySubs:    xsync.NewMapOf[K, []*subscription[K, M]](),
		globalSubs: xsync.NewMapOf[*subscription[K, M], struct{}](),
	}
}

// Start launches the delivery worker. It returns immediately; the worker
// stops when ctx is cancelled.
func (b *Bus[K, M]) Start(ctx context.Context) error {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-b.ch:
				b.deliver(ctx, msg)
			}
		}
	}()
	close(b.ready)
	b.log.Debug("bus started")
	return nil
}

// Ready is closed once the bus accepts messages.
func (b *Bus[K, M]) Ready() <-chan struct{} {
	return b.ready
}

// Publish enqueues a message for delivery. It blocks until the worker
// accepts it or ctx is cancelled.
func (b *Bus[K, M]) Publish(ctx context.Context, key K, payload M) {
	select {
	case <-ctx.Done():
	case b.ch <- Message[K, M]{Key: key, Payload: payload}:
	}
}

func (b *Bus[K, M]) deliver(ctx context.Context, msg Message[K, M]) {
	b.globalSubs.Range(func(sub *subscription[K, M], _ struct{}) bool {
		select {
		case <-ctx.Done():
			return false
		default:
		}
		sub.send(msg)
		return true
	})
	subs, ok := b.keySubs.Load(msg.Key)
	if !ok {
		return
	}
	for _, sub := range subs {
		select {
		case <-ctx.Done():
			return
		default:
		}
		sub.send(msg)
	}
}

// Subscribe returns a channel receiving messages for the given keys, or
// every message when no key is given. The channel is closed and detached
// when ctx is cancelled.
func (b *Bus[K, M]) Subscribe(ctx context.Context, keys ...K) <-chan Message[K, M] {
	sub := newSubscription[K, M]()
	if len(keys) == 0 {
		b.globalSubs.Store(sub, struct{}{})
		go func() {
			<-ctx.Done()
			b.globalSubs.Delete(sub)
			sub.close()
		}()
		return sub.ch
	}
	for _, k := range keys {
		b.keySubs.Compute(k, func(val []*subscription[K, M], _ bool) ([]*subscription[K, M], bool) {
			next := make([]*subscription[K, M], len(val), len(val)+1)
			copy(next, val)
			return append(next, sub), false
		})
	}
	go func() {
		<-ctx.Done()
		for _, k := range keys {
			b.keySubs.Compute(k, func(val []*subscription[K, M], _ bool) ([]*subscription[K, M], bool) {
				next := make([]*subscription[K, M], 0, len(val))
				for _, s := range val {
					if s != sub {
						next = append(next, s)
					}
				}
				return next, len(next) == 0
			})
		}
		sub.close()
	}()
	return sub.ch
}
