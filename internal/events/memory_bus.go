package events

import (
	"context"
	"errors"
	"sync"

	"github.com/muhammedkh45/Echoo/pkg/logger"

	"go.uber.org/zap"
)

var ErrBusClosed = errors.New("event bus closed")

// MemoryBus delivers envelopes in process on a single background goroutine,
// so publishers never wait on handlers.
type MemoryBus struct {
	mu       sync.RWMutex
	hmu      sync.RWMutex
	handlers map[string][]Handler
	queue    chan Envelope
	done     chan struct{}
	closed   bool
	wg       sync.WaitGroup
	logger   *logger.Logger
}

func NewMemoryBus(l *logger.Logger, buffer int) *MemoryBus {
	if l == nil {
		l = logger.NewNop()
	}
	if buffer <= 0 {
		buffer = 256
	}
	b := &MemoryBus{
		handlers: make(map[string][]Handler),
		queue:    make(chan Envelope, buffer),
		done:     make(chan struct{}),
		logger:   l,
	}
	b.wg.Add(1)
	go b.run()
	return b
}

func (b *MemoryBus) Publish(ctx context.Context, env Envelope) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrBusClosed
	}
	select {
	case b.queue <- env:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *MemoryBus) Subscribe(eventType string, handler Handler) error {
	b.hmu.Lock()
	defer b.hmu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
	return nil
}

func (b *MemoryBus) run() {
	defer b.wg.Done()
	for {
		select {
		case env := <-b.queue:
			b.dispatch(env)
		case <-b.done:
			// drain what was accepted before Close
			for {
				select {
				case env := <-b.queue:
					b.dispatch(env)
				default:
					return
				}
			}
		}
	}
}

func (b *MemoryBus) dispatch(env Envelope) {
	b.hmu.RLock()
	handlers := append([]Handler(nil), b.handlers[env.EventType]...)
	b.hmu.RUnlock()

	for _, h := range handlers {
		if err := h(context.Background(), env); err != nil {
			b.logger.Logger.Warn("event handler failed",
				zap.String("event_type", env.EventType),
				zap.String("event_id", env.ID),
				zap.Error(err))
		}
	}
}

func (b *MemoryBus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	close(b.done)
	b.mu.Unlock()
	b.wg.Wait()
	return nil
}
