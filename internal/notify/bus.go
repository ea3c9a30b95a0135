package notify

import (
	"context"

	"go.uber.org/zap"
)

const busBuffer = 128

// Bus is the in-process post-commit event queue. Publishers never block and
// never observe consumer failures; a full queue drops the event with a log
// line. There is no durable queue here: events die with the process.
type Bus struct {
	ch   chan Event
	log  *zap.SugaredLogger
	done chan struct{}
}

// NewBus constructs an empty bus. Call Run on a goroutine to drain it.
func NewBus(log *zap.SugaredLogger) *Bus {
	return &Bus{
		ch:   make(chan Event, busBuffer),
		log:  log,
		done: make(chan struct{}),
	}
}

// Publish enqueues an event without blocking.
func (b *Bus) Publish(event Event) {
	select {
	case b.ch <- event:
	default:
		b.log.Warnf("notify: queue full, dropping %s", event.Kind())
	}
}

// Run consumes events until the context is cancelled. Intended to run on
// its own goroutine.
func (b *Bus) Run(ctx context.Context, dispatcher *Dispatcher) {
	defer close(b.done)
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-b.ch:
			if err := dispatcher.Dispatch(event); err != nil {
				b.log.Errorf("notify: %s dispatch failed: %v", event.Kind(), err)
			}
		}
	}
}

// Wait blocks until Run has returned.
func (b *Bus) Wait() {
	<-b.done
}
