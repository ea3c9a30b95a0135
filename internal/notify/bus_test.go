package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type smsRecorder struct {
	sent chan string
}

func (s *smsRecorder) Send(phone, message string) error {
	s.sent <- phone + ": " + message
	return nil
}

func TestBusDeliversPublishedEvents(t *testing.T) {
	log := zap.NewNop().Sugar()
	sms := &smsRecorder{sent: make(chan string, 1)}
	bus := NewBus(log)
	dispatcher := NewDispatcher(nil, sms, nil, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go bus.Run(ctx, dispatcher)

	bus.Publish(OTPIssued{Identifier: "9990001111", Channel: "sms", Code: "123456"})

	select {
	case msg := <-sms.sent:
		assert.Contains(t, msg, "9990001111")
		assert.Contains(t, msg, "123456")
	case <-time.After(2 * time.Second):
		t.Fatal("event was not dispatched")
	}
}

func TestBusWaitReturnsAfterCancel(t *testing.T) {
	log := zap.NewNop().Sugar()
	bus := NewBus(log)
	dispatcher := NewDispatcher(nil, nil, nil, log)

	ctx, cancel := context.WithCancel(context.Background())
	go bus.Run(ctx, dispatcher)

	cancel()

	done := make(chan struct{})
	go func() {
		bus.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Wait did not return after the worker stopped")
	}
}

func TestBusPublishNeverBlocksWhenFull(t *testing.T) {
	bus := NewBus(zap.NewNop().Sugar())

	// No consumer running: fill the buffer and keep publishing. The surplus
	// events are dropped, not blocked on.
	finished := make(chan struct{})
	go func() {
		for i := 0; i < busBuffer+10; i++ {
			bus.Publish(PaymentCaptured{OrderNumber: "CM1", Amount: 1})
		}
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a full queue")
	}
	require.Len(t, bus.ch, busBuffer)
}
