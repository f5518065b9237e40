package event

import (
	"context"
	"errors"
	"testing"

	"github.com/emart/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type recordingHandler struct {
	types   []string
	seen    []shared.DomainEvent
	failErr error
	panics  bool
}

func (h *recordingHandler) EventTypes() []string { return h.types }

func (h *recordingHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	if h.panics {
		panic("handler exploded")
	}
	h.seen = append(h.seen, event)
	return h.failErr
}

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "test", uuid.New()),
	}
}

func TestInMemoryEventBus(t *testing.T) {
	ctx := context.Background()

	t.Run("routes events to handlers by type", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		stockHandler := &recordingHandler{types: []string{"inventory.stock_below_threshold"}}
		otherHandler := &recordingHandler{types: []string{"finance.invoice_overdue"}}
		bus.Subscribe(stockHandler)
		bus.Subscribe(otherHandler)

		bus.Publish(ctx, newTestEvent("inventory.stock_below_threshold"))

		assert.Len(t, stockHandler.seen, 1)
		assert.Empty(t, otherHandler.seen)
	})

	t.Run("a failing handler does not block the others", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		failing := &recordingHandler{types: []string{"x"}, failErr: errors.New("boom")}
		healthy := &recordingHandler{types: []string{"x"}}
		bus.Subscribe(failing)
		bus.Subscribe(healthy)

		bus.Publish(ctx, newTestEvent("x"))

		assert.Len(t, healthy.seen, 1)
	})

	t.Run("a panicking handler is contained", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		panicking := &recordingHandler{types: []string{"x"}, panics: true}
		healthy := &recordingHandler{types: []string{"x"}}
		bus.Subscribe(panicking)
		bus.Subscribe(healthy)

		assert.NotPanics(t, func() {
			bus.Publish(ctx, newTestEvent("x"))
		})
		assert.Len(t, healthy.seen, 1)
	})

	t.Run("events without subscribers are dropped", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		assert.NotPanics(t, func() {
			bus.Publish(ctx, newTestEvent("nobody.listens"))
		})
	})
}
