package event

import (
	"context"
	"errors"
	"testing"

	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Bill", uuid.New(), uuid.New()),
	}
}

type recordingHandler struct {
	types   []string
	handled []string
	err     error
	panics  bool
}

func (h *recordingHandler) Handle(_ context.Context, evt shared.DomainEvent) error {
	if h.panics {
		panic("boom")
	}
	h.handled = append(h.handled, evt.EventType())
	return h.err
}

func (h *recordingHandler) EventTypes() []string { return h.types }

func TestInMemoryEventBus_DispatchesByType(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	billHandler := &recordingHandler{types: []string{"BillPaid"}}
	otherHandler := &recordingHandler{types: []string{"InvoicePaid"}}
	bus.Subscribe(billHandler)
	bus.Subscribe(otherHandler)

	err := bus.Publish(context.Background(), newTestEvent("BillPaid"))
	require.NoError(t, err)

	assert.Equal(t, []string{"BillPaid"}, billHandler.handled)
	assert.Empty(t, otherHandler.handled)
}

func TestInMemoryEventBus_CatchAllHandler(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	catchAll := &recordingHandler{}
	bus.Subscribe(catchAll)

	err := bus.Publish(context.Background(),
		newTestEvent("BillPaid"),
		newTestEvent("PaymentMadeCreated"),
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"BillPaid", "PaymentMadeCreated"}, catchAll.handled)
}

func TestInMemoryEventBus_HandlerErrorDoesNotFailPublish(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	bus := NewInMemoryEventBus(zap.New(core))

	failing := &recordingHandler{types: []string{"BillPaid"}, err: errors.New("handler broke")}
	healthy := &recordingHandler{types: []string{"BillPaid"}}
	bus.Subscribe(failing)
	bus.Subscribe(healthy)

	err := bus.Publish(context.Background(), newTestEvent("BillPaid"))
	require.NoError(t, err)

	assert.Equal(t, []string{"BillPaid"}, healthy.handled)
	assert.Equal(t, 1, logs.Len())
}

func TestInMemoryEventBus_HandlerPanicIsRecovered(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	bus := NewInMemoryEventBus(zap.New(core))

	bus.Subscribe(&recordingHandler{types: []string{"BillPaid"}, panics: true})

	require.NotPanics(t, func() {
		_ = bus.Publish(context.Background(), newTestEvent("BillPaid"))
	})
	assert.Equal(t, 1, logs.Len())
}

func TestAuditLogHandler(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	handler := NewAuditLogHandler(zap.New(core))

	evt := newTestEvent("InvoiceRefunded")
	require.NoError(t, handler.Handle(context.Background(), evt))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "InvoiceRefunded", entry.ContextMap()["event_type"])
	assert.Empty(t, handler.EventTypes())
}
