package event

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"go.uber.org/zap/zapcore"
)

type recordingNotifier struct {
	subjects []string
	err      error
}

func (n *recordingNotifier) Notify(_ context.Context, subject, _ string) error {
	n.subjects = append(n.subjects, subject)
	return n.err
}

func TestNotificationHandler_NotifiesOnSettlement(t *testing.T) {
	notifier := &recordingNotifier{}
	h := NewNotificationHandler(notifier, zap.NewNop())
	evt := newTestEvent("BillPaid")

	require.NoError(t, h.Handle(context.Background(), evt))

	require.Len(t, notifier.subjects, 1)
	assert.Contains(t, notifier.subjects[0], "BillPaid")
	assert.Contains(t, notifier.subjects[0], evt.AggregateID().String())
}

func TestNotificationHandler_SwallowsDeliveryFailure(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	notifier := &recordingNotifier{err: errors.New("smtp down")}
	h := NewNotificationHandler(notifier, zap.New(core))

	err := h.Handle(context.Background(), newTestEvent("InvoicePaid"))

	assert.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage("notification delivery failed").Len())
}

func TestNotificationHandler_SubscribesToSettlementEventsOnly(t *testing.T) {
	h := NewNotificationHandler(&recordingNotifier{}, zap.NewNop())

	types := h.EventTypes()

	assert.Contains(t, types, "BillPaid")
	assert.Contains(t, types, "InvoicePaid")
	assert.NotContains(t, types, "BillCreated")
}
