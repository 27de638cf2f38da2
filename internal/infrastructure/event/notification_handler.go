package event

import (
	"context"
	"fmt"

	"github.com/finbooks/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Notifier delivers a message to an external channel (email, webhook,
// chat). Delivery is best effort.
type Notifier interface {
	Notify(ctx context.Context, subject, body string) error
}

// LogNotifier writes notifications to the structured log. The default
// sink until a real channel is configured.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a new LogNotifier
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.Named("notify")}
}

func (n *LogNotifier) Notify(_ context.Context, subject, body string) error {
	n.logger.Info("notification", zap.String("subject", subject), zap.String("body", body))
	return nil
}

// NotificationHandler turns settlement events into notifications. A
// failed delivery is logged and swallowed; it never fails the operation
// that raised the event.
type NotificationHandler struct {
	notifier Notifier
	logger   *zap.Logger
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifier Notifier, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{notifier: notifier, logger: logger}
}

// EventTypes lists the settlement events worth telling a human about
func (h *NotificationHandler) EventTypes() []string {
	return []string{"BillPaid", "InvoicePaid", "PaymentMadeReversed", "PaymentReceivedReversed"}
}

// Handle delivers the notification for a settlement event
func (h *NotificationHandler) Handle(ctx context.Context, evt shared.DomainEvent) error {
	subject := fmt.Sprintf("%s: %s", evt.EventType(), evt.AggregateID())
	body := fmt.Sprintf("%s %s in org %s at %s",
		evt.AggregateType(), evt.AggregateID(), evt.OrgID(), evt.OccurredAt().Format("2006-01-02 15:04:05"))
	if err := h.notifier.Notify(ctx, subject, body); err != nil {
		h.logger.Warn("notification delivery failed",
			zap.String("event_type", evt.EventType()),
			zap.Error(err),
		)
	}
	return nil
}

var _ shared.EventHandler = (*NotificationHandler)(nil)
