package router

import (
	"context"
	"time"

	"github.com/ukaji3/edimap-go/pkg/edimap/models"
)

// Confirmation reports the delivery outcome of one message.
type Confirmation struct {
	MessageID   string               `json:"messageId"`
	Status      models.MessageStatus `json:"status"`
	DeliveredAt *time.Time           `json:"deliveredAt,omitempty"`
	Error       string               `json:"error,omitempty"`
	Timestamp   time.Time            `json:"timestamp"`
}

// Delivered reports whether the message reached its receiver.
func (c Confirmation) Delivered() bool {
	return c.Status == models.StatusDelivered
}

// Deliver routes msg and records the outcome on msg and, when configured,
// in the status store. Routing failures are reported in the confirmation;
// the returned error is only set when the status could not be stored.
func (r *Router) Deliver(ctx context.Context, msg *models.Message) (Confirmation, error) {
	now := r.now()
	conf := Confirmation{MessageID: msg.ID, Timestamp: now}

	if err := r.Route(ctx, msg); err != nil {
		conf.Status = models.StatusError
		conf.Error = err.Error()
		r.logger().Warn("message delivery failed", "messageId", msg.ID, "receiver", msg.ReceiverID, "error", err)
	} else {
		conf.Status = models.StatusDelivered
		conf.DeliveredAt = &now
		r.logger().Info("message delivered", "messageId", msg.ID, "receiver", msg.ReceiverID)
	}

	msg.Status = conf.Status
	msg.ErrorMessage = conf.Error
	if conf.DeliveredAt != nil {
		msg.DeliveredAt = conf.DeliveredAt
	}

	if r.Statuses != nil {
		if err := r.Statuses.UpdateMessageStatus(ctx, msg.ID, conf.Status, conf.Error, conf.DeliveredAt); err != nil {
			return conf, err
		}
	}
	return conf, nil
}
