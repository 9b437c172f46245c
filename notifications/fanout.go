// Package notifications fans one business event out to the customer's
// channels: a persisted in-app record, a live socket event, web push to every
// registered device, and a transactional email. Every channel is independent
// and best-effort; a failed delivery is logged and counted, never surfaced to
// the caller that triggered the business event.
package notifications

import (
	"context"
	"encoding/json"
	"time"

	"carniceria-backend/logger"
	"carniceria-backend/metrics"
	"carniceria-backend/models"
	"carniceria-backend/realtime"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Event is one notification to deliver. Email may be set without User_id for
// guest customers; such events only get the email channel.
type Event struct {
	User_id  string
	Email    string
	Title    string
	Body     string
	Type     string
	Order_id string
}

// Result records the outcome per channel. It exists for observability only;
// callers must not branch business logic on it.
type Result struct {
	Stored error
	Socket error
	Push   error
	Email  error
}

// Notifier holds one delivery function per channel. A nil function disables
// that channel. Production wiring is built by Init; tests swap in fakes.
type Notifier struct {
	Store             func(ctx context.Context, n models.Notification) error
	Emit              func(userId string, event string, payload interface{})
	ListSubscriptions func(ctx context.Context, userId string) ([]models.PushSubscription, error)
	SendPush          func(sub models.PushSubscription, payload []byte) error
	DropSubscription  func(ctx context.Context, sub models.PushSubscription)
	SendMail          func(to string, subject string, body string) error
}

type pushPayload struct {
	Title   string `json:"title"`
	Body    string `json:"body"`
	OrderId string `json:"orderId,omitempty"`
}

// Notify delivers ev over every configured channel. It never returns an
// error: the primary write path that triggered the event must not fail
// because a side channel did.
func (n *Notifier) Notify(ctx context.Context, ev Event) Result {
	var res Result

	if ev.Type == "" {
		ev.Type = models.NotificationOrder
	}

	notification := models.Notification{
		ID:         primitive.NewObjectID(),
		User_id:    ev.User_id,
		Title:      ev.Title,
		Body:       ev.Body,
		Type:       ev.Type,
		Read:       false,
		Created_at: time.Now(),
	}
	notification.Notification_id = notification.ID.Hex()
	if ev.Order_id != "" {
		notification.Order_id = &ev.Order_id
	}

	if n.Store != nil && ev.User_id != "" {
		res.Stored = n.Store(ctx, notification)
		n.observe("store", res.Stored, ev)
	}

	if n.Emit != nil && ev.User_id != "" {
		n.Emit(ev.User_id, realtime.EventNotify, notification)
		metrics.NotificationsSentTotal.WithLabelValues("socket").Inc()
	}

	if n.ListSubscriptions != nil && n.SendPush != nil && ev.User_id != "" {
		res.Push = n.pushAll(ctx, ev)
	}

	if n.SendMail != nil && ev.Email != "" {
		res.Email = n.SendMail(ev.Email, ev.Title, ev.Body)
		n.observe("email", res.Email, ev)
	}

	return res
}

// pushAll attempts delivery to each subscription independently; one failing
// endpoint neither blocks the rest nor fails the call. The first error is
// kept for the result.
func (n *Notifier) pushAll(ctx context.Context, ev Event) error {
	subs, err := n.ListSubscriptions(ctx, ev.User_id)
	if err != nil {
		n.observe("push", err, ev)
		return err
	}

	payload, err := json.Marshal(pushPayload{Title: ev.Title, Body: ev.Body, OrderId: ev.Order_id})
	if err != nil {
		return err
	}

	var firstErr error
	for _, sub := range subs {
		err := n.SendPush(sub, payload)
		n.observe("push", err, ev)
		if err == ErrSubscriptionGone && n.DropSubscription != nil {
			n.DropSubscription(ctx, sub)
			continue
		}
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (n *Notifier) observe(channel string, err error, ev Event) {
	if err != nil {
		metrics.NotificationChannelFailures.WithLabelValues(channel).Inc()
		logger.GetLogger().Warn("notification delivery failed",
			zap.String("channel", channel),
			zap.String("user_id", ev.User_id),
			zap.String("order_id", ev.Order_id),
			zap.Error(err))
		return
	}
	metrics.NotificationsSentTotal.WithLabelValues(channel).Inc()
}
