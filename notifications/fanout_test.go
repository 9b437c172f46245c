package notifications

import (
	"context"
	"errors"
	"testing"

	"carniceria-backend/models"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func sptr(s string) *string { return &s }

func fakeSubscription(userId string) models.PushSubscription {
	return models.PushSubscription{
		ID:       primitive.NewObjectID(),
		User_id:  userId,
		Endpoint: sptr("https://push.example.com/" + userId),
		Keys:     &models.PushKeys{P256dh: sptr("p"), Auth: sptr("a")},
	}
}

func TestNotifyDeliversAllChannels(t *testing.T) {
	var stored []models.Notification
	var emitted, pushed, mailed int

	n := &Notifier{
		Store: func(ctx context.Context, notification models.Notification) error {
			stored = append(stored, notification)
			return nil
		},
		Emit: func(userId, event string, payload interface{}) {
			emitted++
			assert.Equal(t, "u1", userId)
			assert.Equal(t, "notify", event)
		},
		ListSubscriptions: func(ctx context.Context, userId string) ([]models.PushSubscription, error) {
			return []models.PushSubscription{fakeSubscription("u1"), fakeSubscription("u1")}, nil
		},
		SendPush: func(sub models.PushSubscription, payload []byte) error {
			pushed++
			return nil
		},
		SendMail: func(to, subject, body string) error {
			mailed++
			assert.Equal(t, "cliente@example.com", to)
			return nil
		},
	}

	res := n.Notify(context.Background(), Event{
		User_id:  "u1",
		Email:    "cliente@example.com",
		Title:    "Pedido recibido",
		Body:     "Recibimos tu pedido",
		Order_id: "abc123",
	})

	assert.NoError(t, res.Stored)
	assert.NoError(t, res.Push)
	assert.NoError(t, res.Email)
	assert.Len(t, stored, 1)
	assert.Equal(t, "abc123", *stored[0].Order_id)
	assert.Equal(t, models.NotificationOrder, stored[0].Type)
	assert.False(t, stored[0].Read)
	assert.Equal(t, 1, emitted)
	assert.Equal(t, 2, pushed)
	assert.Equal(t, 1, mailed)
}

func TestNotifyChannelFailuresAreIsolated(t *testing.T) {
	var pushed []string
	var mailed int

	n := &Notifier{
		Store: func(ctx context.Context, notification models.Notification) error {
			return errors.New("mongo down")
		},
		Emit: func(userId, event string, payload interface{}) {},
		ListSubscriptions: func(ctx context.Context, userId string) ([]models.PushSubscription, error) {
			return []models.PushSubscription{fakeSubscription("a"), fakeSubscription("b"), fakeSubscription("c")}, nil
		},
		SendPush: func(sub models.PushSubscription, payload []byte) error {
			pushed = append(pushed, *sub.Endpoint)
			if len(pushed) == 1 {
				return errors.New("endpoint unreachable")
			}
			return nil
		},
		SendMail: func(to, subject, body string) error {
			mailed++
			return nil
		},
	}

	res := n.Notify(context.Background(), Event{User_id: "u1", Email: "e@example.com", Title: "t", Body: "b"})

	// Persisting failed and the first push endpoint failed; the remaining
	// endpoints and the email still went out.
	assert.Error(t, res.Stored)
	assert.Error(t, res.Push)
	assert.NoError(t, res.Email)
	assert.Len(t, pushed, 3)
	assert.Equal(t, 1, mailed)
}

func TestNotifyPrunesGoneSubscriptions(t *testing.T) {
	var dropped []models.PushSubscription
	gone := fakeSubscription("gone")

	n := &Notifier{
		Emit: func(userId, event string, payload interface{}) {},
		ListSubscriptions: func(ctx context.Context, userId string) ([]models.PushSubscription, error) {
			return []models.PushSubscription{gone, fakeSubscription("alive")}, nil
		},
		SendPush: func(sub models.PushSubscription, payload []byte) error {
			if sub.ID == gone.ID {
				return ErrSubscriptionGone
			}
			return nil
		},
		DropSubscription: func(ctx context.Context, sub models.PushSubscription) {
			dropped = append(dropped, sub)
		},
	}

	res := n.Notify(context.Background(), Event{User_id: "u1", Title: "t", Body: "b"})

	// An expired endpoint is pruned, not treated as a delivery failure.
	assert.NoError(t, res.Push)
	assert.Len(t, dropped, 1)
	assert.Equal(t, gone.ID, dropped[0].ID)
}

func TestNotifyGuestGetsEmailOnly(t *testing.T) {
	var stored, pushed, mailed int

	n := &Notifier{
		Store: func(ctx context.Context, notification models.Notification) error {
			stored++
			return nil
		},
		Emit: func(userId, event string, payload interface{}) {
			t.Fatal("no socket room for a guest")
		},
		ListSubscriptions: func(ctx context.Context, userId string) ([]models.PushSubscription, error) {
			pushed++
			return nil, nil
		},
		SendPush: func(sub models.PushSubscription, payload []byte) error { return nil },
		SendMail: func(to, subject, body string) error {
			mailed++
			return nil
		},
	}

	n.Notify(context.Background(), Event{Email: "invitado@example.com", Title: "t", Body: "b"})

	assert.Equal(t, 0, stored)
	assert.Equal(t, 0, pushed)
	assert.Equal(t, 1, mailed)
}

func TestNotifyDefaultsTypeToOrder(t *testing.T) {
	var got models.Notification
	n := &Notifier{
		Store: func(ctx context.Context, notification models.Notification) error {
			got = notification
			return nil
		},
	}
	n.Notify(context.Background(), Event{User_id: "u1", Title: "t", Body: "b"})
	assert.Equal(t, models.NotificationOrder, got.Type)
	assert.NotEmpty(t, got.Notification_id)
}
