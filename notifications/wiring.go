package notifications

import (
	"context"
	"time"

	"carniceria-backend/config"
	"carniceria-backend/database"
	"carniceria-backend/logger"
	"carniceria-backend/models"
	"carniceria-backend/realtime"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var notificationCollection *mongo.Collection = database.OpenCollection(database.Client, "notification")
var pushSubscriptionCollection *mongo.Collection = database.OpenCollection(database.Client, "pushSubscription")

var defaultNotifier *Notifier

// Init wires the production notifier. Push and email legs stay nil when the
// corresponding config is absent, which disables those channels.
func Init(cfg *config.Config) {
	n := &Notifier{
		Store: func(ctx context.Context, notification models.Notification) error {
			_, err := notificationCollection.InsertOne(ctx, notification)
			return err
		},
		Emit: realtime.Emit,
		ListSubscriptions: func(ctx context.Context, userId string) ([]models.PushSubscription, error) {
			cursor, err := pushSubscriptionCollection.Find(ctx, bson.M{"user_id": userId})
			if err != nil {
				return nil, err
			}
			var subs []models.PushSubscription
			if err := cursor.All(ctx, &subs); err != nil {
				return nil, err
			}
			return subs, nil
		},
		DropSubscription: func(ctx context.Context, sub models.PushSubscription) {
			_, err := pushSubscriptionCollection.DeleteOne(ctx, bson.M{"_id": sub.ID})
			if err != nil {
				logger.GetLogger().Warn("failed to prune dead push subscription", zap.Error(err))
			}
		},
	}
	if cfg.Push.Enabled {
		n.SendPush = pushSender(cfg)
	}
	if cfg.SMTP.Enabled {
		n.SendMail = mailSender(cfg)
	}
	defaultNotifier = n
}

// Dispatch sends ev through the notifier built by Init. Fire-and-forget from
// the caller's point of view: the per-channel result is only logged. Runs on
// its own context so a finished request cannot cancel a delivery mid-flight.
func Dispatch(ev Event) Result {
	if defaultNotifier == nil {
		return Result{}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return defaultNotifier.Notify(ctx, ev)
}
