package notifications

import (
	"errors"
	"fmt"
	"net/http"

	"carniceria-backend/config"
	"carniceria-backend/models"

	webpush "github.com/SherClockHolmes/webpush-go"
)

// ErrSubscriptionGone marks an endpoint the push service reports as expired;
// the fan-out prunes such subscriptions instead of retrying them forever.
var ErrSubscriptionGone = errors.New("push subscription gone")

func pushSender(cfg *config.Config) func(sub models.PushSubscription, payload []byte) error {
	options := &webpush.Options{
		Subscriber:      cfg.Push.Subscriber,
		VAPIDPublicKey:  cfg.Push.VAPIDPublicKey,
		VAPIDPrivateKey: cfg.Push.VAPIDPrivateKey,
		TTL:             60,
	}
	return func(sub models.PushSubscription, payload []byte) error {
		if sub.Endpoint == nil || sub.Keys == nil || sub.Keys.P256dh == nil || sub.Keys.Auth == nil {
			return errors.New("push subscription is missing endpoint or keys")
		}
		subscription := &webpush.Subscription{
			Endpoint: *sub.Endpoint,
			Keys: webpush.Keys{
				P256dh: *sub.Keys.P256dh,
				Auth:   *sub.Keys.Auth,
			},
		}
		resp, err := webpush.SendNotification(payload, subscription, options)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone {
			return ErrSubscriptionGone
		}
		if resp.StatusCode >= 400 {
			return fmt.Errorf("push endpoint returned %d", resp.StatusCode)
		}
		return nil
	}
}
