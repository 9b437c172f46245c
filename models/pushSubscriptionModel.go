package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PushKeys struct {
	P256dh *string `json:"p256dh" validate:"required"`
	Auth   *string `json:"auth" validate:"required"`
}

// PushSubscription stores one device's web-push registration, unique per
// (user_id, endpoint); re-registration upserts.
type PushSubscription struct {
	ID         primitive.ObjectID `bson:"_id"`
	User_id    string             `json:"userId"`
	Endpoint   *string            `json:"endpoint" validate:"required,url"`
	Keys       *PushKeys          `json:"keys" validate:"required"`
	Created_at time.Time          `json:"createdAt"`
	Updated_at time.Time          `json:"updatedAt"`
}
