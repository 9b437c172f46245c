package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types.
const (
	NotificationOrder  = "order"
	NotificationSystem = "system"
)

type Notification struct {
	ID              primitive.ObjectID `bson:"_id"`
	Notification_id string             `json:"notificationId"`
	User_id         string             `json:"userId"`
	Title           string             `json:"title"`
	Body            string             `json:"body"`
	Type            string             `json:"type"`
	Order_id        *string            `json:"orderId,omitempty"`
	Read            bool               `json:"read"`
	Created_at      time.Time          `json:"createdAt"`
}
