package models

import (
	"time"

	"carniceria-backend/helpers"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LoginLog is an append-only audit record of one login attempt. Failed
// attempts carry User_id "unknown" and the error message shown to the user.
// The attempted email is stored encrypted, like the order customer email;
// Email_hash is the deterministic lookup index over it and Email only exists
// on the wire, decrypted for admin display.
type LoginLog struct {
	ID              primitive.ObjectID      `bson:"_id"`
	Log_id          string                  `json:"logId"`
	User_id         string                  `json:"userId"`
	Name            string                  `json:"name"`
	Email           string                  `json:"email" bson:"-"`
	Email_encrypted *helpers.EncryptedField `json:"-" bson:"email_encrypted"`
	Email_hash      string                  `json:"-" bson:"email_hash"`
	Role            string                  `json:"role"`
	Ip              string                  `json:"ip"`
	User_agent      string                  `json:"userAgent"`
	Login_method    string                  `json:"loginMethod"`
	Success         bool                    `json:"success"`
	Error_message   *string                 `json:"errorMessage,omitempty"`
	Created_at      time.Time               `json:"createdAt"`
}
