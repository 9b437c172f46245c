package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Review struct {
	ID             primitive.ObjectID `bson:"_id"`
	Review_id      string             `json:"reviewId"`
	Name           *string            `json:"name" validate:"required,min=2,max=100"`
	Comment        *string            `json:"comment" validate:"required,min=5"`
	Rating         *int               `json:"rating" validate:"required,min=1,max=5"`
	Gender         *string            `json:"gender,omitempty"`
	Customer_since *int               `json:"customerSince,omitempty"`
	Is_approved    bool               `json:"isApproved"`
	Created_at     time.Time          `json:"createdAt"`
}
