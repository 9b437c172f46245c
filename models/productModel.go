package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID          primitive.ObjectID `bson:"_id"`
	Product_id  string             `json:"productId"`
	Name        *string            `json:"name" validate:"required,min=2,max=100"`
	Description *string            `json:"description"`
	Price       *float64           `json:"price" validate:"required,gte=0"`
	Unit        *string            `json:"unit" validate:"required,eq=kg|eq=unidad"`
	Image       *string            `json:"image"`
	Stock       *float64           `json:"stock" validate:"required,gte=0"`
	Min_stock   *float64           `json:"minStock"`
	Category    *string            `json:"category"`
	Active      *bool              `json:"active"`
	Created_at  time.Time          `json:"createdAt"`
	Updated_at  time.Time          `json:"updatedAt"`
}
