package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles.
const (
	RoleCliente    = "cliente"
	RoleCarniceria = "carniceria"
	RoleAdmin      = "admin"
)

type User struct {
	ID            primitive.ObjectID `bson:"_id"`
	Name          *string            `json:"name" validate:"required,min=2,max=100"`
	Password      *string            `json:"password" validate:"required,min=6"`
	Email         *string            `json:"email" validate:"email,required"`
	Phone         *string            `json:"phone"`
	Address       *string            `json:"address"`
	User_role     *string            `json:"role" validate:"required,eq=cliente|eq=carniceria|eq=admin"`
	Token         *string            `json:"token"`
	Refresh_Token *string            `json:"refreshToken"`
	Created_at    time.Time          `json:"createdAt"`
	Updated_at    time.Time          `json:"updatedAt"`
	User_id       string             `json:"userId"`
}
