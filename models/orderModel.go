package models

import (
	"time"

	"carniceria-backend/helpers"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order status values. These exact Spanish strings are consumed by the
// frontend, which branches on them literally.
const (
	StatusPendiente       = "Pendiente"
	StatusEnPreparacion   = "En preparación"
	StatusListoParaRetiro = "Listo para retiro"
	StatusEntregado       = "Entregado"
	StatusCancelado       = "Cancelado"
)

// Payment methods.
const (
	PaymentLocal    = "local"
	PaymentOnline   = "online"
	PaymentTransfer = "transfer"
)

// Receipt validation states.
const (
	ReceiptPending  = "pending"
	ReceiptApproved = "approved"
	ReceiptRejected = "rejected"
)

type OrderItem struct {
	Product_id *string  `json:"productId" validate:"required"`
	Name       *string  `json:"name" validate:"required"`
	Quantity   *float64 `json:"quantity" validate:"required,gt=0"`
	Unit       *string  `json:"unit" validate:"required,eq=kg|eq=unidad"`
	Unit_price *float64 `json:"unitPrice" validate:"required,gte=0"`
	// Original_quantity keeps the customer's ordered amount after the
	// butcher overwrites Quantity with the exact weighed amount.
	Original_quantity *float64 `json:"originalQuantity,omitempty"`
}

type ReceiptValidation struct {
	Status       string     `json:"status"`
	Receipt_url  *string    `json:"receiptUrl,omitempty"`
	Validated_at *time.Time `json:"validatedAt,omitempty"`
	Admin_notes  *string    `json:"adminNotes,omitempty"`
}

type Order struct {
	ID             primitive.ObjectID `bson:"_id"`
	Order_id       string             `json:"orderId"`
	User_id        *string            `json:"userId,omitempty"`
	Customer_name  *string            `json:"customerName" validate:"required,min=2,max=100"`
	Customer_phone *string            `json:"customerPhone" validate:"required"`
	// Customer_email travels over the API but is never stored in clear; the
	// encrypted field below is the at-rest form and Email_hash (hash of the
	// plaintext, never of a ciphertext) is the lookup index over it.
	Customer_email           *string                 `json:"customerEmail,omitempty" bson:"-"`
	Customer_email_encrypted *helpers.EncryptedField `json:"-"`
	Email_hash               string                  `json:"-"`
	Items              []OrderItem        `json:"items" validate:"required,min=1,dive"`
	Total              float64            `json:"total"`
	Status             string             `json:"status"`
	Paid               bool               `json:"paid"`
	Payment_method     *string            `json:"paymentMethod,omitempty"`
	Payment_date       *time.Time         `json:"paymentDate,omitempty"`
	Receipt_validation *ReceiptValidation `json:"receiptValidation,omitempty"`
	Is_delivery        bool               `json:"isDelivery"`
	Delivery_address   *string            `json:"deliveryAddress,omitempty"`
	Pickup_time        *time.Time         `json:"pickupTime,omitempty"`
	Created_at         time.Time          `json:"createdAt"`
	Updated_at         time.Time          `json:"updatedAt"`
}
