package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"carniceria-backend/metrics"
	"carniceria-backend/models"
	"carniceria-backend/realtime"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// applyPaymentConfirmation marks an order paid in memory and reports whether
// anything changed. Idempotent: a second confirmation leaves the first
// method and date untouched. Confirming a still-pending order also advances
// it to preparation.
func applyPaymentConfirmation(order *models.Order, method string, now time.Time) bool {
	if order.Paid {
		return false
	}
	order.Paid = true
	order.Payment_method = &method
	order.Payment_date = &now
	if order.Status == models.StatusPendiente {
		order.Status = models.StatusEnPreparacion
	}
	return true
}

func persistPaymentConfirmation(ctx context.Context, order *models.Order) error {
	updated_at, _ := time.Parse(time.RFC3339, time.Now().Format(time.RFC3339))
	order.Updated_at = updated_at
	update := bson.D{{"$set", bson.D{
		{"paid", order.Paid},
		{"payment_method", order.Payment_method},
		{"payment_date", order.Payment_date},
		{"status", order.Status},
		{"updated_at", updated_at},
	}}}
	_, err := orderCollection.UpdateOne(ctx, bson.M{"order_id": order.Order_id}, update, options.Update().SetUpsert(false))
	return err
}

// ConfirmPayment marks an order as paid. The payment write is authoritative;
// the confirmation email and socket update are fire-and-forget.
func ConfirmPayment() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()

		orderId := c.Param("order_id")
		var body struct {
			PaymentMethod string `json:"paymentMethod"`
		}
		if err := c.BindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		switch body.PaymentMethod {
		case models.PaymentLocal, models.PaymentOnline, models.PaymentTransfer:
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown payment method"})
			return
		}

		var order models.Order
		err := orderCollection.FindOne(ctx, bson.M{"order_id": orderId}).Decode(&order)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}

		if !requesterMayAccessOrder(c.GetString("role"), c.GetString("uid"), &order) {
			c.JSON(http.StatusForbidden, gin.H{"error": "you do not have permission to access this resource"})
			return
		}

		previousStatus := order.Status
		if !applyPaymentConfirmation(&order, body.PaymentMethod, time.Now()) {
			// Already paid: idempotent success, nothing re-sent.
			c.JSON(http.StatusOK, gin.H{"orderId": order.Order_id, "paid": true, "paymentMethod": *order.Payment_method})
			return
		}

		if err := persistPaymentConfirmation(ctx, &order); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "payment confirmation failed"})
			return
		}

		metrics.OrdersPaidTotal.Inc()
		if order.Status != previousStatus {
			metrics.OrderTransitionsTotal.WithLabelValues(previousStatus, order.Status).Inc()
		}
		realtime.Broadcast(realtime.EventOrdersUpdated, order)
		notifyOrderCustomer(order, "Pago confirmado",
			"Recibimos tu pago. Tu pedido ya está en preparación.")

		c.JSON(http.StatusOK, gin.H{"orderId": order.Order_id, "paid": true, "paymentMethod": body.PaymentMethod})
	}
}

// applyReceiptSubmission builds the pending validation record for a newly
// submitted transfer proof. Resubmission replaces a pending or rejected
// record; an approved one is final, the order is already paid.
func applyReceiptSubmission(order *models.Order, receiptUrl string) (models.ReceiptValidation, error) {
	if order.Receipt_validation != nil && order.Receipt_validation.Status == models.ReceiptApproved {
		return models.ReceiptValidation{}, errors.New("receipt has already been approved for this order")
	}
	return models.ReceiptValidation{
		Status:      models.ReceiptPending,
		Receipt_url: &receiptUrl,
	}, nil
}

// SubmitReceipt attaches a customer's transfer-proof reference to the order,
// pending staff review.
func SubmitReceipt() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()

		orderId := c.Param("order_id")
		var body struct {
			ReceiptUrl string `json:"receiptUrl"`
		}
		if err := c.BindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if body.ReceiptUrl == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "receiptUrl is required"})
			return
		}

		var order models.Order
		err := orderCollection.FindOne(ctx, bson.M{"order_id": orderId}).Decode(&order)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}

		if !requesterMayAccessOrder(c.GetString("role"), c.GetString("uid"), &order) {
			c.JSON(http.StatusForbidden, gin.H{"error": "you do not have permission to access this resource"})
			return
		}

		receipt, err := applyReceiptSubmission(&order, body.ReceiptUrl)
		if err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		updated_at, _ := time.Parse(time.RFC3339, time.Now().Format(time.RFC3339))
		update := bson.D{{"$set", bson.D{
			{"receipt_validation", receipt},
			{"updated_at", updated_at},
		}}}
		_, err = orderCollection.UpdateOne(ctx, bson.M{"order_id": orderId}, update, options.Update().SetUpsert(false))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "receipt submission failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"orderId": orderId, "receiptValidation": receipt})
	}
}

// ValidateReceipt records the staff decision on an uploaded transfer proof.
// Approval performs the payment-confirmation effects with method "transfer".
func ValidateReceipt() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()

		orderId := c.Param("order_id")
		var body struct {
			Status     string `json:"status"`
			AdminNotes string `json:"adminNotes"`
		}
		if err := c.BindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if body.Status != models.ReceiptApproved && body.Status != models.ReceiptRejected {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status must be approved or rejected"})
			return
		}

		var order models.Order
		err := orderCollection.FindOne(ctx, bson.M{"order_id": orderId}).Decode(&order)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		if order.Receipt_validation == nil || order.Receipt_validation.Receipt_url == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "order has no submitted receipt"})
			return
		}

		now := time.Now()
		receipt := *order.Receipt_validation
		receipt.Status = body.Status
		receipt.Validated_at = &now
		if body.AdminNotes != "" {
			receipt.Admin_notes = &body.AdminNotes
		}
		order.Receipt_validation = &receipt

		previousStatus := order.Status
		paymentApplied := false
		if body.Status == models.ReceiptApproved {
			paymentApplied = applyPaymentConfirmation(&order, models.PaymentTransfer, now)
		}

		updated_at, _ := time.Parse(time.RFC3339, time.Now().Format(time.RFC3339))
		update := bson.D{{"$set", bson.D{
			{"receipt_validation", receipt},
			{"paid", order.Paid},
			{"payment_method", order.Payment_method},
			{"payment_date", order.Payment_date},
			{"status", order.Status},
			{"updated_at", updated_at},
		}}}
		_, err = orderCollection.UpdateOne(ctx, bson.M{"order_id": orderId}, update, options.Update().SetUpsert(false))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "receipt validation failed"})
			return
		}

		if paymentApplied {
			metrics.OrdersPaidTotal.Inc()
			if order.Status != previousStatus {
				metrics.OrderTransitionsTotal.WithLabelValues(previousStatus, order.Status).Inc()
			}
			notifyOrderCustomer(order, "Pago confirmado",
				"Validamos tu comprobante de transferencia. Tu pedido ya está en preparación.")
		} else if body.Status == models.ReceiptRejected {
			notifyOrderCustomer(order, "Comprobante rechazado",
				"No pudimos validar tu comprobante de transferencia. Por favor sube una imagen legible o contáctanos.")
		}
		realtime.Broadcast(realtime.EventOrdersUpdated, order)

		c.JSON(http.StatusOK, gin.H{"orderId": orderId, "receiptValidation": receipt, "paid": order.Paid})
	}
}
