package controllers

import (
	"context"
	"crypto/hmac"
	"net/http"
	"strings"
	"time"

	"carniceria-backend/helpers"
	"carniceria-backend/metrics"
	"carniceria-backend/models"
	"carniceria-backend/realtime"
	"carniceria-backend/statemachine"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const pickupSignatureLength = 16

// pickupCode builds the string encoded into the pickup QR: the order id plus
// a truncated keyed hash, so a scanned code can be verified offline against
// the application secret without a lookup table.
func pickupCode(orderId string) string {
	return orderId + "." + pickupSignature(orderId)
}

func pickupSignature(orderId string) string {
	return helpers.HashValue("pickup:" + orderId)[:pickupSignatureLength]
}

// parsePickupCode returns the order id for a well-formed, correctly signed
// code, or "" otherwise.
func parsePickupCode(code string) string {
	parts := strings.SplitN(code, ".", 2)
	if len(parts) != 2 || parts[0] == "" {
		return ""
	}
	if !hmac.Equal([]byte(parts[1]), []byte(pickupSignature(parts[0]))) {
		return ""
	}
	return parts[0]
}

// GetPickupQR renders the order's pickup code as a PNG for the customer to
// present at the counter.
func GetPickupQR() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()

		orderId := c.Param("order_id")
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

		png, err := qrcode.Encode(pickupCode(order.Order_id), qrcode.Medium, 256)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate pickup code"})
			return
		}
		c.Data(http.StatusOK, "image/png", png)
	}
}

// VerifyPickup lets the butcher scan a customer's QR at the counter: a valid
// code on an order that is ready for pickup marks it delivered.
func VerifyPickup() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()

		var body struct {
			Code string `json:"code"`
		}
		if err := c.BindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		orderId := parsePickupCode(body.Code)
		if orderId == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pickup code"})
			return
		}

		var order models.Order
		err := orderCollection.FindOne(ctx, bson.M{"order_id": orderId}).Decode(&order)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}

		if err := statemachine.CanTransition(order.Status, models.StatusEntregado, statemachine.ActorSystem); err != nil {
			metrics.OrderTransitionsRejected.Inc()
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}

		updated_at, _ := time.Parse(time.RFC3339, time.Now().Format(time.RFC3339))
		update := bson.D{{"$set", bson.D{
			{"status", models.StatusEntregado},
			{"updated_at", updated_at},
		}}}
		_, err = orderCollection.UpdateOne(ctx, bson.M{"order_id": orderId}, update, options.Update().SetUpsert(false))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "pickup verification failed"})
			return
		}

		metrics.OrderTransitionsTotal.WithLabelValues(order.Status, models.StatusEntregado).Inc()
		order.Status = models.StatusEntregado
		order.Updated_at = updated_at

		realtime.Broadcast(realtime.EventOrdersUpdated, order)
		notifyOrderCustomer(order, "Pedido entregado", statusMessage(models.StatusEntregado))

		c.JSON(http.StatusOK, gin.H{"orderId": order.Order_id, "status": order.Status})
	}
}
