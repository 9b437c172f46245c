package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"carniceria-backend/database"
	"carniceria-backend/helpers"
	"carniceria-backend/metrics"
	"carniceria-backend/models"
	"carniceria-backend/notifications"
	"carniceria-backend/pricing"
	"carniceria-backend/realtime"
	"carniceria-backend/statemachine"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var orderCollection *mongo.Collection = database.OpenCollection(database.Client, "order")

// optionalUserId resolves the authenticated user on routes that also accept
// guests; a missing or invalid token just means a guest order.
func optionalUserId(c *gin.Context) *string {
	token := c.Request.Header.Get("token")
	if token == "" {
		return nil
	}
	claims, msg := helpers.ValidateToken(token)
	if msg != "" {
		return nil
	}
	uid := claims.Uid
	return &uid
}

func actorForRole(role string) string {
	switch role {
	case models.RoleCliente:
		return statemachine.ActorCliente
	case models.RoleCarniceria:
		return statemachine.ActorCarniceria
	case models.RoleAdmin:
		return statemachine.ActorAdmin
	}
	return ""
}

func statusMessage(status string) string {
	switch status {
	case models.StatusPendiente:
		return "Tu pedido está pendiente"
	case models.StatusEnPreparacion:
		return "Tu pedido está en preparación"
	case models.StatusListoParaRetiro:
		return "Tu pedido está listo para retiro"
	case models.StatusEntregado:
		return "Tu pedido fue entregado. ¡Gracias por tu compra!"
	case models.StatusCancelado:
		return "Tu pedido fue cancelado"
	}
	return ""
}

func CreateOrder() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()

		var order models.Order
		if err := c.BindJSON(&order); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if validationErr := validate.Struct(&order); validationErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
			return
		}
		if order.Is_delivery && (order.Delivery_address == nil || *order.Delivery_address == "") {
			c.JSON(http.StatusBadRequest, gin.H{"error": "delivery orders require a delivery address"})
			return
		}

		// Snapshot name, unit and price from the catalog so later product
		// edits never change historical orders.
		for i := range order.Items {
			var product models.Product
			err := productCollection.FindOne(ctx, bson.M{"product_id": order.Items[i].Product_id}).Decode(&product)
			if err == nil {
				order.Items[i].Name = product.Name
				order.Items[i].Unit = product.Unit
				order.Items[i].Unit_price = product.Price
			}
			order.Items[i].Original_quantity = nil
		}

		// The server-computed sum is authoritative; any client total is
		// ignored.
		order.Total = pricing.OrderTotal(order.Items)
		order.Status = models.StatusPendiente
		order.Paid = false
		order.Payment_method = nil
		order.Payment_date = nil
		order.Receipt_validation = nil
		order.User_id = optionalUserId(c)

		if order.Customer_email != nil && *order.Customer_email != "" {
			encrypted, err := helpers.EncryptWithSalt(*order.Customer_email)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "order was not created"})
				return
			}
			order.Customer_email_encrypted = encrypted
			order.Email_hash = helpers.HashValue(*order.Customer_email)
		}

		order.Created_at, _ = time.Parse(time.RFC3339, time.Now().Format(time.RFC3339))
		order.Updated_at, _ = time.Parse(time.RFC3339, time.Now().Format(time.RFC3339))
		order.ID = primitive.NewObjectID()
		order.Order_id = order.ID.Hex()

		_, err := orderCollection.InsertOne(ctx, order)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "order was not created"})
			return
		}

		metrics.OrdersCreatedTotal.Inc()
		realtime.Broadcast(realtime.EventOrdersUpdated, order)
		notifications.Dispatch(notifications.Event{
			User_id:  stringOrEmpty(order.User_id),
			Email:    stringOrEmpty(order.Customer_email),
			Title:    "Pedido recibido",
			Body:     "Recibimos tu pedido y pronto comenzaremos a prepararlo.",
			Order_id: order.Order_id,
		})

		c.JSON(http.StatusOK, order)
	}
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func GetOrders() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()

		recordPerPage, err := strconv.Atoi(c.DefaultQuery("recordPerPage", "20"))
		if err != nil || recordPerPage < 1 {
			recordPerPage = 20
		}
		page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
		if err != nil || page < 1 {
			page = 1
		}
		startIndex := (page - 1) * recordPerPage

		filter := bson.M{}
		// Customers only ever see their own orders.
		if c.GetString("role") == models.RoleCliente {
			filter["user_id"] = c.GetString("uid")
		}
		if status := c.Query("status"); status != "" {
			if !statemachine.IsValidStatus(status) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "unknown order status"})
				return
			}
			filter["status"] = status
		}

		findOptions := options.Find().
			SetSort(bson.D{{"created_at", -1}}).
			SetSkip(int64(startIndex)).
			SetLimit(int64(recordPerPage))

		result, err := orderCollection.Find(ctx, filter, findOptions)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while listing orders"})
			return
		}
		var allOrders []models.Order
		if err := result.All(ctx, &allOrders); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while listing orders"})
			return
		}
		c.JSON(http.StatusOK, allOrders)
	}
}

// requesterMayAccessOrder reports whether the requester may act on an order:
// staff always, a customer only on their own.
func requesterMayAccessOrder(role string, uid string, order *models.Order) bool {
	if role != models.RoleCliente {
		return true
	}
	return order.User_id != nil && *order.User_id == uid
}

func GetOrder() gin.HandlerFunc {
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

		role := c.GetString("role")
		if !requesterMayAccessOrder(role, c.GetString("uid"), &order) {
			c.JSON(http.StatusForbidden, gin.H{"error": "you do not have permission to access this resource"})
			return
		}

		if order.Customer_email_encrypted != nil {
			if email := helpers.DecryptWithSalt(order.Customer_email_encrypted); email != "" {
				order.Customer_email = &email
			}
		}
		c.JSON(http.StatusOK, order)
	}
}

// UpdateOrderStatus applies one guarded status transition and fans the
// change out to the customer.
func UpdateOrderStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()

		orderId := c.Param("order_id")
		var body struct {
			Status string `json:"status"`
		}
		if err := c.BindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if !statemachine.IsValidStatus(body.Status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown order status"})
			return
		}

		var order models.Order
		err := orderCollection.FindOne(ctx, bson.M{"order_id": orderId}).Decode(&order)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}

		role := c.GetString("role")
		if !requesterMayAccessOrder(role, c.GetString("uid"), &order) {
			c.JSON(http.StatusForbidden, gin.H{"error": "you do not have permission to access this resource"})
			return
		}

		if err := statemachine.CanTransition(order.Status, body.Status, actorForRole(role)); err != nil {
			metrics.OrderTransitionsRejected.Inc()
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}

		updated_at, _ := time.Parse(time.RFC3339, time.Now().Format(time.RFC3339))
		update := bson.D{{"$set", bson.D{
			{"status", body.Status},
			{"updated_at", updated_at},
		}}}
		_, err = orderCollection.UpdateOne(ctx, bson.M{"order_id": orderId}, update, options.Update().SetUpsert(false))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "order status update failed"})
			return
		}

		metrics.OrderTransitionsTotal.WithLabelValues(order.Status, body.Status).Inc()
		previous := order.Status
		order.Status = body.Status
		order.Updated_at = updated_at

		realtime.Broadcast(realtime.EventOrdersUpdated, order)
		notifyOrderCustomer(order, "Estado de tu pedido", statusMessage(body.Status))

		c.JSON(http.StatusOK, gin.H{"orderId": order.Order_id, "previousStatus": previous, "status": order.Status})
	}
}

// notifyOrderCustomer fans an order event out to the order's customer,
// resolving the guest email from its encrypted form when needed.
func notifyOrderCustomer(order models.Order, title string, body string) {
	email := stringOrEmpty(order.Customer_email)
	if email == "" && order.Customer_email_encrypted != nil {
		email = helpers.DecryptWithSalt(order.Customer_email_encrypted)
	}
	notifications.Dispatch(notifications.Event{
		User_id:  stringOrEmpty(order.User_id),
		Email:    email,
		Title:    title,
		Body:     body,
		Order_id: order.Order_id,
	})
}

func DeleteOrder() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()

		orderId := c.Param("order_id")
		result, err := orderCollection.DeleteOne(ctx, bson.M{"order_id": orderId})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "order delete failed"})
			return
		}
		if result.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}
