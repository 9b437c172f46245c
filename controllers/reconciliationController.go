package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"carniceria-backend/metrics"
	"carniceria-backend/models"
	"carniceria-backend/pricing"
	"carniceria-backend/realtime"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Reconciliation entry modes: the operator types either the exact weight off
// the scale or the exact price off the label printer; the other value is
// derived. Only one is authoritative per edit.
const (
	EditModeWeight = "weight"
	EditModePrice  = "price"
)

type ItemEdit struct {
	Index int     `json:"index"`
	Mode  string  `json:"mode"`
	Value float64 `json:"value"`
}

type reconcileRequest struct {
	Edits []ItemEdit `json:"edits"`
}

// applyReconciliation resolves each edit against the order's items and
// returns the recomputed order total. Quantity is overwritten with the
// resolved weight; the originally ordered quantity is kept once, on the
// first edit of an item, for delta display.
func applyReconciliation(items []models.OrderItem, edits []ItemEdit) ([]models.OrderItem, float64, error) {
	if len(edits) == 0 {
		return nil, 0, errors.New("no edits provided")
	}
	for _, edit := range edits {
		if edit.Index < 0 || edit.Index >= len(items) {
			return nil, 0, fmt.Errorf("item index %d out of range", edit.Index)
		}
		if edit.Value <= 0 {
			return nil, 0, fmt.Errorf("item %d: entered value must be greater than zero", edit.Index)
		}

		item := &items[edit.Index]
		if item.Unit_price == nil || item.Quantity == nil {
			return nil, 0, fmt.Errorf("item %d is missing price or quantity", edit.Index)
		}

		var weight float64
		switch edit.Mode {
		case EditModeWeight:
			weight = edit.Value
		case EditModePrice:
			weight = pricing.WeightFromPrice(edit.Value, *item.Unit_price)
		default:
			return nil, 0, fmt.Errorf("item %d: unknown edit mode %q", edit.Index, edit.Mode)
		}

		if item.Original_quantity == nil {
			original := *item.Quantity
			item.Original_quantity = &original
		}
		item.Quantity = &weight
	}
	return items, pricing.OrderTotal(items), nil
}

// ReconcileOrderItems lets the butcher replace estimated quantities with the
// exact weighed amounts and propagates the corrected total. Reconciliation
// only makes sense while the order is being prepared.
func ReconcileOrderItems() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()

		orderId := c.Param("order_id")
		var req reconcileRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var order models.Order
		err := orderCollection.FindOne(ctx, bson.M{"order_id": orderId}).Decode(&order)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		if order.Status != models.StatusPendiente && order.Status != models.StatusEnPreparacion {
			c.JSON(http.StatusConflict, gin.H{"error": "order can no longer be reconciled in status " + order.Status})
			return
		}

		items, newTotal, err := applyReconciliation(order.Items, req.Edits)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		updated_at, _ := time.Parse(time.RFC3339, time.Now().Format(time.RFC3339))
		update := bson.D{{"$set", bson.D{
			{"items", items},
			{"total", newTotal},
			{"updated_at", updated_at},
		}}}
		_, err = orderCollection.UpdateOne(ctx, bson.M{"order_id": orderId}, update, options.Update().SetUpsert(false))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "order reconciliation failed"})
			return
		}

		metrics.ReconciliationsTotal.Inc()
		realtime.Broadcast(realtime.EventButcherOrderUpdated, gin.H{
			"orderId":  order.Order_id,
			"items":    items,
			"newTotal": newTotal,
			"status":   order.Status,
		})

		c.JSON(http.StatusOK, gin.H{"orderId": order.Order_id, "items": items, "newTotal": newTotal})
	}
}
