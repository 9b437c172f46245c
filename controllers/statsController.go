package controllers

import (
	"context"
	"net/http"
	"time"

	"carniceria-backend/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// 100s matches the timeout every other handler in this package uses.
const statsTimeout = 100 * time.Second

// GetOrderStats feeds the admin analytics dashboard: order counts and
// revenue by status, the best-selling products by dispensed quantity, and
// repeat customers grouped by their email hash.
func GetOrderStats() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), statsTimeout)
		defer cancel()

		byStatus, err := ordersByStatus(ctx)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while aggregating orders"})
			return
		}
		topProducts, err := topProductsByQuantity(ctx)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while aggregating products"})
			return
		}
		frequentCustomers, err := frequentCustomersByEmailHash(ctx)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while aggregating customers"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"byStatus":          byStatus,
			"topProducts":       topProducts,
			"frequentCustomers": frequentCustomers,
		})
	}
}

func ordersByStatus(ctx context.Context) ([]bson.M, error) {
	groupStage := bson.D{{"$group", bson.D{
		{"_id", "$status"},
		{"count", bson.D{{"$sum", 1}}},
		{"revenue", bson.D{{"$sum", "$total"}}},
		{"paidCount", bson.D{{"$sum", bson.D{{"$cond", bson.A{"$paid", 1, 0}}}}}},
	}}}
	projectStage := bson.D{{"$project", bson.D{
		{"_id", 0},
		{"status", "$_id"},
		{"count", 1},
		{"revenue", 1},
		{"paidCount", 1},
	}}}

	cursor, err := orderCollection.Aggregate(ctx, mongo.Pipeline{groupStage, projectStage})
	if err != nil {
		return nil, err
	}
	var result []bson.M
	if err := cursor.All(ctx, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func topProductsByQuantity(ctx context.Context) ([]bson.M, error) {
	// Cancelled orders never dispensed anything.
	matchStage := bson.D{{"$match", bson.D{{"status", bson.D{{"$ne", models.StatusCancelado}}}}}}
	unwindStage := bson.D{{"$unwind", bson.D{{"path", "$items"}}}}
	groupStage := bson.D{{"$group", bson.D{
		{"_id", bson.D{
			{"product_id", "$items.product_id"},
			{"name", "$items.name"},
			{"unit", "$items.unit"},
		}},
		{"totalQuantity", bson.D{{"$sum", "$items.quantity"}}},
		{"totalRevenue", bson.D{{"$sum", bson.D{{"$multiply", bson.A{"$items.unit_price", "$items.quantity"}}}}}},
		{"orderCount", bson.D{{"$sum", 1}}},
	}}}
	sortStage := bson.D{{"$sort", bson.D{{"totalQuantity", -1}}}}
	limitStage := bson.D{{"$limit", 10}}
	projectStage := bson.D{{"$project", bson.D{
		{"_id", 0},
		{"productId", "$_id.product_id"},
		{"name", "$_id.name"},
		{"unit", "$_id.unit"},
		{"totalQuantity", 1},
		{"totalRevenue", 1},
		{"orderCount", 1},
	}}}

	cursor, err := orderCollection.Aggregate(ctx, mongo.Pipeline{matchStage, unwindStage, groupStage, sortStage, limitStage, projectStage})
	if err != nil {
		return nil, err
	}
	var result []bson.M
	if err := cursor.All(ctx, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// frequentCustomersByEmailHash counts orders per customer without touching
// the plaintext email: the deterministic hash is the grouping key.
func frequentCustomersByEmailHash(ctx context.Context) ([]bson.M, error) {
	matchStage := bson.D{{"$match", bson.D{{"email_hash", bson.D{{"$ne", ""}}}}}}
	groupStage := bson.D{{"$group", bson.D{
		{"_id", "$email_hash"},
		{"orderCount", bson.D{{"$sum", 1}}},
		{"totalSpent", bson.D{{"$sum", "$total"}}},
		{"lastOrderAt", bson.D{{"$max", "$created_at"}}},
	}}}
	matchFrequent := bson.D{{"$match", bson.D{{"orderCount", bson.D{{"$gte", 2}}}}}}
	sortStage := bson.D{{"$sort", bson.D{{"orderCount", -1}}}}
	limitStage := bson.D{{"$limit", 20}}
	projectStage := bson.D{{"$project", bson.D{
		{"_id", 0},
		{"emailHash", "$_id"},
		{"orderCount", 1},
		{"totalSpent", 1},
		{"lastOrderAt", 1},
	}}}

	cursor, err := orderCollection.Aggregate(ctx, mongo.Pipeline{matchStage, groupStage, matchFrequent, sortStage, limitStage, projectStage})
	if err != nil {
		return nil, err
	}
	var result []bson.M
	if err := cursor.All(ctx, &result); err != nil {
		return nil, err
	}
	return result, nil
}
