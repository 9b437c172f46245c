package controllers

import (
	"context"
	"net/http"
	"time"

	"carniceria-backend/database"
	"carniceria-backend/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var productCollection *mongo.Collection = database.OpenCollection(database.Client, "product")

// GetProducts lists the public catalog: active products only.
func GetProducts() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()

		filter := bson.M{"active": true}
		if category := c.Query("category"); category != "" {
			filter["category"] = category
		}

		result, err := productCollection.Find(ctx, filter, options.Find().SetSort(bson.D{{"name", 1}}))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while listing products"})
			return
		}
		var allProducts []models.Product
		if err := result.All(ctx, &allProducts); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while listing products"})
			return
		}
		c.JSON(http.StatusOK, allProducts)
	}
}

// GetAllProducts lists the full catalog including inactive products, for the
// admin dashboard.
func GetAllProducts() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()

		result, err := productCollection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{"name", 1}}))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while listing products"})
			return
		}
		var allProducts []models.Product
		if err := result.All(ctx, &allProducts); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while listing products"})
			return
		}
		c.JSON(http.StatusOK, allProducts)
	}
}

func GetProduct() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()

		productId := c.Param("product_id")
		var product models.Product
		err := productCollection.FindOne(ctx, bson.M{"product_id": productId}).Decode(&product)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func CreateProduct() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()

		var product models.Product
		if err := c.BindJSON(&product); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if validationErr := validate.Struct(&product); validationErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
			return
		}

		product.Created_at, _ = time.Parse(time.RFC3339, time.Now().Format(time.RFC3339))
		product.Updated_at, _ = time.Parse(time.RFC3339, time.Now().Format(time.RFC3339))
		product.ID = primitive.NewObjectID()
		product.Product_id = product.ID.Hex()
		if product.Active == nil {
			active := true
			product.Active = &active
		}

		result, err := productCollection.InsertOne(ctx, product)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "product was not created"})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func UpdateProduct() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()

		productId := c.Param("product_id")
		var product models.Product
		if err := c.BindJSON(&product); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var updateObj primitive.D
		if product.Name != nil {
			updateObj = append(updateObj, bson.E{"name", product.Name})
		}
		if product.Description != nil {
			updateObj = append(updateObj, bson.E{"description", product.Description})
		}
		if product.Price != nil {
			updateObj = append(updateObj, bson.E{"price", product.Price})
		}
		if product.Unit != nil {
			updateObj = append(updateObj, bson.E{"unit", product.Unit})
		}
		if product.Image != nil {
			updateObj = append(updateObj, bson.E{"image", product.Image})
		}
		if product.Stock != nil {
			updateObj = append(updateObj, bson.E{"stock", product.Stock})
		}
		if product.Min_stock != nil {
			updateObj = append(updateObj, bson.E{"min_stock", product.Min_stock})
		}
		if product.Category != nil {
			updateObj = append(updateObj, bson.E{"category", product.Category})
		}
		if product.Active != nil {
			updateObj = append(updateObj, bson.E{"active", product.Active})
		}
		updated_at, _ := time.Parse(time.RFC3339, time.Now().Format(time.RFC3339))
		updateObj = append(updateObj, bson.E{"updated_at", updated_at})

		filter := bson.M{"product_id": productId}
		result, err := productCollection.UpdateOne(
			ctx,
			filter,
			bson.D{{"$set", updateObj}},
			options.Update().SetUpsert(false),
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "product update failed"})
			return
		}
		if result.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func DeleteProduct() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()

		productId := c.Param("product_id")
		result, err := productCollection.DeleteOne(ctx, bson.M{"product_id": productId})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "product delete failed"})
			return
		}
		if result.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// GetLowStockProducts returns active products whose stock has fallen to or
// below their min_stock threshold, for the dashboard's restock view.
func GetLowStockProducts() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()

		matchStage := bson.D{{"$match", bson.D{
			{"active", true},
			{"$expr", bson.D{{"$lte", bson.A{"$stock", bson.D{{"$ifNull", bson.A{"$min_stock", 0}}}}}}},
		}}}
		sortStage := bson.D{{"$sort", bson.D{{"stock", 1}}}}

		result, err := productCollection.Aggregate(ctx, mongo.Pipeline{matchStage, sortStage})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while listing low stock products"})
			return
		}
		var lowStock []bson.M
		if err := result.All(ctx, &lowStock); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while listing low stock products"})
			return
		}
		c.JSON(http.StatusOK, lowStock)
	}
}
