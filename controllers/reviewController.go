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

var reviewCollection *mongo.Collection = database.OpenCollection(database.Client, "review")

// GetReviews lists approved testimonials for the public site.
func GetReviews() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()

		result, err := reviewCollection.Find(ctx,
			bson.M{"is_approved": true},
			options.Find().SetSort(bson.D{{"created_at", -1}}),
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while listing reviews"})
			return
		}
		var reviews []models.Review
		if err := result.All(ctx, &reviews); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while listing reviews"})
			return
		}
		c.JSON(http.StatusOK, reviews)
	}
}

// GetAllReviews lists every testimonial, approved or not, for moderation.
func GetAllReviews() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()

		result, err := reviewCollection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{"created_at", -1}}))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while listing reviews"})
			return
		}
		var reviews []models.Review
		if err := result.All(ctx, &reviews); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while listing reviews"})
			return
		}
		c.JSON(http.StatusOK, reviews)
	}
}

// CreateReview accepts a new testimonial; it stays hidden until approved.
func CreateReview() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()

		var review models.Review
		if err := c.BindJSON(&review); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if validationErr := validate.Struct(&review); validationErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
			return
		}

		review.Is_approved = false
		review.Created_at = time.Now()
		review.ID = primitive.NewObjectID()
		review.Review_id = review.ID.Hex()

		result, err := reviewCollection.InsertOne(ctx, review)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "review was not created"})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func ApproveReview() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()

		reviewId := c.Param("review_id")
		result, err := reviewCollection.UpdateOne(
			ctx,
			bson.M{"review_id": reviewId},
			bson.D{{"$set", bson.D{{"is_approved", true}}}},
			options.Update().SetUpsert(false),
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "review approval failed"})
			return
		}
		if result.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "review not found"})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func DeleteReview() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()

		reviewId := c.Param("review_id")
		result, err := reviewCollection.DeleteOne(ctx, bson.M{"review_id": reviewId})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "review delete failed"})
			return
		}
		if result.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "review not found"})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}
