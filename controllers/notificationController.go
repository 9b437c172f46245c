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

var notificationCollection *mongo.Collection = database.OpenCollection(database.Client, "notification")
var pushSubscriptionCollection *mongo.Collection = database.OpenCollection(database.Client, "pushSubscription")

// Subscribe registers (or refreshes) a device's web-push subscription for
// the authenticated user. One document per (user, endpoint).
func Subscribe() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()

		var sub models.PushSubscription
		if err := c.BindJSON(&sub); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		sub.User_id = c.GetString("uid")
		if validationErr := validate.Struct(&sub); validationErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
			return
		}

		updated_at, _ := time.Parse(time.RFC3339, time.Now().Format(time.RFC3339))
		filter := bson.M{"user_id": sub.User_id, "endpoint": sub.Endpoint}
		update := bson.D{
			{"$set", bson.D{
				{"keys", sub.Keys},
				{"updated_at", updated_at},
			}},
			{"$setOnInsert", bson.D{
				{"_id", primitive.NewObjectID()},
				{"user_id", sub.User_id},
				{"endpoint", sub.Endpoint},
				{"created_at", updated_at},
			}},
		}
		upsert := true
		opt := options.UpdateOptions{
			Upsert: &upsert,
		}
		result, err := pushSubscriptionCollection.UpdateOne(ctx, filter, update, &opt)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "subscription was not saved"})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// GetNotifications lists the authenticated user's in-app notifications,
// newest first.
func GetNotifications() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()

		result, err := notificationCollection.Find(ctx,
			bson.M{"user_id": c.GetString("uid")},
			options.Find().SetSort(bson.D{{"created_at", -1}}).SetLimit(100),
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while listing notifications"})
			return
		}
		var userNotifications []models.Notification
		if err := result.All(ctx, &userNotifications); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while listing notifications"})
			return
		}
		c.JSON(http.StatusOK, userNotifications)
	}
}

// MarkNotificationRead flips one notification's read flag. Users can only
// touch their own records.
func MarkNotificationRead() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()

		notificationId := c.Param("notification_id")
		result, err := notificationCollection.UpdateOne(
			ctx,
			bson.M{"notification_id": notificationId, "user_id": c.GetString("uid")},
			bson.D{{"$set", bson.D{{"read", true}}}},
			options.Update().SetUpsert(false),
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "notification update failed"})
			return
		}
		if result.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// MarkAllNotificationsRead clears the user's unread badge in one call.
func MarkAllNotificationsRead() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()

		result, err := notificationCollection.UpdateMany(
			ctx,
			bson.M{"user_id": c.GetString("uid"), "read": false},
			bson.D{{"$set", bson.D{{"read", true}}}},
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "notification update failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"updated": result.ModifiedCount})
	}
}
