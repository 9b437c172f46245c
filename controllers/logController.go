package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"carniceria-backend/helpers"
	"carniceria-backend/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetLoginLogs returns the login audit trail, newest first, filterable by
// email, success flag and date range. Stored emails are encrypted; the email
// filter matches on the deterministic hash and results are decrypted for
// display.
func GetLoginLogs() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()

		recordPerPage, err := strconv.Atoi(c.DefaultQuery("recordPerPage", "50"))
		if err != nil || recordPerPage < 1 {
			recordPerPage = 50
		}
		page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
		if err != nil || page < 1 {
			page = 1
		}
		startIndex := (page - 1) * recordPerPage

		filter := bson.M{}
		if email := c.Query("email"); email != "" {
			filter["email_hash"] = helpers.HashValue(email)
		}
		if success := c.Query("success"); success != "" {
			parsed, err := strconv.ParseBool(success)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "success must be true or false"})
				return
			}
			filter["success"] = parsed
		}
		if dateRange, err := parseDateRange(c.Query("from"), c.Query("to")); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		} else if len(dateRange) > 0 {
			filter["created_at"] = dateRange
		}

		findOptions := options.Find().
			SetSort(bson.D{{"created_at", -1}}).
			SetSkip(int64(startIndex)).
			SetLimit(int64(recordPerPage))

		total, err := loginLogCollection.CountDocuments(ctx, filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while listing login logs"})
			return
		}

		result, err := loginLogCollection.Find(ctx, filter, findOptions)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while listing login logs"})
			return
		}
		var logs []models.LoginLog
		if err := result.All(ctx, &logs); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while listing login logs"})
			return
		}
		for i := range logs {
			logs[i].Email = helpers.DecryptWithSalt(logs[i].Email_encrypted)
		}

		c.JSON(http.StatusOK, gin.H{"total": total, "page": page, "logs": logs})
	}
}

func parseDateRange(from, to string) (bson.M, error) {
	dateRange := bson.M{}
	if from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return nil, err
		}
		dateRange["$gte"] = t
	}
	if to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return nil, err
		}
		dateRange["$lte"] = t
	}
	return dateRange, nil
}

// DeleteLoginLogs bulk-deletes audit records: by explicit id list, by date
// range, or everything when all=true. Exactly one selection mode applies.
func DeleteLoginLogs() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()

		var body struct {
			Ids  []string `json:"ids"`
			From string   `json:"from"`
			To   string   `json:"to"`
			All  bool     `json:"all"`
		}
		if err := c.BindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var filter bson.M
		switch {
		case body.All:
			filter = bson.M{}
		case len(body.Ids) > 0:
			filter = bson.M{"log_id": bson.M{"$in": body.Ids}}
		case body.From != "" || body.To != "":
			dateRange, err := parseDateRange(body.From, body.To)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			filter = bson.M{"created_at": dateRange}
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "provide ids, a date range, or all=true"})
			return
		}

		result, err := loginLogCollection.DeleteMany(ctx, filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "login log delete failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": result.DeletedCount})
	}
}
