package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"carniceria-backend/database"
	"carniceria-backend/helpers"
	"carniceria-backend/logger"
	"carniceria-backend/metrics"
	"carniceria-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var userCollection *mongo.Collection = database.OpenCollection(database.Client, "user")
var loginLogCollection *mongo.Collection = database.OpenCollection(database.Client, "loginLog")

var validate = validator.New()

// Unknown email and wrong password produce the same user-facing message so
// the response does not reveal which accounts exist.
const loginFailedMsg = "email o contraseña incorrectos"

func GetUsers() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()

		recordPerPage, err := strconv.Atoi(c.DefaultQuery("recordPerPage", "10"))
		if err != nil || recordPerPage < 1 {
			recordPerPage = 10
		}
		page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
		if err != nil || page < 1 {
			page = 1
		}
		startIndex := (page - 1) * recordPerPage

		matchStage := bson.D{{"$match", bson.D{}}}
		sortStage := bson.D{{"$sort", bson.D{{"created_at", -1}}}}
		skipStage := bson.D{{"$skip", startIndex}}
		limitStage := bson.D{{"$limit", recordPerPage}}
		projectStage := bson.D{{"$project", bson.D{{"password", 0}, {"token", 0}, {"refresh_token", 0}}}}

		result, err := userCollection.Aggregate(ctx, mongo.Pipeline{matchStage, sortStage, skipStage, limitStage, projectStage})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while listing users"})
			return
		}

		var allUsers []bson.M
		if err := result.All(ctx, &allUsers); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while listing users"})
			return
		}
		c.JSON(http.StatusOK, allUsers)
	}
}

func GetUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()

		userId := c.Param("user_id")
		if role := c.GetString("role"); role != models.RoleAdmin && c.GetString("uid") != userId {
			c.JSON(http.StatusForbidden, gin.H{"error": "you do not have permission to access this resource"})
			return
		}

		var user models.User
		err := userCollection.FindOne(ctx, bson.M{"user_id": userId}).Decode(&user)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		user.Password = nil
		c.JSON(http.StatusOK, user)
	}
}

func SignUp() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()

		var user models.User
		if err := c.BindJSON(&user); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// Public signups are always customers; only an authenticated admin
		// may create staff accounts.
		if c.GetString("role") != models.RoleAdmin {
			role := models.RoleCliente
			user.User_role = &role
		}

		if validationErr := validate.Struct(&user); validationErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
			return
		}

		count, err := userCollection.CountDocuments(ctx, bson.M{"email": user.Email})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while checking for the email"})
			return
		}
		if count > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "email already exists"})
			return
		}

		password := HashPassword(*user.Password)
		user.Password = &password

		user.Created_at, _ = time.Parse(time.RFC3339, time.Now().Format(time.RFC3339))
		user.Updated_at, _ = time.Parse(time.RFC3339, time.Now().Format(time.RFC3339))
		user.ID = primitive.NewObjectID()
		user.User_id = user.ID.Hex()

		token, refreshToken, err := helpers.GenerateAllTokens(*user.Email, *user.Name, user.User_id, *user.User_role)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "user item was not created"})
			return
		}
		user.Token = &token
		user.Refresh_Token = &refreshToken

		resultInsertionNumber, err := userCollection.InsertOne(ctx, user)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "user item was not created"})
			return
		}
		c.JSON(http.StatusOK, resultInsertionNumber)
	}
}

func Login() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()

		var user models.User
		var foundUser models.User
		if err := c.BindJSON(&user); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if user.Email == nil || user.Password == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
			return
		}

		err := userCollection.FindOne(ctx, bson.M{"email": user.Email}).Decode(&foundUser)
		if err != nil {
			logLoginAttempt(c, nil, *user.Email, false, loginFailedMsg)
			c.JSON(http.StatusUnauthorized, gin.H{"error": loginFailedMsg})
			return
		}

		passwordIsValid := VerifyPassword(*user.Password, *foundUser.Password)
		if !passwordIsValid {
			logLoginAttempt(c, &foundUser, *user.Email, false, loginFailedMsg)
			c.JSON(http.StatusUnauthorized, gin.H{"error": loginFailedMsg})
			return
		}

		token, refreshToken, err := helpers.GenerateAllTokens(*foundUser.Email, *foundUser.Name, foundUser.User_id, *foundUser.User_role)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
			return
		}
		helpers.UpdateAllTokens(token, refreshToken, foundUser.User_id)
		foundUser.Token = &token
		foundUser.Refresh_Token = &refreshToken
		foundUser.Password = nil

		logLoginAttempt(c, &foundUser, *foundUser.Email, true, "")
		c.JSON(http.StatusOK, foundUser)
	}
}

// buildLoginLog assembles one audit record. The attempted email is never
// stored in the clear: it goes in encrypted, with a deterministic hash as
// the filter index.
func buildLoginLog(user *models.User, email string, ip string, userAgent string, success bool, errorMessage string) models.LoginLog {
	logEntry := models.LoginLog{
		ID:           primitive.NewObjectID(),
		User_id:      "unknown",
		Ip:           ip,
		User_agent:   userAgent,
		Login_method: "password",
		Success:      success,
		Created_at:   time.Now(),
	}
	logEntry.Log_id = logEntry.ID.Hex()
	if encrypted, err := helpers.EncryptWithSalt(email); err == nil {
		logEntry.Email_encrypted = encrypted
	}
	logEntry.Email_hash = helpers.HashValue(email)
	if user != nil {
		logEntry.User_id = user.User_id
		if user.Name != nil {
			logEntry.Name = *user.Name
		}
		if user.User_role != nil {
			logEntry.Role = *user.User_role
		}
	}
	if errorMessage != "" {
		logEntry.Error_message = &errorMessage
	}
	return logEntry
}

// logLoginAttempt appends one LoginLog record. Append-only, best-effort: a
// failed audit write never blocks the login itself.
func logLoginAttempt(c *gin.Context, user *models.User, email string, success bool, errorMessage string) {
	metrics.LoginAttemptsTotal.WithLabelValues(strconv.FormatBool(success)).Inc()

	logEntry := buildLoginLog(user, email, c.ClientIP(), c.Request.UserAgent(), success, errorMessage)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := loginLogCollection.InsertOne(ctx, logEntry); err != nil {
		logger.GetLogger().Warn("failed to write login log", zap.Error(err))
	}
}

func UpdateUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*100)
		defer cancel()

		userId := c.Param("user_id")
		if role := c.GetString("role"); role != models.RoleAdmin && c.GetString("uid") != userId {
			c.JSON(http.StatusForbidden, gin.H{"error": "you do not have permission to access this resource"})
			return
		}

		var user models.User
		if err := c.BindJSON(&user); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var updateObj primitive.D
		if user.Name != nil {
			updateObj = append(updateObj, bson.E{"name", user.Name})
		}
		if user.Phone != nil {
			updateObj = append(updateObj, bson.E{"phone", user.Phone})
		}
		if user.Address != nil {
			updateObj = append(updateObj, bson.E{"address", user.Address})
		}
		if user.User_role != nil && c.GetString("role") == models.RoleAdmin {
			updateObj = append(updateObj, bson.E{"user_role", user.User_role})
		}
		if user.Password != nil {
			password := HashPassword(*user.Password)
			updateObj = append(updateObj, bson.E{"password", &password})
		}
		user.Updated_at, _ = time.Parse(time.RFC3339, time.Now().Format(time.RFC3339))
		updateObj = append(updateObj, bson.E{"updated_at", user.Updated_at})

		filter := bson.M{"user_id": userId}
		result, err := userCollection.UpdateOne(
			ctx,
			filter,
			bson.D{{"$set", updateObj}},
			options.Update().SetUpsert(false),
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "user update failed"})
			return
		}
		if result.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func HashPassword(password string) string {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	if err != nil {
		logger.GetLogger().Panic("password hashing failed", zap.Error(err))
	}
	return string(bytes)
}

func VerifyPassword(userPassword string, providedPassword string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(providedPassword), []byte(userPassword))
	return err == nil
}
