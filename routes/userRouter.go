package routes

import (
	controller "carniceria-backend/controllers"
	"carniceria-backend/middleware"
	"carniceria-backend/models"
	"carniceria-backend/realtime"

	"github.com/gin-gonic/gin"
)

func UserRoutes(incomingRoutes *gin.Engine) {
	incomingRoutes.POST("/api/users/signup", controller.SignUp())
	incomingRoutes.POST("/api/users/login", controller.Login())
	incomingRoutes.GET("/ws", realtime.HandleWebSocket())
}

func ProtectedUserRoutes(incomingRoutes *gin.Engine) {
	incomingRoutes.GET("/api/users", middleware.Authorize(models.RoleAdmin), controller.GetUsers())
	incomingRoutes.GET("/api/users/:user_id", controller.GetUser())
	incomingRoutes.PATCH("/api/users/:user_id", controller.UpdateUser())
	incomingRoutes.POST("/api/users", middleware.Authorize(models.RoleAdmin), controller.SignUp())
}
