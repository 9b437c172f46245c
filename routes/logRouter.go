package routes

import (
	controller "carniceria-backend/controllers"
	"carniceria-backend/middleware"
	"carniceria-backend/models"

	"github.com/gin-gonic/gin"
)

func ProtectedLogRoutes(incomingRoutes *gin.Engine) {
	incomingRoutes.GET("/api/logs", middleware.Authorize(models.RoleAdmin), controller.GetLoginLogs())
	incomingRoutes.DELETE("/api/logs", middleware.Authorize(models.RoleAdmin), controller.DeleteLoginLogs())
}
