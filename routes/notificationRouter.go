package routes

import (
	controller "carniceria-backend/controllers"

	"github.com/gin-gonic/gin"
)

func ProtectedNotificationRoutes(incomingRoutes *gin.Engine) {
	incomingRoutes.POST("/api/notifications/subscribe", controller.Subscribe())
	incomingRoutes.GET("/api/notifications", controller.GetNotifications())
	incomingRoutes.PATCH("/api/notifications/read-all", controller.MarkAllNotificationsRead())
	incomingRoutes.PATCH("/api/notifications/:notification_id/read", controller.MarkNotificationRead())
}
