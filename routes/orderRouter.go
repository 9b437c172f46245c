package routes

import (
	controller "carniceria-backend/controllers"
	"carniceria-backend/middleware"
	"carniceria-backend/models"

	"github.com/gin-gonic/gin"
)

// Order creation is public so guests can check out; everything else needs a
// session.
func OrderRoutes(incomingRoutes *gin.Engine) {
	incomingRoutes.POST("/api/orders", controller.CreateOrder())
}

func ProtectedOrderRoutes(incomingRoutes *gin.Engine) {
	incomingRoutes.GET("/api/orders", controller.GetOrders())
	incomingRoutes.GET("/api/orders/stats", middleware.Authorize(models.RoleAdmin), controller.GetOrderStats())
	incomingRoutes.GET("/api/orders/:order_id", controller.GetOrder())
	incomingRoutes.PATCH("/api/orders/:order_id/status", controller.UpdateOrderStatus())
	incomingRoutes.PATCH("/api/orders/:order_id/items", middleware.Authorize(models.RoleCarniceria, models.RoleAdmin), controller.ReconcileOrderItems())
	incomingRoutes.GET("/api/orders/:order_id/qr", controller.GetPickupQR())
	incomingRoutes.POST("/api/orders/verify-pickup", middleware.Authorize(models.RoleCarniceria, models.RoleAdmin), controller.VerifyPickup())
	incomingRoutes.DELETE("/api/orders/:order_id", middleware.Authorize(models.RoleAdmin), controller.DeleteOrder())
}
