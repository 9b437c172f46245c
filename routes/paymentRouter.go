package routes

import (
	controller "carniceria-backend/controllers"
	"carniceria-backend/middleware"
	"carniceria-backend/models"

	"github.com/gin-gonic/gin"
)

func ProtectedPaymentRoutes(incomingRoutes *gin.Engine) {
	incomingRoutes.POST("/api/payments/confirm/:order_id", controller.ConfirmPayment())
	incomingRoutes.POST("/api/payments/receipt/:order_id", controller.SubmitReceipt())
	incomingRoutes.POST("/api/payments/validate-receipt/:order_id", middleware.Authorize(models.RoleAdmin, models.RoleCarniceria), controller.ValidateReceipt())
}
