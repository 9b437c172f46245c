package routes

import (
	controller "carniceria-backend/controllers"
	"carniceria-backend/middleware"
	"carniceria-backend/models"

	"github.com/gin-gonic/gin"
)

func ProductRoutes(incomingRoutes *gin.Engine) {
	incomingRoutes.GET("/api/products", controller.GetProducts())
	incomingRoutes.GET("/api/products/:product_id", controller.GetProduct())
}

func ProtectedProductRoutes(incomingRoutes *gin.Engine) {
	incomingRoutes.GET("/api/admin/products", middleware.Authorize(models.RoleAdmin, models.RoleCarniceria), controller.GetAllProducts())
	incomingRoutes.GET("/api/admin/products/low-stock", middleware.Authorize(models.RoleAdmin, models.RoleCarniceria), controller.GetLowStockProducts())
	incomingRoutes.POST("/api/products", middleware.Authorize(models.RoleAdmin), controller.CreateProduct())
	incomingRoutes.PUT("/api/products/:product_id", middleware.Authorize(models.RoleAdmin), controller.UpdateProduct())
	incomingRoutes.DELETE("/api/products/:product_id", middleware.Authorize(models.RoleAdmin), controller.DeleteProduct())
}
