package routes

import (
	controller "carniceria-backend/controllers"
	"carniceria-backend/middleware"
	"carniceria-backend/models"

	"github.com/gin-gonic/gin"
)

func ReviewRoutes(incomingRoutes *gin.Engine) {
	incomingRoutes.GET("/api/reviews", controller.GetReviews())
	incomingRoutes.POST("/api/reviews", controller.CreateReview())
}

func ProtectedReviewRoutes(incomingRoutes *gin.Engine) {
	incomingRoutes.GET("/api/admin/reviews", middleware.Authorize(models.RoleAdmin), controller.GetAllReviews())
	incomingRoutes.PATCH("/api/reviews/:review_id/approve", middleware.Authorize(models.RoleAdmin), controller.ApproveReview())
	incomingRoutes.DELETE("/api/reviews/:review_id", middleware.Authorize(models.RoleAdmin), controller.DeleteReview())
}
