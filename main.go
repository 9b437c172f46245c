package main

import (
	"log"
	"net/http"
	"time"

	"carniceria-backend/config"
	"carniceria-backend/logger"
	"carniceria-backend/metrics"
	"carniceria-backend/middleware"
	"carniceria-backend/notifications"
	routes "carniceria-backend/routes"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := config.Load()

	if err := logger.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer logger.SyncLogger()

	notifications.Init(cfg)

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(metrics.Middleware())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.Server.FrontendOrigin},
		AllowMethods:     []string{"POST", "GET", "PATCH", "DELETE", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "token"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public surface: signup/login, websocket, catalog, testimonials and
	// guest checkout.
	routes.UserRoutes(router)
	routes.ProductRoutes(router)
	routes.ReviewRoutes(router)
	routes.OrderRoutes(router)

	// Everything below requires a session.
	router.Use(middleware.Authentication())
	routes.ProtectedUserRoutes(router)
	routes.ProtectedProductRoutes(router)
	routes.ProtectedOrderRoutes(router)
	routes.ProtectedPaymentRoutes(router)
	routes.ProtectedReviewRoutes(router)
	routes.ProtectedLogRoutes(router)
	routes.ProtectedNotificationRoutes(router)

	router.Run(":" + cfg.Server.Port)
}
