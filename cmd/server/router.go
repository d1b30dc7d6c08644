package main

import (
	"net/http"

	"gamearena/backend/internal/auth"
	"gamearena/backend/internal/database"
	"gamearena/backend/internal/handler"
	"gamearena/backend/internal/hub"
	"gamearena/backend/internal/leaderboard"
	"gamearena/backend/internal/logger"
	"gamearena/backend/internal/metrics"
	"gamearena/backend/internal/ratelimit"
	"gamearena/backend/internal/registration"
	"gamearena/backend/internal/repository"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

type routerDeps struct {
	store       repository.Store
	engine      *registration.Engine
	hub         *hub.Hub
	leaderboard *leaderboard.Service
	metrics     *metrics.Metrics
	joinLimiter *ratelimit.Limiter
}

func newRouter(d routerDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(), d.metrics.Middleware())

	rooms := handler.NewRoomHandler(d.store, d.engine, d.hub, database.DB)
	registrations := handler.NewRegistrationHandler(d.store)
	board := handler.NewLeaderboardHandler(d.leaderboard)

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
	router.GET("/metrics", gin.WrapH(d.metrics.Handler()))

	// API v1 routes
	apiV1 := router.Group("/api/v1")
	{
		// Auth routes
		authRoutes := apiV1.Group("/auth")
		{
			authRoutes.POST("/register", handler.RegisterUser)
			authRoutes.POST("/login", handler.LoginUser)
		}

		// User routes (protected)
		userRoutes := apiV1.Group("/users")
		userRoutes.Use(auth.AuthMiddleware())
		{
			userRoutes.GET("/me", handler.GetMe)
			userRoutes.PUT("/me", handler.UpdateMe)
		}

		// Room routes
		roomRoutes := apiV1.Group("/rooms")
		{
			roomRoutes.GET("", rooms.ListRooms)
			roomRoutes.POST("", auth.AuthMiddleware(), rooms.CreateRoom)
			roomRoutes.GET("/:id", rooms.GetRoom)
			roomRoutes.GET("/:id/prizes", rooms.GetRoomPrizes)
			roomRoutes.GET("/:id/events", rooms.RoomEvents)
			// Anonymous joins reach the engine, which answers with sign-in required.
			roomRoutes.POST("/:id/join", auth.OptionalAuthMiddleware(), d.joinLimiter.Middleware(), rooms.JoinRoom)
			roomRoutes.GET("/:id/registrations", auth.AuthMiddleware(), rooms.ListRoomRegistrations)
		}

		apiV1.GET("/registrations/me", auth.AuthMiddleware(), registrations.MyRegistrations)
		apiV1.GET("/leaderboard", board.GetLeaderboard)
		apiV1.GET("/store/items", handler.GetStoreItems)

		chatRoutes := apiV1.Group("/chat")
		{
			chatRoutes.GET("/channels", handler.GetChatChannels)
			chatRoutes.GET("/messages", handler.GetChatMessages)
			chatRoutes.POST("/messages", auth.AuthMiddleware(), handler.PostChatMessage)
		}

		// Admin routes (protected by auth and admin check)
		adminRoutes := apiV1.Group("/admin")
		adminRoutes.Use(auth.AuthMiddleware(), auth.AdminMiddleware())
		{
			items := adminRoutes.Group("/store/items")
			{
				items.POST("", handler.CreateStoreItem)
				items.PUT("/:id", handler.UpdateStoreItem)
				items.DELETE("/:id", handler.DeleteStoreItem)
			}
		}
	}

	return router
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		logger.L().Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.String("ip", c.ClientIP()),
		)
	}
}
