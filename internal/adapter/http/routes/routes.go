package routes

import (
	"github.com/gin-gonic/gin"

	"todoapi/internal/adapter/http/handler"
	"todoapi/internal/adapter/http/middleware"
	"todoapi/internal/core/telemetry"
	"todoapi/pkg/config"
)

type HandlersConfig struct {
	RootHandler *handler.RootHandler
	UserHandler *handler.UserHandler
	TodoHandler *handler.TodoHandler
}

func SetupRouterWithConfig(handlers HandlersConfig, metrics *telemetry.AppMetrics, logger *config.Logger, cfg *config.AppConfig) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	middleware.SetupGinMiddlewareWithConfig(router, metrics, logger, cfg)

	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	setupRoutes(router, handlers)

	return router
}

// SetupRouterForTests mounts the routes without telemetry, logging or rate limiting.
func SetupRouterForTests(handlers HandlersConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	setupRoutes(router, handlers)

	return router
}

func setupRoutes(router *gin.Engine, handlers HandlersConfig) {
	if handlers.RootHandler != nil {
		router.GET("/", handlers.RootHandler.Root)
	}

	if handlers.UserHandler != nil {
		router.POST("/users", handlers.UserHandler.CreateUser)
	}

	if handlers.TodoHandler != nil {
		todos := router.Group("/todos")
		{
			todos.POST("", handlers.TodoHandler.CreateTodo)
			todos.GET("", handlers.TodoHandler.AllTodos)
			todos.GET("/:id", handlers.TodoHandler.FindTodo)
			todos.PATCH("/:id", handlers.TodoHandler.UpdateTodo)
			todos.DELETE("/:id", handlers.TodoHandler.DeleteTodo)
		}
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
