package api

import (
	"github.com/gin-gonic/gin"

	"trustchat/internal/api/chat"
	"trustchat/internal/api/middleware"
	"trustchat/internal/service"
)

// RouterConfig holds configuration for the router
type RouterConfig struct {
	APIKey       string
	AllowOrigins []string
}

// SetupRouter sets up the Gin router
func SetupRouter(chatService *service.ChatService, cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// CORS middleware
	r.Use(middleware.CORS(cfg.AllowOrigins))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Chat API (optionally API-key protected)
	chatHandler := chat.NewHandler(chatService)
	chatGroup := r.Group("/api/chat")
	chatGroup.Use(middleware.Auth(cfg.APIKey))
	chatHandler.RegisterRoutes(chatGroup)

	return r
}
