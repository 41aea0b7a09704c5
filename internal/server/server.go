package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/auxilio/backend/internal/database"
	"github.com/auxilio/backend/internal/handlers"
	"github.com/auxilio/backend/internal/middleware"
)

type Server struct {
	db      database.Service
	sqlDB   *database.Database
	handler *handlers.Handler
}

// NewServer creates and configures a new server
func NewServer() *http.Server {
	// Initialize database
	db := database.New()

	// Raw connection kept alongside gorm for the health endpoint
	sqlDB, err := database.NewDatabase()
	if err != nil {
		log.Fatalf("Failed to open database connection: %v", err)
	}

	// Create unified handler
	handler := handlers.NewHandler(db.GetDB())

	// Create server instance
	newServer := &Server{
		db:      db,
		sqlDB:   sqlDB,
		handler: handler,
	}

	// Configure Gin router
	router := newServer.RegisterRoutes()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080" // local dev fallback
	}

	// Create HTTP server
	server := &http.Server{
		Addr:         "0.0.0.0:" + port,
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Printf("🚀 Server starting on port %s\n", port)
	fmt.Println("📝 Press Ctrl+C to stop the server")

	return server
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.Default()

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		stats := s.db.Health()

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()
		if err := s.sqlDB.Ping(ctx); err != nil {
			stats["sql_status"] = "down"
			stats["sql_error"] = err.Error()
		} else {
			stats["sql_status"] = "up"
		}

		c.JSON(http.StatusOK, stats)
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		api.POST("/register", s.handler.Auth.Register)
		api.POST("/login", s.handler.Auth.Login)

		// Protected routes (authentication required)
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// Auth protected routes
			protected.GET("/me", s.handler.Auth.GetMe)
			protected.PUT("/me", s.handler.Auth.UpdateMe)

			// Topic routes
			protected.POST("/topics", s.handler.Topic.CreateTopic)
			protected.GET("/topics", s.handler.Topic.GetTopics)
			protected.POST("/topics/:id/invite", s.handler.Topic.InviteUser)
			protected.POST("/topics/:id/leave", s.handler.Topic.LeaveTopic)
			protected.POST("/invitations/confirm", s.handler.Topic.ConfirmInvitation)

			// Post routes
			protected.POST("/posts", s.handler.Post.CreatePost)
			protected.GET("/posts", s.handler.Post.GetPosts)
			protected.GET("/posts/:id", s.handler.Post.GetPost)
			protected.PUT("/posts/:id", s.handler.Post.UpdatePost)
			protected.DELETE("/posts/:id", s.handler.Post.DeletePost)
			protected.POST("/posts/:id/vote", s.handler.Vote.VotePost)

			// Feedback routes
			protected.POST("/feedbacks", s.handler.Feedback.CreateFeedback)
			protected.PUT("/feedbacks/:id", s.handler.Feedback.UpdateFeedback)
			protected.DELETE("/feedbacks/:id", s.handler.Feedback.DeleteFeedback)
			protected.POST("/feedbacks/:id/vote", s.handler.Vote.VoteFeedback)

			// Reply routes
			protected.POST("/replies", s.handler.Reply.CreateReply)
			protected.PUT("/replies/:id", s.handler.Reply.UpdateReply)
			protected.DELETE("/replies/:id", s.handler.Reply.DeleteReply)

			// Notification routes
			protected.GET("/notifications", s.handler.Notification.GetNotifications)
			protected.POST("/notifications/:id/seen", s.handler.Notification.MarkSeen)
			protected.POST("/notifications/seen-all", s.handler.Notification.MarkAllSeen)
			protected.GET("/notification-config", s.handler.Notification.GetConfig)
			protected.POST("/notification-config", s.handler.Notification.UpdateConfig)
			protected.POST("/push/subscribe", s.handler.Notification.Subscribe)
			protected.POST("/push/unsubscribe", s.handler.Notification.Unsubscribe)
		}
	}

	return r
}
