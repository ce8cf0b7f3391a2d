package api

import (
	"net/http"

	authDelivery "feedhub-backend/internal/auth/delivery"
	authUsecase "feedhub-backend/internal/auth/usecase"
	feedDelivery "feedhub-backend/internal/feed/delivery"
	"feedhub-backend/pkg/sse"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, authUc authUsecase.AuthUsecase, feedHandler *feedDelivery.FeedHandler, sseManager *sse.Manager) {
	authHandler := authDelivery.NewAuthHandler(authUc)
	requireAuth := authDelivery.RequireAuth()

	// Health check (no auth required)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "clients": sseManager.ClientCount()})
	})

	// SSE endpoint; the feed is public so anonymous clients may listen
	r.GET("/events", func(c *gin.Context) {
		sseManager.ServeHTTP(c, authDelivery.UserID(c))
	})

	r.GET("/images/*ref", feedHandler.ServeImage)

	// Auth routes
	auth := r.Group("/auth")
	{
		auth.PUT("/signup", authHandler.Signup)
		auth.POST("/login", authHandler.Login)
		auth.GET("/me", requireAuth, authHandler.Me)
		auth.GET("/status", requireAuth, authHandler.GetStatus)
		auth.PATCH("/status", requireAuth, authHandler.UpdateStatus)
	}

	// Feed routes (protected)
	feed := r.Group("/feed")
	feed.Use(requireAuth)
	{
		feed.GET("/posts", feedHandler.GetPosts)
		feed.POST("/post", feedHandler.CreatePost)
		feed.GET("/post/:postId", feedHandler.GetPost)
		feed.PUT("/post/:postId", feedHandler.UpdatePost)
		feed.DELETE("/post/:postId", feedHandler.DeletePost)
	}

	r.PUT("/post-image", requireAuth, feedHandler.PostImage)

	// FCM routes (protected)
	fcm := r.Group("/fcm")
	fcm.Use(requireAuth)
	{
		fcm.POST("/register", authHandler.RegisterFCMToken)
		fcm.DELETE("/:token", authHandler.UnregisterFCMToken)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found.", "status": http.StatusNotFound})
	})
}
