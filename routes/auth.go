package routes

import (
	"github.com/gin-gonic/gin"

	"mini-social/handlers/auth"
)

func AuthRoutes(api *gin.RouterGroup, h *auth.Handler, authRequired, uploadLimit gin.HandlerFunc) {
	authRoutes := api.Group("/auth")
	authRoutes.POST("/register", h.Register)
	authRoutes.POST("/login", h.Login)

	// Routes protégées
	authRoutes.GET("/me", authRequired, h.Me)
	authRoutes.PUT("/me", authRequired, uploadLimit, h.UpdateMe)
}
