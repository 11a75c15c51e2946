package routes

import (
	"github.com/gin-gonic/gin"

	"mini-social/handlers/posts"
	"mini-social/handlers/posts/comments"
	"mini-social/handlers/posts/likes"
)

func PostsRoutes(api *gin.RouterGroup, h *posts.Handler, authRequired, uploadLimit gin.HandlerFunc) {
	// Routes publiques
	api.GET("/posts", h.ListPosts)
	api.GET("/posts/:postId", h.GetPost)

	// Routes protégées
	api.POST("/posts", authRequired, uploadLimit, h.CreatePost)
}

func CommentsRoutes(api *gin.RouterGroup, h *comments.Handler, authRequired gin.HandlerFunc) {
	api.GET("/comments/:postId", h.ListComments)
	api.POST("/comments/:postId", authRequired, h.CreateComment)
}

func LikesRoutes(api *gin.RouterGroup, h *likes.Handler, authRequired gin.HandlerFunc) {
	api.GET("/likes/:postId/count", h.CountLikes)
	api.POST("/likes/:postId", authRequired, h.ToggleLike)
}
