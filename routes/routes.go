package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"mini-social/config"
	"mini-social/handlers/auth"
	"mini-social/handlers/health"
	"mini-social/handlers/posts"
	"mini-social/handlers/posts/comments"
	"mini-social/handlers/posts/likes"
	"mini-social/middleware"
	"mini-social/utils"
)

// Dependencies carries everything the router mounts. Handlers are built by the caller.
type Dependencies struct {
	Server   config.ServerConfig
	Storage  config.StorageConfig
	Resolver *middleware.Resolver
	Auth     *auth.Handler
	Posts    *posts.Handler
	Comments *comments.Handler
	Likes    *likes.Handler
	Health   *health.Handler
}

func SetupRouter(d Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.LoggerWithWriter(utils.LogWriter()), gin.Recovery())
	r.Use(cors.New(corsConfig(d.Server.AllowedOrigins)))

	// Limite mémoire pour les formulaires multipart, le reste passe sur disque.
	// La taille totale est bornée par LimitUploadBody sur les routes d'upload.
	if d.Storage.MaxUploadBytes > 0 {
		r.MaxMultipartMemory = d.Storage.MaxUploadBytes
	}

	if d.Health != nil {
		r.GET("/health", d.Health.HandleHealth)
	}
	if d.Storage.Backend == "local" && d.Storage.UploadDir != "" {
		r.Static(d.Storage.PublicPrefix, d.Storage.UploadDir)
	}

	api := r.Group("/api")
	authRequired := middleware.JWTAuth(d.Resolver)
	uploadLimit := middleware.LimitUploadBody(d.Storage.MaxUploadBytes)

	AuthRoutes(api, d.Auth, authRequired, uploadLimit)
	PostsRoutes(api, d.Posts, authRequired, uploadLimit)
	CommentsRoutes(api, d.Comments, authRequired)
	LikesRoutes(api, d.Likes, authRequired)

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
