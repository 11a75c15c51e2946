package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"mini-social/db"
	"mini-social/handlers/auth"
	"mini-social/handlers/health"
	"mini-social/handlers/posts"
	"mini-social/handlers/posts/comments"
	"mini-social/handlers/posts/likes"
	"mini-social/middleware"
	"mini-social/routes"
	"mini-social/store"
	"mini-social/utils"
)

const shutdownTimeout = 10 * time.Second

var skipMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	// Persistent so the root command, which also serves, accepts it
	RootCmd.PersistentFlags().BoolVar(&skipMigrate, "skip-migrate", false, "do not migrate the schema before serving")
	RootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	gormDB, err := db.Open(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close(gormDB)

	if !skipMigrate {
		if err := db.Migrate(gormDB); err != nil {
			return err
		}
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}

	tokens, err := utils.NewTokenService(cfg.Auth)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	blobs, err := utils.NewBlobStore(ctx, cfg.Storage)
	if err != nil {
		return err
	}

	users := store.NewUserStore(gormDB, cfg.Auth.PasswordCost)
	content := store.NewContentStore(gormDB)

	router := routes.SetupRouter(routes.Dependencies{
		Server:   cfg.Server,
		Storage:  cfg.Storage,
		Resolver: middleware.NewResolver(tokens, users),
		Auth:     auth.New(users, tokens, blobs),
		Posts:    posts.New(content, blobs),
		Comments: comments.New(content),
		Likes:    likes.New(content),
		Health:   health.New(sqlDB),
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		utils.LogInfo("Server listening on " + cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	utils.LogInfo("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
