package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Nixie-Tech-LLC/namaz/internal/config"
	"github.com/Nixie-Tech-LLC/namaz/internal/db"
)

func newServeCmd(cfg func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), cfg())
		},
	}
}

func newMigrateCmd(cfg func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := cfg()
			if c.UseMemoryStore() {
				return errors.New("DATABASE_URL is required to migrate")
			}
			ctx := cmd.Context()
			if err := db.Init(ctx, c.DatabaseURL); err != nil {
				return err
			}
			defer db.DB.Close()
			return db.RunMigrations(ctx, c.MigrationsPath)
		},
	}
}

func serve(parent context.Context, cfg *config.Config) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, err := InitServices(ctx, cfg)
	if err != nil {
		return err
	}
	defer deps.Close()

	if !cfg.Development() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	RegisterRoutes(ctx, r, cfg, deps)

	srv := &http.Server{Addr: cfg.ServerAddress, Handler: r}
	errc := make(chan error, 1)
	go func() {
		log.Info().Str("address", cfg.ServerAddress).Msg("listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
