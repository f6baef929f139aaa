package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/namaz/internal/config"
	"github.com/Nixie-Tech-LLC/namaz/internal/http/api"
	authapi "github.com/Nixie-Tech-LLC/namaz/internal/http/api/auth/endpoints"
	"github.com/Nixie-Tech-LLC/namaz/internal/http/api/pages"
	timingsapi "github.com/Nixie-Tech-LLC/namaz/internal/http/api/timings/endpoints"
	trackerapi "github.com/Nixie-Tech-LLC/namaz/internal/http/api/tracker/endpoints"
	"github.com/Nixie-Tech-LLC/namaz/internal/http/middleware"
)

// RegisterRoutes sets up all application routes. Background work started for
// the routes stops when ctx is done.
func RegisterRoutes(ctx context.Context, r *gin.Engine, cfg *config.Config, deps *Services) {
	middleware.RegisterMetrics()
	r.Use(middleware.RequestLogger(), middleware.MetricsMiddleware())

	// CORS
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods: []string{
			"GET",
			"POST",
			"OPTIONS",
			"HEAD",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Authorization",
			"Accept",
			"Cache-Control",
		},
		ExposeHeaders: []string{
			"Content-Length",
		},
		AllowCredentials: true,
	}))

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", middleware.PrometheusHandler())

	api.MountGroup(r, api.GroupConfig{
		Prefix:     "/api",
		Middleware: []gin.HandlerFunc{middleware.RateLimiter(ctx, cfg.AuthRateLimit, time.Minute)},
	},
		authapi.AuthPublicModule(deps.Provider),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api",
	},
		timingsapi.TimingsModule(timingsapi.NewTimingsController(deps.Timings, cfg.TimingsCity, cfg.TimingsCountry)),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix:   "/api",
		Auth:     true,
		Verifier: deps.Provider,
	},
		authapi.AuthSessionModule(deps.Provider),
		// one module per page
		trackerapi.DashboardModule(trackerapi.NewDashboardController(deps.Store, deps.Hub)),
		trackerapi.HistoryModule(trackerapi.NewHistoryController(deps.Store, deps.Hub)),
	)

	api.MountGroup(r, api.GroupConfig{
		Middleware: []gin.HandlerFunc{middleware.OptionalJWT(deps.Provider)},
	},
		pages.PagesModule(pages.NewPageController(cfg.WebDir)),
	)
	r.Static("/static", cfg.WebDir)
}
