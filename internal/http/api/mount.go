package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/namaz/internal/http/middleware"
)

// Module attaches one page's or feature's endpoints to a Controller.
// The tracker exposes one module per page (dashboard, history) plus the
// auth, timings and page-shell modules.
type Module interface {
	Mount(c *Controller)
}

// ModuleFunc adapts a plain function to Module.
type ModuleFunc func(c *Controller)

func (f ModuleFunc) Mount(c *Controller) { f(c) }

// GroupConfig describes one route group. The server mounts four:
//
//   - public auth under /api, rate limited (register, login)
//   - public timings under /api (today's prayer times)
//   - session under /api with Auth set, so every handler receives a signed-in
//     session.State (logout, session, events, dashboard, history)
//   - pages at the root with OptionalJWT, so a missing or stale session
//     cookie renders the signed-out shell instead of failing
type GroupConfig struct {
	Prefix string
	// Auth rejects requests without a valid, unrevoked bearer token.
	Auth       bool
	Verifier   middleware.Verifier // required with Auth
	Middleware []gin.HandlerFunc   // runs before the auth check
}

// MountGroup creates the group described by cfg under parent and mounts
// modules on it. A misconfigured group is a startup bug and exits.
func MountGroup(parent gin.IRoutes, cfg GroupConfig, modules ...Module) {
	grp := routerGroup(parent, cfg.Prefix)

	for _, mw := range cfg.Middleware {
		grp.Use(mw)
	}
	if cfg.Auth {
		if cfg.Verifier == nil {
			log.Fatal().Str("prefix", cfg.Prefix).Msg("api.MountGroup: Auth set without a Verifier")
		}
		grp.Use(middleware.JWTMiddleware(cfg.Verifier))
	}

	controller := &Controller{Group: grp}
	for _, m := range modules {
		m.Mount(controller)
	}
}

func routerGroup(parent gin.IRoutes, prefix string) *gin.RouterGroup {
	switch v := parent.(type) {
	case *gin.Engine:
		return v.Group(prefix)
	case *gin.RouterGroup:
		if prefix == "" {
			return v
		}
		return v.Group(prefix)
	}
	log.Fatal().Str("type", fmt.Sprintf("%T", parent)).Msg("api.MountGroup: unsupported router type")
	return nil
}
