// Package pages serves the four HTML pages. Each is composed explicitly
// here and gated on the caller's identity before anything is rendered.
package pages

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/namaz/internal/http/api"
	"github.com/Nixie-Tech-LLC/namaz/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/namaz/internal/session"
)

type PageController struct {
	webDir string
}

func NewPageController(webDir string) *PageController {
	return &PageController{webDir: webDir}
}

// PagesModule mounts one route per page plus "/". The group must run
// middleware.OptionalJWT.
func PagesModule(ctl *PageController) api.Module {
	return api.ModuleFunc(func(c *api.Controller) {
		c.Group.GET("/", ctl.root)
		for _, p := range []session.Page{session.PageLogin, session.PageRegister, session.PageDashboard, session.PageHistory} {
			c.Group.GET("/"+string(p), ctl.serve(p))
		}
	})
}

func identityOf(ctx *gin.Context) *session.Identity {
	sess, ok := middleware.GetSession(ctx)
	if !ok {
		return nil
	}
	id, _ := sess.Identity()
	return id
}

// GET /
func (p *PageController) root(ctx *gin.Context) {
	target := session.PageLogin
	if identityOf(ctx) != nil {
		target = session.Landing
	}
	ctx.Redirect(http.StatusFound, "/"+string(target))
}

// GET /login, /register, /dashboard, /history
func (p *PageController) serve(page session.Page) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id := identityOf(ctx)
		if target, move := session.Route(page, id); move {
			ctx.Redirect(http.StatusFound, "/"+string(target))
			return
		}

		file := filepath.Join(p.webDir, string(page)+".html")
		if _, err := os.Stat(file); err != nil {
			log.Debug().Str("file", file).Msg("page file missing, serving page state")
			ctx.JSON(http.StatusOK, gin.H{"page": page, "signed_in": id != nil})
			return
		}
		ctx.File(file)
	}
}
