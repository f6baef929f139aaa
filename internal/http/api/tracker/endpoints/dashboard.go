package endpoints

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/namaz/internal/http/api"
	"github.com/Nixie-Tech-LLC/namaz/internal/http/api/tracker/packets"
	"github.com/Nixie-Tech-LLC/namaz/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/namaz/internal/session"
	"github.com/Nixie-Tech-LLC/namaz/internal/tracker"
)

type DashboardController struct {
	dashboard *tracker.Dashboard
	now       clock
}

func NewDashboardController(store tracker.RecordStore, publisher tracker.Publisher) *DashboardController {
	return &DashboardController{dashboard: tracker.NewDashboard(store, publisher), now: time.Now}
}

// DashboardModule mounts today's view and the mark-done control.
func DashboardModule(ctl *DashboardController) api.Module {
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/dashboard", ctl.getDashboard)
		c.POST("/dashboard/prayers/:prayer", ctl.markPrayer)
	})
}

// GET /api/dashboard
func (d *DashboardController) getDashboard(ctx *gin.Context, sess *session.State) (any, *api.APIError) {
	view, err := d.dashboard.Load(ctx.Request.Context(), sess, d.now())
	if err != nil {
		return nil, trackerError(err, view.Notice.Message, view)
	}
	return view, nil
}

// POST /api/dashboard/prayers/:prayer
func (d *DashboardController) markPrayer(ctx *gin.Context, sess *session.State) (any, *api.APIError) {
	var uri packets.MarkPrayerURI
	if err := ctx.ShouldBindUri(&uri); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	result, err := d.dashboard.MarkDone(ctx.Request.Context(), sess, uri.Prayer, d.now())
	if err != nil {
		middleware.ObserveWrite("mark", err)
		return nil, trackerError(err, result.Notice.Message, result)
	}
	middleware.ObserveWrite("mark", nil)
	return result, nil
}
