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

type HistoryController struct {
	history *tracker.History
	now     clock
}

func NewHistoryController(store tracker.RecordStore, publisher tracker.Publisher) *HistoryController {
	return &HistoryController{history: tracker.NewHistory(store, publisher), now: time.Now}
}

// HistoryModule mounts the history window and its toggles.
func HistoryModule(ctl *HistoryController) api.Module {
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/history", ctl.getHistory)
		c.POST("/history/:date/:prayer/toggle", ctl.togglePrayer)
	})
}

// GET /api/history?days=7
func (h *HistoryController) getHistory(ctx *gin.Context, sess *session.State) (any, *api.APIError) {
	var query packets.HistoryQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "days must be a number"}
	}
	days := tracker.DefaultDays
	if query.Days != nil {
		days = *query.Days
	}

	view, err := h.history.Load(ctx.Request.Context(), sess, days, h.now())
	if err != nil {
		return nil, trackerError(err, view.Notice.Message, nil)
	}
	return view, nil
}

// POST /api/history/:date/:prayer/toggle
func (h *HistoryController) togglePrayer(ctx *gin.Context, sess *session.State) (any, *api.APIError) {
	var uri packets.TogglePrayerURI
	if err := ctx.ShouldBindUri(&uri); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	result, err := h.history.Toggle(ctx.Request.Context(), sess, uri.Date, uri.Prayer, h.now())
	if err != nil {
		middleware.ObserveWrite("toggle", err)
		return nil, trackerError(err, result.Notice.Message, result)
	}
	middleware.ObserveWrite("toggle", nil)
	return result, nil
}
