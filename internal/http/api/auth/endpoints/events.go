package endpoints

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/namaz/internal/http/api/auth/packets"
	"github.com/Nixie-Tech-LLC/namaz/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/namaz/internal/notify"
	"github.com/Nixie-Tech-LLC/namaz/internal/session"
)

type streamMessage struct {
	event string
	data  any
}

// GET /api/auth/events?page=dashboard
//
// Server-sent events for one open page: "identity" on every identity
// notification (the current one first), "navigate" when the page must
// change, and "notice" when a notice shows or clears.
func (a *AccountManager) streamEvents(ctx *gin.Context) {
	token, ok := middleware.GetToken(ctx)
	if !ok {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	page, err := session.ParsePage(ctx.DefaultQuery("page", string(session.Landing)))
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	streamCtx, cancel := context.WithCancel(ctx.Request.Context())
	defer cancel()

	changes, unsubscribe, err := a.provider.Subscribe(streamCtx, token)
	if err != nil {
		apiErr := authError(err)
		ctx.AbortWithStatusJSON(apiErr.Code, gin.H{"error": apiErr.Message})
		return
	}
	defer unsubscribe()

	out := make(chan streamMessage, 16)
	send := func(m streamMessage) {
		select {
		case out <- m:
		case <-streamCtx.Done():
		}
	}

	surface := notify.NewSurface(notify.OnChange(func(n notify.Notice, visible bool) {
		select {
		case out <- streamMessage{event: "notice", data: packets.NoticeEvent{Notice: n, Visible: visible}}:
		default:
		}
	}))
	defer surface.Close()

	// Every change is reported as an identity event before the state acts on it.
	forwarded := make(chan session.Change)
	go func() {
		defer close(forwarded)
		for c := range changes {
			evt := packets.IdentityEvent{}
			if c.Identity != nil {
				u := userResponse(*c.Identity)
				evt.User = &u
			}
			send(streamMessage{event: "identity", data: evt})
			if c.Identity == nil {
				surface.Show(notify.Info("You have been signed out."))
			}
			select {
			case forwarded <- c:
			case <-streamCtx.Done():
				return
			}
		}
	}()

	state := session.NewState(page)
	nav := session.NavigatorFunc(func(target session.Page) {
		send(streamMessage{event: "navigate", data: packets.NavigateEvent{Page: string(target), Redirect: pagePath(target)}})
	})
	done := make(chan error, 1)
	go func() { done <- state.Listen(streamCtx, forwarded, nav) }()

	middleware.ActiveStreams.Inc()
	defer middleware.ActiveStreams.Dec()

	ctx.Header("Content-Type", "text/event-stream")
	ctx.Header("Cache-Control", "no-cache")
	ctx.Header("Connection", "keep-alive")
	ctx.Status(http.StatusOK)
	ctx.Writer.Flush()

	for {
		select {
		case <-streamCtx.Done():
			return
		case m := <-out:
			ctx.SSEvent(m.event, m.data)
			ctx.Writer.Flush()
		case err := <-done:
			for {
				select {
				case m := <-out:
					ctx.SSEvent(m.event, m.data)
				default:
					ctx.Writer.Flush()
					log.Debug().Err(err).Str("page", string(page)).Msg("session stream closed")
					return
				}
			}
		}
	}
}
