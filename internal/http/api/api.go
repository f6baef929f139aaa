package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/namaz/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/namaz/internal/notify"
	"github.com/Nixie-Tech-LLC/namaz/internal/session"
)

// APIError is what a handler returns instead of writing an error itself.
// Details, when set, carries the authoritative state the client should
// roll back to.
type APIError struct {
	Code    int
	Message string
	Details any
}

func (e *APIError) body() gin.H {
	h := gin.H{"error": e.Message, "notice": notify.Error(e.Message)}
	if e.Details != nil {
		h["data"] = e.Details
	}
	return h
}

type HandlerFuncWithAuth func(ctx *gin.Context, sess *session.State) (any, *APIError)
type HandlerFunc func(ctx *gin.Context) (any, *APIError)

func ResolveEndpointWithAuth(h HandlerFuncWithAuth) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		sess, ok := middleware.GetSession(ctx)
		if !ok {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		result, apiErr := h(ctx, sess)
		if apiErr != nil {
			ctx.JSON(apiErr.Code, apiErr.body())
			return
		}

		ctx.JSON(http.StatusOK, result)
	}
}

func ResolveEndpoint(h HandlerFunc) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		result, apiErr := h(ctx)
		if apiErr != nil {
			ctx.JSON(apiErr.Code, apiErr.body())
			return
		}

		ctx.JSON(http.StatusOK, result)
	}
}

// Controller is the group a Module mounts onto. The plain verbs require a
// session; PUBLIC_ verbs do not.
type Controller struct {
	Group *gin.RouterGroup
}

func (c *Controller) GET(path string, h HandlerFuncWithAuth) {
	c.Group.GET(path, ResolveEndpointWithAuth(h))
}

func (c *Controller) POST(path string, h HandlerFuncWithAuth) {
	c.Group.POST(path, ResolveEndpointWithAuth(h))
}

func (c *Controller) PUBLIC_GET(path string, h HandlerFunc) {
	c.Group.GET(path, ResolveEndpoint(h))
}

func (c *Controller) PUBLIC_POST(path string, h HandlerFunc) {
	c.Group.POST(path, ResolveEndpoint(h))
}
