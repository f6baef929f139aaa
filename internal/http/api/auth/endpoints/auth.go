package endpoints

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/namaz/internal/auth"
	"github.com/Nixie-Tech-LLC/namaz/internal/http/api"
	"github.com/Nixie-Tech-LLC/namaz/internal/http/api/auth/packets"
	"github.com/Nixie-Tech-LLC/namaz/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/namaz/internal/notify"
	"github.com/Nixie-Tech-LLC/namaz/internal/session"
)

// AuthPublicModule mounts public auth endpoints (/auth/register, /auth/login)
func AuthPublicModule(provider *auth.Provider) api.Module {
	ctl := newAccountManager(provider)
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_POST("/auth/register", ctl.register)
		c.PUBLIC_POST("/auth/login", ctl.login)
	})
}

// AuthSessionModule mounts session endpoints (JWT required)
func AuthSessionModule(provider *auth.Provider) api.Module {
	ctl := newAccountManager(provider)
	return api.ModuleFunc(func(c *api.Controller) {
		c.POST("/auth/logout", ctl.logout)
		c.GET("/auth/session", ctl.currentSession)
		c.Group.GET("/auth/events", ctl.streamEvents)
	})
}

type AccountManager struct {
	provider *auth.Provider
}

func newAccountManager(provider *auth.Provider) *AccountManager {
	return &AccountManager{provider: provider}
}

func userResponse(id session.Identity) packets.UserResponse {
	return packets.UserResponse{ID: id.UserID, Email: id.Email, DisplayName: id.DisplayName}
}

func pagePath(p session.Page) string { return "/" + string(p) }

// authError maps provider failures onto status codes; the message is what
// the user is shown.
func authError(err error) *api.APIError {
	var verr *auth.ValidationError
	switch {
	case errors.As(err, &verr):
		return &api.APIError{Code: http.StatusBadRequest, Message: verr.Message}
	case errors.Is(err, auth.ErrEmailTaken):
		return &api.APIError{Code: http.StatusConflict, Message: "Email already registered, please sign up with a different email."}
	case errors.Is(err, auth.ErrInvalidCredentials):
		return &api.APIError{Code: http.StatusUnauthorized, Message: "Invalid email or password."}
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrSignedOut):
		return &api.APIError{Code: http.StatusUnauthorized, Message: "Your session has ended, please log in again."}
	}
	log.Error().Err(err).Msg("auth request failed")
	return &api.APIError{Code: http.StatusInternalServerError, Message: err.Error()}
}

func (a *AccountManager) signedIn(ctx *gin.Context, s *auth.Session, msg string) packets.SessionResponse {
	middleware.SetSessionCookie(ctx, s.Token, int(time.Until(s.ExpiresAt).Seconds()))
	return packets.SessionResponse{
		Token:     s.Token,
		ExpiresAt: s.ExpiresAt.UTC().Format(time.RFC3339),
		User:      userResponse(s.Identity),
		Redirect:  pagePath(session.Landing),
		Notice:    notify.Success(msg),
	}
}

// POST /api/auth/register
func (a *AccountManager) register(ctx *gin.Context) (any, *api.APIError) {
	var request packets.RegisterRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	s, err := a.provider.Register(ctx.Request.Context(), request.Email, request.Password, request.Name)
	if err != nil {
		return nil, authError(err)
	}
	return a.signedIn(ctx, s, "Account created successfully!"), nil
}

// POST /api/auth/login
func (a *AccountManager) login(ctx *gin.Context) (any, *api.APIError) {
	var request packets.LoginRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	s, err := a.provider.SignIn(ctx.Request.Context(), request.Email, request.Password)
	if err != nil {
		return nil, authError(err)
	}
	return a.signedIn(ctx, s, "Logged in successfully!"), nil
}

// POST /api/auth/logout
func (a *AccountManager) logout(ctx *gin.Context, _ *session.State) (any, *api.APIError) {
	token, _ := middleware.GetToken(ctx)
	if err := a.provider.SignOut(ctx.Request.Context(), token); err != nil {
		return nil, authError(err)
	}
	middleware.ClearSessionCookie(ctx)
	return packets.LogoutResponse{
		Redirect: pagePath(session.PageLogin),
		Notice:   notify.Info("Logged out successfully."),
	}, nil
}

// GET /api/auth/session
func (a *AccountManager) currentSession(_ *gin.Context, sess *session.State) (any, *api.APIError) {
	id, _ := sess.Identity()
	return packets.CurrentSessionResponse{User: userResponse(*id)}, nil
}
