package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/namaz/internal/auth"
	"github.com/Nixie-Tech-LLC/namaz/internal/session"
)

const (
	// SessionCookie carries the token for page loads and event streams,
	// which cannot set an Authorization header.
	SessionCookie = "namaz_session"

	sessionKey = "session"
	tokenKey   = "sessionToken"
)

// Verifier resolves a session token; *auth.Provider is one.
type Verifier interface {
	Verify(ctx context.Context, token string) (*session.Identity, auth.Claims, error)
}

// TokenFromRequest reads "Authorization: Bearer <token>", then the session cookie.
func TokenFromRequest(c *gin.Context) (string, error) {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return "", errors.New("invalid auth header")
		}
		return parts[1], nil
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
		return cookie, nil
	}
	return "", errors.New("missing auth header")
}

// JWTMiddleware verifies the token and stores a signed-in session.State
// in the context. Requests without a valid token stop here.
func JWTMiddleware(v Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := TokenFromRequest(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		id, _, err := v.Verify(c.Request.Context(), token)
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, auth.ErrSignedOut) {
				msg = "session has ended"
			}
			log.Debug().Err(err).Str("path", c.FullPath()).Msg("rejected session token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		setSession(c, session.WithIdentity("", id), token)
		c.Next()
	}
}

// OptionalJWT is JWTMiddleware for pages: a missing or bad token yields a
// signed-out state instead of a 401.
func OptionalJWT(v Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		state := session.NewState("")
		token, err := TokenFromRequest(c)
		if err == nil {
			if id, _, verr := v.Verify(c.Request.Context(), token); verr == nil {
				state.Set(id)
			} else {
				token = ""
			}
		}
		setSession(c, state, token)
		c.Next()
	}
}

func setSession(c *gin.Context, state *session.State, token string) {
	c.Set(sessionKey, state)
	if token != "" {
		c.Set(tokenKey, token)
	}
}

// GetSession retrieves the session.State set by JWTMiddleware or OptionalJWT.
func GetSession(c *gin.Context) (*session.State, bool) {
	v, exists := c.Get(sessionKey)
	if !exists {
		return nil, false
	}
	state, ok := v.(*session.State)
	return state, ok
}

// GetToken returns the verified token for the request, if any.
func GetToken(c *gin.Context) (string, bool) {
	token := c.GetString(tokenKey)
	return token, token != ""
}

// SetSessionCookie mirrors a freshly issued token into an HttpOnly cookie.
func SetSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, token, maxAge, "/", "", c.Request.TLS != nil, true)
}

func ClearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", c.Request.TLS != nil, true)
}
