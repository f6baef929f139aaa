package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/namaz/internal/db"
	"github.com/Nixie-Tech-LLC/namaz/internal/events"
	"github.com/Nixie-Tech-LLC/namaz/internal/model"
	"github.com/Nixie-Tech-LLC/namaz/internal/session"
)

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 6

var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrSignedOut          = errors.New("session signed out")
)

// ValidationError carries the message shown to the user. It matches
// ErrValidation with errors.Is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string        { return e.Message }
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// UserStore is the part of db.Store the provider needs.
type UserStore interface {
	CreateUser(ctx context.Context, email, hashedPassword string, name *string) (int, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id int) (*model.User, error)
}

// Session is what a successful sign-in or registration hands the client.
type Session struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expires_at"`
	Identity  session.Identity `json:"identity"`
	tokenID   string
}

// Provider is the identity provider: it signs users in and out, verifies
// session tokens and announces identity changes on the hub.
type Provider struct {
	store   UserStore
	secret  []byte
	revoker Revoker
	hub     *events.Hub
	now     func() time.Time
}

func NewProvider(store UserStore, secret string, revoker Revoker, hub *events.Hub) *Provider {
	if hub == nil {
		hub = events.NewHub(nil)
	}
	return &Provider{
		store:   store,
		secret:  []byte(secret),
		revoker: revoker,
		hub:     hub,
		now:     time.Now,
	}
}

func validateCredentials(email, password string) error {
	if email == "" || password == "" {
		return &ValidationError{Message: "Please enter both email and password."}
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func identityOf(u *model.User) session.Identity {
	return session.Identity{UserID: u.ID, Email: u.Email, DisplayName: u.DisplayName()}
}

// Register creates an account and signs it in.
func (p *Provider) Register(ctx context.Context, email, password string, name *string) (*Session, error) {
	email = normalizeEmail(email)
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}
	if len(password) < MinPasswordLength {
		return nil, &ValidationError{Message: fmt.Sprintf("Password should be at least %d characters.", MinPasswordLength)}
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	userID, err := p.store.CreateUser(ctx, email, hashed, name)
	if errors.Is(err, db.ErrDuplicate) {
		log.Warn().Str("email", email).Msg("signup email already registered")
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	u, err := p.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load new user: %w", err)
	}
	return p.issue(u)
}

// SignIn checks credentials and issues a session token.
func (p *Provider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}
	u, err := p.store.GetUserByEmail(ctx, email)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !CheckPassword(u.HashedPassword, password) {
		return nil, ErrInvalidCredentials
	}
	return p.issue(u)
}

func (p *Provider) issue(u *model.User) (*Session, error) {
	token, claims, err := generateJWT(u.ID, p.secret, p.now())
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	id := identityOf(u)
	p.announce(u.ID, claims.TokenID, &id)
	log.Info().Int("user_id", u.ID).Msg("user signed in")
	return &Session{Token: token, ExpiresAt: claims.ExpiresAt, Identity: id, tokenID: claims.TokenID}, nil
}

// SignOut revokes the token. Clients holding it are told their identity is gone.
func (p *Provider) SignOut(ctx context.Context, token string) error {
	claims, err := parseJWT(token, p.secret)
	if err != nil {
		return err
	}
	if err := p.revoker.Revoke(ctx, claims.TokenID, claims.ExpiresAt.Sub(p.now())); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	p.announce(claims.UserID, claims.TokenID, nil)
	log.Info().Int("user_id", claims.UserID).Msg("user signed out")
	return nil
}

// Verify resolves a token to the identity it was issued for.
func (p *Provider) Verify(ctx context.Context, token string) (*session.Identity, Claims, error) {
	claims, err := parseJWT(token, p.secret)
	if err != nil {
		return nil, Claims{}, err
	}
	revoked, err := p.revoker.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		return nil, Claims{}, fmt.Errorf("verify token: %w", err)
	}
	if revoked {
		return nil, Claims{}, ErrSignedOut
	}
	u, err := p.store.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, Claims{}, ErrInvalidToken
	}
	id := identityOf(u)
	return &id, claims, nil
}

// Subscribe streams identity changes for the client holding token. The
// current identity is delivered first. The channel closes when ctx is done
// or cancel is called.
func (p *Provider) Subscribe(ctx context.Context, token string) (<-chan session.Change, func(), error) {
	id, claims, err := p.Verify(ctx, token)
	if err != nil {
		return nil, nil, err
	}

	src, unsubscribe := p.hub.Subscribe(claims.UserID, 8)
	out := make(chan session.Change, 8)
	out <- session.Change{Identity: id}

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				unsubscribe()
				return
			case e, ok := <-src:
				if !ok {
					return
				}
				if e.Kind != events.KindIdentity || e.Change == nil {
					continue
				}
				if e.TokenID != "" && e.TokenID != claims.TokenID {
					continue
				}
				select {
				case out <- *e.Change:
				case <-ctx.Done():
					unsubscribe()
					return
				}
			}
		}
	}()

	return out, unsubscribe, nil
}

func (p *Provider) announce(userID int, tokenID string, id *session.Identity) {
	p.hub.Publish(events.Event{
		Kind:    events.KindIdentity,
		UserID:  userID,
		TokenID: tokenID,
		Change:  &session.Change{Identity: id},
	})
}
