package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/namaz/internal/db"
	"github.com/Nixie-Tech-LLC/namaz/internal/events"
	"github.com/Nixie-Tech-LLC/namaz/internal/session"
)

const testSecret = "supersecret"

func newTestProvider() (*Provider, *events.Hub) {
	hub := events.NewHub(nil)
	return NewProvider(db.NewMemoryStore(), testSecret, NewMemoryRevoker(), hub), hub
}

func TestRegister_Validation(t *testing.T) {
	p, _ := newTestProvider()
	ctx := context.Background()

	_, err := p.Register(ctx, "", "secret1", nil)
	assert.ErrorIs(t, err, ErrValidation)
	assert.EqualError(t, err, "Please enter both email and password.")

	_, err = p.Register(ctx, "a@example.com", "12345", nil)
	assert.ErrorIs(t, err, ErrValidation)
	assert.EqualError(t, err, "Password should be at least 6 characters.")

	s, err := p.Register(ctx, "a@example.com", "123456", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, s.Token)
	assert.Equal(t, "a@example.com", s.Identity.DisplayName)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	p, _ := newTestProvider()
	ctx := context.Background()

	_, err := p.Register(ctx, "a@example.com", "123456", nil)
	require.NoError(t, err)
	_, err = p.Register(ctx, " A@example.com ", "123456", nil)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestSignIn(t *testing.T) {
	p, _ := newTestProvider()
	ctx := context.Background()
	name := "Bilal"
	_, err := p.Register(ctx, "b@example.com", "password", &name)
	require.NoError(t, err)

	_, err = p.SignIn(ctx, "b@example.com", "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = p.SignIn(ctx, "b@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = p.SignIn(ctx, "nobody@example.com", "password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	s, err := p.SignIn(ctx, "b@example.com", "password")
	require.NoError(t, err)

	id, claims, err := p.Verify(ctx, s.Token)
	require.NoError(t, err)
	assert.Equal(t, "Bilal", id.DisplayName)
	assert.Equal(t, s.Identity.UserID, claims.UserID)
	assert.WithinDuration(t, time.Now().Add(TokenTTL), claims.ExpiresAt, time.Minute)
}

func TestVerify_RejectsGarbageAndForeignSecret(t *testing.T) {
	p, _ := newTestProvider()
	ctx := context.Background()
	s, err := p.Register(ctx, "c@example.com", "password", nil)
	require.NoError(t, err)

	_, _, err = p.Verify(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewProvider(db.NewMemoryStore(), "another-secret", NewMemoryRevoker(), nil)
	_, _, err = other.Verify(ctx, s.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSignOut_RevokesToken(t *testing.T) {
	p, _ := newTestProvider()
	ctx := context.Background()
	s, err := p.Register(ctx, "d@example.com", "password", nil)
	require.NoError(t, err)

	require.NoError(t, p.SignOut(ctx, s.Token))

	_, _, err = p.Verify(ctx, s.Token)
	assert.ErrorIs(t, err, ErrSignedOut)
}

func TestSubscribe_DeliversCurrentIdentityThenSignOut(t *testing.T) {
	p, _ := newTestProvider()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s, err := p.Register(ctx, "e@example.com", "password", nil)
	require.NoError(t, err)
	other, err := p.SignIn(ctx, "e@example.com", "password")
	require.NoError(t, err)

	changes, unsubscribe, err := p.Subscribe(ctx, s.Token)
	require.NoError(t, err)
	defer unsubscribe()

	first := <-changes
	require.NotNil(t, first.Identity)
	assert.Equal(t, "e@example.com", first.Identity.Email)

	// signing out a different client of the same user is not our change
	require.NoError(t, p.SignOut(ctx, other.Token))
	require.NoError(t, p.SignOut(ctx, s.Token))

	select {
	case c := <-changes:
		assert.Nil(t, c.Identity)
	case <-time.After(time.Second):
		t.Fatal("expected sign-out notification")
	}

	state := session.WithIdentity(session.PageDashboard, first.Identity)
	var targets []session.Page
	state.Apply(session.Change{}, session.NavigatorFunc(func(p session.Page) { targets = append(targets, p) }))
	assert.Equal(t, []session.Page{session.PageLogin}, targets)
}

func TestSubscribe_ClosesOnCancel(t *testing.T) {
	p, _ := newTestProvider()
	ctx := context.Background()
	s, err := p.Register(ctx, "f@example.com", "password", nil)
	require.NoError(t, err)

	changes, unsubscribe, err := p.Subscribe(ctx, s.Token)
	require.NoError(t, err)
	<-changes
	unsubscribe()

	select {
	case _, open := <-changes:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("channel not closed")
	}
}

func TestMemoryRevoker_Expires(t *testing.T) {
	r := NewMemoryRevoker()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, r.Revoke(ctx, "abc", time.Hour))
	revoked, _ := r.IsRevoked(ctx, "abc")
	assert.True(t, revoked)

	now = now.Add(2 * time.Hour)
	revoked, _ = r.IsRevoked(ctx, "abc")
	assert.False(t, revoked)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("password")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "password"))
	assert.False(t, CheckPassword(hash, "Password"))
}
