package auth

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jbeltran1994/ramones-sweet-elegance-v2/internal/user"
)

type memAccounts struct {
	byEmail map[string]Account
}

func newMemAccounts() *memAccounts {
	return &memAccounts{byEmail: make(map[string]Account)}
}

func (m *memAccounts) Create(_ context.Context, a Account) error {
	m.byEmail[a.Email] = a
	return nil
}

func (m *memAccounts) GetByEmail(_ context.Context, email string) (Account, error) {
	a, ok := m.byEmail[email]
	if !ok {
		return Account{}, ErrAccountNotFound
	}
	return a, nil
}

func (m *memAccounts) GetByID(_ context.Context, id uuid.UUID) (Account, error) {
	for _, a := range m.byEmail {
		if a.ID == id {
			return a, nil
		}
	}
	return Account{}, ErrAccountNotFound
}

type memSessions struct {
	byToken map[uuid.UUID]Session
}

func newMemSessions() *memSessions {
	return &memSessions{byToken: make(map[uuid.UUID]Session)}
}

func (m *memSessions) Create(_ context.Context, s Session) error {
	m.byToken[s.Token] = s
	return nil
}

func (m *memSessions) Get(_ context.Context, token uuid.UUID) (Session, error) {
	s, ok := m.byToken[token]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	return s, nil
}

func (m *memSessions) Delete(_ context.Context, token uuid.UUID) error {
	delete(m.byToken, token)
	return nil
}

type memProfiles struct {
	createErr error
	profiles  []user.Profile
}

func (m *memProfiles) Create(_ context.Context, p user.Profile) (user.Profile, error) {
	if m.createErr != nil {
		return user.Profile{}, m.createErr
	}
	p.ID = int64(len(m.profiles) + 1)
	m.profiles = append(m.profiles, p)
	return p, nil
}

func (m *memProfiles) GetByAuthID(_ context.Context, authID uuid.UUID) (user.Profile, error) {
	for _, p := range m.profiles {
		if p.AuthID == authID {
			return p, nil
		}
	}
	return user.Profile{}, user.ErrNotFound
}

func (m *memProfiles) List(_ context.Context) ([]user.Profile, error) { return m.profiles, nil }
func (m *memProfiles) UpdateRole(_ context.Context, id int64, role user.Role) error {
	return nil
}

func newTestService(profiles *memProfiles) *Service {
	return NewService(newMemAccounts(), newMemSessions(), profiles,
		time.Hour, slog.New(slog.DiscardHandler))
}

func TestSignUpThenSignIn(t *testing.T) {
	ctx := context.Background()
	profiles := &memProfiles{}
	svc := newTestService(profiles)

	identity, token, err := svc.SignUp(ctx, "Ana@Example.com", "secret123", "Ana", "55512345")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", identity.Email)
	assert.NotEqual(t, uuid.Nil, token)

	require.Len(t, profiles.profiles, 1)
	assert.Equal(t, user.RoleUser, profiles.profiles[0].Role)

	_, _, err = svc.SignIn(ctx, "ana@example.com", "secret123")
	require.NoError(t, err)

	_, _, err = svc.SignIn(ctx, "ana@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(&memProfiles{})

	_, _, err := svc.SignUp(ctx, "ana@example.com", "secret123", "Ana", "")
	require.NoError(t, err)

	_, _, err = svc.SignUp(ctx, "ana@example.com", "other", "Ana II", "")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestIdentify_SessionLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(&memProfiles{})

	identity, token, err := svc.SignUp(ctx, "ana@example.com", "secret123", "Ana", "")
	require.NoError(t, err)

	got, err := svc.Identify(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, identity.AuthID, got.AuthID)

	require.NoError(t, svc.SignOut(ctx, token))

	_, err = svc.Identify(ctx, token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestIdentify_ExpiredSession(t *testing.T) {
	ctx := context.Background()
	accounts := newMemAccounts()
	sessions := newMemSessions()
	svc := NewService(accounts, sessions, &memProfiles{}, time.Hour, slog.New(slog.DiscardHandler))

	_, token, err := svc.SignUp(ctx, "ana@example.com", "secret123", "Ana", "")
	require.NoError(t, err)

	s := sessions.byToken[token]
	s.ExpiresAt = time.Now().Add(-time.Minute)
	sessions.byToken[token] = s

	_, err = svc.Identify(ctx, token)
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestCreateAdmin_ProfileFailureIsPartialSuccess(t *testing.T) {
	ctx := context.Background()
	profiles := &memProfiles{createErr: errors.New("insert failed")}
	svc := newTestService(profiles)

	res, err := svc.CreateAdmin(ctx, "admin@example.com", "secret123", "Admin", "55500000")

	require.NoError(t, err)
	assert.True(t, res.PartialSuccess)
	assert.NotEqual(t, uuid.Nil, res.AuthID)
}

func TestCreateAdmin_Success(t *testing.T) {
	ctx := context.Background()
	profiles := &memProfiles{}
	svc := newTestService(profiles)

	res, err := svc.CreateAdmin(ctx, "admin@example.com", "secret123", "Admin", "")

	require.NoError(t, err)
	assert.False(t, res.PartialSuccess)
	require.Len(t, profiles.profiles, 1)
	assert.Equal(t, user.RoleAdmin, profiles.profiles[0].Role)
}
