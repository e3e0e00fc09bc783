package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jbeltran1994/ramones-sweet-elegance-v2/internal/user"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrSessionExpired     = errors.New("session expired")
)

type Service struct {
	accounts AccountRepository
	sessions SessionRepository
	profiles user.Repository
	ttl      time.Duration
	logger   *slog.Logger
}

func NewService(accounts AccountRepository, sessions SessionRepository, profiles user.Repository, ttl time.Duration, logger *slog.Logger) *Service {
	return &Service{
		accounts: accounts,
		sessions: sessions,
		profiles: profiles,
		ttl:      ttl,
		logger:   logger,
	}
}

// SignUp creates an account plus its ordinary-user profile and signs the new
// account in.
func (s *Service) SignUp(ctx context.Context, email, password, name, phone string) (Identity, uuid.UUID, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if _, err := s.accounts.GetByEmail(ctx, email); err == nil {
		return Identity{}, uuid.Nil, ErrEmailTaken
	} else if !errors.Is(err, ErrAccountNotFound) {
		return Identity{}, uuid.Nil, fmt.Errorf("check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Identity{}, uuid.Nil, fmt.Errorf("hash password: %w", err)
	}

	account := Account{ID: uuid.New(), Email: email, PasswordHash: string(hash)}
	if err := s.accounts.Create(ctx, account); err != nil {
		return Identity{}, uuid.Nil, fmt.Errorf("create account: %w", err)
	}

	profile := user.Profile{Email: email, Name: name, Role: user.RoleUser, AuthID: account.ID}
	if phone != "" {
		profile.Phone = &phone
	}
	if _, err := s.profiles.Create(ctx, profile); err != nil {
		return Identity{}, uuid.Nil, fmt.Errorf("create profile: %w", err)
	}

	token, err := s.mintSession(ctx, account.ID)
	if err != nil {
		return Identity{}, uuid.Nil, err
	}

	return Identity{AuthID: account.ID, Email: email}, token, nil
}

func (s *Service) SignIn(ctx context.Context, email, password string) (Identity, uuid.UUID, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return Identity{}, uuid.Nil, ErrInvalidCredentials
		}
		return Identity{}, uuid.Nil, fmt.Errorf("load account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return Identity{}, uuid.Nil, ErrInvalidCredentials
	}

	token, err := s.mintSession(ctx, account.ID)
	if err != nil {
		return Identity{}, uuid.Nil, err
	}

	return Identity{AuthID: account.ID, Email: account.Email}, token, nil
}

func (s *Service) SignOut(ctx context.Context, token uuid.UUID) error {
	if err := s.sessions.Delete(ctx, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Identify resolves a bearer token to the signed-in identity.
func (s *Service) Identify(ctx context.Context, token uuid.UUID) (Identity, error) {
	session, err := s.sessions.Get(ctx, token)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return Identity{}, ErrSessionNotFound
		}
		return Identity{}, fmt.Errorf("load session: %w", err)
	}

	if time.Now().After(session.ExpiresAt) {
		// drop the stale row; losing the delete is harmless
		_ = s.sessions.Delete(ctx, session.Token)
		return Identity{}, ErrSessionExpired
	}

	account, err := s.accounts.GetByID(ctx, session.AuthID)
	if err != nil {
		return Identity{}, fmt.Errorf("load account: %w", err)
	}

	return Identity{AuthID: account.ID, Email: account.Email}, nil
}

func (s *Service) mintSession(ctx context.Context, authID uuid.UUID) (uuid.UUID, error) {
	session := Session{
		Token:     uuid.New(),
		AuthID:    authID,
		ExpiresAt: time.Now().Add(s.ttl),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return uuid.Nil, fmt.Errorf("create session: %w", err)
	}
	return session.Token, nil
}

// SetupResult reports admin creation. PartialSuccess means the account exists
// but the admin profile could not be written, matching the original setup
// flow which keeps the account in that case.
type SetupResult struct {
	AuthID         uuid.UUID `json:"auth_id"`
	PartialSuccess bool      `json:"partial_success,omitempty"`
}

// CreateAdmin provisions an account with an administrator profile.
func (s *Service) CreateAdmin(ctx context.Context, email, password, name, phone string) (SetupResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if _, err := s.accounts.GetByEmail(ctx, email); err == nil {
		return SetupResult{}, ErrEmailTaken
	} else if !errors.Is(err, ErrAccountNotFound) {
		return SetupResult{}, fmt.Errorf("check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return SetupResult{}, fmt.Errorf("hash password: %w", err)
	}

	account := Account{ID: uuid.New(), Email: email, PasswordHash: string(hash)}
	if err := s.accounts.Create(ctx, account); err != nil {
		return SetupResult{}, fmt.Errorf("create account: %w", err)
	}

	profile := user.Profile{Email: email, Name: name, Role: user.RoleAdmin, AuthID: account.ID}
	if phone != "" {
		profile.Phone = &phone
	}
	if _, err := s.profiles.Create(ctx, profile); err != nil {
		s.logger.Error("admin profile creation failed, account kept", "email", email, "error", err)
		return SetupResult{AuthID: account.ID, PartialSuccess: true}, nil
	}

	return SetupResult{AuthID: account.ID}, nil
}
