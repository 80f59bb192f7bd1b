package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"taskdeck.dev/internal/store"
)

// Service implements registration, login and bearer-token authentication on
// top of the user store and the token codec.
type Service struct {
	users store.UserStore
	codec *Codec
	now   func() time.Time
}

// NewService constructs a Service.
func NewService(users store.UserStore, codec *Codec) *Service {
	return &Service{
		users: users,
		codec: codec,
		now:   time.Now,
	}
}

// Session is the result of a successful registration or login.
type Session struct {
	Principal Principal
	Token     string
	ExpiresAt time.Time
}

// Register creates a new credential record and issues a token for it.
// The existence pre-check avoids hashing for obviously taken names; the
// store's unique constraint is the actual correctness mechanism under
// concurrent registrations of the same username.
func (s *Service) Register(ctx context.Context, username, password string) (Session, error) {
	username = strings.TrimSpace(username)

	taken, err := s.users.UsernameExists(ctx, username)
	if err != nil {
		return Session{}, err
	}
	if taken {
		return Session{}, ErrUsernameTaken
	}

	hash, err := HashPassword(password)
	if err != nil {
		return Session{}, err
	}

	user := &store.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return Session{}, ErrUsernameTaken
		}
		return Session{}, err
	}

	return s.newSession(user)
}

// Login verifies credentials and issues a token. An unknown username and a
// wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (Session, error) {
	user, err := s.users.ByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}
	if err := VerifyPassword(user.PasswordHash, password); err != nil {
		return Session{}, ErrInvalidCredentials
	}
	return s.newSession(user)
}

// AuthenticateToken verifies a bearer token and re-resolves its principal.
func (s *Service) AuthenticateToken(ctx context.Context, token string) (Principal, error) {
	claims, err := s.codec.VerifyAndExtract(token)
	if err != nil {
		return Principal{}, err
	}
	return ResolvePrincipal(ctx, s.users, claims.UserID)
}

func (s *Service) newSession(user *store.User) (Session, error) {
	token, expiresAt, err := s.codec.Issue(user.Username, user.ID)
	if err != nil {
		return Session{}, err
	}
	return Session{
		Principal: Principal{ID: user.ID, Username: user.Username},
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}
