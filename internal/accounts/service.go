package accounts

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/locallibrary/pkg/logger"
)

// Store looks users up; repository.Store implements it.
type Store interface {
	UserByUsername(ctx context.Context, username string) (User, error)
	UserByID(ctx context.Context, id string) (User, error)
}

type Service struct {
	store  Store
	logger *slog.Logger
	cost   int

	dummyOnce sync.Once
	dummyHash []byte
}

type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithBcryptCost overrides bcrypt.DefaultCost; tests use bcrypt.MinCost.
func WithBcryptCost(cost int) Option {
	return func(s *Service) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			s.cost = cost
		}
	}
}

func NewService(store Store, opts ...Option) *Service {
	s := &Service{store: store, logger: logger.NewNope(), cost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Authenticate checks a username and password pair.
func (s *Service) Authenticate(ctx context.Context, username, password string) (User, error) {
	u, err := s.store.UserByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			return User{}, err
		}
		_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
		s.logger.InfoContext(ctx, "sign-in failed", slog.String("reason", "unknown user"))
		return User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		s.logger.InfoContext(ctx, "sign-in failed", slog.String("reason", "wrong password"), slog.String("user_id", u.ID))
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}

func (s *Service) User(ctx context.Context, id string) (User, error) {
	return s.store.UserByID(ctx, id)
}

// HashPassword hashes password with the service's bcrypt cost.
func (s *Service) HashPassword(password string) (string, error) {
	return HashPassword(password, s.cost)
}

func (s *Service) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("locallibrary"), s.cost)
	})
	return s.dummyHash
}

// HashPassword hashes password with bcrypt at cost.
func HashPassword(password string, cost int) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}
