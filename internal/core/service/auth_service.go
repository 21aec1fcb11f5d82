package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/enic-kz/portal/internal/core/domain"
	"github.com/enic-kz/portal/internal/core/ports"
	"github.com/enic-kz/portal/internal/pkg/metrics"
)

const minPasswordLen = 8

// AuthService implements local registration and login.
type AuthService struct {
	users  ports.UserRepository
	tokens ports.TokenIssuer
	logger zerolog.Logger
}

func NewAuthService(users ports.UserRepository, tokens ports.TokenIssuer, logger zerolog.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, logger: logger}
}

// Register creates an ACTIVE account with the lowest role. New accounts never
// carry elevated privileges; those are granted through promotion only.
func (s *AuthService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || len(password) < minPasswordLen {
		return nil, domain.ErrInvalidCredentials
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	user, err := newUser(email, password, domain.RoleUser)
	if err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID).Msg("user registered")
	return user, nil
}

// Login checks the credentials and issues a session token. Blocked accounts
// cannot log in.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	if user.PasswordHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	if user.Blocked() {
		metrics.LoginsTotal.WithLabelValues("blocked").Inc()
		s.logger.Warn().Str("user_id", user.ID).Msg("blocked user attempted login")
		return nil, domain.ErrUserBlocked
	}

	token, expires, err := s.tokens.Issue(user)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("issue token: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues("ok").Inc()
	return &ports.Session{Token: token, ExpiresAt: expires, User: user}, nil
}

// EnsureRootAdmin makes sure an account with the top role exists for email.
// An existing account is raised to root_admin; a missing one is created.
func (s *AuthService) EnsureRootAdmin(ctx context.Context, email, password string) error {
	email = normalizeEmail(email)
	if email == "" {
		return nil
	}

	existing, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role == domain.RoleRootAdmin {
			return nil
		}
		if _, err := s.users.CompareAndSetRole(ctx, existing.ID, existing.Role, domain.RoleRootAdmin); err != nil {
			return fmt.Errorf("raise root admin: %w", err)
		}
		s.logger.Info().Str("user_id", existing.ID).Msg("root admin role granted")
		return nil
	case !errors.Is(err, domain.ErrUserNotFound):
		return fmt.Errorf("lookup root admin: %w", err)
	}

	if len(password) < minPasswordLen {
		return fmt.Errorf("root admin password: %w", domain.ErrInvalidCredentials)
	}

	user, err := newUser(email, password, domain.RoleRootAdmin)
	if err != nil {
		return err
	}
	if err := s.users.Create(ctx, user); err != nil {
		return fmt.Errorf("create root admin: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID).Msg("root admin created")
	return nil
}

func newUser(email, password string, role domain.Role) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	return &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Status:       domain.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
