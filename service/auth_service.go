package service

import (
	"context"
	"errors"
	"fmt"

	"mailcraft-backend/auth"
	"mailcraft-backend/models"
	"mailcraft-backend/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthService handles sign-up, sign-in and account lookups
type AuthService struct {
	users  UserStore
	hasher auth.PasswordHasher
	tokens TokenIssuer
	logger *zap.Logger
}

// AuthServiceOption is a functional option for AuthService
type AuthServiceOption func(*AuthService)

// WithUserStore sets the credential store
func WithUserStore(users UserStore) AuthServiceOption {
	return func(s *AuthService) {
		s.users = users
	}
}

// WithPasswordHasher sets the password hasher
func WithPasswordHasher(hasher auth.PasswordHasher) AuthServiceOption {
	return func(s *AuthService) {
		s.hasher = hasher
	}
}

// WithTokenIssuer sets the session token issuer
func WithTokenIssuer(tokens TokenIssuer) AuthServiceOption {
	return func(s *AuthService) {
		s.tokens = tokens
	}
}

// WithAuthLogger sets the logger
func WithAuthLogger(logger *zap.Logger) AuthServiceOption {
	return func(s *AuthService) {
		s.logger = logger
	}
}

// NewAuthService creates a new auth service
func NewAuthService(opts ...AuthServiceOption) *AuthService {
	s := &AuthService{
		hasher: auth.NewBcryptHasher(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SignupRequest represents a validated sign-up request
type SignupRequest struct {
	Email    string
	Username string
	Password string
}

// SigninRequest represents a validated sign-in request
type SigninRequest struct {
	Email    string
	Password string
}

// SessionResult carries the token issued on sign-up or sign-in
type SessionResult struct {
	Token  string
	UserID uuid.UUID
}

// Signup registers a new user and issues a session token.
// Email uniqueness is checked before username, both before hashing.
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*SessionResult, error) {
	if s.users == nil {
		return nil, errors.New("user store not set")
	}
	if s.tokens == nil {
		return nil, errors.New("token issuer not set")
	}

	if err := s.ensureAbsent(ctx, s.users.GetByEmail, req.Email, ErrEmailTaken); err != nil {
		return nil, err
	}
	if err := s.ensureAbsent(ctx, s.users.GetByUsername, req.Username, ErrUsernameTaken); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// Lost a race against a concurrent sign-up
		var dup *repository.DuplicateKeyError
		if errors.As(err, &dup) {
			if dup.Field == "username" {
				return nil, ErrUsernameTaken
			}
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info("user signed up", zap.String("user_id", user.ID.String()))
	return &SessionResult{Token: token, UserID: user.ID}, nil
}

func (s *AuthService) ensureAbsent(
	ctx context.Context,
	lookup func(context.Context, string) (*models.User, error),
	value string,
	taken error,
) error {
	_, err := lookup(ctx, value)
	switch {
	case err == nil:
		return taken
	case errors.Is(err, repository.ErrNotFound):
		return nil
	default:
		return fmt.Errorf("failed to look up user: %w", err)
	}
}

// Signin authenticates a user by email and password. Unknown email and
// wrong password both yield ErrInvalidCredentials.
func (s *AuthService) Signin(ctx context.Context, req SigninRequest) (*SessionResult, error) {
	if s.users == nil {
		return nil, errors.New("user store not set")
	}
	if s.tokens == nil {
		return nil, errors.New("token issuer not set")
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !s.hasher.Verify(req.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &SessionResult{Token: token, UserID: user.ID}, nil
}

// Me returns the authenticated caller's account
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	if s.users == nil {
		return nil, errors.New("user store not set")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// ListUsers returns every registered user without credentials
func (s *AuthService) ListUsers(ctx context.Context) ([]models.UserSummary, error) {
	if s.users == nil {
		return nil, errors.New("user store not set")
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}
