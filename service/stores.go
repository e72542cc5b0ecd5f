package service

import (
	"context"
	"io"

	"mailcraft-backend/models"

	"github.com/google/uuid"
)

// UserStore is the credential store used by AuthService.
// repository.UserRepository satisfies it.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context) ([]models.UserSummary, error)
}

// EmailStore is the email record store used by EmailService.
// repository.EmailRepository satisfies it.
type EmailStore interface {
	Create(ctx context.Context, email *models.Email) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Email, error)
	List(ctx context.Context) ([]*models.Email, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Email, error)
	ListFavoritesByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Email, error)
	ToggleFavorite(ctx context.Context, id uuid.UUID) (*models.Email, error)
}

// TokenIssuer mints session tokens. auth.TokenService satisfies it.
type TokenIssuer interface {
	Issue(userID uuid.UUID) (string, error)
}

// Archive keeps plain-text copies of generated emails.
// Any storage.Storage satisfies it.
type Archive interface {
	Put(ctx context.Context, key, contentType string, data io.Reader) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}
