package repository

import (
	"context"
	"errors"
	"time"

	"mailcraft-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"
)

// EmailRepository handles database operations for generated emails
type EmailRepository struct {
	db DBTX
}

// NewEmailRepository creates a new email repository
func NewEmailRepository(db DBTX) *EmailRepository {
	return &EmailRepository{db: db}
}

const emailColumns = `id, purpose, subject_line, recipients, senders, max_length, tone,
			generated_email, created_at, is_favorite, user_id`

// Create persists a generated email. ID is assigned by the store; a zero
// CreatedAt is set to the current time.
func (r *EmailRepository) Create(ctx context.Context, email *models.Email) error {
	query := `
		INSERT INTO emails (
			purpose, subject_line, recipients, senders, max_length, tone,
			generated_email, created_at, is_favorite, user_id
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		) RETURNING id, created_at`

	if email.CreatedAt.IsZero() {
		email.CreatedAt = time.Now().UTC()
	}

	var id string
	err := r.db.QueryRow(
		ctx, query,
		email.Purpose,
		email.SubjectLine,
		email.Recipients,
		email.Senders,
		email.MaxLength,
		string(email.Tone),
		email.GeneratedEmail,
		email.CreatedAt,
		email.IsFavorite,
		email.UserID,
	).Scan(&id, &email.CreatedAt)
	if err != nil {
		return oops.Code("EMAIL_CREATE_FAILED").
			With("operation", "insert email").
			With("user_id", email.UserID.String()).
			Wrap(err)
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return oops.Code("EMAIL_CREATE_FAILED").With("operation", "parse email id").Wrap(err)
	}
	email.ID = parsed
	return nil
}

// GetByID retrieves an email by ID
func (r *EmailRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Email, error) {
	row := r.db.QueryRow(ctx, `SELECT `+emailColumns+` FROM emails WHERE id = $1`, id)
	email, err := scanEmail(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("EMAIL_NOT_FOUND").With("id", id.String()).Wrap(ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("EMAIL_GET_FAILED").
			With("operation", "get email by id").
			With("id", id.String()).
			Wrap(err)
	}
	return email, nil
}

// List retrieves every email, oldest first
func (r *EmailRepository) List(ctx context.Context) ([]*models.Email, error) {
	return r.list(ctx, "list emails",
		`SELECT `+emailColumns+` FROM emails ORDER BY created_at ASC`)
}

// ListByUserID retrieves the email history of a user, oldest first
func (r *EmailRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Email, error) {
	return r.list(ctx, "list emails by user",
		`SELECT `+emailColumns+` FROM emails WHERE user_id = $1 ORDER BY created_at ASC`,
		userID)
}

// ListFavoritesByUserID retrieves a user's favorite emails, newest first
func (r *EmailRepository) ListFavoritesByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Email, error) {
	return r.list(ctx, "list favorite emails",
		`SELECT `+emailColumns+` FROM emails WHERE user_id = $1 AND is_favorite = true ORDER BY created_at DESC`,
		userID)
}

// ToggleFavorite flips is_favorite in a single statement and returns the updated email
func (r *EmailRepository) ToggleFavorite(ctx context.Context, id uuid.UUID) (*models.Email, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE emails SET is_favorite = NOT is_favorite
		WHERE id = $1
		RETURNING `+emailColumns, id)

	email, err := scanEmail(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("EMAIL_NOT_FOUND").With("id", id.String()).Wrap(ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("EMAIL_TOGGLE_FAVORITE_FAILED").
			With("operation", "toggle favorite").
			With("id", id.String()).
			Wrap(err)
	}
	return email, nil
}

func (r *EmailRepository) list(ctx context.Context, operation, query string, args ...any) ([]*models.Email, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, oops.Code("EMAIL_LIST_FAILED").With("operation", operation).Wrap(err)
	}
	defer rows.Close()

	emails := make([]*models.Email, 0)
	for rows.Next() {
		email, err := scanEmail(rows)
		if err != nil {
			return nil, oops.Code("EMAIL_LIST_FAILED").With("operation", operation).Wrap(err)
		}
		emails = append(emails, email)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("EMAIL_LIST_FAILED").With("operation", operation).Wrap(err)
	}

	return emails, nil
}

func scanEmail(row pgx.Row) (*models.Email, error) {
	var (
		id, userID, tone string
		email            = &models.Email{}
	)
	err := row.Scan(
		&id,
		&email.Purpose,
		&email.SubjectLine,
		&email.Recipients,
		&email.Senders,
		&email.MaxLength,
		&tone,
		&email.GeneratedEmail,
		&email.CreatedAt,
		&email.IsFavorite,
		&userID,
	)
	if err != nil {
		return nil, err
	}

	if email.ID, err = uuid.Parse(id); err != nil {
		return nil, err
	}
	if email.UserID, err = uuid.Parse(userID); err != nil {
		return nil, err
	}
	email.Tone = models.Tone(tone)
	return email, nil
}
