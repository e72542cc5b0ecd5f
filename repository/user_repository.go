package repository

import (
	"context"
	"errors"

	"mailcraft-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"
)

// UserRepository handles database operations for users
type UserRepository struct {
	db DBTX
}

// NewUserRepository creates a new user repository
func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, username, password_hash, created_at`

// Create inserts a new user and fills in the store-assigned ID and CreatedAt.
// A uniqueness violation on email or username yields *DuplicateKeyError.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (email, username, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	var id string
	err := r.db.QueryRow(ctx, query, user.Email, user.Username, user.PasswordHash).
		Scan(&id, &user.CreatedAt)
	if err != nil {
		if dup, ok := asDuplicateKey(err); ok {
			return oops.Code("USER_DUPLICATE").
				With("field", dup.Field).
				Wrap(dup)
		}
		return oops.Code("USER_CREATE_FAILED").
			With("operation", "insert user").
			Wrap(err)
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return oops.Code("USER_CREATE_FAILED").
			With("operation", "parse user id").
			Wrap(err)
	}
	user.ID = parsed
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("USER_NOT_FOUND").With("id", id.String()).Wrap(ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("USER_GET_FAILED").
			With("operation", "get user by id").
			With("id", id.String()).
			Wrap(err)
	}
	return user, nil
}

// GetByEmail retrieves a user by email address
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("USER_NOT_FOUND").Wrap(ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("USER_GET_FAILED").
			With("operation", "get user by email").
			Wrap(err)
	}
	return user, nil
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("USER_NOT_FOUND").With("username", username).Wrap(ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("USER_GET_FAILED").
			With("operation", "get user by username").
			With("username", username).
			Wrap(err)
	}
	return user, nil
}

// List returns every user without password hashes
func (r *UserRepository) List(ctx context.Context) ([]models.UserSummary, error) {
	rows, err := r.db.Query(ctx, `SELECT id, username, email FROM users ORDER BY created_at`)
	if err != nil {
		return nil, oops.Code("USER_LIST_FAILED").With("operation", "list users").Wrap(err)
	}
	defer rows.Close()

	users := make([]models.UserSummary, 0)
	for rows.Next() {
		var (
			id      string
			summary models.UserSummary
		)
		if err := rows.Scan(&id, &summary.Username, &summary.Email); err != nil {
			return nil, oops.Code("USER_LIST_FAILED").With("operation", "scan user row").Wrap(err)
		}
		if summary.ID, err = uuid.Parse(id); err != nil {
			return nil, oops.Code("USER_LIST_FAILED").With("operation", "parse user id").Wrap(err)
		}
		users = append(users, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("USER_LIST_FAILED").With("operation", "iterate users").Wrap(err)
	}

	return users, nil
}

func scanUser(row pgx.Row) (*models.User, error) {
	var id string
	user := &models.User{}
	if err := row.Scan(&id, &user.Email, &user.Username, &user.PasswordHash, &user.CreatedAt); err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	user.ID = parsed
	return user, nil
}
