package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"mailcraft-backend/generator"
	"mailcraft-backend/metrics"
	"mailcraft-backend/models"
	"mailcraft-backend/repository"
	"mailcraft-backend/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EmailService handles email generation and the email record lifecycle
type EmailService struct {
	emails    EmailStore
	generator generator.Generator
	archive   Archive
	logger    *zap.Logger
}

// EmailServiceOption is a functional option for EmailService
type EmailServiceOption func(*EmailService)

// WithEmailStore sets the email record store
func WithEmailStore(emails EmailStore) EmailServiceOption {
	return func(s *EmailService) {
		s.emails = emails
	}
}

// WithGenerator sets the text generation backend
func WithGenerator(gen generator.Generator) EmailServiceOption {
	return func(s *EmailService) {
		s.generator = gen
	}
}

// WithArchive sets the optional archive sink
func WithArchive(archive Archive) EmailServiceOption {
	return func(s *EmailService) {
		s.archive = archive
	}
}

// WithEmailLogger sets the logger
func WithEmailLogger(logger *zap.Logger) EmailServiceOption {
	return func(s *EmailService) {
		s.logger = logger
	}
}

// NewEmailService creates a new email service
func NewEmailService(opts ...EmailServiceOption) *EmailService {
	s := &EmailService{
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GenerateEmailRequest represents a validated generation request
type GenerateEmailRequest struct {
	UserID      uuid.UUID
	Purpose     string
	SubjectLine string
	Recipients  string
	Senders     string
	MaxLength   int
	Tone        models.Tone
}

// Generate produces an email through the generator and persists it with
// IsFavorite unset. A failing generator yields an empty body; the record
// is still stored.
func (s *EmailService) Generate(ctx context.Context, req GenerateEmailRequest) (*models.Email, error) {
	if s.emails == nil {
		return nil, errors.New("email store not set")
	}
	if s.generator == nil {
		return nil, errors.New("generator not set")
	}

	tone := req.Tone
	if tone == "" {
		tone = models.DefaultTone
	}

	provider := s.generator.Name()
	outcome := "generated"

	body, err := s.generator.Generate(ctx, generator.Request{
		Purpose:     req.Purpose,
		SubjectLine: req.SubjectLine,
		Recipients:  req.Recipients,
		Senders:     req.Senders,
		MaxLength:   req.MaxLength,
		Tone:        tone,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		s.logger.Warn("generation failed, storing empty email",
			zap.String("provider", provider),
			zap.String("user_id", req.UserID.String()),
			zap.Error(err),
		)
		outcome = "degraded"
		body = ""
	}

	email := &models.Email{
		Purpose:        req.Purpose,
		SubjectLine:    req.SubjectLine,
		Recipients:     req.Recipients,
		Senders:        req.Senders,
		MaxLength:      req.MaxLength,
		Tone:           tone,
		GeneratedEmail: body,
		IsFavorite:     false,
		UserID:         req.UserID,
	}
	if err := s.emails.Create(ctx, email); err != nil {
		metrics.RecordGeneration(provider, "failed")
		return nil, fmt.Errorf("failed to save email: %w", err)
	}
	metrics.RecordGeneration(provider, outcome)

	s.archiveEmail(ctx, email)
	return email, nil
}

// archiveEmail writes a plain-text copy to the archive sink, if any.
// Errors are logged only.
func (s *EmailService) archiveEmail(ctx context.Context, email *models.Email) {
	if s.archive == nil {
		return
	}

	key := storage.EmailKey(email.UserID, email.ID)
	if err := s.archive.Put(ctx, key, "text/plain; charset=utf-8", strings.NewReader(renderPlainText(email))); err != nil {
		s.logger.Warn("failed to archive email",
			zap.String("email_id", email.ID.String()),
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

func renderPlainText(email *models.Email) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Subject: %s\n", email.SubjectLine)
	fmt.Fprintf(&b, "From: %s\n", email.Senders)
	fmt.Fprintf(&b, "To: %s\n", email.Recipients)
	fmt.Fprintf(&b, "Tone: %s\n", email.Tone)
	fmt.Fprintf(&b, "Date: %s\n\n", email.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"))
	b.WriteString(email.GeneratedEmail)
	b.WriteString("\n")
	return b.String()
}

// ListAll returns every stored email ordered by creation time
func (s *EmailService) ListAll(ctx context.Context) ([]*models.Email, error) {
	if s.emails == nil {
		return nil, errors.New("email store not set")
	}

	emails, err := s.emails.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list emails: %w", err)
	}
	return emails, nil
}

// History returns the emails owned by targetID. Only the owner may read them.
func (s *EmailService) History(ctx context.Context, callerID, targetID uuid.UUID) ([]*models.Email, error) {
	if s.emails == nil {
		return nil, errors.New("email store not set")
	}
	if callerID != targetID {
		return nil, ErrForbidden
	}

	emails, err := s.emails.ListByUserID(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to list email history: %w", err)
	}
	return emails, nil
}

// Favorites returns a user's favorite emails, newest first
func (s *EmailService) Favorites(ctx context.Context, userID uuid.UUID) ([]*models.Email, error) {
	if s.emails == nil {
		return nil, errors.New("email store not set")
	}

	emails, err := s.emails.ListFavoritesByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorite emails: %w", err)
	}
	return emails, nil
}

// ToggleFavorite flips the favorite flag of an email and returns the
// updated record
func (s *EmailService) ToggleFavorite(ctx context.Context, emailID uuid.UUID) (*models.Email, error) {
	if s.emails == nil {
		return nil, errors.New("email store not set")
	}

	email, err := s.emails.ToggleFavorite(ctx, emailID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEmailNotFound
		}
		return nil, fmt.Errorf("failed to toggle favorite: %w", err)
	}
	return email, nil
}

// Archived opens the archived plain-text copy of an email owned by callerID
func (s *EmailService) Archived(ctx context.Context, callerID, emailID uuid.UUID) (io.ReadCloser, error) {
	if s.emails == nil {
		return nil, errors.New("email store not set")
	}
	if s.archive == nil {
		return nil, ErrArchiveDisabled
	}

	email, err := s.emails.GetByID(ctx, emailID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEmailNotFound
		}
		return nil, fmt.Errorf("failed to get email: %w", err)
	}
	if email.UserID != callerID {
		return nil, ErrForbidden
	}

	rc, err := s.archive.Get(ctx, storage.EmailKey(email.UserID, email.ID))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrArchiveNotFound
		}
		return nil, fmt.Errorf("failed to read archived email: %w", err)
	}
	return rc, nil
}
