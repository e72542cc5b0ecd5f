package service

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"mailcraft-backend/generator"
	"mailcraft-backend/models"
	"mailcraft-backend/repository"
	"mailcraft-backend/storage"

	"github.com/google/uuid"
)

type memUserStore struct {
	mu      sync.Mutex
	users   []*models.User
	creates int
	listErr error
}

func (m *memUserStore) Create(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return &repository.DuplicateKeyError{Field: "email"}
		}
		if u.Username == user.Username {
			return &repository.DuplicateKeyError{Field: "username"}
		}
	}
	m.creates++
	user.ID = uuid.New()
	user.CreatedAt = time.Now().UTC()
	stored := *user
	m.users = append(m.users, &stored)
	return nil
}

func (m *memUserStore) find(match func(*models.User) bool) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if match(u) {
			found := *u
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUserStore) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	return m.find(func(u *models.User) bool { return u.ID == id })
}

func (m *memUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return m.find(func(u *models.User) bool { return u.Email == email })
}

func (m *memUserStore) GetByUsername(_ context.Context, username string) (*models.User, error) {
	return m.find(func(u *models.User) bool { return u.Username == username })
}

func (m *memUserStore) List(_ context.Context) ([]models.UserSummary, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.UserSummary, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u.Summary())
	}
	return out, nil
}

type memEmailStore struct {
	mu        sync.Mutex
	emails    []*models.Email
	createErr error
	clock     time.Time
}

func (m *memEmailStore) Create(_ context.Context, email *models.Email) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.clock.IsZero() {
		m.clock = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	m.clock = m.clock.Add(time.Second)
	email.ID = uuid.New()
	email.CreatedAt = m.clock
	stored := *email
	m.emails = append(m.emails, &stored)
	return nil
}

func (m *memEmailStore) GetByID(_ context.Context, id uuid.UUID) (*models.Email, error) {
	found := m.filter(func(e *models.Email) bool { return e.ID == id })
	if len(found) == 0 {
		return nil, repository.ErrNotFound
	}
	return found[0], nil
}

func (m *memEmailStore) filter(match func(*models.Email) bool) []*models.Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.Email, 0)
	for _, e := range m.emails {
		if match(e) {
			c := *e
			out = append(out, &c)
		}
	}
	return out
}

func (m *memEmailStore) List(_ context.Context) ([]*models.Email, error) {
	return m.filter(func(*models.Email) bool { return true }), nil
}

func (m *memEmailStore) ListByUserID(_ context.Context, userID uuid.UUID) ([]*models.Email, error) {
	return m.filter(func(e *models.Email) bool { return e.UserID == userID }), nil
}

func (m *memEmailStore) ListFavoritesByUserID(_ context.Context, userID uuid.UUID) ([]*models.Email, error) {
	out := m.filter(func(e *models.Email) bool { return e.UserID == userID && e.IsFavorite })
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memEmailStore) ToggleFavorite(_ context.Context, id uuid.UUID) (*models.Email, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.emails {
		if e.ID == id {
			e.IsFavorite = !e.IsFavorite
			c := *e
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

type stubGenerator struct {
	mu    sync.Mutex
	body  string
	err   error
	calls []generator.Request
}

func (g *stubGenerator) Name() string { return "stub" }

func (g *stubGenerator) Generate(_ context.Context, req generator.Request) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, req)
	return g.body, g.err
}

type memArchive struct {
	mu      sync.Mutex
	objects map[string]string
	err     error
}

func (a *memArchive) Put(_ context.Context, key, _ string, data io.Reader) error {
	if a.err != nil {
		return a.err
	}
	b, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.objects == nil {
		a.objects = map[string]string{}
	}
	a.objects[key] = string(b)
	return nil
}

func (a *memArchive) Get(_ context.Context, key string) (io.ReadCloser, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	body, ok := a.objects[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return io.NopCloser(strings.NewReader(body)), nil
}

var errStore = errors.New("store unavailable")
