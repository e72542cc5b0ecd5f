package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"mailcraft-backend/auth"
	"mailcraft-backend/generator"
	"mailcraft-backend/models"
	"mailcraft-backend/repository"
	"mailcraft-backend/service"
	"mailcraft-backend/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type userStore struct {
	mu    sync.Mutex
	users []models.User
}

func (s *userStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user.ID = uuid.New()
	user.CreatedAt = time.Now().UTC()
	s.users = append(s.users, *user)
	return nil
}

func (s *userStore) find(match func(models.User) bool) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *userStore) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	return s.find(func(u models.User) bool { return u.ID == id })
}

func (s *userStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return s.find(func(u models.User) bool { return u.Email == email })
}

func (s *userStore) GetByUsername(_ context.Context, username string) (*models.User, error) {
	return s.find(func(u models.User) bool { return u.Username == username })
}

func (s *userStore) List(_ context.Context) ([]models.UserSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.UserSummary, 0, len(s.users))
	for i := range s.users {
		out = append(out, s.users[i].Summary())
	}
	return out, nil
}

type emailStore struct {
	mu     sync.Mutex
	emails []models.Email
	tick   time.Time
}

func (s *emailStore) Create(_ context.Context, email *models.Email) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tick.IsZero() {
		s.tick = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	s.tick = s.tick.Add(time.Minute)
	email.ID = uuid.New()
	email.CreatedAt = s.tick
	s.emails = append(s.emails, *email)
	return nil
}

func (s *emailStore) where(match func(models.Email) bool) []*models.Email {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*models.Email{}
	for _, e := range s.emails {
		if match(e) {
			e := e
			out = append(out, &e)
		}
	}
	return out
}

func (s *emailStore) GetByID(_ context.Context, id uuid.UUID) (*models.Email, error) {
	found := s.where(func(e models.Email) bool { return e.ID == id })
	if len(found) == 0 {
		return nil, repository.ErrNotFound
	}
	return found[0], nil
}

func (s *emailStore) List(_ context.Context) ([]*models.Email, error) {
	return s.where(func(models.Email) bool { return true }), nil
}

func (s *emailStore) ListByUserID(_ context.Context, userID uuid.UUID) ([]*models.Email, error) {
	return s.where(func(e models.Email) bool { return e.UserID == userID }), nil
}

func (s *emailStore) ListFavoritesByUserID(_ context.Context, userID uuid.UUID) ([]*models.Email, error) {
	out := s.where(func(e models.Email) bool { return e.UserID == userID && e.IsFavorite })
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *emailStore) ToggleFavorite(_ context.Context, id uuid.UUID) (*models.Email, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.emails {
		if s.emails[i].ID == id {
			s.emails[i].IsFavorite = !s.emails[i].IsFavorite
			e := s.emails[i]
			return &e, nil
		}
	}
	return nil, repository.ErrNotFound
}

type fakeGenerator struct {
	mu    sync.Mutex
	calls []generator.Request
	err   error
}

func (g *fakeGenerator) Name() string { return "fake" }

func (g *fakeGenerator) Generate(_ context.Context, req generator.Request) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, req)
	if g.err != nil {
		return "", g.err
	}
	return "Dear " + req.Recipients + ", regarding " + req.SubjectLine, nil
}

type testServer struct {
	router    *gin.Engine
	users     *userStore
	emails    *emailStore
	generator *fakeGenerator
}

type serverOption func(*RouterConfig, *[]service.EmailServiceOption)

func withProtectedListings() serverOption {
	return func(cfg *RouterConfig, _ *[]service.EmailServiceOption) {
		cfg.ProtectListings = true
	}
}

func withArchive(archive storage.Storage) serverOption {
	return func(_ *RouterConfig, opts *[]service.EmailServiceOption) {
		*opts = append(*opts, service.WithArchive(archive))
	}
}

func newTestServer(t *testing.T, opts ...serverOption) *testServer {
	t.Helper()

	tokens, err := auth.NewTokenService("test-secret")
	require.NoError(t, err)

	ts := &testServer{
		users:     &userStore{},
		emails:    &emailStore{},
		generator: &fakeGenerator{},
	}

	authService := service.NewAuthService(
		service.WithUserStore(ts.users),
		service.WithPasswordHasher(auth.NewBcryptHasher()),
		service.WithTokenIssuer(tokens),
	)

	cfg := RouterConfig{Tokens: tokens}
	emailOpts := []service.EmailServiceOption{
		service.WithEmailStore(ts.emails),
		service.WithGenerator(ts.generator),
	}
	for _, opt := range opts {
		opt(&cfg, &emailOpts)
	}

	cfg.Users = NewUserHandler(authService, nil)
	cfg.Emails = NewEmailHandler(service.NewEmailService(emailOpts...), nil)
	ts.router = NewRouter(cfg)
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

// signup registers a user and returns the issued token and id
func (ts *testServer) signup(t *testing.T, email, username string) (string, string) {
	t.Helper()
	w := ts.do(t, http.MethodPost, "/api/v1/user/signup", "", map[string]any{
		"email":    email,
		"username": username,
		"password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Token  string `json:"token"`
		UserID string `json:"userId"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Token, resp.UserID
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func validEmailBody() map[string]any {
	return map[string]any{
		"purpose":     "follow up",
		"subjectLine": "Quarterly update",
		"recipients":  "Bob",
		"senders":     "Alice",
		"maxLength":   100,
	}
}
