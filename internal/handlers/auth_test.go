package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/habitflow/habitflow/internal/auth"
	"github.com/habitflow/habitflow/internal/models"
)

func jsonRequest(method, path string, body any) *http.Request {
	var buf bytes.Buffer
	_ = json.NewEncoder(&buf).Encode(body)
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

type memoryUserStore struct {
	mu      sync.Mutex
	byID    map[uuid.UUID]*models.User
	byEmail map[string]*models.User
}

func newMemoryUserStore() *memoryUserStore {
	return &memoryUserStore{
		byID:    make(map[uuid.UUID]*models.User),
		byEmail: make(map[string]*models.User),
	}
}

func (s *memoryUserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[user.ID] = user
	s.byEmail[user.Email] = user
	return nil
}

func (s *memoryUserStore) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.byID[id]; ok {
		return u, nil
	}
	return nil, errors.New("user not found")
}

func (s *memoryUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.byEmail[email]; ok {
		return u, nil
	}
	return nil, errors.New("user not found")
}

func newAuthTestStack(t *testing.T) (*memoryUserStore, *auth.TokenManager, *mux.Router) {
	t.Helper()
	store := newMemoryUserStore()
	tokens, err := auth.NewTokenManager("test-secret-for-handlers")
	if err != nil {
		t.Fatal(err)
	}
	handler := NewAuthHandler(store, tokens, nil)
	r := mux.NewRouter()
	handler.RegisterRoutes(r.PathPrefix("/api/v1/auth").Subrouter())
	return store, tokens, r
}

func TestSignup(t *testing.T) {
	t.Parallel()

	store, tokens, r := newAuthTestStack(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, jsonRequest("POST", "/api/v1/auth/signup", map[string]string{
		"email":    "New@Example.com",
		"password": "correct horse battery",
		"name":     "New User",
	}))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	env := decodeEnvelope(t, rec)
	var resp AuthResponse
	if err := json.Unmarshal(env.Data, &resp); err != nil {
		t.Fatalf("failed to decode auth response: %v", err)
	}

	if resp.Token == "" {
		t.Error("expected a session token")
	}
	if resp.User.Email != "new@example.com" {
		t.Errorf("email should be lowercased, got %q", resp.User.Email)
	}

	claims, err := tokens.Verify(resp.Token)
	if err != nil {
		t.Fatalf("issued token failed verification: %v", err)
	}
	if claims.Sub != resp.User.ID.String() {
		t.Errorf("token subject mismatch: %s != %s", claims.Sub, resp.User.ID)
	}

	// stored hash must not be the plaintext
	stored, _ := store.GetByEmail(context.Background(), "new@example.com")
	if stored.PasswordHash == "correct horse battery" || stored.PasswordHash == "" {
		t.Error("password must be stored hashed")
	}

	// the serialized user must not leak the hash
	if strings.Contains(rec.Body.String(), stored.PasswordHash) {
		t.Error("response leaks the password hash")
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	t.Parallel()

	store, _, r := newAuthTestStack(t)
	_ = store.Create(context.Background(), &models.User{ID: uuid.New(), Email: "taken@example.com"})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, jsonRequest("POST", "/api/v1/auth/signup", map[string]string{
		"email":    "taken@example.com",
		"password": "some password",
		"name":     "Dup",
	}))

	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", rec.Code)
	}
}

func TestSignupValidation(t *testing.T) {
	t.Parallel()

	_, _, r := newAuthTestStack(t)

	tests := []struct {
		name string
		body map[string]string
	}{
		{name: "bad email", body: map[string]string{"email": "not-an-email", "password": "long enough", "name": "x"}},
		{name: "short password", body: map[string]string{"email": "a@b.com", "password": "short", "name": "x"}},
		{name: "missing name", body: map[string]string{"email": "a@b.com", "password": "long enough"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, jsonRequest("POST", "/api/v1/auth/signup", tt.body))
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	t.Parallel()

	store, _, r := newAuthTestStack(t)

	hash, err := auth.HashPassword("the right password")
	if err != nil {
		t.Fatal(err)
	}
	_ = store.Create(context.Background(), &models.User{
		ID:           uuid.New(),
		Email:        "login@example.com",
		Name:         "Login User",
		PasswordHash: hash,
	})

	tests := []struct {
		name     string
		email    string
		password string
		want     int
	}{
		{name: "valid credentials", email: "login@example.com", password: "the right password", want: http.StatusOK},
		{name: "wrong password", email: "login@example.com", password: "the wrong password", want: http.StatusUnauthorized},
		{name: "unknown account", email: "nobody@example.com", password: "whatever it is", want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, jsonRequest("POST", "/api/v1/auth/login", map[string]string{
				"email":    tt.email,
				"password": tt.password,
			}))
			if rec.Code != tt.want {
				t.Errorf("expected %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestMe(t *testing.T) {
	t.Parallel()

	store := newMemoryUserStore()
	tokens, _ := auth.NewTokenManager("another-secret")
	handler := NewAuthHandler(store, tokens, nil)

	user := testUser()
	rec := httptest.NewRecorder()
	handler.Me(rec, authedRequest(user, "GET", "/api/v1/auth/me", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	var got models.User
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatal(err)
	}
	if got.ID != user.ID {
		t.Errorf("wrong user returned: %s", got.ID)
	}
}
