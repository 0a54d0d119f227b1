package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/comanda-app/api/internal/auth"
	"github.com/comanda-app/api/internal/database"
	"github.com/comanda-app/api/internal/handler"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

// --- Mock store ---

type mockAuthStore struct {
	userByEmail map[string]database.User
	userByID    map[uuid.UUID]database.User
}

func newMockAuthStore() *mockAuthStore {
	return &mockAuthStore{
		userByEmail: make(map[string]database.User),
		userByID:    make(map[uuid.UUID]database.User),
	}
}

func (m *mockAuthStore) addUser(u database.User) {
	m.userByEmail[u.Email] = u
	m.userByID[u.ID] = u
}

func (m *mockAuthStore) CreateUser(_ context.Context, arg database.CreateUserParams) (database.User, error) {
	if _, ok := m.userByEmail[arg.Email]; ok {
		return database.User{}, &pgconn.PgError{Code: "23505"}
	}
	u := database.User{ID: uuid.New(), Email: arg.Email, HashedPassword: arg.HashedPassword}
	m.addUser(u)
	return u, nil
}

func (m *mockAuthStore) GetUserByEmail(_ context.Context, email string) (database.User, error) {
	u, ok := m.userByEmail[email]
	if !ok {
		return database.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (m *mockAuthStore) GetUserByID(_ context.Context, id uuid.UUID) (database.User, error) {
	u, ok := m.userByID[id]
	if !ok {
		return database.User{}, pgx.ErrNoRows
	}
	return u, nil
}

// --- Helpers ---

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return string(h)
}

func makeTestUser(t *testing.T) database.User {
	t.Helper()
	return database.User{
		ID:             uuid.New(),
		Email:          "owner@test.com",
		HashedPassword: hashPassword(t, "correct-password"),
	}
}

func setupAuthRouter(store handler.AuthStore) *chi.Mux {
	h := handler.NewAuthHandler(store, testSecret)
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

// --- Register tests ---

func TestRegister_Success(t *testing.T) {
	store := newMockAuthStore()
	r := setupAuthRouter(store)

	rr := doRequest(t, r, "POST", "/auth/register", map[string]string{
		"email":    "  New@Test.com ",
		"password": "long-enough",
	})

	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}

	resp := decodeMap(t, rr)
	userResp, ok := resp["user"].(map[string]interface{})
	if !ok {
		t.Fatal("expected user object in response")
	}
	if userResp["email"] != "new@test.com" {
		t.Errorf("user email: got %v, want new@test.com", userResp["email"])
	}

	stored, ok := store.userByEmail["new@test.com"]
	if !ok {
		t.Fatal("expected user to be stored with lowercased email")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.HashedPassword), []byte("long-enough")); err != nil {
		t.Errorf("stored password hash does not match: %v", err)
	}
	if resp["access_token"] == nil || resp["access_token"] == "" {
		t.Error("expected non-empty access_token")
	}
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name string
		body map[string]string
	}{
		{"missing email", map[string]string{"password": "long-enough"}},
		{"invalid email", map[string]string{"email": "not-an-email", "password": "long-enough"}},
		{"short password", map[string]string{"email": "a@test.com", "password": "short"}},
		{"missing password", map[string]string{"email": "a@test.com"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMockAuthStore()
			r := setupAuthRouter(store)

			rr := doRequest(t, r, "POST", "/auth/register", tt.body)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusBadRequest, rr.Body.String())
			}
			if len(store.userByEmail) != 0 {
				t.Error("expected no user to be created")
			}
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	store := newMockAuthStore()
	store.addUser(makeTestUser(t))
	r := setupAuthRouter(store)

	rr := doRequest(t, r, "POST", "/auth/register", map[string]string{
		"email":    "owner@test.com",
		"password": "long-enough",
	})

	if rr.Code != http.StatusConflict {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusConflict)
	}
}

// --- Login tests ---

func TestLogin_ValidCredentials(t *testing.T) {
	store := newMockAuthStore()
	user := makeTestUser(t)
	store.addUser(user)
	r := setupAuthRouter(store)

	rr := doRequest(t, r, "POST", "/auth/login", map[string]string{
		"email":    "Owner@Test.com",
		"password": "correct-password",
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	resp := decodeMap(t, rr)
	accessToken, ok := resp["access_token"].(string)
	if !ok || accessToken == "" {
		t.Fatal("expected non-empty access_token string")
	}
	if resp["refresh_token"] == nil || resp["refresh_token"] == "" {
		t.Error("expected non-empty refresh_token")
	}

	claims, err := auth.ValidateToken(testSecret, accessToken)
	if err != nil {
		t.Fatalf("validate access token: %v", err)
	}
	if claims.UserID != user.ID {
		t.Errorf("claims user ID: got %v, want %v", claims.UserID, user.ID)
	}
	if claims.Email != user.Email {
		t.Errorf("claims email: got %v, want %v", claims.Email, user.Email)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	store := newMockAuthStore()
	store.addUser(makeTestUser(t))
	r := setupAuthRouter(store)

	rr := doRequest(t, r, "POST", "/auth/login", map[string]string{
		"email":    "owner@test.com",
		"password": "wrong-password",
	})

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestLogin_UserNotFound(t *testing.T) {
	r := setupAuthRouter(newMockAuthStore())

	rr := doRequest(t, r, "POST", "/auth/login", map[string]string{
		"email":    "nobody@test.com",
		"password": "whatever-password",
	})

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestLogin_MissingFields(t *testing.T) {
	r := setupAuthRouter(newMockAuthStore())

	rr := doRequest(t, r, "POST", "/auth/login", map[string]string{"email": "owner@test.com"})

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

// --- Refresh tests ---

func TestRefresh_ValidToken(t *testing.T) {
	store := newMockAuthStore()
	user := makeTestUser(t)
	store.addUser(user)
	r := setupAuthRouter(store)

	refreshToken, err := auth.GenerateRefreshToken(testSecret, user.ID)
	if err != nil {
		t.Fatalf("generate refresh token: %v", err)
	}

	rr := doRequest(t, r, "POST", "/auth/refresh", map[string]string{
		"refresh_token": refreshToken,
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	resp := decodeMap(t, rr)
	if resp["access_token"] == nil || resp["access_token"] == "" {
		t.Error("expected non-empty access_token")
	}
}

func TestRefresh_AccessTokenRejected(t *testing.T) {
	store := newMockAuthStore()
	user := makeTestUser(t)
	store.addUser(user)
	r := setupAuthRouter(store)

	accessToken, err := auth.GenerateToken(testSecret, user.ID, user.Email)
	if err != nil {
		t.Fatalf("generate access token: %v", err)
	}

	rr := doRequest(t, r, "POST", "/auth/refresh", map[string]string{
		"refresh_token": accessToken,
	})

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestRefresh_InvalidToken(t *testing.T) {
	r := setupAuthRouter(newMockAuthStore())

	rr := doRequest(t, r, "POST", "/auth/refresh", map[string]string{
		"refresh_token": "not-a-valid-token",
	})

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestRefresh_UserDeleted(t *testing.T) {
	refreshToken, err := auth.GenerateRefreshToken(testSecret, uuid.New())
	if err != nil {
		t.Fatalf("generate refresh token: %v", err)
	}
	r := setupAuthRouter(newMockAuthStore())

	rr := doRequest(t, r, "POST", "/auth/refresh", map[string]string{
		"refresh_token": refreshToken,
	})

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestRefresh_MissingField(t *testing.T) {
	r := setupAuthRouter(newMockAuthStore())

	rr := doRequest(t, r, "POST", "/auth/refresh", map[string]string{})

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}
