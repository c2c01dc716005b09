package auth

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/steinfletcher/apitest"
	jsonpath "github.com/steinfletcher/apitest-jsonpath"

	"github.com/schedulewise/backend/internal/models"
)

type fakeUserStore struct {
	byEmail map[string]*models.User
	byID    map[string]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		byEmail: map[string]*models.User{},
		byID:    map[string]*models.User{},
	}
}

func (s *fakeUserStore) CreateUser(_ context.Context, email, hashedPw string) (*models.User, error) {
	if _, ok := s.byEmail[email]; ok {
		return nil, models.ErrEmailTaken
	}
	u := &models.User{ID: uuid.NewString(), Email: email, Password: hashedPw}
	s.byEmail[email] = u
	s.byID[u.ID] = u
	return u, nil
}

func (s *fakeUserStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	u, ok := s.byEmail[email]
	if !ok {
		return nil, models.ErrNotFound
	}
	return u, nil
}

func (s *fakeUserStore) GetUserByID(_ context.Context, id string) (*models.User, error) {
	u, ok := s.byID[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return u, nil
}

func newAuthRouter(users UserStore, tokens *Tokens) chi.Router {
	h := NewHandler(users, tokens)
	r := chi.NewRouter()
	r.Post("/api/auth/register", h.Register)
	r.Post("/api/auth/login", h.Login)
	r.Get("/api/auth/me", h.Me)
	return r
}

func TestRegister(t *testing.T) {
	r := newAuthRouter(newFakeUserStore(), NewTokens([]byte("k")))

	apitest.New().
		Handler(r).
		Post("/api/auth/register").
		JSON(`{"email":"a@x.com","password":"pw1"}`).
		Expect(t).
		Status(http.StatusCreated).
		Assert(jsonpath.Equal(`$.email`, "a@x.com")).
		Assert(jsonpath.Present(`$.id`)).
		End()
}

func TestRegister_DuplicateEmail(t *testing.T) {
	users := newFakeUserStore()
	r := newAuthRouter(users, NewTokens([]byte("k")))

	apitest.New().
		Handler(r).
		Post("/api/auth/register").
		JSON(`{"email":"a@x.com","password":"pw1"}`).
		Expect(t).
		Status(http.StatusCreated).
		End()

	apitest.New().
		Handler(r).
		Post("/api/auth/register").
		JSON(`{"email":"a@x.com","password":"other"}`).
		Expect(t).
		Status(http.StatusBadRequest).
		Assert(jsonpath.Equal(`$.error`, "email already registered")).
		End()
}

func TestRegister_MissingFields(t *testing.T) {
	r := newAuthRouter(newFakeUserStore(), NewTokens([]byte("k")))

	apitest.New().
		Handler(r).
		Post("/api/auth/register").
		JSON(`{"email":"a@x.com"}`).
		Expect(t).
		Status(http.StatusBadRequest).
		End()
}

func TestRegister_NeverEchoesDigest(t *testing.T) {
	users := newFakeUserStore()
	r := newAuthRouter(users, NewTokens([]byte("k")))

	apitest.New().
		Handler(r).
		Post("/api/auth/register").
		JSON(`{"email":"a@x.com","password":"pw1"}`).
		Expect(t).
		Status(http.StatusCreated).
		Assert(jsonpath.NotPresent(`$.password`)).
		End()
}

func TestLogin(t *testing.T) {
	users := newFakeUserStore()
	tokens := NewTokens([]byte("k"))
	hashed, err := HashPassword("pw1")
	if err != nil {
		t.Fatal(err)
	}
	u, err := users.CreateUser(context.Background(), "a@x.com", hashed)
	if err != nil {
		t.Fatal(err)
	}
	r := newAuthRouter(users, tokens)

	res := apitest.New().
		Handler(r).
		Post("/api/auth/login").
		JSON(`{"email":"a@x.com","password":"pw1"}`).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal(`$.token_type`, "bearer")).
		Assert(jsonpath.Present(`$.access_token`)).
		End()

	// The issued token must resolve back to the same account.
	var body models.TokenResponse
	res.JSON(&body)
	claims, err := tokens.Verify(body.AccessToken)
	if err != nil {
		t.Fatalf("issued token failed verification: %v", err)
	}
	if claims.UserID != u.ID {
		t.Fatalf("token resolves to %q, want %q", claims.UserID, u.ID)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	users := newFakeUserStore()
	hashed, _ := HashPassword("pw1")
	users.CreateUser(context.Background(), "a@x.com", hashed)
	r := newAuthRouter(users, NewTokens([]byte("k")))

	// Wrong password and unknown email must be indistinguishable.
	for _, body := range []string{
		`{"email":"a@x.com","password":"wrong"}`,
		`{"email":"nobody@x.com","password":"pw1"}`,
	} {
		apitest.New().
			Handler(r).
			Post("/api/auth/login").
			JSON(body).
			Expect(t).
			Status(http.StatusUnauthorized).
			Assert(jsonpath.Equal(`$.error`, "invalid credentials")).
			End()
	}
}

func TestMe(t *testing.T) {
	users := newFakeUserStore()
	u, _ := users.CreateUser(context.Background(), "a@x.com", "digest")
	h := NewHandler(users, NewTokens([]byte("k")))

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(WithUserID(req.Context(), u.ID)))
		})
	})
	r.Get("/api/auth/me", h.Me)

	apitest.New().
		Handler(r).
		Get("/api/auth/me").
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal(`$.id`, u.ID)).
		Assert(jsonpath.Equal(`$.email`, "a@x.com")).
		End()
}
