package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/enic-kz/portal/internal/core/access"
	"github.com/enic-kz/portal/internal/core/domain"
	"github.com/enic-kz/portal/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, email, password string) (*domain.User, error)
	loginFn    func(ctx context.Context, email, password string) (*ports.Session, error)
}

func (s *stubAuthService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	return s.registerFn(ctx, email, password)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.Session, error) {
	return s.loginFn(ctx, email, password)
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func TestAuthHandler_Register_Success(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, email, password string) (*domain.User, error) {
			if email != "alice@example.kz" || password != "pass12345" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return &domain.User{ID: "u1", Email: email, PasswordHash: "hash", Role: domain.RoleUser}, nil
		},
	}
	handler := NewAuthHandler(stub, CookieConfig{})

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/register", `{"email":"alice@example.kz","password":"pass12345"}`), rec)

	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok {
		t.Fatalf("user missing in response")
	}
	if user["role"] != "user" {
		t.Fatalf("unexpected role: %v", user["role"])
	}
	if _, leaked := user["password_hash"]; leaked {
		t.Fatalf("password hash leaked")
	}
}

func TestAuthHandler_Register_Validation(t *testing.T) {
	e := newEcho()
	handler := NewAuthHandler(&stubAuthService{}, CookieConfig{})

	for _, body := range []string{
		`{"email":"not-an-email","password":"pass12345"}`,
		`{"email":"a@example.kz","password":"short"}`,
		`{bad json`,
	} {
		c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/register", body), httptest.NewRecorder())
		err := handler.Register(c)
		he, ok := err.(*echo.HTTPError)
		if !ok || he.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for %s, got %v", body, err)
		}
	}
}

func TestAuthHandler_Login_SetsCookie(t *testing.T) {
	e := newEcho()
	expires := time.Now().Add(90 * time.Minute).Truncate(time.Second)
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*ports.Session, error) {
			return &ports.Session{
				Token:     "signed-token",
				ExpiresAt: expires,
				User:      &domain.User{ID: "u1", Email: email, Role: domain.RoleUser},
			}, nil
		},
	}
	handler := NewAuthHandler(stub, CookieConfig{Name: "portal_session"})

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/login", `{"email":"alice@example.kz","password":"pass12345"}`), rec)

	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Value != "signed-token" || !cookies[0].HttpOnly {
		t.Fatalf("unexpected cookies %+v", cookies)
	}
	if !cookies[0].Expires.Equal(expires) {
		t.Fatalf("cookie expires at %v, token at %v", cookies[0].Expires, expires)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["expires_at"] != expires.UTC().Format(time.RFC3339) {
		t.Fatalf("expires_at %v does not match token expiry %v", resp["expires_at"], expires)
	}
}

func TestAuthHandler_Login_PropagatesDomainError(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*ports.Session, error) {
			return nil, domain.ErrUserBlocked
		},
	}
	handler := NewAuthHandler(stub, CookieConfig{Name: "portal_session"})

	c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/login", `{"email":"alice@example.kz","password":"pass12345"}`), httptest.NewRecorder())
	if err := handler.Login(c); err != domain.ErrUserBlocked {
		t.Fatalf("expected ErrUserBlocked, got %v", err)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	e := newEcho()
	handler := NewAuthHandler(&stubAuthService{}, CookieConfig{})

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/auth/me", nil), httptest.NewRecorder())
	if err := handler.Me(c); err != domain.ErrUnauthenticated {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req = req.WithContext(access.WithIdentity(req.Context(), &domain.Identity{UserID: "m1", Role: domain.RoleModerator}))
	rec := httptest.NewRecorder()
	if err := handler.Me(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"role":"moderator"`) {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	e := newEcho()
	handler := NewAuthHandler(&stubAuthService{}, CookieConfig{Name: "portal_session"})

	rec := httptest.NewRecorder()
	if err := handler.Logout(e.NewContext(httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil), rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Fatalf("expected expired cookie, got %+v", cookies)
	}
}
