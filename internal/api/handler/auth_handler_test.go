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

	"github.com/costaverde/reservation-gateway/internal/core/domain"
	"github.com/costaverde/reservation-gateway/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, input ports.RegisterInput) (*domain.User, error)
	loginFn    func(ctx context.Context, email, password string) (string, *domain.User, error)
	logoutFn   func(ctx context.Context, tokenID string, expiresAt time.Time) error
}

func (s *stubAuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, input)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	return s.logoutFn(ctx, tokenID, expiresAt)
}

func newJSONContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func TestAuthHandler_Register_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(_ context.Context, input ports.RegisterInput) (*domain.User, error) {
			if input.Name != "Ana" || input.Email != "ana@example.com" || input.Role != domain.RoleClient {
				t.Fatalf("unexpected input: %+v", input)
			}
			return &domain.User{ID: 1, Name: input.Name, Email: input.Email, Role: input.Role, Active: true}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newJSONContext(e, http.MethodPost, "/api/usuarios/register",
		`{"nombre":"Ana","email":"ana@example.com","password":"secret123","role":"client"}`)

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
		t.Fatalf("missing user in response: %v", resp)
	}
	if user["nombre"] != "Ana" {
		t.Fatalf("wrong user name: %v", user["nombre"])
	}
	if _, leaked := user["password_hash"]; leaked {
		t.Fatalf("password hash leaked in response")
	}
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	e := newTestEcho()
	handler := NewAuthHandler(&stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.User, error) {
			t.Fatalf("service should not be reached")
			return nil, nil
		},
	})

	cases := []struct {
		name string
		body string
	}{
		{"missing name", `{"email":"ana@example.com","password":"secret123"}`},
		{"bad email", `{"nombre":"Ana","email":"nope","password":"secret123"}`},
		{"short password", `{"nombre":"Ana","email":"ana@example.com","password":"abc"}`},
		{"unknown role", `{"nombre":"Ana","email":"ana@example.com","password":"secret123","role":"boss"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newJSONContext(e, http.MethodPost, "/api/usuarios/register", tc.body)
			err := handler.Register(c)
			he, ok := err.(*echo.HTTPError)
			if !ok {
				t.Fatalf("expected *echo.HTTPError, got %v", err)
			}
			if he.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", he.Code)
			}
		})
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(_ context.Context, email, password string) (string, *domain.User, error) {
			if email != "ana@example.com" || password != "secret123" {
				t.Fatalf("unexpected credentials: %s %s", email, password)
			}
			return "signed-token", &domain.User{ID: 1, Email: email, Role: domain.RoleClient}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newJSONContext(e, http.MethodPost, "/api/usuarios/login",
		`{"email":"ana@example.com","password":"secret123"}`)

	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "signed-token" {
		t.Fatalf("missing token in response: %v", resp)
	}
}

func TestAuthHandler_Login_BadCredentialsPassThrough(t *testing.T) {
	e := newTestEcho()
	handler := NewAuthHandler(&stubAuthService{
		loginFn: func(context.Context, string, string) (string, *domain.User, error) {
			return "", nil, domain.ErrInvalidCredentials
		},
	})

	c, _ := newJSONContext(e, http.MethodPost, "/api/usuarios/login",
		`{"email":"ana@example.com","password":"wrong"}`)

	// The handler forwards domain errors untouched; the central error
	// handler owns the status mapping.
	if err := handler.Login(c); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	e := newTestEcho()
	expiry := time.Now().Add(time.Hour)

	var revokedID string
	var revokedUntil time.Time
	handler := NewAuthHandler(&stubAuthService{
		logoutFn: func(_ context.Context, tokenID string, expiresAt time.Time) error {
			revokedID = tokenID
			revokedUntil = expiresAt
			return nil
		},
	})

	c, rec := newJSONContext(e, http.MethodPost, "/api/usuarios/logout", "")
	c.Set("token_id", "jti-1")
	c.Set("token_exp", expiry)

	if err := handler.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if revokedID != "jti-1" || !revokedUntil.Equal(expiry) {
		t.Fatalf("wrong revocation: %s until %v", revokedID, revokedUntil)
	}
}

func TestAuthHandler_LogoutWithoutClaims(t *testing.T) {
	e := newTestEcho()
	handler := NewAuthHandler(&stubAuthService{})

	c, _ := newJSONContext(e, http.MethodPost, "/api/usuarios/logout", "")

	err := handler.Logout(c)
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	if he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", he.Code)
	}
}

func TestAuthHandler_CheckToken(t *testing.T) {
	e := newTestEcho()
	handler := NewAuthHandler(&stubAuthService{})

	c, rec := newJSONContext(e, http.MethodPost, "/api/usuarios/check-token", "")
	if err := handler.CheckToken(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok":true`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}
