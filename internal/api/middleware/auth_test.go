package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

func sign(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func runAuth(t *testing.T, header string) (called bool, c echo.Context, err error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	c = e.NewContext(req, httptest.NewRecorder())

	err = Auth("secret")(func(echo.Context) error {
		called = true
		return nil
	})(c)
	return called, c, err
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	token := sign(t, jwt.SigningMethodHS256, []byte("secret"), jwt.MapClaims{
		"sub":      "op-1",
		"username": "alice",
		"role":     "operator",
		"exp":      time.Now().Add(time.Hour).Unix(),
	})

	called, c, err := runAuth(t, "Bearer "+token)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if c.Get("username") != "alice" || c.Get("role") != "operator" || c.Get("operator_id") != "op-1" {
		t.Fatalf("claims not injected: %v %v %v", c.Get("username"), c.Get("role"), c.Get("operator_id"))
	}
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	valid := jwt.MapClaims{"username": "alice", "role": "admin", "exp": time.Now().Add(time.Hour).Unix()}

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic abc"},
		{"no token", "Bearer"},
		{"garbage token", "Bearer not-a-jwt"},
		{"wrong secret", "Bearer " + sign(t, jwt.SigningMethodHS256, []byte("other"), valid)},
		{"wrong algorithm", "Bearer " + sign(t, jwt.SigningMethodHS512, []byte("secret"), valid)},
		{"expired", "Bearer " + sign(t, jwt.SigningMethodHS256, []byte("secret"), jwt.MapClaims{
			"username": "alice", "role": "admin", "exp": time.Now().Add(-time.Minute).Unix(),
		})},
		{"no role", "Bearer " + sign(t, jwt.SigningMethodHS256, []byte("secret"), jwt.MapClaims{"username": "alice"})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called, _, err := runAuth(t, tt.header)
			if called {
				t.Fatal("should not reach next")
			}
			var he *echo.HTTPError
			if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %v", err)
			}
		})
	}
}
