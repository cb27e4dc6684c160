package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, sub interface{}) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	s, err := tok.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

// runJWT sends one request through JWTAuth into a probe handler that
// records the user id placed in the context.
func runJWT(t *testing.T, authHeader string) (*httptest.ResponseRecorder, interface{}) {
	t.Helper()
	e := echo.New()
	var captured interface{}
	h := JWTAuth(testSecret)(func(c echo.Context) error {
		captured = c.Get("user_id")
		return c.NoContent(http.StatusOK)
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	if err := h(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler: %v", err)
	}
	return rec, captured
}

func TestJWTAuthAcceptsValidToken(t *testing.T) {
	rec, captured := runJWT(t, "Bearer "+signToken(t, testSecret, 12345))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: want 200, got %d", rec.Code)
	}
	// MapClaims deliver JSON numbers as float64.
	if f, ok := captured.(float64); !ok || f != 12345 {
		t.Fatalf("user_id in context: %v (%T)", captured, captured)
	}
}

func TestJWTAuthRejectsMissingHeader(t *testing.T) {
	rec, _ := runJWT(t, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status: want 401, got %d", rec.Code)
	}
}

func TestJWTAuthRejectsWrongSecret(t *testing.T) {
	rec, _ := runJWT(t, "Bearer "+signToken(t, "other-secret", 12345))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status: want 401, got %d", rec.Code)
	}
}

func TestJWTAuthRejectsGarbageToken(t *testing.T) {
	rec, _ := runJWT(t, "Bearer not.a.token")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status: want 401, got %d", rec.Code)
	}
}

func runAdmin(t *testing.T, userID interface{}, isAdmin func(uint64) bool) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	h := RequireAdmin(isAdmin)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != nil {
		c.Set("user_id", userID)
	}
	if err := h(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	return rec
}

func TestRequireAdminAllowsListedUser(t *testing.T) {
	allow := func(id uint64) bool { return id == 7 }
	if rec := runAdmin(t, float64(7), allow); rec.Code != http.StatusOK {
		t.Fatalf("status: want 200, got %d", rec.Code)
	}
	// String subjects are accepted too.
	if rec := runAdmin(t, "7", allow); rec.Code != http.StatusOK {
		t.Fatalf("string subject: want 200, got %d", rec.Code)
	}
}

func TestRequireAdminRejectsOthers(t *testing.T) {
	allow := func(id uint64) bool { return id == 7 }
	if rec := runAdmin(t, float64(8), allow); rec.Code != http.StatusForbidden {
		t.Fatalf("unlisted user: want 403, got %d", rec.Code)
	}
	if rec := runAdmin(t, nil, allow); rec.Code != http.StatusForbidden {
		t.Fatalf("missing identity: want 403, got %d", rec.Code)
	}
}
