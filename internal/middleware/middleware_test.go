package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"nursery-service/pkg/jwtutil"
)

func newJWT() *jwtutil.JWTUtil {
	return jwtutil.NewJWTUtil(&jwtutil.JWTConfig{SigningKey: "test-key", ExpirationHours: 1})
}

func protected(jwtUtil *jwtutil.JWTUtil) *echo.Echo {
	e := echo.New()
	e.Use(RequestIDMiddleware())
	e.GET("/me", func(c echo.Context) error {
		s, ok := Session(c)
		if !ok {
			return c.NoContent(http.StatusInternalServerError)
		}
		return c.String(http.StatusOK, s.BusinessID)
	}, JWTAuthMiddleware(jwtUtil, nil))
	return e
}

func TestAuthAcceptsBearerAndCookie(t *testing.T) {
	jwtUtil := newJWT()
	token, err := jwtUtil.GenerateToken(jwtutil.SessionClaims{UserID: "u1", Role: "OWNER", BusinessID: "biz"})
	if err != nil {
		t.Fatal(err)
	}
	e := protected(jwtUtil)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != "biz" {
		t.Fatalf("bearer: %d %s", rec.Code, rec.Body)
	}
	if rec.Header().Get(HeaderRequestID) == "" {
		t.Error("missing request id header")
	}

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("cookie: %d %s", rec.Code, rec.Body)
	}
}

func TestAuthRejects(t *testing.T) {
	e := protected(newJWT())
	for name, header := range map[string]string{
		"missing":   "",
		"malformed": "Token abc",
		"garbage":   "Bearer not-a-jwt",
	} {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: status %d, want 401", name, rec.Code)
		}
	}
}

func TestRequestIDPreserved(t *testing.T) {
	e := echo.New()
	e.Use(RequestIDMiddleware())
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if got := rec.Header().Get(HeaderRequestID); got != "abc-123" {
		t.Fatalf("request id = %q", got)
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{RPM: 60, Burst: 2})
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	if !rl.Allow("1.1.1.1") || !rl.Allow("1.1.1.1") {
		t.Fatal("burst not honoured")
	}
	if rl.Allow("1.1.1.1") {
		t.Fatal("third request within the same instant allowed")
	}
	if !rl.Allow("2.2.2.2") {
		t.Fatal("limit shared across clients")
	}
	now = now.Add(time.Second)
	if !rl.Allow("1.1.1.1") {
		t.Fatal("token not replenished after one second")
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{RPM: 1, Burst: 1})
	e := echo.New()
	e.POST("/login", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, rl.Middleware())

	codes := []int{}
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Fatalf("codes = %v", codes)
	}
}
