package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"docclock-api/internal/auth"
)

const secret = "test-secret"

func callWithHeader(t *testing.T, header string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	var reached bool
	h := Auth(secret)(func(c echo.Context) error {
		reached = true
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, reached
}

func TestAuthAcceptsValidToken(t *testing.T) {
	tok, err := auth.MakeToken("uid-1", "a@x.com", "patient", secret, time.Hour)
	if err != nil {
		t.Fatalf("make token: %v", err)
	}

	e := echo.New()
	h := Auth(secret)(func(c echo.Context) error {
		if c.Get(UserIDKey) != "uid-1" || c.Get(EmailKey) != "a@x.com" || c.Get(RoleKey) != "patient" {
			t.Errorf("context values: %v %v %v", c.Get(UserIDKey), c.Get(EmailKey), c.Get(RoleKey))
		}
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+tok)
	rec := httptest.NewRecorder()
	if err := h(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status: %d", rec.Code)
	}
}

func TestAuthRejects(t *testing.T) {
	expired, _ := auth.MakeToken("uid", "a@x.com", "patient", secret, -time.Minute)
	wrongKey, _ := auth.MakeToken("uid", "a@x.com", "patient", "other-secret", time.Hour)

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Token abc"},
		{"no token", "Bearer"},
		{"garbage", "Bearer not.a.token"},
		{"expired", "Bearer " + expired},
		{"wrong key", "Bearer " + wrongKey},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, reached := callWithHeader(t, tc.header)
			if reached {
				t.Error("handler ran without valid auth")
			}
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status: %d", rec.Code)
			}
		})
	}
}

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter(1, 2)

	if !rl.Allow("1.2.3.4") || !rl.Allow("1.2.3.4") {
		t.Fatal("burst of 2 should be allowed")
	}
	if rl.Allow("1.2.3.4") {
		t.Error("third immediate request should be throttled")
	}
	// a different client has its own bucket
	if !rl.Allow("5.6.7.8") {
		t.Error("fresh client throttled")
	}
}
