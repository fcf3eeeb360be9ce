package cli

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mordensafety/admin-console/internal/core/domain"
)

func fakeBackend(t *testing.T) *httptest.Server {
	t.Helper()
	e := echo.New()
	e.HideBanner = true

	authorized := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Header.Get("Authorization") != "Bearer T1" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"detail": "Could not validate credentials"})
			}
			return next(c)
		}
	}

	e.POST("/api/auth/login", func(c echo.Context) error {
		var in struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.Bind(&in); err != nil {
			return err
		}
		if in.Email != "admin@morden.test" || in.Password != "secret" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"detail": "Incorrect email or password"})
		}
		return c.JSON(http.StatusOK, map[string]any{
			"access_token": "T1",
			"token_type":   "bearer",
			"user":         map[string]any{"id": 1, "full_name": "Ana Admin", "email": in.Email, "role": "admin"},
		})
	})
	e.GET("/api/admin/stats", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"total_requests": 12,
			"counts":         map[string]int{"total_orders": 3},
			"financials":     map[string]any{"total_revenue": 1520.5},
		})
	}, authorized)
	e.GET("/api/notifications", func(c echo.Context) error {
		return c.JSON(http.StatusUnauthorized, map[string]string{"detail": "Token expired"})
	})
	e.GET("/api/products/:id", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"id": c.Param("id"), "name": "CO2 5kg", "price": 45.5, "stock_quantity": 10, "is_available": true,
		})
	})

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv
}

func setEnv(t *testing.T, apiURL string) {
	t.Helper()
	t.Setenv("MORDEN_API_URL", apiURL)
	t.Setenv("MORDEN_STORE", "sqlite")
	t.Setenv("MORDEN_SQLITE_PATH", filepath.Join(t.TempDir(), "state.db"))
	t.Setenv("MORDEN_LOG_LEVEL", "error")
	t.Setenv("MORDEN_PASSWORD", "")
}

func run(args ...string) (int, string, string) {
	var out, errOut bytes.Buffer
	code := Execute(context.Background(), args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestLoginStatsLogout(t *testing.T) {
	setEnv(t, fakeBackend(t).URL)

	code, out, errOut := run("login", "--email", "admin@morden.test", "--password", "secret")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "Logged in as admin@morden.test (admin)")

	code, out, errOut = run("whoami")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "Ana Admin")

	code, out, errOut = run("stats")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "total requests")
	assert.Contains(t, out, "1520.50")

	code, _, errOut = run("logout")
	require.Equal(t, 0, code, errOut)

	code, _, errOut = run("stats")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "not logged in")
}

func TestLogin_WrongPassword(t *testing.T) {
	setEnv(t, fakeBackend(t).URL)

	code, _, errOut := run("login", "--email", "admin@morden.test", "--password", "nope")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "invalid email or password")

	code, _, errOut = run("whoami")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "not logged in")
}

func TestExpiredSessionPrintsLoginHint(t *testing.T) {
	setEnv(t, fakeBackend(t).URL)

	code, _, errOut := run("login", "--email", "admin@morden.test", "--password", "secret")
	require.Equal(t, 0, code, errOut)

	code, _, errOut = run("notifications", "list")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, loginHint)
	assert.Contains(t, errOut, "error: session expired")

	code, _, errOut = run("whoami")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "not logged in")
}

func TestCartAddAndShow(t *testing.T) {
	setEnv(t, fakeBackend(t).URL)

	code, _, errOut := run("cart", "add", "p1", "--qty", "2")
	require.Equal(t, 0, code, errOut)

	code, _, errOut = run("cart", "add", "p1")
	require.Equal(t, 0, code, errOut)

	code, out, errOut := run("cart", "show")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "CO2 5kg")
	assert.Contains(t, out, "136.50")

	code, out, errOut = run("cart", "update", "p1", "0")
	require.Equal(t, 0, code, errOut)
	assert.NotContains(t, out, "CO2 5kg")
}

func TestUnreachableBackend(t *testing.T) {
	srv := fakeBackend(t)
	setEnv(t, srv.URL)
	srv.Close()

	code, _, errOut := run("login", "--email", "admin@morden.test", "--password", "secret")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "cannot connect to server, check your connection")
}

func TestRender(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{domain.ErrInvalidCredentials, "invalid email or password"},
		{&domain.TransportError{Method: "GET", URL: "http://x", Err: errors.New("refused")}, "cannot connect to server, check your connection"},
		{&domain.HTTPError{Status: 500}, "server error: 500"},
		{&domain.HTTPError{Status: 404, Body: []byte(`{"detail":"Product not found"}`)}, "server error: 404 (Product not found)"},
		{&domain.HTTPError{Status: 401, SessionExpired: true}, "session expired"},
		{domain.ErrForbidden, "access forbidden: this command needs an admin account"},
		{errors.New("plain"), "plain"},
	}
	for _, tc := range cases {
		if got := Render(tc.err); !strings.EqualFold(got, tc.want) {
			t.Fatalf("Render(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}
