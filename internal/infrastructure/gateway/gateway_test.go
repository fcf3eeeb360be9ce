package gateway

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mordensafety/admin-console/internal/core/domain"
	"github.com/mordensafety/admin-console/internal/core/ports"
)

type fakeSessions struct {
	token   string
	expired int
}

func (f *fakeSessions) CurrentToken(context.Context) (string, bool) {
	return f.token, f.token != ""
}

func (f *fakeSessions) Restore(context.Context) domain.Session {
	if f.token == "" {
		return domain.AnonymousSession()
	}
	return domain.Session{State: domain.SessionAuthenticated, Token: f.token}
}

func (f *fakeSessions) Login(_ context.Context, token string, user domain.User) (domain.Session, error) {
	f.token = token
	return domain.Session{State: domain.SessionAuthenticated, Token: token, User: &user}, nil
}

func (f *fakeSessions) Logout(context.Context) error {
	f.token = ""
	return nil
}

func (f *fakeSessions) Expire(ctx context.Context) error {
	f.expired++
	return f.Logout(ctx)
}

type fakeNavigator struct{ calls int }

func (n *fakeNavigator) ToLogin(context.Context) { n.calls++ }

func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	e := echo.New()
	e.HideBanner = true

	e.GET("/api/echo", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"authorization": c.Request().Header.Get("Authorization"),
			"request_id":    c.Request().Header.Get("X-Request-ID"),
			"user_agent":    c.Request().Header.Get("User-Agent"),
			"page":          c.QueryParam("page"),
			"path":          c.Request().URL.EscapedPath(),
		})
	})
	e.GET("/prefix/api/echo", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"path": c.Request().URL.Path})
	})
	e.POST("/api/json", func(c echo.Context) error {
		var in map[string]any
		if err := c.Bind(&in); err != nil {
			return err
		}
		in["content_type"] = c.Request().Header.Get("Content-Type")
		return c.JSON(http.StatusOK, in)
	})
	e.POST("/api/upload", func(c echo.Context) error {
		form, err := c.MultipartForm()
		if err != nil {
			return c.String(http.StatusBadRequest, err.Error())
		}
		var files []string
		for _, fh := range form.File["images"] {
			f, err := fh.Open()
			if err != nil {
				return err
			}
			b, _ := io.ReadAll(f)
			f.Close()
			files = append(files, fh.Filename+":"+string(b)+":"+fh.Header.Get("Content-Type"))
		}
		return c.JSON(http.StatusOK, map[string]any{
			"content_type":    c.Request().Header.Get("Content-Type"),
			"name":            c.FormValue("name"),
			"existing_images": form.Value["existing_images"],
			"files":           files,
		})
	})
	e.GET("/api/protected", func(c echo.Context) error {
		return c.JSON(http.StatusUnauthorized, map[string]string{"detail": "Could not validate credentials"})
	})
	e.POST("/api/auth/login", func(c echo.Context) error {
		return c.JSON(http.StatusUnauthorized, map[string]string{"detail": "Incorrect email or password"})
	})
	e.GET("/api/boom", func(c echo.Context) error {
		return c.JSON(http.StatusInternalServerError, map[string]string{"detail": "boom"})
	})

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv
}

func newTestGateway(t *testing.T, baseURL string, sessions *fakeSessions, nav *fakeNavigator, opts ...Option) *Gateway {
	t.Helper()
	g, err := NewAuthenticated(Config{BaseURL: baseURL, UserAgent: "morden-test"}, sessions, nav, zerolog.Nop(), opts...)
	require.NoError(t, err)
	return g
}

func TestNew_RejectsInvalidBaseURL(t *testing.T) {
	for _, raw := range []string{"", "localhost:8000", "ftp://example.com", "http://"} {
		_, err := New(Config{BaseURL: raw})
		assert.Error(t, err, raw)
	}
}

func TestSend_AttachesBearerWhenAuthenticated(t *testing.T) {
	srv := newBackend(t)
	sessions := &fakeSessions{token: "T1"}
	g := newTestGateway(t, srv.URL, sessions, &fakeNavigator{})

	resp, err := g.Send(context.Background(), ports.Request{Method: http.MethodGet, Path: "/api/echo"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)

	var got map[string]string
	require.NoError(t, resp.Decode(&got))
	assert.Equal(t, "Bearer T1", got["authorization"])
	assert.NotEmpty(t, got["request_id"])
	assert.Equal(t, "morden-test", got["user_agent"])
}

func TestSend_NoBearerWithoutSession(t *testing.T) {
	srv := newBackend(t)
	g := newTestGateway(t, srv.URL, &fakeSessions{}, &fakeNavigator{})

	resp, err := g.Send(context.Background(), ports.Request{Path: "/api/echo"})
	require.NoError(t, err)

	var got map[string]string
	require.NoError(t, resp.Decode(&got))
	assert.Empty(t, got["authorization"])
}

func TestSend_AnonymousRequestSkipsBearer(t *testing.T) {
	srv := newBackend(t)
	g := newTestGateway(t, srv.URL, &fakeSessions{token: "T1"}, &fakeNavigator{})

	resp, err := g.Send(context.Background(), ports.Request{Path: "/api/echo", Anonymous: true})
	require.NoError(t, err)

	var got map[string]string
	require.NoError(t, resp.Decode(&got))
	assert.Empty(t, got["authorization"])
}

func TestSend_QueryAndEscapedPath(t *testing.T) {
	srv := newBackend(t)
	g := newTestGateway(t, srv.URL, &fakeSessions{}, &fakeNavigator{})

	resp, err := g.Send(context.Background(), ports.Request{
		Path:  "/api/echo",
		Query: map[string][]string{"page": {"3"}},
	})
	require.NoError(t, err)

	var got map[string]string
	require.NoError(t, resp.Decode(&got))
	assert.Equal(t, "3", got["page"])
	assert.Equal(t, "/api/echo", got["path"])
}

func TestSend_KeepsBasePathPrefix(t *testing.T) {
	srv := newBackend(t)
	g := newTestGateway(t, srv.URL+"/prefix/", &fakeSessions{}, &fakeNavigator{})

	resp, err := g.Send(context.Background(), ports.Request{Path: "/api/echo"})
	require.NoError(t, err)

	var got map[string]string
	require.NoError(t, resp.Decode(&got))
	assert.Equal(t, "/prefix/api/echo", got["path"])
}

func TestSend_JSONBody(t *testing.T) {
	srv := newBackend(t)
	g := newTestGateway(t, srv.URL, &fakeSessions{token: "T1"}, &fakeNavigator{})

	resp, err := g.Send(context.Background(), ports.Request{
		Method: http.MethodPost,
		Path:   "/api/json",
		Body:   map[string]any{"is_available": false},
	})
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, resp.Decode(&got))
	assert.Equal(t, false, got["is_available"])
	assert.Equal(t, "application/json", got["content_type"])
}

func TestSend_MultipartBody(t *testing.T) {
	srv := newBackend(t)
	g := newTestGateway(t, srv.URL, &fakeSessions{token: "T1"}, &fakeNavigator{})

	var progress []int
	form := &ports.MultipartForm{
		Files: []ports.FormFile{
			{Field: "images", Filename: "a.jpg", ContentType: "image/jpeg", Content: strings.NewReader("AAA")},
			{Field: "images", Filename: "b.bin", Content: strings.NewReader("BB")},
		},
		OnProgress: func(p int) { progress = append(progress, p) },
	}
	form.Add("name", "CO2 5kg")
	form.Add("existing_images", "/uploads/1.jpg")
	form.Add("existing_images", "/uploads/2.jpg")

	resp, err := g.Send(context.Background(), ports.Request{Method: http.MethodPost, Path: "/api/upload", Form: form})
	require.NoError(t, err)

	var got struct {
		ContentType    string   `json:"content_type"`
		Name           string   `json:"name"`
		ExistingImages []string `json:"existing_images"`
		Files          []string `json:"files"`
	}
	require.NoError(t, resp.Decode(&got))

	assert.True(t, strings.HasPrefix(got.ContentType, "multipart/form-data; boundary="), got.ContentType)
	assert.Equal(t, "CO2 5kg", got.Name)
	assert.Equal(t, []string{"/uploads/1.jpg", "/uploads/2.jpg"}, got.ExistingImages)
	assert.Equal(t, []string{"a.jpg:AAA:image/jpeg", "b.bin:BB:application/octet-stream"}, got.Files)

	require.NotEmpty(t, progress)
	assert.Equal(t, 100, progress[len(progress)-1])
	for i := 1; i < len(progress); i++ {
		assert.Greater(t, progress[i], progress[i-1])
	}
}

func TestSend_UnauthorizedExpiresSession(t *testing.T) {
	srv := newBackend(t)
	sessions := &fakeSessions{token: "T1"}
	nav := &fakeNavigator{}
	g := newTestGateway(t, srv.URL, sessions, nav)

	_, err := g.Send(context.Background(), ports.Request{Path: "/api/protected"})
	require.Error(t, err)

	var he *domain.HTTPError
	require.True(t, errors.As(err, &he))
	assert.Equal(t, http.StatusUnauthorized, he.Status)
	assert.Contains(t, string(he.Body), "Could not validate credentials")
	assert.ErrorIs(t, err, domain.ErrSessionExpired)

	assert.Equal(t, 1, sessions.expired)
	assert.Equal(t, 1, nav.calls)
	_, ok := sessions.CurrentToken(context.Background())
	assert.False(t, ok)
}

func TestSend_AnonymousUnauthorizedLeavesSession(t *testing.T) {
	srv := newBackend(t)
	sessions := &fakeSessions{token: "T1"}
	nav := &fakeNavigator{}
	g := newTestGateway(t, srv.URL, sessions, nav)

	_, err := g.Send(context.Background(), ports.Request{Method: http.MethodPost, Path: "/api/auth/login", Anonymous: true})
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, domain.StatusCode(err))
	assert.NotErrorIs(t, err, domain.ErrSessionExpired)

	assert.Zero(t, sessions.expired)
	assert.Zero(t, nav.calls)
	assert.Equal(t, "T1", sessions.token)
}

func TestSend_ServerErrorPassesThrough(t *testing.T) {
	srv := newBackend(t)
	sessions := &fakeSessions{token: "T1"}
	nav := &fakeNavigator{}
	g := newTestGateway(t, srv.URL, sessions, nav)

	_, err := g.Send(context.Background(), ports.Request{Path: "/api/boom"})
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, domain.StatusCode(err))
	assert.NotErrorIs(t, err, domain.ErrNoResponse)

	assert.Zero(t, sessions.expired)
	assert.Zero(t, nav.calls)
	assert.Equal(t, "T1", sessions.token)
}

func TestSend_NoResponse(t *testing.T) {
	srv := newBackend(t)
	url := srv.URL
	srv.Close()

	sessions := &fakeSessions{token: "T1"}
	nav := &fakeNavigator{}

	var seen []ports.Exchange
	record := ports.ResponseHandlerFunc(func(_ context.Context, ex ports.Exchange) { seen = append(seen, ex) })
	g := newTestGateway(t, url, sessions, nav, WithResponseHandlers(record))

	_, err := g.Send(context.Background(), ports.Request{Path: "/api/echo"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoResponse)

	var te *domain.TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.MethodGet, te.Method)

	assert.Zero(t, sessions.expired)
	assert.Zero(t, nav.calls)

	require.Len(t, seen, 1)
	assert.Zero(t, seen[0].Status)
	assert.ErrorIs(t, seen[0].Err, domain.ErrNoResponse)
}

func TestSend_HandlersRunInOrder(t *testing.T) {
	srv := newBackend(t)

	var order []string
	g, err := New(Config{BaseURL: srv.URL},
		WithRequestInterceptors(ports.RequestInterceptorFunc(func(context.Context, *ports.Request, *http.Request) error {
			order = append(order, "request")
			return nil
		})),
		WithResponseHandlers(
			ports.ResponseHandlerFunc(func(context.Context, ports.Exchange) { order = append(order, "first") }),
			ports.ResponseHandlerFunc(func(context.Context, ports.Exchange) { order = append(order, "second") }),
		),
	)
	require.NoError(t, err)

	_, err = g.Send(context.Background(), ports.Request{Path: "/api/echo"})
	require.NoError(t, err)
	assert.Equal(t, []string{"request", "first", "second"}, order)
}

func TestSend_InterceptorErrorAborts(t *testing.T) {
	srv := newBackend(t)
	boom := errors.New("no token source")

	var handled bool
	g, err := New(Config{BaseURL: srv.URL},
		WithRequestInterceptors(ports.RequestInterceptorFunc(func(context.Context, *ports.Request, *http.Request) error {
			return boom
		})),
		WithResponseHandlers(ports.ResponseHandlerFunc(func(context.Context, ports.Exchange) { handled = true })),
	)
	require.NoError(t, err)

	_, err = g.Send(context.Background(), ports.Request{Path: "/api/echo"})
	assert.ErrorIs(t, err, boom)
	assert.False(t, handled)
}

// rawBackend answers every request with raw and hangs up.
func rawBackend(t *testing.T, raw string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		conn, buf, err := w.(http.Hijacker).Hijack()
		if err != nil {
			t.Errorf("hijack: %v", err)
			return
		}
		defer conn.Close()
		_, _ = buf.WriteString(raw)
		_ = buf.Flush()
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSend_UnauthorizedWithBrokenBodyStillExpires(t *testing.T) {
	srv := rawBackend(t, "HTTP/1.1 401 Unauthorized\r\nContent-Type: application/json\r\nContent-Length: 100\r\n\r\n{\"detail\":")
	sessions := &fakeSessions{token: "T1"}
	nav := &fakeNavigator{}

	var seen []ports.Exchange
	record := ports.ResponseHandlerFunc(func(_ context.Context, ex ports.Exchange) { seen = append(seen, ex) })
	g := newTestGateway(t, srv.URL, sessions, nav, WithResponseHandlers(record))

	_, err := g.Send(context.Background(), ports.Request{Path: "/api/orders"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNoResponse)
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
	assert.Equal(t, http.StatusUnauthorized, domain.StatusCode(err))

	assert.Equal(t, 1, sessions.expired)
	assert.Equal(t, 1, nav.calls)
	require.Len(t, seen, 1)
	assert.Equal(t, http.StatusUnauthorized, seen[0].Status)
}

func TestSend_SuccessWithBrokenBodyKeepsStatus(t *testing.T) {
	srv := rawBackend(t, "HTTP/1.1 200 OK\r\nContent-Type: application/json\r\nContent-Length: 100\r\n\r\n{\"ok\":")
	sessions := &fakeSessions{token: "T1"}

	var seen []ports.Exchange
	record := ports.ResponseHandlerFunc(func(_ context.Context, ex ports.Exchange) { seen = append(seen, ex) })
	g := newTestGateway(t, srv.URL, sessions, &fakeNavigator{}, WithResponseHandlers(record))

	resp, err := g.Send(context.Background(), ports.Request{Path: "/api/orders"})
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.NotErrorIs(t, err, domain.ErrNoResponse)
	assert.Zero(t, sessions.expired)

	require.Len(t, seen, 1)
	assert.Equal(t, http.StatusOK, seen[0].Status)
}

func TestSend_BodyOverCapIsRejected(t *testing.T) {
	payload := bytes.Repeat([]byte("a"), maxBodyBytes+1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/exact" {
			_, _ = w.Write(payload[:maxBodyBytes])
			return
		}
		_, _ = w.Write(payload)
	}))
	t.Cleanup(srv.Close)
	g := newTestGateway(t, srv.URL, &fakeSessions{}, &fakeNavigator{})

	_, err := g.Send(context.Background(), ports.Request{Path: "/api/big"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrResponseTooLarge)
	assert.NotErrorIs(t, err, domain.ErrNoResponse)

	resp, err := g.Send(context.Background(), ports.Request{Path: "/api/exact"})
	require.NoError(t, err)
	assert.Len(t, resp.Body, maxBodyBytes)
}
