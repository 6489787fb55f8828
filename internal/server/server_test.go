package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vantage-web/vantage/internal/config"
	"github.com/vantage-web/vantage/internal/livereload"
	"github.com/vantage-web/vantage/internal/logging"
	"github.com/vantage-web/vantage/internal/middleware"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host: "localhost",
			Port: 0,
		},
		Templates: config.TemplatesConfig{
			Static: "/static/",
		},
	}
}

func testApp(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	})
}

func TestNew(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		_, err := New(nil, Options{App: testApp("ok")}, nil)
		assert.Error(t, err)
	})

	t.Run("nil app", func(t *testing.T) {
		_, err := New(testConfig(), Options{}, nil)
		assert.Error(t, err)
	})

	t.Run("invalid port", func(t *testing.T) {
		cfg := testConfig()
		cfg.Server.Port = 70000
		_, err := New(cfg, Options{App: testApp("ok")}, nil)
		assert.Error(t, err)
	})

	t.Run("valid", func(t *testing.T) {
		srv, err := New(testConfig(), Options{App: testApp("ok")}, nil)
		require.NoError(t, err)
		assert.Equal(t, "localhost:0", srv.Addr())
		assert.False(t, srv.IsShutdown())
	})
}

func TestServerRouting(t *testing.T) {
	t.Run("app mounted at root", func(t *testing.T) {
		srv, err := New(testConfig(), Options{App: testApp("hello")}, nil)
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		srv.mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/anything", nil))
		assert.Equal(t, "hello", rec.Body.String())
	})

	t.Run("static files served under prefix", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "app.css"), []byte("body{}"), 0o644))

		srv, err := New(testConfig(), Options{App: testApp("app"), StaticDir: dir}, nil)
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		srv.mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/app.css", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "body{}", rec.Body.String())
	})

	t.Run("middleware wraps app routes", func(t *testing.T) {
		chain := middleware.NewChain(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("X-Wrapped", "yes")
				next.ServeHTTP(w, r)
			})
		})

		srv, err := New(testConfig(), Options{App: testApp("app")}, chain)
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		srv.httpServer.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, "yes", rec.Header().Get("X-Wrapped"))
	})

	t.Run("reload endpoint bypasses middleware", func(t *testing.T) {
		hub := livereload.NewHub(logging.Nop(), nil)
		t.Cleanup(hub.Close)

		chain := middleware.NewChain(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("X-Wrapped", "yes")
				next.ServeHTTP(w, r)
			})
		})

		srv, err := New(testConfig(), Options{App: testApp("app"), Hub: hub}, chain)
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, ReloadPath, nil)
		r.Header.Set("Origin", "https://evil.example.com")
		srv.httpServer.Handler.ServeHTTP(rec, r)
		assert.Empty(t, rec.Header().Get("X-Wrapped"))
	})
}

// The dev server chain buffers and records response writes; the WebSocket
// upgrade needs the raw connection, so it must still succeed with the full
// chain installed.
func TestReloadUpgradeWithMiddleware(t *testing.T) {
	hub := livereload.NewHub(logging.Nop(), nil)
	t.Cleanup(hub.Close)

	chain := middleware.NewChain(
		middleware.RequestLogging(logging.Nop()),
		middleware.Recovery(logging.Nop()),
		middleware.ScriptInjector("<script></script>"),
	)

	srv, err := New(testConfig(), Options{App: testApp("app"), Hub: hub}, chain)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.httpServer.Handler)
	t.Cleanup(ts.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + ReloadPath
	conn, _, err := websocket.Dial(ctx, wsURL, &websocket.DialOptions{
		HTTPHeader: http.Header{"Origin": {ts.URL}},
	})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "") })

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 },
		2*time.Second, 10*time.Millisecond)

	hub.NotifyReload()
	_, payload, err := conn.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, livereload.ReloadMessage, string(payload))
}

func TestServerLifecycle(t *testing.T) {
	t.Run("start then cancel shuts down", func(t *testing.T) {
		srv, err := New(testConfig(), Options{App: testApp("ok")}, nil)
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- srv.Start(ctx) }()

		cancel()
		require.NoError(t, <-done)
		assert.True(t, srv.IsShutdown())
	})

	t.Run("shutdown is idempotent", func(t *testing.T) {
		srv, err := New(testConfig(), Options{App: testApp("ok")}, nil)
		require.NoError(t, err)

		require.NoError(t, srv.Shutdown(context.Background()))
		require.NoError(t, srv.Shutdown(context.Background()))
	})

	t.Run("start after shutdown fails", func(t *testing.T) {
		srv, err := New(testConfig(), Options{App: testApp("ok")}, nil)
		require.NoError(t, err)

		require.NoError(t, srv.Shutdown(context.Background()))
		assert.Error(t, srv.Start(context.Background()))
	})
}
