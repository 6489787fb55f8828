package web

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shortcutRequest(t *testing.T, env Env) *Request {
	t.Helper()
	return NewRequest(httptest.NewRequest(http.MethodGet, "/", nil), env)
}

func TestRender(t *testing.T) {
	fsys := fstest.MapFS{
		"greet.html": &fstest.MapFile{Data: []byte(`<p>hello {{ .name }}</p>`)},
	}

	t.Run("ok", func(t *testing.T) {
		r := shortcutRequest(t, Env{Templates: NewTemplates(fsys)})
		resp, err := Render(r, "greet.html", Context{"name": "ada"})
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.Status)
		assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))
		assert.Equal(t, "<p>hello ada</p>", string(resp.Body))
	})

	t.Run("explicit status", func(t *testing.T) {
		r := shortcutRequest(t, Env{Templates: NewTemplates(fsys)})
		resp, err := RenderStatus(r, "greet.html", Context{"name": "ada"}, http.StatusNotFound)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.Status)
	})

	t.Run("no template set bound", func(t *testing.T) {
		r := shortcutRequest(t, Env{})
		_, err := Render(r, "greet.html", nil)
		require.Error(t, err)
		var werr *Error
		require.ErrorAs(t, err, &werr)
		assert.Equal(t, KindTemplate, werr.Kind)
	})

	t.Run("missing template", func(t *testing.T) {
		r := shortcutRequest(t, Env{Templates: NewTemplates(fsys)})
		_, err := Render(r, "missing.html", nil)
		assert.Error(t, err)
	})
}

func TestRedirectTo(t *testing.T) {
	t.Run("pattern name is reversed", func(t *testing.T) {
		r := shortcutRequest(t, Env{Reverser: stubReverser{"/dashboard/"}})
		resp, err := RedirectTo(r, "dash")
		require.NoError(t, err)
		assert.Equal(t, http.StatusFound, resp.Status)
		assert.Equal(t, "/dashboard/", resp.Header.Get("Location"))
	})

	t.Run("absolute path used as-is", func(t *testing.T) {
		r := shortcutRequest(t, Env{})
		resp, err := RedirectTo(r, "/login/")
		require.NoError(t, err)
		assert.Equal(t, "/login/", resp.Header.Get("Location"))
	})

	t.Run("full URL used as-is", func(t *testing.T) {
		r := shortcutRequest(t, Env{})
		resp, err := RedirectTo(r, "https://example.com/")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/", resp.Header.Get("Location"))
	})

	t.Run("relative path used as-is", func(t *testing.T) {
		r := shortcutRequest(t, Env{})
		resp, err := RedirectTo(r, "../up/")
		require.NoError(t, err)
		assert.Equal(t, "../up/", resp.Header.Get("Location"))
	})

	t.Run("unknown name without reverser", func(t *testing.T) {
		r := shortcutRequest(t, Env{})
		_, err := RedirectTo(r, "dash")
		assert.Error(t, err)
	})

	t.Run("permanent", func(t *testing.T) {
		r := shortcutRequest(t, Env{})
		resp, err := RedirectToPermanent(r, "/moved/")
		require.NoError(t, err)
		assert.Equal(t, http.StatusMovedPermanently, resp.Status)
		assert.Equal(t, "/moved/", resp.Header.Get("Location"))
	})
}
