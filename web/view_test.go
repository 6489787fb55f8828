package web

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type getOnlyView struct{}

func (getOnlyView) Get(r *Request) (*Response, error) {
	return Text("got"), nil
}

type getPostView struct{}

func (getPostView) Get(r *Request) (*Response, error) {
	return Text("form"), nil
}

func (getPostView) Post(r *Request) (*Response, error) {
	return Redirect("/done/"), nil
}

func dispatchReq(t *testing.T, view View, method string) *Response {
	t.Helper()
	r := NewRequest(httptest.NewRequest(method, "/", nil), Env{})
	resp, err := view.ServeView(r)
	require.NoError(t, err)
	require.NotNil(t, resp)
	return resp
}

func TestDispatch(t *testing.T) {
	t.Run("routes GET", func(t *testing.T) {
		resp := dispatchReq(t, Dispatch(getPostView{}), http.MethodGet)
		assert.Equal(t, "form", string(resp.Body))
	})

	t.Run("HEAD falls back to Get", func(t *testing.T) {
		resp := dispatchReq(t, Dispatch(getOnlyView{}), http.MethodHead)
		assert.Equal(t, http.StatusOK, resp.Status)
	})

	t.Run("routes POST", func(t *testing.T) {
		resp := dispatchReq(t, Dispatch(getPostView{}), http.MethodPost)
		assert.True(t, resp.IsRedirect())
	})

	t.Run("unsupported method gets 405 with Allow", func(t *testing.T) {
		resp := dispatchReq(t, Dispatch(getOnlyView{}), http.MethodPost)
		assert.Equal(t, http.StatusMethodNotAllowed, resp.Status)
		assert.Contains(t, resp.Header.Get("Allow"), "GET")
		assert.NotContains(t, resp.Header.Get("Allow"), "POST")
	})

	t.Run("OPTIONS lists allowed methods", func(t *testing.T) {
		resp := dispatchReq(t, Dispatch(getPostView{}), http.MethodOptions)
		assert.Equal(t, http.StatusNoContent, resp.Status)
		allow := resp.Header.Get("Allow")
		assert.Contains(t, allow, "GET")
		assert.Contains(t, allow, "POST")
		assert.Contains(t, allow, "OPTIONS")
	})
}

func TestViewFunc(t *testing.T) {
	v := ViewFunc(func(r *Request) (*Response, error) {
		return Text("fn"), nil
	})
	resp := dispatchReq(t, v, http.MethodGet)
	assert.Equal(t, "fn", string(resp.Body))
}
