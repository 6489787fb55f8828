package cli

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureStdout(t *testing.T, fn func() error) string {
	t.Helper()
	orig := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fnErr := fn()
	require.NoError(t, w.Close())
	require.NoError(t, fnErr)

	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out)
}

func TestRoutesTable(t *testing.T) {
	routesFormat = "table"
	t.Cleanup(func() { routesFormat = "table" })

	out := captureStdout(t, func() error { return runRoutes(routesCmd, nil) })
	assert.Contains(t, out, "ROUTE")
	assert.Contains(t, out, "/dashboard/")
	assert.Contains(t, out, "dash")
	assert.Contains(t, out, "/<int:pk>/details-post/")
}

func TestRoutesYAML(t *testing.T) {
	routesFormat = "yaml"
	t.Cleanup(func() { routesFormat = "table" })

	out := captureStdout(t, func() error { return runRoutes(routesCmd, nil) })
	assert.Contains(t, out, "route: /dashboard/")
	assert.Contains(t, out, "name: dash")
}

func TestRoutesUnknownFormat(t *testing.T) {
	routesFormat = "csv"
	t.Cleanup(func() { routesFormat = "table" })

	err := runRoutes(routesCmd, nil)
	assert.Error(t, err)
}
