package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, "development", cfg.Server.Environment)
	assert.Equal(t, "templates", cfg.Templates.Dir)
	assert.Equal(t, []string{"base.html"}, cfg.Templates.Partials)
	assert.Equal(t, "/static/", cfg.Templates.Static)
	assert.Equal(t, "vantage_session", cfg.Session.CookieName)
	assert.True(t, cfg.Development.HotReload, "development defaults to hot reload")
	assert.True(t, cfg.Development.Debug, "development defaults to debug")
}

func TestLoadOverrides(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("server.port", 9000)
	viper.Set("server.environment", "production")
	viper.Set("templates.dir", "views")
	viper.Set("session.secret", "0123456789abcdef")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "views", cfg.Templates.Dir)
	assert.False(t, cfg.Development.HotReload, "production disables hot reload")
	assert.False(t, cfg.Development.Debug)
}

// Snake_case keys must decode: viper matches mapstructure tags, not yaml
// ones, so a missing tag silently drops the value.
func TestLoadSnakeCaseKeys(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("server.allowed_origins", []string{"app.example.com"})
	viper.Set("session.cookie_name", "forum_session")
	viper.Set("session.max_age", 3600)
	viper.Set("templates.static_dir", "assets")
	viper.Set("development.hot_reload", true)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"app.example.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "forum_session", cfg.Session.CookieName)
	assert.Equal(t, 3600, cfg.Session.MaxAge)
	assert.Equal(t, "assets", cfg.Templates.StaticDir)
	assert.True(t, cfg.Development.HotReload)
}

func TestLoadExplicitDevelopmentFlags(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("development.hot_reload", false)
	viper.Set("development.debug", false)

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.Development.HotReload, "explicit setting beats environment default")
	assert.False(t, cfg.Development.Debug)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  any
	}{
		{"port out of range", "server.port", 70000},
		{"negative port", "server.port", -1},
		{"host with shell metacharacter", "server.host", "localhost;rm"},
		{"templates dir traversal", "templates.dir", "../../etc"},
		{"short session secret", "session.secret", "tooshort"},
		{"negative session max_age", "session.max_age", -5},
		{"static_dir traversal", "templates.static_dir", "../secrets"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			t.Cleanup(viper.Reset)

			viper.Set(tt.key, tt.val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
