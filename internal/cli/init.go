package cli

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vantage-web/vantage/internal/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Scaffold a vantage project in the current directory",
	Long: `Create a .vantage.yml configuration file with a freshly generated
session secret, and a templates directory with a starter base layout.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite existing files")
}

const baseTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>{{ block "title" . }}Vantage{{ end }}</title>
</head>
<body>
  {{ block "content" . }}{{ end }}
</body>
</html>
`

func runInit(cmd *cobra.Command, args []string) error {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return fmt.Errorf("generating session secret: %w", err)
	}

	cfg := config.Config{
		Server: config.ServerConfig{
			Host:        "localhost",
			Port:        8000,
			Environment: "development",
		},
		Templates: config.TemplatesConfig{
			Dir:      "templates",
			Partials: []string{"base.html"},
			Static:   "/static/",
		},
		Session: config.SessionConfig{
			Secret:     hex.EncodeToString(secret),
			CookieName: "vantage_session",
		},
		Development: config.DevelopmentConfig{
			HotReload: true,
			Debug:     true,
		},
	}

	out, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := writeFile(".vantage.yml", out); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Join("templates"), 0o755); err != nil {
		return fmt.Errorf("creating templates directory: %w", err)
	}
	if err := writeFile(filepath.Join("templates", "base.html"), []byte(baseTemplate)); err != nil {
		return err
	}

	fmt.Println("Initialized vantage project: .vantage.yml, templates/base.html")
	return nil
}

func writeFile(path string, data []byte) error {
	if !initForce {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
