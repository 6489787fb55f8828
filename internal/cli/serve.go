package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vantage-web/vantage/examples/forum"
	"github.com/vantage-web/vantage/internal/config"
	"github.com/vantage-web/vantage/internal/livereload"
	"github.com/vantage-web/vantage/internal/middleware"
	"github.com/vantage-web/vantage/internal/server"
	"github.com/vantage-web/vantage/internal/watcher"
)

const watchDebounce = 300 * time.Millisecond

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the development server with live reload",
	Long: `Start the development server for the bundled forum application.

With hot reload enabled (the default in the development environment),
template edits invalidate the render cache and connected browsers reload
automatically.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 8000, "Port to serve on")
	serveCmd.Flags().String("host", "localhost", "Host to bind to")
	serveCmd.Flags().String("templates", "", "Templates directory (defaults to the embedded forum templates)")
	serveCmd.Flags().String("static", "", "Directory to serve under the static URL prefix")

	bindFlags(serveCmd.Flags(), map[string]string{
		"server.port":          "port",
		"server.host":          "host",
		"templates.dir":        "templates",
		"templates.static_dir": "static",
	})
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := newLogger()
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	templatesDir := ""
	if viper.IsSet("templates.dir") && viper.GetString("templates.dir") != "" {
		templatesDir = cfg.Templates.Dir
	}

	app, err := forum.NewApp(forum.Options{
		TemplatesDir:      templatesDir,
		SessionSecret:     cfg.Session.Secret,
		SessionCookieName: cfg.Session.CookieName,
		SessionMaxAge:     cfg.Session.MaxAge,
		SessionSecure:     cfg.Session.Secure,
		Debug:             cfg.Development.Debug,
		HotReload:         cfg.Development.HotReload,
		Logger:            logger,
	})
	if err != nil {
		return fmt.Errorf("failed to build application: %w", err)
	}

	var hub *livereload.Hub
	chain := middleware.NewChain(
		middleware.RequestLogging(logger),
		middleware.Recovery(logger),
		middleware.Tracing("vantage"),
		middleware.CORS(cfg.Server.AllowedOrigins),
	)

	if cfg.Development.HotReload {
		hub = livereload.NewHub(logger, cfg.Server.AllowedOrigins)
		defer hub.Close()
		chain.Use(middleware.ScriptInjector(livereload.ScriptFor(server.ReloadPath)))

		if templatesDir != "" {
			fw, err := watcher.NewFileWatcher(watchDebounce)
			if err != nil {
				return fmt.Errorf("failed to create file watcher: %w", err)
			}
			fw.AddFilter(watcher.ExtFilter(".html", ".tmpl"))
			fw.AddHandler(func(events []watcher.ChangeEvent) {
				logger.Info(ctx, "templates changed", "count", len(events))
				if t := app.Templates(); t != nil {
					t.Invalidate()
				}
				hub.NotifyReload()
			})
			if err := fw.AddRecursive(templatesDir); err != nil {
				return fmt.Errorf("failed to watch %s: %w", templatesDir, err)
			}
			fw.Start(ctx)
		}
	}

	srv, err := server.New(cfg, server.Options{
		App:       app,
		Hub:       hub,
		StaticDir: cfg.Templates.StaticDir,
	}, chain)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info(ctx, "shutting down")
		cancel()
	}()

	fmt.Printf("Starting vantage server at http://%s:%d\n", cfg.Server.Host, cfg.Server.Port)
	return srv.Start(ctx)
}
