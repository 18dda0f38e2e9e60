package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tcorea.dev/internal/catalog"
	"tcorea.dev/internal/config"
	"tcorea.dev/internal/handlers"
	"tcorea.dev/internal/logging"
	"tcorea.dev/internal/render"
	"tcorea.dev/internal/reveal"
	"tcorea.dev/internal/services"
)

// NewServeCommand creates the serve command.
func NewServeCommand(opts *RootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.ServerAddr = addr
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (default $SERVER_ADDR or :8080)")
	return cmd
}

func runServe(ctx context.Context, cfg *config.Config) error {
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	shared := catalog.NewShared(newSource(cfg), logger)
	if cfg.WatchData && cfg.DataURL == "" {
		watcher, err := catalog.NewWatcher(cfg.DataPath, shared.Invalidate, logger)
		if err != nil {
			logger.Warn("data file watching disabled", zap.Error(err))
		} else if err := watcher.Start(ctx); err != nil {
			logger.Warn("data file watching disabled", zap.Error(err))
			watcher.Stop()
		} else {
			defer watcher.Stop()
		}
	}

	rr, err := render.New()
	if err != nil {
		return err
	}

	r := cfg.Site.Reveal
	views := services.NewViewService(cfg.ViewTTL, logger,
		reveal.WithSizes(r.Initial, r.Step),
		reveal.WithSettle(r.Settle),
	)
	go views.Run(ctx)

	handler := handlers.SetupRoutes(&handlers.App{
		Site:      cfg.Site,
		Projects:  services.NewProjectService(shared, cfg.Site.Media),
		Views:     views,
		Renderer:  rr,
		DataPath:  cfg.DataPath,
		DataURL:   cfg.DataURL,
		MediaPath: cfg.MediaPath,
		About:     readAbout(cfg.Site.About, logger),
		Logger:    logger,
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", cfg.ServerAddr), zap.String("data", dataLocation(cfg)))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	views.Shutdown()
	return nil
}

func newSource(cfg *config.Config) catalog.Source {
	if cfg.DataURL != "" {
		return catalog.NewHTTPSource(cfg.DataURL, nil)
	}
	return catalog.NewFileSource(cfg.DataPath)
}

func dataLocation(cfg *config.Config) string {
	if cfg.DataURL != "" {
		return cfg.DataURL + catalog.DataPath
	}
	return cfg.DataPath
}

// readAbout loads the about page markdown; a missing file leaves the page empty
func readAbout(path string, logger *zap.Logger) string {
	if path == "" {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("about page content unavailable", zap.String("path", path), zap.Error(err))
		return ""
	}
	return string(data)
}
