package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rcpilot/rcpilot/internal/api"
	"github.com/rcpilot/rcpilot/internal/watch"
)

var serveListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the settings panel as an HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "listen address (overrides api.listen)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	app, err := buildApp(true)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if _, err := app.loadCatalog(ctx); err != nil {
		return err
	}

	listen := app.cfg.API.Listen
	if serveListen != "" {
		listen = serveListen
	}

	server := api.NewServer(app.engine, app.loader,
		api.WithLogger(app.logger.Logger),
		api.WithHistory(app.hist),
		api.WithReload(func(r *http.Request) error {
			_, err := app.loadCatalog(r.Context())
			return err
		}),
	)

	httpServer := &http.Server{
		Addr:              listen,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		app.logger.Info("api listening", "addr", listen)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Reload the catalog when the override file changes on disk, so edits
	// made by another rcpilot process show up without a restart.
	overridePath := filepath.Join(app.cfg.State.Dir, "overrides.json")
	g.Go(func() error {
		return watch.File(ctx, overridePath, app.logger.Logger, func() {
			reloadCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if _, err := app.loadCatalog(reloadCtx); err != nil {
				app.logger.Warn("catalog reload after override change failed", "error", err)
			}
		})
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
