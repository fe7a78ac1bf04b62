package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/rcpilot/rcpilot/internal/catalog"
	"github.com/rcpilot/rcpilot/internal/config"
	"github.com/rcpilot/rcpilot/internal/events"
	"github.com/rcpilot/rcpilot/internal/form"
	"github.com/rcpilot/rcpilot/internal/history"
	"github.com/rcpilot/rcpilot/internal/logging"
	"github.com/rcpilot/rcpilot/internal/notify"
	"github.com/rcpilot/rcpilot/internal/rc"
	"github.com/rcpilot/rcpilot/internal/store"
)

// app bundles the wired collaborators every command builds on.
type app struct {
	cfg       *config.Config
	logger    *logging.Logger
	client    *rc.Client
	overrides *store.Overrides
	persister *rc.Persister
	bus       *events.Bus
	notifier  notify.Notifier
	loader    *catalog.Loader
	engine    *form.Engine
	hist      *history.Store
	recorder  *history.Recorder

	cancelRecorder context.CancelFunc
}

// buildApp loads configuration and wires the engine stack. withHistory
// additionally opens the change log and starts its recorder.
func buildApp(withHistory bool) (*app, error) {
	cfg, err := config.NewLoaderWithViper(viper.GetViper()).WithConfigFile(cfgFile).Load()
	if err != nil {
		return nil, err
	}

	logger := logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	client := rc.NewClient(rc.ClientConfig{
		URL:      cfg.Remote.URL,
		Username: cfg.Remote.Username,
		Password: cfg.Remote.Password,
		Timeout:  cfg.Remote.Timeout,
	})

	overrides, err := store.Open(filepath.Join(cfg.State.Dir, "overrides.json"))
	if err != nil {
		return nil, fmt.Errorf("opening override store: %w", err)
	}

	bus := events.New(64)
	notifier := notify.NewBusNotifier(bus)
	persister := rc.NewPersister(client, overrides)
	loader := catalog.NewLoader(client, notifier, catalog.WithLogger(logger.Logger))
	engine := form.NewEngine(persister, notifier, bus, form.WithLogger(logger.Logger))

	a := &app{
		cfg:       cfg,
		logger:    logger,
		client:    client,
		overrides: overrides,
		persister: persister,
		bus:       bus,
		notifier:  notifier,
		loader:    loader,
		engine:    engine,
	}

	if withHistory {
		hist, err := history.Open(filepath.Join(cfg.State.Dir, "history.db"))
		if err != nil {
			return nil, fmt.Errorf("opening change history: %w", err)
		}
		a.hist = hist

		ctx, cancel := context.WithCancel(context.Background())
		a.cancelRecorder = cancel
		ch := bus.Subscribe(events.TypeOptionSaved, events.TypeOptionRemoved, events.TypeResetDone)
		a.recorder = history.NewRecorder(hist, nil, logger.Logger)
		go a.recorder.Run(ctx, ch)
	}

	return a, nil
}

// loadCatalog fetches the catalog and primes the engine and persister.
func (a *app) loadCatalog(ctx context.Context) (catalog.Grouped, error) {
	grouped, err := a.loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	a.persister.SetDefaults(grouped)
	a.engine.Rebuild(grouped)
	if a.recorder != nil {
		a.recorder.SetSensitive(history.DescriptorSensitivity(grouped))
	}
	return grouped, nil
}

// Close releases app resources.
func (a *app) Close() {
	if a.cancelRecorder != nil {
		a.cancelRecorder()
	}
	if a.hist != nil {
		_ = a.hist.Close()
	}
	a.bus.Close()
}
