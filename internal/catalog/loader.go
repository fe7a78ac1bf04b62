package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Source supplies raw option metadata from the sync engine.
type Source interface {
	// Services lists the configuration services (engine subsystems).
	Services(ctx context.Context) ([]string, error)
	// ServiceOptions returns all option descriptors of one service.
	ServiceOptions(ctx context.Context, service string) ([]OptionDescriptor, error)
}

// Notifier receives user-visible feedback about loads and saves.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// Loader fetches the grouped option catalog from a Source.
type Loader struct {
	source   Source
	notifier Notifier
	logger   *slog.Logger

	// Services are fetched concurrently; this caps the fan-out.
	maxParallel int
}

// LoaderOption configures the loader.
type LoaderOption func(*Loader)

// WithLogger sets the loader logger.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger
	}
}

// WithMaxParallel caps concurrent per-service fetches.
func WithMaxParallel(n int) LoaderOption {
	return func(l *Loader) {
		if n > 0 {
			l.maxParallel = n
		}
	}
}

// NewLoader creates a catalog loader.
func NewLoader(source Source, notifier Notifier, opts ...LoaderOption) *Loader {
	l := &Loader{
		source:      source,
		notifier:    notifier,
		logger:      slog.Default(),
		maxParallel: 4,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load fetches the full catalog, grouping each service's options by category.
// Any fetch error is surfaced once through the notifier and leaves the
// returned catalog empty; the caller stays in its unloaded state and may
// retry by calling Load again.
func (l *Loader) Load(ctx context.Context) (Grouped, error) {
	services, err := l.source.Services(ctx)
	if err != nil {
		l.logger.Error("listing services failed", "error", err)
		l.notifier.Error(fmt.Sprintf("Could not load configuration: %v", err))
		return Grouped{}, fmt.Errorf("listing services: %w", err)
	}

	var mu sync.Mutex
	grouped := make(Grouped, len(services))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.maxParallel)
	for _, service := range services {
		g.Go(func() error {
			opts, err := l.source.ServiceOptions(gctx, service)
			if err != nil {
				return fmt.Errorf("fetching options for %s: %w", service, err)
			}
			mu.Lock()
			grouped[service] = groupByCategory(opts)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		l.logger.Error("catalog load failed", "error", err)
		l.notifier.Error(fmt.Sprintf("Could not load configuration: %v", err))
		return Grouped{}, err
	}

	l.logger.Debug("catalog loaded", "services", len(grouped), "options", grouped.Len())
	return grouped, nil
}

func groupByCategory(opts []OptionDescriptor) map[string][]OptionDescriptor {
	byCat := make(map[string][]OptionDescriptor)
	for _, d := range opts {
		cat := d.Category()
		byCat[cat] = append(byCat[cat], d)
	}
	for _, list := range byCat {
		sort.SliceStable(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	}
	return byCat
}
