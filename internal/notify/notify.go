// Package notify defines the user-feedback collaborators consumed by the
// form engine: fire-and-forget notifications and modal confirmation before
// destructive actions.
package notify

import (
	"context"
	"log/slog"

	"github.com/rcpilot/rcpilot/internal/events"
)

// Notifier surfaces one-shot feedback to the user.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// Confirmer asks the user to approve a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, title, message string) (bool, error)
}

// BusNotifier publishes notifications on the event bus so whichever surface
// is active (TUI toast, API SSE, log line) can render them.
type BusNotifier struct {
	bus *events.Bus
}

// NewBusNotifier creates a bus-backed notifier.
func NewBusNotifier(bus *events.Bus) *BusNotifier {
	return &BusNotifier{bus: bus}
}

// Success publishes a success notification.
func (n *BusNotifier) Success(message string) {
	n.bus.Publish(events.NewNotification("success", message))
}

// Error publishes an error notification.
func (n *BusNotifier) Error(message string) {
	n.bus.Publish(events.NewNotification("error", message))
}

// LogNotifier writes notifications to the logger. Used by the headless CLI
// commands where no interactive surface exists.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a logger-backed notifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Success logs at info level.
func (n *LogNotifier) Success(message string) {
	n.logger.Info(message)
}

// Error logs at error level.
func (n *LogNotifier) Error(message string) {
	n.logger.Error(message)
}

// AutoConfirmer approves everything. Used by CLI commands running with
// --yes and by tests.
type AutoConfirmer struct{}

// Confirm always returns true.
func (AutoConfirmer) Confirm(context.Context, string, string) (bool, error) {
	return true, nil
}
