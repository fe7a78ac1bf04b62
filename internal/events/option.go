package events

// Event type constants for configuration lifecycle events.
const (
	TypeCatalogLoaded    = "catalog.loaded"
	TypeOptionSaved      = "option.saved"
	TypeOptionRemoved    = "option.removed"
	TypeOptionSaveFailed = "option.save_failed"
	TypeResetDone        = "reset.done"
	TypeNotification     = "notification"
)

// CatalogLoadedEvent signals a completed catalog load or reload.
type CatalogLoadedEvent struct {
	BaseEvent
	Services int `json:"services"`
	Options  int `json:"options"`
}

// NewCatalogLoaded creates a catalog loaded event.
func NewCatalogLoaded(services, options int) CatalogLoadedEvent {
	return CatalogLoadedEvent{
		BaseEvent: NewBaseEvent(TypeCatalogLoaded),
		Services:  services,
		Options:   options,
	}
}

// OptionSavedEvent signals a persisted option override.
type OptionSavedEvent struct {
	BaseEvent
	Service  string `json:"service"`
	Field    string `json:"field"`
	Key      string `json:"key"`
	Value    string `json:"value"`
	Previous string `json:"previous"`
}

// NewOptionSaved creates an option saved event.
func NewOptionSaved(service, field, key, value, previous string) OptionSavedEvent {
	return OptionSavedEvent{
		BaseEvent: NewBaseEvent(TypeOptionSaved),
		Service:   service,
		Field:     field,
		Key:       key,
		Value:     value,
		Previous:  previous,
	}
}

// OptionRemovedEvent signals a deleted option override (value back at its
// default).
type OptionRemovedEvent struct {
	BaseEvent
	Service  string `json:"service"`
	Field    string `json:"field"`
	Key      string `json:"key"`
	Previous string `json:"previous"`
}

// NewOptionRemoved creates an option removed event.
func NewOptionRemoved(service, field, key, previous string) OptionRemovedEvent {
	return OptionRemovedEvent{
		BaseEvent: NewBaseEvent(TypeOptionRemoved),
		Service:   service,
		Field:     field,
		Key:       key,
		Previous:  previous,
	}
}

// OptionSaveFailedEvent signals a persistence failure. The control keeps the
// user's edits; this event only drives feedback.
type OptionSaveFailedEvent struct {
	BaseEvent
	Key    string `json:"key"`
	Reason string `json:"reason"`
}

// NewOptionSaveFailed creates a save failure event.
func NewOptionSaveFailed(key, reason string) OptionSaveFailedEvent {
	return OptionSaveFailedEvent{
		BaseEvent: NewBaseEvent(TypeOptionSaveFailed),
		Key:       key,
		Reason:    reason,
	}
}

// ResetDoneEvent signals that every override was deleted.
type ResetDoneEvent struct {
	BaseEvent
}

// NewResetDone creates a reset event.
func NewResetDone() ResetDoneEvent {
	return ResetDoneEvent{BaseEvent: NewBaseEvent(TypeResetDone)}
}

// NotificationEvent carries user-visible feedback.
type NotificationEvent struct {
	BaseEvent
	Level   string `json:"level"` // success or error
	Message string `json:"message"`
}

// NewNotification creates a notification event.
func NewNotification(level, message string) NotificationEvent {
	return NotificationEvent{
		BaseEvent: NewBaseEvent(TypeNotification),
		Level:     level,
		Message:   message,
	}
}
