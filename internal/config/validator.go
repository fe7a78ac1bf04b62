package config

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config validation: %s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors collects multiple validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// HasErrors returns true if there are any validation errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// Validator validates configuration.
type Validator struct {
	errors ValidationErrors
}

// NewValidator creates a new validator.
func NewValidator() *Validator {
	return &Validator{errors: make(ValidationErrors, 0)}
}

// Validate validates the entire configuration.
func (v *Validator) Validate(cfg *Config) error {
	v.validateLog(&cfg.Log)
	v.validateRemote(&cfg.Remote)
	v.validateState(&cfg.State)
	v.validateSearch(&cfg.Search)
	v.validateAPI(&cfg.API)

	if len(v.errors) > 0 {
		return v.errors
	}
	return nil
}

// Errors returns the collected validation errors.
func (v *Validator) Errors() ValidationErrors {
	return v.errors
}

func (v *Validator) addError(field string, value interface{}, msg string) {
	v.errors = append(v.errors, ValidationError{Field: field, Value: value, Message: msg})
}

func (v *Validator) validateLog(cfg *LogConfig) {
	switch cfg.Level {
	case "debug", "info", "warn", "error":
	default:
		v.addError("log.level", cfg.Level, "must be one of: debug, info, warn, error")
	}
	switch cfg.Format {
	case "auto", "text", "json":
	default:
		v.addError("log.format", cfg.Format, "must be one of: auto, text, json")
	}
}

func (v *Validator) validateRemote(cfg *RemoteConfig) {
	if cfg.URL == "" {
		v.addError("remote.url", cfg.URL, "must not be empty")
		return
	}
	u, err := url.Parse(cfg.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		v.addError("remote.url", cfg.URL, "must be an http(s) URL")
	}
	if cfg.Timeout <= 0 {
		v.addError("remote.timeout", cfg.Timeout, "must be positive")
	}
	if cfg.Password != "" && cfg.Username == "" {
		v.addError("remote.username", cfg.Username, "must be set when a password is configured")
	}
}

func (v *Validator) validateState(cfg *StateConfig) {
	if cfg.Dir == "" {
		v.addError("state.dir", cfg.Dir, "must not be empty")
	}
}

func (v *Validator) validateSearch(cfg *SearchConfig) {
	if cfg.DebounceMS < 0 {
		v.addError("search.debounce_ms", cfg.DebounceMS, "must not be negative")
	}
	if cfg.WindowSize <= 0 {
		v.addError("search.window_size", cfg.WindowSize, "must be positive")
	}
}

func (v *Validator) validateAPI(cfg *APIConfig) {
	if !cfg.Enabled {
		return
	}
	if cfg.Listen == "" {
		v.addError("api.listen", cfg.Listen, "must not be empty when the API is enabled")
	}
}
