package config

// Defaults returns every configuration key with its default value.
func Defaults() map[string]any {
	return map[string]any{
		"log.level":  "info",
		"log.format": "auto",

		"remote.url":      "http://localhost:5572",
		"remote.username": "",
		"remote.password": "",
		"remote.timeout":  "30s",

		"state.dir": ".rcpilot",

		"search.debounce_ms": 250,
		"search.window_size": 20,

		"api.enabled": false,
		"api.listen":  "127.0.0.1:5573",
	}
}
