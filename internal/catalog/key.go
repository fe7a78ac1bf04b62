package catalog

import (
	"fmt"
	"strings"
)

// keySep separates the parts of a composite control key. Option names can
// repeat across services, so controls are keyed by all three parts.
const keySep = "---"

// Key builds the composite control key for an option.
func Key(service, category, name string) string {
	return service + keySep + category + keySep + name
}

// ParseKey splits a composite key back into its parts.
func ParseKey(key string) (service, category, name string, err error) {
	parts := strings.SplitN(key, keySep, 3)
	if len(parts) != 3 || parts[0] == "" || parts[2] == "" {
		return "", "", "", fmt.Errorf("malformed option key %q", key)
	}
	return parts[0], parts[1], parts[2], nil
}
