// Package catalog defines the option metadata model reported by the sync
// engine and the loader that fetches it.
package catalog

import (
	"sort"
	"strings"
)

// TypeTag identifies the value type of an option as reported by the backend.
type TypeTag string

// Known type tags. Anything else is treated as a free-form string.
const (
	TypeBool        TypeTag = "bool"
	TypeInt         TypeTag = "int"
	TypeInt64       TypeTag = "int64"
	TypeUint32      TypeTag = "uint32"
	TypeFloat64     TypeTag = "float64"
	TypeString      TypeTag = "string"
	TypeDuration    TypeTag = "Duration"
	TypeSizeSuffix  TypeTag = "SizeSuffix"
	TypeBwTimetable TypeTag = "BwTimetable"
	TypeFileMode    TypeTag = "FileMode"
	TypeTime        TypeTag = "Time"
	TypeSpaceSepLst TypeTag = "SpaceSepList"
	TypeBits        TypeTag = "Bits"
	TypeStringArray TypeTag = "stringArray"
	TypeCacheMode   TypeTag = "CacheMode"
)

// Example is one allowed value for an enum-like option.
type Example struct {
	Value string `json:"Value"`
	Help  string `json:"Help,omitempty"`
}

// OptionDescriptor is one configuration field as reported by the backend.
// Descriptors are immutable for the lifetime of a catalog load; the live
// edited value lives in the bound form control, not here.
type OptionDescriptor struct {
	Name       string    `json:"Name"`
	FieldName  string    `json:"FieldName"`
	Help       string    `json:"Help"`
	Groups     string    `json:"Groups,omitempty"`
	Type       TypeTag   `json:"Type"`
	Value      any       `json:"Value"`
	ValueStr   string    `json:"ValueStr"`
	Default    any       `json:"Default"`
	DefaultStr string    `json:"DefaultStr"`
	Required   bool      `json:"Required"`
	Advanced   bool      `json:"Advanced"`
	Sensitive  bool      `json:"Sensitive"`
	IsPassword bool      `json:"IsPassword"`
	Examples   []Example `json:"Examples,omitempty"`
}

// SaveKey returns the key under which the option is persisted. FieldName
// overrides Name when the backend stores the option under a different key.
func (d OptionDescriptor) SaveKey() string {
	if d.FieldName != "" {
		return d.FieldName
	}
	return d.Name
}

// IsEnum reports whether the descriptor restricts values to its examples.
func (d OptionDescriptor) IsEnum() bool {
	return len(d.Examples) > 0
}

// IsList reports whether the descriptor's value is list-shaped.
func (d OptionDescriptor) IsList() bool {
	return d.Type == TypeStringArray || d.Type == TypeSpaceSepLst
}

// IsDefault reports whether raw equals the declared default, ignoring case.
func (d OptionDescriptor) IsDefault(raw string) bool {
	return strings.EqualFold(strings.TrimSpace(raw), strings.TrimSpace(d.DefaultStr))
}

// Category returns the presentation category for the option. Options carry
// zero or more comma-separated group names; the first one names the page the
// option appears on.
func (d OptionDescriptor) Category() string {
	if d.Groups == "" {
		return "General"
	}
	if i := strings.IndexByte(d.Groups, ','); i >= 0 {
		return strings.TrimSpace(d.Groups[:i])
	}
	return strings.TrimSpace(d.Groups)
}

// Grouped is the full catalog: service name to category to descriptors.
type Grouped map[string]map[string][]OptionDescriptor

// Services returns the service names in sorted order.
func (g Grouped) Services() []string {
	return sortedKeys(g)
}

// Categories returns the category names of one service in sorted order.
func (g Grouped) Categories(service string) []string {
	return sortedKeys(g[service])
}

// Find locates a descriptor by service, category and option name.
func (g Grouped) Find(service, category, name string) (OptionDescriptor, bool) {
	for _, d := range g[service][category] {
		if d.Name == name {
			return d, true
		}
	}
	return OptionDescriptor{}, false
}

// Len returns the total number of descriptors in the catalog.
func (g Grouped) Len() int {
	n := 0
	for _, cats := range g {
		for _, opts := range cats {
			n += len(opts)
		}
	}
	return n
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
