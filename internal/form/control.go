// Package form builds one editable control per catalog descriptor and
// persists committed values back to the sync engine.
package form

import (
	"strings"

	"github.com/rcpilot/rcpilot/internal/catalog"
	"github.com/rcpilot/rcpilot/internal/validate"
)

// ValueKind is the shape of a control's value.
type ValueKind int

const (
	KindString ValueKind = iota
	KindBool
	KindList
)

// Value is the typed value held by a control: a boolean for bool options,
// a string slice for list-shaped options, a string for everything else.
type Value struct {
	kind ValueKind
	str  string
	b    bool
	list []string
}

// StringValue wraps a plain string value.
func StringValue(s string) Value { return Value{kind: KindString, str: s} }

// BoolValue wraps a boolean value.
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }

// ListValue wraps a list value.
func ListValue(items []string) Value { return Value{kind: KindList, list: items} }

// Kind returns the value shape.
func (v Value) Kind() ValueKind { return v.kind }

// Bool returns the boolean payload.
func (v Value) Bool() bool { return v.b }

// List returns the list payload.
func (v Value) List() []string { return v.list }

// Raw renders the value in the string form the validators check: lists are
// comma-joined, booleans render as "true"/"false".
func (v Value) Raw() string {
	switch v.kind {
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindList:
		return strings.Join(v.list, ",")
	default:
		return v.str
	}
}

// Payload returns the value in the shape the persistence collaborator
// expects: bool, []string or string.
func (v Value) Payload() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindList:
		return v.list
	default:
		return v.str
	}
}

// normalized returns a copy with empty list entries dropped. Scalar values
// are returned unchanged.
func (v Value) normalized() Value {
	if v.kind != KindList {
		return v
	}
	kept := make([]string, 0, len(v.list))
	for _, item := range v.list {
		if strings.TrimSpace(item) != "" {
			kept = append(kept, item)
		}
	}
	return Value{kind: KindList, list: kept}
}

func (v Value) equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindBool:
		return v.b == other.b
	case KindList:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if v.list[i] != other.list[i] {
				return false
			}
		}
		return true
	default:
		return v.str == other.str
	}
}

// Control is the mutable edit state bound to one descriptor. Exactly one
// control exists per descriptor; the composite key disambiguates options
// sharing a name across services.
type Control struct {
	Key        string
	Descriptor catalog.OptionDescriptor

	value    Value
	initial  Value
	disabled bool
	rules    []validate.Rule
}

func newControl(key string, d catalog.OptionDescriptor) *Control {
	v := initialValue(d)
	return &Control{
		Key:        key,
		Descriptor: d,
		value:      v,
		initial:    v,
		rules:      validate.ForDescriptor(d),
	}
}

// initialValue coerces the descriptor's current value into the control
// shape: boolean strings become booleans, list-like values become slices.
func initialValue(d catalog.OptionDescriptor) Value {
	raw := d.ValueStr
	switch {
	case d.Type == catalog.TypeBool:
		return BoolValue(strings.EqualFold(strings.TrimSpace(raw), "true"))
	case d.Type == catalog.TypeStringArray:
		return ListValue(splitNonEmpty(raw, ","))
	case d.Type == catalog.TypeSpaceSepLst:
		return ListValue(strings.Fields(raw))
	default:
		return StringValue(raw)
	}
}

func splitNonEmpty(raw, sep string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, sep)
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			items = append(items, t)
		}
	}
	return items
}

// Value returns the current value.
func (c *Control) Value() Value { return c.value }

// Set replaces the value from raw text, coercing to the control's shape.
// Callers outside the engine go through Engine.SetValue so edits
// synchronize with in-flight saves.
func (c *Control) Set(raw string) {
	switch c.value.kind {
	case KindBool:
		c.value = BoolValue(strings.EqualFold(strings.TrimSpace(raw), "true"))
	case KindList:
		if c.Descriptor.Type == catalog.TypeSpaceSepLst {
			c.value = ListValue(strings.Fields(raw))
		} else {
			c.value = ListValue(splitNonEmpty(raw, ","))
		}
	default:
		c.value = StringValue(raw)
	}
}

// SetBool replaces a boolean value directly.
func (c *Control) SetBool(b bool) { c.value = BoolValue(b) }

// SetList replaces a list value directly.
func (c *Control) SetList(items []string) { c.value = ListValue(items) }

// Dirty reports whether the value differs from the last committed one.
func (c *Control) Dirty() bool { return !c.value.equal(c.initial) }

// Disabled reports whether the control is locked by an in-flight save.
func (c *Control) Disabled() bool { return c.disabled }

// Issue runs the validators and returns the highest-priority failure, or
// nil when the value is acceptable.
func (c *Control) Issue() *validate.Issue {
	return validate.Evaluate(c.rules, c.value.Raw())
}

// Valid reports whether the current value passes all validators.
func (c *Control) Valid() bool { return c.Issue() == nil }

// markPristine records the current value as committed.
func (c *Control) markPristine() { c.initial = c.value }

// Revert discards the user's edits and restores the committed value.
func (c *Control) Revert() { c.value = c.initial }
