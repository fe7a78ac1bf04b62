// Package validate holds the string-format checkers applied to option values
// before they are persisted. Every rule is a pure function over the raw
// string; absence is handled separately by the required rule, so an empty
// value always passes the format rules.
package validate

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Kind identifies which rule rejected a value.
type Kind string

const (
	KindRequired   Kind = "required"
	KindInteger    Kind = "integer"
	KindFloat      Kind = "float"
	KindDuration   Kind = "duration"
	KindSizeSuffix Kind = "size_suffix"
	KindBandwidth  Kind = "bandwidth"
	KindFileMode   Kind = "file_mode"
	KindTime       Kind = "time"
	KindList       Kind = "list"
	KindFlags      Kind = "flags"
	KindEnum       Kind = "enum"
	KindInvalid    Kind = "invalid"
)

// Issue describes one failed rule.
type Issue struct {
	Kind    Kind
	Message string
}

func (i *Issue) Error() string {
	if i == nil {
		return ""
	}
	return i.Message
}

// Rule checks one raw value. A nil result means the value is acceptable.
type Rule func(raw string) *Issue

var (
	integerRe  = regexp.MustCompile(`^-?\d+$`)
	floatRe    = regexp.MustCompile(`^-?\d+(\.\d+)?$`)
	durationRe = regexp.MustCompile(`^(\d+(\.\d+)?(ns|us|µs|ms|s|m|h))+$`)
	sizeRe     = regexp.MustCompile(`^\d+(\.\d+)?(b|B|k|K|Ki|M|Mi|G|Gi|T|Ti|P|Pi|E|Ei)?$`)
	bwSimpleRe = regexp.MustCompile(`^(off|\d+(\.\d+)?[BKMGTP]?)$`)
	fileModeRe = regexp.MustCompile(`^[0-7]{3,4}$`)
	isoTimeRe  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}(:\d{2}(\.\d+)?)?([+-]\d{2}:\d{2}|Z)?$`)
	flagsRe    = regexp.MustCompile(`^[A-Za-z0-9_-]+(,[A-Za-z0-9_-]+)*$`)
)

// Required rejects values that are empty or entirely whitespace.
func Required() Rule {
	return func(raw string) *Issue {
		if strings.TrimSpace(raw) == "" {
			return &Issue{Kind: KindRequired, Message: "A value is required"}
		}
		return nil
	}
}

// Integer accepts optionally signed decimal integers.
func Integer() Rule {
	return regexRule(integerRe, KindInteger, "Must be a whole number")
}

// Float accepts optionally signed decimals.
func Float() Rule {
	return regexRule(floatRe, KindFloat, "Must be a number")
}

// Duration accepts Go-style durations such as "1h30m" or "500ms".
func Duration() Rule {
	return regexRule(durationRe, KindDuration, "Must be a duration like 1h30m or 500ms")
}

// SizeSuffix accepts byte sizes with an optional binary or decimal suffix,
// such as "16Mi", "2.5G" or a bare number of bytes.
func SizeSuffix() Rule {
	return regexRule(sizeRe, KindSizeSuffix, "Must be a size like 16Mi, 2.5G or 100")
}

// Bandwidth accepts a simple rate such as "10M". Timetable syntax (entries
// separated by spaces with day/time prefixes) contains ',', '-' or ':' and
// is passed through unvalidated; the engine parses the full grammar.
func Bandwidth() Rule {
	return func(raw string) *Issue {
		v := strings.TrimSpace(raw)
		if v == "" {
			return nil
		}
		if strings.ContainsAny(v, ",-:") {
			return nil
		}
		if !bwSimpleRe.MatchString(v) {
			return &Issue{Kind: KindBandwidth, Message: "Must be a rate like 10M or off"}
		}
		return nil
	}
}

// FileMode accepts three or four octal digits.
func FileMode() Rule {
	return regexRule(fileModeRe, KindFileMode, "Must be an octal mode like 0644")
}

// Timestamp accepts ISO-8601 timestamps, falling back to the formats the
// standard library can parse when the strict pattern misses.
func Timestamp() Rule {
	return func(raw string) *Issue {
		v := strings.TrimSpace(raw)
		if v == "" {
			return nil
		}
		if isoTimeRe.MatchString(v) {
			return nil
		}
		for _, layout := range []string{time.RFC3339, "2006-01-02", "2006-01-02 15:04:05"} {
			if _, err := time.Parse(layout, v); err == nil {
				return nil
			}
		}
		return &Issue{Kind: KindTime, Message: "Must be a time like 2006-01-02T15:04:05Z"}
	}
}

// SpaceList rejects values that are non-empty but contain only whitespace.
func SpaceList() Rule {
	return func(raw string) *Issue {
		if raw != "" && strings.TrimSpace(raw) == "" {
			return &Issue{Kind: KindList, Message: "Must contain at least one entry"}
		}
		return nil
	}
}

// Flags accepts comma-separated flag names made of letters, digits,
// underscore and dash.
func Flags() Rule {
	return func(raw string) *Issue {
		v := strings.TrimSpace(raw)
		if v == "" {
			return nil
		}
		if !flagsRe.MatchString(v) {
			return &Issue{Kind: KindFlags, Message: "Must be comma-separated flag names"}
		}
		return nil
	}
}

// Enum accepts values that match one of the allowed choices, ignoring case.
func Enum(choices []string) Rule {
	return func(raw string) *Issue {
		v := strings.TrimSpace(raw)
		if v == "" {
			return nil
		}
		for _, c := range choices {
			if strings.EqualFold(v, c) {
				return nil
			}
		}
		return &Issue{
			Kind:    KindEnum,
			Message: fmt.Sprintf("Must be one of: %s", strings.Join(choices, ", ")),
		}
	}
}

func regexRule(re *regexp.Regexp, kind Kind, message string) Rule {
	return func(raw string) *Issue {
		v := strings.TrimSpace(raw)
		if v == "" {
			return nil
		}
		if !re.MatchString(v) {
			return &Issue{Kind: kind, Message: message}
		}
		return nil
	}
}
