package validate

import (
	"github.com/rcpilot/rcpilot/internal/catalog"
)

// ruleFor maps a descriptor type tag to the rule constructor handling it.
// New option types get an entry here rather than a branch at a call site.
var ruleFor = map[catalog.TypeTag]func(d catalog.OptionDescriptor) Rule{
	catalog.TypeInt:         func(catalog.OptionDescriptor) Rule { return Integer() },
	catalog.TypeInt64:       func(catalog.OptionDescriptor) Rule { return Integer() },
	catalog.TypeUint32:      func(catalog.OptionDescriptor) Rule { return Integer() },
	catalog.TypeFloat64:     func(catalog.OptionDescriptor) Rule { return Float() },
	catalog.TypeDuration:    func(catalog.OptionDescriptor) Rule { return Duration() },
	catalog.TypeSizeSuffix:  func(catalog.OptionDescriptor) Rule { return SizeSuffix() },
	catalog.TypeBwTimetable: func(catalog.OptionDescriptor) Rule { return Bandwidth() },
	catalog.TypeFileMode:    func(catalog.OptionDescriptor) Rule { return FileMode() },
	catalog.TypeTime:        func(catalog.OptionDescriptor) Rule { return Timestamp() },
	catalog.TypeSpaceSepLst: func(catalog.OptionDescriptor) Rule { return SpaceList() },
	catalog.TypeBits:        func(catalog.OptionDescriptor) Rule { return Flags() },
}

// ForDescriptor builds the rule chain for one descriptor: the optional
// required rule, the type-specific format rule, and the enum membership
// rule when the descriptor declares allowed values.
//
// Two global policies apply to every format rule (not to required):
// an empty value always passes, and a value equal to the declared default
// (ignoring case) always passes even when it fails the format pattern, so
// backend-supplied defaults that predate the pattern never trap the user.
func ForDescriptor(d catalog.OptionDescriptor) []Rule {
	var rules []Rule
	if d.Required {
		rules = append(rules, Required())
	}
	if ctor, ok := ruleFor[d.Type]; ok {
		rules = append(rules, defaultPass(d, ctor(d)))
	}
	if d.IsEnum() {
		choices := make([]string, 0, len(d.Examples))
		for _, ex := range d.Examples {
			choices = append(choices, ex.Value)
		}
		rules = append(rules, defaultPass(d, Enum(choices)))
	}
	return rules
}

// Evaluate runs the rule chain and returns the first issue by fixed
// priority: required beats every format issue, format beats enum, and
// anything unrecognized collapses to a generic invalid issue.
func Evaluate(rules []Rule, raw string) *Issue {
	var firstFormat, firstEnum, firstOther *Issue
	for _, rule := range rules {
		issue := rule(raw)
		if issue == nil {
			continue
		}
		switch issue.Kind {
		case KindRequired:
			return issue
		case KindEnum:
			if firstEnum == nil {
				firstEnum = issue
			}
		case KindInteger, KindFloat, KindDuration, KindSizeSuffix,
			KindBandwidth, KindFileMode, KindTime, KindList, KindFlags:
			if firstFormat == nil {
				firstFormat = issue
			}
		default:
			if firstOther == nil {
				firstOther = issue
			}
		}
	}
	if firstFormat != nil {
		return firstFormat
	}
	if firstEnum != nil {
		return firstEnum
	}
	if firstOther != nil {
		return &Issue{Kind: KindInvalid, Message: "Invalid value"}
	}
	return nil
}

func defaultPass(d catalog.OptionDescriptor, rule Rule) Rule {
	return func(raw string) *Issue {
		if d.DefaultStr != "" && d.IsDefault(raw) {
			return nil
		}
		return rule(raw)
	}
}
