// Package severity provides the severity scales used by the comparator.
//
// Three scales exist:
//   - RuleSeverity: the base severity carried by a comparison rule
//     (Info, Warning, Breaking, Error)
//   - Severity: the severity exposed on a finding (Info, Warning, Error).
//     Breaking is never exposed; it is resolved at emission time.
//   - ChangeLevel: the aggregate verdict of a comparison (None, Info, Warning, Error)
//
// Each scale is ordered from least to most severe so that values can be
// compared with the usual operators.
package severity

import "fmt"

// RuleSeverity is the base severity attached to a comparison rule.
type RuleSeverity int

const (
	// RuleInfo marks a difference that is worth knowing about but harmless.
	RuleInfo RuleSeverity = iota
	// RuleWarning marks a difference that may affect some clients.
	RuleWarning
	// RuleBreaking marks a difference that breaks clients built against the old version.
	// It resolves to Warning or Error depending on strict mode.
	RuleBreaking
	// RuleError marks a difference that is always reported as an error.
	RuleError
)

// String returns the lowercase name of the rule severity.
func (s RuleSeverity) String() string {
	switch s {
	case RuleInfo:
		return "info"
	case RuleWarning:
		return "warning"
	case RuleBreaking:
		return "breaking"
	case RuleError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s RuleSeverity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Severity is the resolved severity of a finding.
type Severity int

const (
	// SeverityInfo indicates an informational finding.
	SeverityInfo Severity = iota
	// SeverityWarning indicates a potentially problematic finding.
	SeverityWarning
	// SeverityError indicates a breaking finding.
	SeverityError
)

// String returns the lowercase name of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	switch string(text) {
	case "info":
		*s = SeverityInfo
	case "warning":
		*s = SeverityWarning
	case "error":
		*s = SeverityError
	default:
		return fmt.Errorf("severity: unknown value %q", text)
	}
	return nil
}

// Resolve maps a rule's base severity to the severity exposed on a finding.
// Breaking becomes Error in strict mode and Warning otherwise; every other
// value passes through unchanged.
func Resolve(base RuleSeverity, strict bool) Severity {
	switch base {
	case RuleInfo:
		return SeverityInfo
	case RuleWarning:
		return SeverityWarning
	case RuleBreaking:
		if strict {
			return SeverityError
		}
		return SeverityWarning
	default:
		return SeverityError
	}
}

// ChangeLevel is the aggregate verdict of a comparison.
type ChangeLevel int

const (
	// LevelNone means no finding was produced.
	LevelNone ChangeLevel = iota
	// LevelInfo means the most severe finding is informational.
	LevelInfo
	// LevelWarning means the most severe finding is a warning.
	LevelWarning
	// LevelError means at least one finding is an error.
	LevelError
)

// String returns the lowercase name of the change level.
func (l ChangeLevel) String() string {
	switch l {
	case LevelNone:
		return "none"
	case LevelInfo:
		return "info"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (l ChangeLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// ParseChangeLevel parses a lowercase change level name.
func ParseChangeLevel(s string) (ChangeLevel, error) {
	switch s {
	case "none":
		return LevelNone, nil
	case "info":
		return LevelInfo, nil
	case "warning":
		return LevelWarning, nil
	case "error":
		return LevelError, nil
	default:
		return LevelNone, fmt.Errorf("severity: unknown change level %q", s)
	}
}

// LevelOf returns the change level a single finding of severity s contributes.
func LevelOf(s Severity) ChangeLevel {
	switch s {
	case SeverityInfo:
		return LevelInfo
	case SeverityWarning:
		return LevelWarning
	default:
		return LevelError
	}
}
