package oaserrors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels matched by the typed errors through errors.Is.
var (
	ErrParse     = errors.New("parse error")
	ErrReference = errors.New("reference error")
	ErrExtension = errors.New("extension error")
	ErrConfig    = errors.New("configuration error")
)

// joinMessage renders "<head>: <message>: <cause>", skipping empty parts.
func joinMessage(head, message string, cause error) string {
	var b strings.Builder
	b.WriteString(head)
	if message != "" {
		b.WriteString(": ")
		b.WriteString(message)
	}
	if cause != nil {
		b.WriteString(": ")
		b.WriteString(cause.Error())
	}
	return b.String()
}

// ParseError reports a document that could not be loaded: unreadable input,
// invalid YAML or JSON, or a structure the model cannot hold.
type ParseError struct {
	// Path is the file path, URL or source name.
	Path string
	// Line and Column locate the failure when known (1-based, 0 if unknown).
	Line   int
	Column int

	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	head := "parse error"
	if e.Path != "" {
		head += " in " + e.Path
	}
	if e.Line > 0 {
		head += fmt.Sprintf(" at line %d", e.Line)
		if e.Column > 0 {
			head += fmt.Sprintf(", column %d", e.Column)
		}
	}
	return joinMessage(head, e.Message, e.Cause)
}

func (e *ParseError) Unwrap() error { return e.Cause }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// ReferenceError reports a $ref that does not resolve inside its document.
// The comparator treats it as soft: it stops descending into the subtree and
// logs the error at debug level.
type ReferenceError struct {
	Ref string
	// Document is the side the reference belongs to, "old" or "new".
	Document string
	Message  string
}

func (e *ReferenceError) Error() string {
	head := "reference error"
	if e.Document != "" {
		head += " in " + e.Document + " document"
	}
	if e.Ref != "" {
		head += ": " + e.Ref
	}
	return joinMessage(head, e.Message, nil)
}

func (e *ReferenceError) Is(target error) bool { return target == ErrReference }

// ExtensionError reports a vendor extension payload, such as x-ms-paths,
// that cannot be interpreted. It aborts the comparison with no partial
// result.
type ExtensionError struct {
	Extension string
	// Document is the side the extension belongs to, "old" or "new".
	Document string
	Message  string
	Cause    error
}

// Error returns the message prefixed with the document side. Without a
// message it falls back to naming the extension.
func (e *ExtensionError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "extension error"
		if e.Extension != "" {
			msg += ": " + e.Extension
		}
	}
	if e.Document != "" {
		msg = e.Document + " document: " + msg
	}
	return joinMessage(msg, "", e.Cause)
}

func (e *ExtensionError) Unwrap() error { return e.Cause }

func (e *ExtensionError) Is(target error) bool { return target == ErrExtension }

// ConfigError reports an invalid option: a missing or duplicated input
// source, an out of range value, or conflicting settings.
type ConfigError struct {
	Option string
	// Value is the rejected value, or nil.
	Value   any
	Message string
	Cause   error
}

func (e *ConfigError) Error() string {
	head := "configuration error"
	if e.Option != "" {
		head += " for " + e.Option
	}
	if e.Value != nil {
		head += fmt.Sprintf(" (value: %v)", e.Value)
	}
	return joinMessage(head, e.Message, e.Cause)
}

func (e *ConfigError) Unwrap() error { return e.Cause }

func (e *ConfigError) Is(target error) bool { return target == ErrConfig }
