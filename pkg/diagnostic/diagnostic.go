// Package diagnostic accumulates the recoverable findings of an analysis
// run. Analysis never aborts on a single node; it records a diagnostic,
// applies a best-effort classification and keeps going.
package diagnostic

import (
	"fmt"

	"gitlab.com/tozd/go/errors"
	"go.uber.org/multierr"

	"github.com/walteh/go-svelte-analyzer/pkg/span"
)

// Code identifies the diagnostic taxonomy entry.
type Code string

const (
	// DuplicateBinding: a name declared twice in the same lexical scope
	// with incompatible kinds.
	DuplicateBinding Code = "duplicate-binding"
	// UnresolvedGroupBinding: a bind: member path that cannot be traced to
	// any declared binding.
	UnresolvedGroupBinding Code = "unresolved-group-binding"
	// NamespaceConflict: an element whose tag is incompatible with its
	// resolved ancestor namespace.
	NamespaceConflict Code = "namespace-conflict"
	// InternalError: structural tree corruption; a collaborator contract
	// violation, not a user input issue.
	InternalError Code = "internal-error"
)

// Severity is the severity level of a diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityHint    Severity = "hint"
)

// Diagnostic is a single finding.
type Diagnostic struct {
	Code     Code
	Message  string
	Span     span.Span
	Severity Severity
	// Related points at the other site involved, e.g. the first
	// declaration of a duplicated name.
	Related *span.Span
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s (%s)", d.Code, d.Message, d.Span)
}

// List accumulates diagnostics for one analysis run.
type List struct {
	Diagnostics []Diagnostic
}

func NewList() *List {
	return &List{Diagnostics: make([]Diagnostic, 0)}
}

func (l *List) add(code Code, sev Severity, loc span.Span, related *span.Span, format string, args ...any) {
	l.Diagnostics = append(l.Diagnostics, Diagnostic{
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Span:     loc,
		Severity: sev,
		Related:  related,
	})
}

// Errorf records an error-severity diagnostic.
func (l *List) Errorf(code Code, loc span.Span, format string, args ...any) {
	l.add(code, SeverityError, loc, nil, format, args...)
}

// ErrorfRelated records an error with a second involved site.
func (l *List) ErrorfRelated(code Code, loc, related span.Span, format string, args ...any) {
	l.add(code, SeverityError, loc, &related, format, args...)
}

// Warnf records a warning-severity diagnostic.
func (l *List) Warnf(code Code, loc span.Span, format string, args ...any) {
	l.add(code, SeverityWarning, loc, nil, format, args...)
}

// Hintf records a hint-severity diagnostic.
func (l *List) Hintf(code Code, loc span.Span, format string, args ...any) {
	l.add(code, SeverityHint, loc, nil, format, args...)
}

// HasErrors reports whether any error-severity diagnostic was recorded.
func (l *List) HasErrors() bool {
	for _, d := range l.Diagnostics {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ByCode returns the diagnostics carrying the given code.
func (l *List) ByCode(code Code) []Diagnostic {
	var out []Diagnostic
	for _, d := range l.Diagnostics {
		if d.Code == code {
			out = append(out, d)
		}
	}
	return out
}

// Err folds every error-severity diagnostic into one combined error, nil
// when the run produced none.
func (l *List) Err() error {
	var combined error
	for _, d := range l.Diagnostics {
		if d.Severity != SeverityError {
			continue
		}
		combined = multierr.Append(combined, errors.Errorf("%s: %s at %s", d.Code, d.Message, d.Span))
	}
	return combined
}
