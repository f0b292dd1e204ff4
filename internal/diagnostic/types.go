package diagnostic

import (
	"errors"
	"fmt"
	"strings"

	"acg-converter/internal/common"
)

// Diagnostic codes recorded by the loader, resolver and generators.
const (
	CodeEmptyRule            = "empty_rule"
	CodeUnknownTransform     = "unknown_transform"
	CodeUnknownTargetFile    = "unknown_target_file"
	CodeSourceColumnNotFound = "source_column_not_found"
	CodeDependencyMissing    = "dependency_unresolved"
	CodeTransformFailed      = "transform_failed"
	CodeForeignDataset       = "foreign_dataset"
	CodeLabelMultipleInputs  = "label_multiple_datasets"
	CodeMissingLabel         = "missing_source_label"
	CodeInputMissing         = "input_missing"
	CodeInputEmpty           = "input_empty"
	CodeNoValidRows          = "no_valid_rows"
	CodeDuplicateMergeKey    = "duplicate_merge_key"
	CodeMergeKeyUnmapped     = "merge_key_unmapped"
	CodeFileSkipped          = "file_skipped"
)

// Diagnostics holds all diagnostic information from one run.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity Severity
	// Code is a unique identifier for this type of diagnostic.
	Code string
	// Message is the human-readable description.
	Message string
	// Scope identifies the target file and source label (e.g. "medical_services/care_history").
	Scope string
	// Column identifies the target column this relates to (if any).
	Column string
}

// Severity represents the severity level of a diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns a human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return common.UnknownStr
	}
}

// Add appends a diagnostic to the list matching its severity.
func (d *Diagnostics) Add(diag Diagnostic) {
	switch diag.Severity {
	case SeverityError:
		d.Errors = append(d.Errors, diag)
	case SeverityWarning:
		d.Warnings = append(d.Warnings, diag)
	default:
		d.Infos = append(d.Infos, diag)
	}
}

// AddError adds an error diagnostic.
func (d *Diagnostics) AddError(code, message, scope, column string) {
	d.Add(Diagnostic{Severity: SeverityError, Code: code, Message: message, Scope: scope, Column: column})
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(code, message, scope, column string) {
	d.Add(Diagnostic{Severity: SeverityWarning, Code: code, Message: message, Scope: scope, Column: column})
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// All returns every diagnostic, errors first.
func (d *Diagnostics) All() []Diagnostic {
	out := make([]Diagnostic, 0, len(d.Errors)+len(d.Warnings)+len(d.Infos))
	out = append(out, d.Errors...)
	out = append(out, d.Warnings...)

	return append(out, d.Infos...)
}

// WithCode returns the diagnostics carrying the given code, errors first.
func (d *Diagnostics) WithCode(code string) []Diagnostic {
	var out []Diagnostic

	for _, diag := range d.All() {
		if diag.Code == code {
			out = append(out, diag)
		}
	}

	return out
}

// Error returns a combined error from all error diagnostics, or nil if there are none.
func (d *Diagnostics) Error() error {
	if !d.HasErrors() {
		return nil
	}

	parts := make([]string, 0, len(d.Errors))
	for _, e := range d.Errors {
		parts = append(parts, e.String())
	}

	return errors.New(strings.Join(parts, "; "))
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	var prefix []string
	if d.Scope != "" {
		prefix = append(prefix, "["+d.Scope+"]")
	}

	if d.Column != "" {
		prefix = append(prefix, d.Column)
	}

	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}
