// Package resolve derives a single output column from one mapping rule and
// the input table its rule group reads from.
package resolve

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"acg-converter/internal/diagnostic"
	"acg-converter/internal/mapping"
	"acg-converter/internal/table"
	"acg-converter/internal/transform"
)

// Source is the input a rule group is resolved against.
type Source struct {
	Table *table.Table
	// RowIDs are passed to transforms that have no source column. When nil,
	// the table's positional row identifiers are used.
	RowIDs []string
}

func (s Source) rowIDs() []string {
	if s.RowIDs != nil {
		return s.RowIDs
	}

	return s.Table.RowIDs()
}

// Resolver resolves rule columns. Problems never surface as errors: they are
// recorded as diagnostics and logged, and the column is rendered empty.
type Resolver struct {
	registry *transform.Registry
	diags    *diagnostic.Diagnostics
	logger   zerolog.Logger
}

// New creates a Resolver recording into diags.
func New(registry *transform.Registry, diags *diagnostic.Diagnostics, logger zerolog.Logger) *Resolver {
	if registry == nil {
		registry = transform.Builtins()
	}

	if diags == nil {
		diags = &diagnostic.Diagnostics{}
	}

	return &Resolver{
		registry: registry,
		diags:    diags,
		logger:   logger,
	}
}

// Diagnostics returns the diagnostics recorded so far.
func (r *Resolver) Diagnostics() *diagnostic.Diagnostics {
	return r.diags
}

// Column produces the values of rule's target column for every row of src.
// group is the rule's (target file, source label) group; it is searched when
// the rule's transform reads another rule's source column.
func (r *Resolver) Column(rule mapping.Rule, group mapping.Rules, src Source) []string {
	n := src.Table.Len()

	if dep, ok := transform.Dependency(rule.Transform); ok {
		return r.dependentColumn(rule, group, dep, src)
	}

	if rule.SourceColumn != "" {
		values, found := src.Table.Column(rule.SourceColumn)
		if !found {
			r.Record(diagnostic.SeverityWarning, diagnostic.CodeSourceColumnNotFound, rule,
				fmt.Sprintf("input column %q not found in %s; column left empty", rule.SourceColumn, src.Table.Name))

			return Empty(n)
		}

		if rule.Transform == "" {
			return values
		}

		return r.apply(rule, values)
	}

	if rule.Transform != "" {
		return r.apply(rule, src.rowIDs())
	}

	r.Record(diagnostic.SeverityWarning, diagnostic.CodeEmptyRule, rule,
		"rule has no input column and no transform; column left empty")

	return Empty(n)
}

// dependentColumn applies a transform whose input is the source column of
// the group's rule for dep, not the rule's own source column.
func (r *Resolver) dependentColumn(rule mapping.Rule, group mapping.Rules, dep string, src Source) []string {
	n := src.Table.Len()

	depRule, found := group.FindTarget(dep)
	if !found {
		r.Record(diagnostic.SeverityError, diagnostic.CodeDependencyMissing, rule,
			fmt.Sprintf("cannot apply %s: no rule for %s in this group; column left empty", rule.Transform, dep))

		return Empty(n)
	}

	values, ok := src.Table.Column(depRule.SourceColumn)
	if depRule.SourceColumn == "" || !ok {
		r.Record(diagnostic.SeverityError, diagnostic.CodeDependencyMissing, rule,
			fmt.Sprintf("cannot apply %s: input column %q of the %s rule not found in %s; column left empty",
				rule.Transform, depRule.SourceColumn, dep, src.Table.Name))

		return Empty(n)
	}

	return r.apply(rule, values)
}

func (r *Resolver) apply(rule mapping.Rule, in []string) []string {
	r.logger.Debug().
		Str("transform", rule.Transform).
		Str("column", rule.TargetColumn).
		Msg("applying transform")

	out, err := r.registry.Apply(rule.Transform, in)

	switch {
	case errors.Is(err, transform.ErrUnknownTransform):
		r.Record(diagnostic.SeverityWarning, diagnostic.CodeUnknownTransform, rule,
			fmt.Sprintf("transform %q is not registered; column left empty", rule.Transform))

		return Empty(len(in))
	case err != nil:
		r.Record(diagnostic.SeverityError, diagnostic.CodeTransformFailed, rule, err.Error()+"; column left empty")

		return Empty(len(in))
	}

	return out
}

// Record adds a diagnostic for rule and logs it at the matching level.
func (r *Resolver) Record(sev diagnostic.Severity, code string, rule mapping.Rule, msg string) {
	scope := mapping.Scope(rule.TargetFile, rule.SourceLabel)
	r.diags.Add(diagnostic.Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		Scope:    scope,
		Column:   rule.TargetColumn,
	})

	ev := r.logger.Warn()
	if sev == diagnostic.SeverityError {
		ev = r.logger.Error()
	}

	ev.Str("code", code).
		Str("scope", scope).
		Str("column", rule.TargetColumn).
		Int("rule_line", rule.Line).
		Msg(msg)
}

// Empty returns a column of n empty values.
func Empty(n int) []string {
	return make([]string, n)
}
