package mapping

import (
	"fmt"

	"acg-converter/internal/diagnostic"
	"acg-converter/internal/transform"
)

// IsMultiSource returns true for files assembled from several labelled sources.
func (t TargetFile) IsMultiSource() bool {
	return t == TargetMedicalServices || t == TargetPharmacyData
}

// Scope returns the diagnostic scope for a file and optional source label.
func Scope(tf TargetFile, label string) string {
	if label == "" {
		return tf.String()
	}

	return tf.String() + "/" + label
}

// Validate reports problems visible from the rules alone. It never fails:
// every finding degrades a column or a source group at generation time, so
// the findings are diagnostics rather than errors.
func Validate(rules Rules, registry *transform.Registry) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}

	for _, r := range rules {
		scope := Scope(r.TargetFile, r.SourceLabel)
		where := fmt.Sprintf("line %d", r.Line)

		if r.TargetFile == TargetUnknown {
			res.AddWarning(diagnostic.CodeUnknownTargetFile,
				where+": rule targets an unknown file and will not be generated", "", r.TargetColumn)

			continue
		}

		if r.IsDegenerate() {
			res.AddWarning(diagnostic.CodeEmptyRule,
				where+": rule has no input column and no transform; the column will be empty", scope, r.TargetColumn)
		}

		if r.Transform != "" && registry != nil && !registry.Has(r.Transform) {
			res.AddWarning(diagnostic.CodeUnknownTransform,
				fmt.Sprintf("%s: transform %q is not registered; the column will be empty", where, r.Transform),
				scope, r.TargetColumn)
		}

		if r.TargetFile.IsMultiSource() && r.SourceLabel == "" {
			res.AddWarning(diagnostic.CodeMissingLabel,
				where+": rule has no SourceLabel and is ignored for this multi-source file", scope, r.TargetColumn)
		}
	}

	for _, tf := range TargetFiles {
		fileRules := rules.ForFile(tf)

		labels := fileRules.Labels()
		if !tf.IsMultiSource() {
			labels = []string{""}
		}

		for _, label := range labels {
			group := fileRules.WithLabel(label)
			if tf.IsMultiSource() {
				if ds := group.Datasets(); len(ds) > 1 {
					res.AddError(diagnostic.CodeLabelMultipleInputs,
						fmt.Sprintf("source label maps to multiple input datasets %v; the group will be skipped", ds),
						Scope(tf, label), "")
				}
			}

			validateDependencies(res, tf, label, group)
		}
	}

	return res
}

func validateDependencies(res *diagnostic.Diagnostics, tf TargetFile, label string, group Rules) {
	for _, r := range group {
		dep, ok := transform.Dependency(r.Transform)
		if !ok {
			continue
		}

		depRule, found := group.FindTarget(dep)
		switch {
		case !found:
			res.AddError(diagnostic.CodeDependencyMissing,
				fmt.Sprintf("%s needs a rule for %s in the same group", r.Transform, dep),
				Scope(tf, label), r.TargetColumn)
		case depRule.SourceColumn == "":
			res.AddError(diagnostic.CodeDependencyMissing,
				fmt.Sprintf("%s needs the %s rule to name an input column", r.Transform, dep),
				Scope(tf, label), r.TargetColumn)
		}
	}
}
