package generate

import (
	"fmt"

	"acg-converter/internal/common"
	"acg-converter/internal/diagnostic"
	"acg-converter/internal/mapping"
	"acg-converter/internal/resolve"
	"acg-converter/internal/table"
)

// Position pins a target column to a fixed index in the file layout.
type Position struct {
	Column string
	Index  int
}

// FileSpec describes a file assembled from labelled source groups.
type FileSpec struct {
	File mapping.TargetFile
	// Required files fail when nothing can be generated; optional ones are
	// silently left out.
	Required bool
	// Positions are applied in order after the mapping order is established.
	Positions []Position
	// DropIfEmpty columns drop a row when present in the layout and empty.
	DropIfEmpty []string
	// NonEmpty columns must hold a value; a column absent from the layout
	// counts as empty.
	NonEmpty []string
}

var (
	MedicalServicesSpec = FileSpec{
		File:     mapping.TargetMedicalServices,
		Required: true,
		Positions: []Position{
			{Column: PatientIDColumn, Index: 0},
			{Column: "dx_cd_1", Index: 1},
		},
		DropIfEmpty: []string{"dx_version_1"},
		NonEmpty:    []string{PatientIDColumn, "dx_cd_1"},
	}

	PharmacyDataSpec = FileSpec{
		File: mapping.TargetPharmacyData,
		Positions: []Position{
			{Column: PatientIDColumn, Index: 0},
			{Column: "rx_cd", Index: 1},
			{Column: "rx_fill_date", Index: 2},
		},
		NonEmpty: []string{PatientIDColumn, "rx_cd"},
	}
)

// MedicalServices builds the medical services file. It is required: an
// empty result is a MappingError.
func (g *Generator) MedicalServices(inputs Inputs) (*table.Table, error) {
	return g.MultiSource(MedicalServicesSpec, inputs)
}

// PharmacyData builds the pharmacy file. It is optional: when nothing can be
// generated it returns nil without an error.
func (g *Generator) PharmacyData(inputs Inputs) (*table.Table, error) {
	return g.MultiSource(PharmacyDataSpec, inputs)
}

// MultiSource builds a file from every labelled source group mapped to it.
func (g *Generator) MultiSource(spec FileSpec, inputs Inputs) (*table.Table, error) {
	tf := spec.File

	rules := g.rules.ForFile(tf)
	if common.IsEmpty(rules) {
		return g.nothing(spec, "no rules target this file")
	}

	labels := rules.Labels()
	if common.IsEmpty(labels) {
		return nil, &MappingError{File: tf, Reason: "rules carry no SourceLabel"}
	}

	if unlabelled := rules.WithLabel(""); len(unlabelled) > 0 {
		g.warn(diagnostic.CodeMissingLabel, tf, "", "",
			fmt.Sprintf("%d rules without SourceLabel ignored", len(unlabelled)))
	}

	columns := rules.TargetColumns()
	for _, p := range spec.Positions {
		columns = common.MoveTo(columns, p.Column, p.Index)
	}

	out := table.New(tf.String(), columns...)

	for _, label := range labels {
		part := g.sourceGroup(spec, label, rules.WithLabel(label), columns, inputs)
		if part == nil {
			continue
		}

		out.Concat(part)
	}

	if out.IsEmpty() {
		return g.nothing(spec, "no valid rows generated from any source")
	}

	g.logger.Info().
		Str("file", tf.String()).
		Int("rows", out.Len()).
		Int("sources", len(labels)).
		Msg("generated multi-source file")

	return out, nil
}

func (g *Generator) nothing(spec FileSpec, reason string) (*table.Table, error) {
	if spec.Required {
		return nil, &MappingError{File: spec.File, Reason: reason}
	}

	g.warn(diagnostic.CodeFileSkipped, spec.File, "", "", reason+"; file not generated")

	return nil, nil
}

// sourceGroup resolves one label's rules against its dataset and returns the
// valid rows, or nil when the group contributes nothing.
func (g *Generator) sourceGroup(spec FileSpec, label string, group mapping.Rules, columns []string, inputs Inputs) *table.Table {
	tf := spec.File

	datasets := group.Datasets()
	if len(datasets) > 1 {
		g.fail(diagnostic.CodeLabelMultipleInputs, tf, label, "",
			fmt.Sprintf("source label maps to multiple input datasets %v; skipped", datasets))

		return nil
	}

	dataset := datasets[0]

	src, ok := inputs[dataset]
	if !ok || src == nil {
		g.warn(diagnostic.CodeInputMissing, tf, label, "",
			fmt.Sprintf("input %s not supplied; source skipped", dataset))

		return nil
	}

	if src.IsEmpty() {
		g.warn(diagnostic.CodeInputEmpty, tf, label, "",
			fmt.Sprintf("input %s has no rows; source skipped", dataset))

		return nil
	}

	n := src.Len()
	generated := make(map[string][]string, len(columns))

	for _, r := range group {
		generated[r.TargetColumn] = g.resolver.Column(r, group, resolve.Source{Table: src})
	}

	for _, col := range columns {
		if _, ok := generated[col]; !ok {
			generated[col] = resolve.Empty(n)
		}
	}

	part, err := assemble(tf, n, columns, generated)
	if err != nil {
		g.fail(diagnostic.CodeFileSkipped, tf, label, "", err.Error())

		return nil
	}

	kept := part.Filter(func(r int) bool { return spec.valid(part, r) })
	if kept.IsEmpty() {
		g.warn(diagnostic.CodeNoValidRows, tf, label, "",
			fmt.Sprintf("no valid rows generated from %s", dataset))

		return nil
	}

	g.logger.Debug().
		Str("file", tf.String()).
		Str("label", label).
		Str("dataset", dataset).
		Int("rows", kept.Len()).
		Int("dropped", n-kept.Len()).
		Msg("processed source group")

	return kept
}

func (s FileSpec) valid(t *table.Table, r int) bool {
	for _, col := range s.DropIfEmpty {
		if t.HasColumn(col) && t.Cell(r, col) == "" {
			return false
		}
	}

	for _, col := range s.NonEmpty {
		if t.Cell(r, col) == "" {
			return false
		}
	}

	return true
}
