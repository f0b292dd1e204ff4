package generate

import (
	"fmt"
	"slices"

	"acg-converter/internal/common"
	"acg-converter/internal/diagnostic"
	"acg-converter/internal/mapping"
	"acg-converter/internal/resolve"
	"acg-converter/internal/table"
)

// PatientData builds the patient file: one row per distinct merge-key value
// of the patient dataset, with patient_id as the first column.
func (g *Generator) PatientData(inputs Inputs) (*table.Table, error) {
	const tf = mapping.TargetPatientData

	src, ok := inputs[g.cfg.PatientDataset]
	if !ok || src == nil {
		return nil, &InputError{File: tf, Dataset: g.cfg.PatientDataset, Reason: "dataset not supplied"}
	}

	if !src.HasColumn(g.cfg.MergeKey) {
		return nil, &InputError{
			File:    tf,
			Dataset: g.cfg.PatientDataset,
			Reason:  fmt.Sprintf("merge key %q not found", g.cfg.MergeKey),
		}
	}

	rules := g.rules.ForFile(tf)
	if common.IsEmpty(rules) {
		return nil, &MappingError{File: tf, Reason: "no rules target this file"}
	}

	src = g.dedupe(src)
	keys, _ := src.Column(g.cfg.MergeKey)
	source := resolve.Source{Table: src, RowIDs: keys}

	generated := make(map[string][]string, len(rules))

	for _, r := range rules {
		if r.SourceDataset != g.cfg.PatientDataset && r.SourceColumn != "" {
			g.fail(diagnostic.CodeForeignDataset, tf, "", r.TargetColumn,
				fmt.Sprintf("rule reads %s.%s but patient data is built from %s only; column skipped",
					r.SourceDataset, r.SourceColumn, g.cfg.PatientDataset))

			continue
		}

		generated[r.TargetColumn] = g.resolver.Column(r, rules, source)
	}

	columns := rules.TargetColumns()

	_, hasID := generated[PatientIDColumn]
	_, hasKey := generated[g.cfg.MergeKey]

	switch {
	case hasID:
		columns = common.MoveTo(columns, PatientIDColumn, 0)
	case hasKey:
		generated[PatientIDColumn] = generated[g.cfg.MergeKey]
		delete(generated, g.cfg.MergeKey)

		columns[slices.Index(columns, g.cfg.MergeKey)] = PatientIDColumn
		columns = common.MoveTo(columns, PatientIDColumn, 0)
	default:
		g.warn(diagnostic.CodeMergeKeyUnmapped, tf, "", PatientIDColumn,
			fmt.Sprintf("no generated column for %s; merge key values added as %s", g.cfg.MergeKey, PatientIDColumn))

		// a declared but skipped id column is replaced by the merge key values
		columns = slices.DeleteFunc(columns, func(c string) bool {
			return c == PatientIDColumn || c == g.cfg.MergeKey
		})

		generated[PatientIDColumn] = keys
		columns = append([]string{PatientIDColumn}, columns...)
	}

	out, err := assemble(tf, src.Len(), columns, generated)
	if err != nil {
		return nil, err
	}

	g.logger.Info().
		Str("file", tf.String()).
		Int("rows", out.Len()).
		Int("columns", len(out.Columns)).
		Msg("generated patient data")

	return out, nil
}

// dedupe keeps the first row for every merge-key value.
func (g *Generator) dedupe(src *table.Table) *table.Table {
	seen := make(map[string]struct{}, src.Len())
	dropped := 0

	out := src.Filter(func(r int) bool {
		key := src.Cell(r, g.cfg.MergeKey)
		if _, dup := seen[key]; dup {
			dropped++

			return false
		}

		seen[key] = struct{}{}

		return true
	})

	if dropped > 0 {
		g.warn(diagnostic.CodeDuplicateMergeKey, mapping.TargetPatientData, "", g.cfg.MergeKey,
			fmt.Sprintf("%d rows with duplicate %s in %s dropped; first occurrence kept",
				dropped, g.cfg.MergeKey, src.Name))
	}

	return out
}

// assemble lays generated columns out in the given order. Every column must
// have been generated.
func assemble(tf mapping.TargetFile, n int, columns []string, generated map[string][]string) (*table.Table, error) {
	var missing []string

	for _, col := range columns {
		if _, ok := generated[col]; !ok {
			missing = append(missing, col)
		}
	}

	if len(missing) > 0 {
		return nil, &StructureError{File: tf, Missing: missing}
	}

	out := table.New(tf.String(), columns...)
	out.Rows = make([][]string, n)

	for i := range out.Rows {
		row := make([]string, len(columns))
		for j, col := range columns {
			row[j] = generated[col][i]
		}

		out.Rows[i] = row
	}

	return out, nil
}
