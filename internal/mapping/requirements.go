package mapping

import (
	"slices"
	"strings"

	"acg-converter/internal/common"
)

// DatasetRequirement lists the input columns the mapping reads from one dataset.
type DatasetRequirement struct {
	Dataset string
	Columns []string
}

// RequiredInputs returns, per input dataset, the sorted distinct input
// columns referenced by the rules. Datasets are sorted by name. Rules for
// unknown target files are ignored.
func RequiredInputs(rules Rules) []DatasetRequirement {
	byDataset := map[string][]string{}

	for _, r := range rules {
		if r.TargetFile == TargetUnknown || r.SourceDataset == "" {
			continue
		}

		cols := byDataset[r.SourceDataset]
		if r.SourceColumn != "" {
			cols = append(cols, r.SourceColumn)
		}

		byDataset[r.SourceDataset] = cols
	}

	out := make([]DatasetRequirement, 0, len(byDataset))

	for ds, cols := range byDataset {
		cols = common.Unique(cols)
		slices.Sort(cols)
		out = append(out, DatasetRequirement{Dataset: ds, Columns: cols})
	}

	slices.SortFunc(out, func(a, b DatasetRequirement) int {
		return strings.Compare(a.Dataset, b.Dataset)
	})

	return out
}
