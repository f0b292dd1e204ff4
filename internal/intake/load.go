package intake

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"acg-converter/internal/config"
	"acg-converter/internal/generate"
	"acg-converter/internal/table"
)

// Options configures Load.
type Options struct {
	Datasets       []config.Dataset
	MergeKey       string
	PatientDataset string
	Encoding       string
	// AllowMissing lets a run proceed when some configured datasets were
	// not supplied.
	AllowMissing bool
	Logger       zerolog.Logger
}

// ParseAssignments parses Dataset=path pairs.
func ParseAssignments(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))

	for _, p := range pairs {
		name, path, ok := strings.Cut(p, "=")
		name, path = strings.TrimSpace(name), strings.TrimSpace(path)

		if !ok || name == "" || path == "" {
			return nil, fmt.Errorf("input %q: want Dataset=path", p)
		}

		if _, dup := out[name]; dup {
			return nil, fmt.Errorf("input %s assigned twice", name)
		}

		out[name] = path
	}

	return out, nil
}

// Load reads the given files, identifying each by its columns, plus the
// explicitly assigned ones. Every problem found is reported, joined.
func Load(files []string, assigned map[string]string, opts Options) (generate.Inputs, error) {
	inputs := generate.Inputs{}
	sources := map[string]string{}

	var errs []error

	add := func(ds, path string, t *table.Table) {
		if prev, dup := sources[ds]; dup {
			errs = append(errs, fmt.Errorf("%s and %s both hold %s", prev, path, ds))
			return
		}

		if ds != opts.PatientDataset && !t.HasColumn(opts.MergeKey) {
			errs = append(errs, fmt.Errorf("%s: merge key %q not found in %s", path, opts.MergeKey, ds))
			return
		}

		t.Name = ds
		inputs[ds] = t
		sources[ds] = path

		opts.Logger.Info().
			Str("dataset", ds).
			Str("path", path).
			Int("rows", t.Len()).
			Msg("input loaded")
	}

	for _, path := range files {
		t, err := ReadFile(path, opts.Encoding)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		ds, err := Identify(path, t.Columns, opts.Datasets)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		t.Columns = Canonicalize(t.Columns, ds)
		add(ds.Name, path, t)
	}

	for _, name := range sortedKeys(assigned) {
		path := assigned[name]

		t, err := ReadFile(path, opts.Encoding)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		if i := slices.IndexFunc(opts.Datasets, func(d config.Dataset) bool { return d.Name == name }); i >= 0 {
			t.Columns = Canonicalize(t.Columns, opts.Datasets[i])
		}

		add(name, path, t)
	}

	if missing := missingDatasets(inputs, opts.Datasets); len(missing) > 0 {
		if opts.AllowMissing {
			opts.Logger.Warn().Strs("datasets", missing).Msg("inputs not supplied")
		} else {
			errs = append(errs, fmt.Errorf("inputs not supplied: %s", strings.Join(missing, ", ")))
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return inputs, nil
}

func missingDatasets(inputs generate.Inputs, datasets []config.Dataset) []string {
	var missing []string

	for _, ds := range datasets {
		if _, ok := inputs[ds.Name]; !ok {
			missing = append(missing, ds.Name)
		}
	}

	return missing
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	return keys
}
