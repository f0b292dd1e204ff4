package intake

import (
	"fmt"
	"slices"
	"strings"

	"acg-converter/internal/config"
	"acg-converter/internal/match"
)

// UnrecognizedError reports a file whose columns match no dataset.
type UnrecognizedError struct {
	File string
	// Closest is the dataset sharing most columns with the file, if any.
	Closest string
	// Missing are the Closest dataset's columns absent from the file.
	Missing []string
	// Unexpected are file columns Closest does not define, each with the
	// missing column it most resembles, if any.
	Unexpected []Unexpected
}

// Unexpected is a file column with its suggested replacement.
type Unexpected struct {
	Column     string
	Suggestion string
}

func (e *UnrecognizedError) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s: columns match no known dataset", e.File)

	if e.Closest == "" {
		return b.String()
	}

	fmt.Fprintf(&b, "; closest is %s", e.Closest)

	if len(e.Missing) > 0 {
		fmt.Fprintf(&b, ", missing %s", strings.Join(e.Missing, ", "))
	}

	for _, u := range e.Unexpected {
		if u.Suggestion != "" {
			fmt.Fprintf(&b, ", %q not expected (did you mean %q?)", u.Column, u.Suggestion)
		} else {
			fmt.Fprintf(&b, ", %q not expected", u.Column)
		}
	}

	return b.String()
}

// AmbiguousError reports a file matching more than one dataset definition.
type AmbiguousError struct {
	File     string
	Datasets []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("%s: columns match several datasets: %s", e.File, strings.Join(e.Datasets, ", "))
}

// Identify returns the dataset whose column set equals headers, compared
// case-insensitively and ignoring order.
func Identify(file string, headers []string, datasets []config.Dataset) (config.Dataset, error) {
	have := lowerSet(headers)

	var found []config.Dataset

	for _, ds := range datasets {
		if setsEqual(have, lowerSet(ds.Columns)) {
			found = append(found, ds)
		}
	}

	switch len(found) {
	case 1:
		return found[0], nil
	case 0:
		return config.Dataset{}, unrecognized(file, headers, datasets)
	default:
		names := make([]string, 0, len(found))
		for _, ds := range found {
			names = append(names, ds.Name)
		}

		return config.Dataset{}, &AmbiguousError{File: file, Datasets: names}
	}
}

func unrecognized(file string, headers []string, datasets []config.Dataset) error {
	e := &UnrecognizedError{File: file}

	best := 0.0

	var closest config.Dataset

	for _, ds := range datasets {
		if score := match.Overlap(headers, ds.Columns); score > best {
			best, closest = score, ds
		}
	}

	if best == 0 {
		return e
	}

	e.Closest = closest.Name
	have := lowerSet(headers)
	want := lowerSet(closest.Columns)

	for _, c := range closest.Columns {
		if _, ok := have[strings.ToLower(c)]; !ok {
			e.Missing = append(e.Missing, c)
		}
	}

	for _, h := range headers {
		if _, ok := want[strings.ToLower(h)]; ok {
			continue
		}

		u := Unexpected{Column: h}
		u.Suggestion, _ = match.Closest(h, e.Missing)
		e.Unexpected = append(e.Unexpected, u)
	}

	return e
}

// Canonicalize renames headers to the dataset's spelling of each column.
func Canonicalize(headers []string, ds config.Dataset) []string {
	out := slices.Clone(headers)

	for i, h := range out {
		for _, c := range ds.Columns {
			if strings.EqualFold(h, c) {
				out[i] = c
				break
			}
		}
	}

	return out
}

func lowerSet(cols []string) map[string]struct{} {
	set := make(map[string]struct{}, len(cols))
	for _, c := range cols {
		set[strings.ToLower(strings.TrimSpace(c))] = struct{}{}
	}

	return set
}

func setsEqual(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}

	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}

	return true
}
