package generate

import (
	"fmt"
	"strings"

	"acg-converter/internal/mapping"
)

// MappingError reports rules that are structurally insufficient to build a file.
type MappingError struct {
	File   mapping.TargetFile
	Reason string
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("%s: %s", e.File, e.Reason)
}

// InputError reports that the dataset a file is built from is unusable.
type InputError struct {
	File    mapping.TargetFile
	Dataset string
	Reason  string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: input %s: %s", e.File, e.Dataset, e.Reason)
}

// StructureError reports declared target columns that were never generated.
type StructureError struct {
	File    mapping.TargetFile
	Missing []string
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("%s: columns mapped but not generated: %s", e.File, strings.Join(e.Missing, ", "))
}
