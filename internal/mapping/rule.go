package mapping

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"acg-converter/internal/common"
)

//go:generate go tool stringer -type=TargetFile -linecomment -output=targetfile_string.go

// TargetFile identifies one of the ACG output files.
type TargetFile int

const (
	TargetUnknown         TargetFile = iota // unknown
	TargetPatientData                       // patient_data
	TargetMedicalServices                   // medical_services
	TargetPharmacyData                      // pharmacy_data
)

// TargetFiles lists the output files in generation order.
var TargetFiles = []TargetFile{TargetPatientData, TargetMedicalServices, TargetPharmacyData}

// ParseTargetFile parses a TargetACGFile value. Matching ignores case and
// surrounding whitespace; unrecognised values yield TargetUnknown.
func ParseTargetFile(s string) TargetFile {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, tf := range TargetFiles {
		if tf.String() == s {
			return tf
		}
	}

	return TargetUnknown
}

// UnmarshalYAML implements yaml.Unmarshaler for TargetFile.
func (t *TargetFile) UnmarshalYAML(node *yaml.Node) error {
	var s string

	if err := node.Decode(&s); err != nil {
		return fmt.Errorf("target_file: %w", err)
	}

	*t = ParseTargetFile(s)

	return nil
}

// MarshalYAML implements yaml.Marshaler for TargetFile.
func (t TargetFile) MarshalYAML() (any, error) {
	return t.String(), nil
}

// Rule is one row of the mapping table.
type Rule struct {
	SourceDataset string     `yaml:"input_config_key"`
	SourceColumn  string     `yaml:"input_column,omitempty"`
	TargetFile    TargetFile `yaml:"target_file"`
	TargetColumn  string     `yaml:"target_column"`
	Transform     string     `yaml:"transform,omitempty"`
	SourceLabel   string     `yaml:"source_label,omitempty"`
	// Line is the 1-based line of the rule in its mapping file (0 when unknown).
	Line int `yaml:"-"`
}

// IsDegenerate returns true if the rule has neither a source column nor a
// transform, so it can only ever produce an empty column.
func (r Rule) IsDegenerate() bool {
	return r.SourceColumn == "" && r.Transform == ""
}

// String returns a compact description used in logs.
func (r Rule) String() string {
	src := r.SourceDataset
	if r.SourceColumn != "" {
		src += "." + r.SourceColumn
	}

	if r.Transform != "" {
		src = r.Transform + "(" + src + ")"
	}

	return fmt.Sprintf("%s.%s <- %s", r.TargetFile, r.TargetColumn, src)
}

// Rules is an ordered mapping table.
type Rules []Rule

// ForFile returns the rules targeting tf, in mapping order.
func (rs Rules) ForFile(tf TargetFile) Rules {
	var out Rules

	for _, r := range rs {
		if r.TargetFile == tf {
			out = append(out, r)
		}
	}

	return out
}

// TargetColumns returns the distinct target columns in order of first appearance.
func (rs Rules) TargetColumns() []string {
	cols := make([]string, 0, len(rs))
	for _, r := range rs {
		cols = append(cols, r.TargetColumn)
	}

	return common.Unique(cols)
}

// Labels returns the distinct non-empty source labels in order of first appearance.
func (rs Rules) Labels() []string {
	labels := make([]string, 0, len(rs))

	for _, r := range rs {
		if r.SourceLabel != "" {
			labels = append(labels, r.SourceLabel)
		}
	}

	return common.Unique(labels)
}

// WithLabel returns the rules carrying the given source label.
func (rs Rules) WithLabel(label string) Rules {
	var out Rules

	for _, r := range rs {
		if r.SourceLabel == label {
			out = append(out, r)
		}
	}

	return out
}

// Datasets returns the distinct source datasets in order of first appearance.
func (rs Rules) Datasets() []string {
	ds := make([]string, 0, len(rs))
	for _, r := range rs {
		ds = append(ds, r.SourceDataset)
	}

	return common.Unique(ds)
}

// FindTarget returns the first rule whose target column is col.
func (rs Rules) FindTarget(col string) (Rule, bool) {
	for _, r := range rs {
		if r.TargetColumn == col {
			return r, true
		}
	}

	return Rule{}, false
}
