package mapping

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Mapping table header names.
const (
	ColInputConfigKey = "InputConfigKey"
	ColInputColumn    = "InputColumn"
	ColTargetFile     = "TargetACGFile"
	ColTargetColumn   = "TargetACGColumn"
	ColTransform      = "TransformationFunction"
	ColSourceLabel    = "SourceLabel"
)

// RequiredColumns lists the header names every CSV mapping must declare.
var RequiredColumns = []string{ColInputConfigKey, ColInputColumn, ColTargetFile, ColTargetColumn}

const filePerm = 0o644

// LoadFile loads a mapping file. Files ending in .yaml or .yml are parsed as
// YAML, everything else as CSV. All failures are returned as *ConfigError.
func LoadFile(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}

	var rules Rules

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		rules, err = ParseYAML(data)
	default:
		rules, err = ParseCSV(bytes.NewReader(data))
	}

	if err != nil {
		var cfgErr *ConfigError
		if errors.As(err, &cfgErr) && cfgErr.Path == "" {
			cfgErr.Path = path
		}

		return nil, err
	}

	return rules, nil
}

// ParseCSV parses a CSV mapping table.
func ParseCSV(r io.Reader) (Rules, error) {
	cr := csv.NewReader(r)
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &ConfigError{Err: ErrEmptyMapping}
	}

	if err != nil {
		return nil, &ConfigError{Err: fmt.Errorf("read header: %w", err)}
	}

	idx := headerIndex(header)

	var missing []string

	for _, col := range RequiredColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}

	if len(missing) > 0 {
		slices.Sort(missing)
		return nil, &ConfigError{Missing: missing}
	}

	var rules Rules

	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, &ConfigError{Err: fmt.Errorf("read rule: %w", err)}
		}

		if isBlank(record) {
			continue
		}

		line, _ := cr.FieldPos(0)
		get := func(col string) string {
			i, ok := idx[col]
			if !ok || i >= len(record) {
				return ""
			}

			return strings.TrimSpace(record[i])
		}

		rules = append(rules, Rule{
			SourceDataset: get(ColInputConfigKey),
			SourceColumn:  get(ColInputColumn),
			TargetFile:    ParseTargetFile(get(ColTargetFile)),
			TargetColumn:  get(ColTargetColumn),
			Transform:     get(ColTransform),
			SourceLabel:   get(ColSourceLabel),
			Line:          line,
		})
	}

	if len(rules) == 0 {
		return nil, &ConfigError{Err: ErrEmptyMapping}
	}

	return rules, nil
}

// yamlMapping is the document shape of a YAML mapping file.
type yamlMapping struct {
	Rules Rules `yaml:"rules"`
}

// ParseYAML parses a YAML mapping document.
func ParseYAML(data []byte) (Rules, error) {
	var doc yamlMapping

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ConfigError{Err: fmt.Errorf("parse mapping YAML: %w", err)}
	}

	if len(doc.Rules) == 0 {
		return nil, &ConfigError{Err: ErrEmptyMapping}
	}

	var problems []string

	for i := range doc.Rules {
		r := &doc.Rules[i]
		r.SourceDataset = strings.TrimSpace(r.SourceDataset)
		r.SourceColumn = strings.TrimSpace(r.SourceColumn)
		r.TargetColumn = strings.TrimSpace(r.TargetColumn)
		r.Transform = strings.TrimSpace(r.Transform)
		r.SourceLabel = strings.TrimSpace(r.SourceLabel)
		r.Line = i + 1

		if r.SourceDataset == "" {
			problems = append(problems, fmt.Sprintf("rule %d: input_config_key is required", i+1))
		}

		if r.TargetColumn == "" {
			problems = append(problems, fmt.Sprintf("rule %d: target_column is required", i+1))
		}
	}

	if len(problems) > 0 {
		return nil, &ConfigError{Err: errors.New(strings.Join(problems, "; "))}
	}

	return doc.Rules, nil
}

// Marshal serializes rules to the YAML mapping form.
func Marshal(rules Rules) ([]byte, error) {
	return yaml.Marshal(yamlMapping{Rules: rules})
}

// WriteFile writes rules to path in the YAML mapping form.
func WriteFile(rules Rules, path string) error {
	data, err := Marshal(rules)
	if err != nil {
		return fmt.Errorf("failed to marshal mapping: %w", err)
	}

	if err := os.WriteFile(path, data, filePerm); err != nil {
		return fmt.Errorf("failed to write mapping file %s: %w", path, err)
	}

	return nil
}

// headerIndex maps trimmed header names to their position. A UTF-8 BOM on
// the first name is dropped.
func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))

	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}

		h = strings.TrimSpace(h)
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}

	return idx
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}

	return true
}
