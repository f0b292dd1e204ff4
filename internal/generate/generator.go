// Package generate builds the three grouper output tables from the input
// tables and the mapping rules.
//
// Patient data is built from a single dataset keyed by the merge key.
// Medical services and pharmacy data are assembled from labelled source
// groups, each resolved against its own dataset, filtered for invalid rows
// and concatenated in label order.
package generate

import (
	"github.com/rs/zerolog"

	"acg-converter/internal/diagnostic"
	"acg-converter/internal/mapping"
	"acg-converter/internal/resolve"
	"acg-converter/internal/table"
)

// PatientIDColumn is the output column every file is keyed by.
const PatientIDColumn = "patient_id"

// Inputs maps dataset names to the tables supplied for them.
type Inputs map[string]*table.Table

// Config holds the dataset conventions the generators rely on.
type Config struct {
	// MergeKey is the patient identifier column in the input datasets.
	MergeKey string
	// PatientDataset is the dataset patient data is built from.
	PatientDataset string
}

// DefaultConfig returns the conventions of the standard clinical extract.
func DefaultConfig() Config {
	return Config{
		MergeKey:       "PatientID",
		PatientDataset: "Patient_Details",
	}
}

// Generator builds output tables for one set of rules.
type Generator struct {
	cfg      Config
	rules    mapping.Rules
	resolver *resolve.Resolver
	logger   zerolog.Logger
}

// New creates a Generator. Diagnostics are recorded through resolver.
func New(cfg Config, rules mapping.Rules, resolver *resolve.Resolver, logger zerolog.Logger) *Generator {
	def := DefaultConfig()
	if cfg.MergeKey == "" {
		cfg.MergeKey = def.MergeKey
	}

	if cfg.PatientDataset == "" {
		cfg.PatientDataset = def.PatientDataset
	}

	if resolver == nil {
		resolver = resolve.New(nil, nil, logger)
	}

	return &Generator{
		cfg:      cfg,
		rules:    rules,
		resolver: resolver,
		logger:   logger,
	}
}

// Diagnostics returns the diagnostics recorded by this generator's resolver.
func (g *Generator) Diagnostics() *diagnostic.Diagnostics {
	return g.resolver.Diagnostics()
}

// Generate builds the table for tf. A nil table with a nil error means the
// file is optional and has nothing to write.
func (g *Generator) Generate(tf mapping.TargetFile, inputs Inputs) (*table.Table, error) {
	switch tf {
	case mapping.TargetPatientData:
		return g.PatientData(inputs)
	case mapping.TargetMedicalServices:
		return g.MedicalServices(inputs)
	case mapping.TargetPharmacyData:
		return g.PharmacyData(inputs)
	default:
		return nil, &MappingError{File: tf, Reason: "no generator for this file"}
	}
}

func (g *Generator) warn(code string, tf mapping.TargetFile, label, column, msg string) {
	scope := mapping.Scope(tf, label)
	g.Diagnostics().AddWarning(code, msg, scope, column)
	g.logger.Warn().
		Str("code", code).
		Str("scope", scope).
		Str("column", column).
		Msg(msg)
}

func (g *Generator) fail(code string, tf mapping.TargetFile, label, column, msg string) {
	scope := mapping.Scope(tf, label)
	g.Diagnostics().AddError(code, msg, scope, column)
	g.logger.Error().
		Str("code", code).
		Str("scope", scope).
		Str("column", column).
		Msg(msg)
}
