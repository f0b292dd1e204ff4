// Package config loads converter settings from an optional YAML file,
// ACG_-prefixed environment variables and command line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"acg-converter/internal/generate"
	"acg-converter/internal/mapping"
	"acg-converter/internal/output"
)

// EnvPrefix prefixes every environment variable the converter reads.
const EnvPrefix = "ACG"

// Dataset describes the columns an input file of one dataset carries.
type Dataset struct {
	Name    string   `mapstructure:"name"`
	Columns []string `mapstructure:"columns"`
}

// Files holds the output file name templates.
type Files struct {
	PatientData     string `mapstructure:"patient_data"`
	MedicalServices string `mapstructure:"medical_services"`
	PharmacyData    string `mapstructure:"pharmacy_data"`
}

// Log configures the process logger.
type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Config is the converter configuration after defaults, file, environment
// and flags have been merged.
type Config struct {
	Mapping         string    `mapstructure:"mapping"`
	OutputDir       string    `mapstructure:"output_dir"`
	MergeKey        string    `mapstructure:"merge_key"`
	PatientDataset  string    `mapstructure:"patient_dataset"`
	Delimiter       string    `mapstructure:"delimiter"`
	InputEncoding   string    `mapstructure:"input_encoding"`
	TimestampLayout string    `mapstructure:"timestamp_layout"`
	Files           Files     `mapstructure:"files"`
	Datasets        []Dataset `mapstructure:"datasets"`
	Log             Log       `mapstructure:"log"`
	MetricsFile     string    `mapstructure:"metrics_file"`
}

// flagKeys maps command line flag names to config keys.
var flagKeys = map[string]string{
	"mapping":        "mapping",
	"output-dir":     "output_dir",
	"merge-key":      "merge_key",
	"delimiter":      "delimiter",
	"input-encoding": "input_encoding",
	"log-level":      "log.level",
	"log-format":     "log.format",
	"metrics-file":   "metrics_file",
}

// Load reads the configuration. An explicit path must exist; without one, an
// acg-converter.yaml in the working directory is used when present. Flags
// that were set override environment variables, which override the file.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	def := generate.DefaultConfig()
	naming := output.DefaultNaming()

	// Defaults
	v.SetDefault("mapping", "mapping.csv")
	v.SetDefault("output_dir", ".")
	v.SetDefault("merge_key", def.MergeKey)
	v.SetDefault("patient_dataset", def.PatientDataset)
	v.SetDefault("delimiter", ",")
	v.SetDefault("input_encoding", "utf-8")
	v.SetDefault("timestamp_layout", output.DefaultTimestampLayout)
	v.SetDefault("files.patient_data", naming.Templates[mapping.TargetPatientData])
	v.SetDefault("files.medical_services", naming.Templates[mapping.TargetMedicalServices])
	v.SetDefault("files.pharmacy_data", naming.Templates[mapping.TargetPharmacyData])
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("metrics_file", "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("acg-converter")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		var notFound viper.ConfigFileNotFoundError
		if err := v.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if len(cfg.Datasets) == 0 {
		cfg.Datasets = DefaultDatasets()
	}

	return cfg, nil
}

// DefaultDatasets returns the column layouts of the standard clinical extract.
func DefaultDatasets() []Dataset {
	return []Dataset{
		{
			Name:    "Patient_Details",
			Columns: []string{"PatientID", "NHSNumber", "Age", "GenderCode", "Postcode", "Ethnicity", "LSOA", "PracticeCode"},
		},
		{
			Name:    "Care_History",
			Columns: []string{"PatientID", "Code", "CodeTerm", "EffectiveDate", "Value", "Unit"},
		},
		{
			Name:    "Medication_History",
			Columns: []string{"PatientID", "DrugCode", "DrugName", "IssueDate", "Quantity", "Dosage"},
		},
		{
			Name:    "Long_Term_Conditions",
			Columns: []string{"PatientID", "ConditionCode", "ConditionName", "OnsetDate", "ResolvedDate"},
		},
	}
}

// Validate checks that the configuration can drive a run.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.MergeKey) == "" {
		return errors.New("merge_key must not be empty")
	}

	if strings.TrimSpace(c.PatientDataset) == "" {
		return errors.New("patient_dataset must not be empty")
	}

	if utf8.RuneCountInString(c.Delimiter) != 1 {
		return fmt.Errorf("delimiter must be a single character, got %q", c.Delimiter)
	}

	if r := c.DelimiterRune(); r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return fmt.Errorf("delimiter %q cannot be used in delimited output", c.Delimiter)
	}

	for tf, tmpl := range c.Naming().Templates {
		if strings.TrimSpace(tmpl) == "" {
			return fmt.Errorf("files.%s must not be empty", tf)
		}

		if !strings.Contains(tmpl, output.TimestampPlaceholder) {
			return fmt.Errorf("files.%s must contain %s, got %q", tf, output.TimestampPlaceholder, tmpl)
		}

		if strings.ContainsAny(tmpl, `/\`) {
			return fmt.Errorf("files.%s must be a file name, got %q", tf, tmpl)
		}
	}

	seen := make(map[string]struct{}, len(c.Datasets))
	for _, ds := range c.Datasets {
		if ds.Name == "" || len(ds.Columns) == 0 {
			return errors.New("datasets need a name and at least one column")
		}

		if _, dup := seen[ds.Name]; dup {
			return fmt.Errorf("dataset %s defined twice", ds.Name)
		}

		seen[ds.Name] = struct{}{}
	}

	return nil
}

// DelimiterRune returns the output delimiter.
func (c *Config) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	return r
}

// Naming returns the output file naming.
func (c *Config) Naming() output.Naming {
	return output.Naming{
		Templates: map[mapping.TargetFile]string{
			mapping.TargetPatientData:     c.Files.PatientData,
			mapping.TargetMedicalServices: c.Files.MedicalServices,
			mapping.TargetPharmacyData:    c.Files.PharmacyData,
		},
		TimestampLayout: c.TimestampLayout,
	}
}

// Generate returns the generator conventions.
func (c *Config) Generate() generate.Config {
	return generate.Config{
		MergeKey:       c.MergeKey,
		PatientDataset: c.PatientDataset,
	}
}

// ResolveMappingPath locates the mapping file. A relative path is tried
// against the working directory, then the directory of the executable. When
// neither exists the working directory path is returned, so that loading
// reports it.
func (c *Config) ResolveMappingPath() string {
	return resolvePath(c.Mapping, os.Executable)
}

func resolvePath(path string, executable func() (string, error)) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}

	if _, err := os.Stat(path); err == nil {
		return path
	}

	exe, err := executable()
	if err != nil {
		return path
	}

	candidate := filepath.Join(filepath.Dir(exe), path)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}

	return path
}
