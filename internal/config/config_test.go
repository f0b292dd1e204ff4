package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acg-converter/internal/mapping"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "mapping.csv", cfg.Mapping)
	assert.Equal(t, "PatientID", cfg.MergeKey)
	assert.Equal(t, "Patient_Details", cfg.PatientDataset)
	assert.Equal(t, ',', cfg.DelimiterRune())
	assert.Equal(t, "ACG_PatientData_{timestamp}.csv", cfg.Files.PatientData)
	assert.Equal(t, "20060102_150405", cfg.TimestampLayout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Len(t, cfg.Datasets, 4)
}

func TestLoad_FileEnvAndFlags(t *testing.T) {
	path := writeFile(t, t.TempDir(), "acg.yaml", `
output_dir: /data/out
merge_key: PatID
delimiter: "|"
files:
  pharmacy_data: Rx_{timestamp}.txt
log:
  level: debug
datasets:
  - name: Patient_Details
    columns: [PatID, Sex]
`)

	t.Setenv("ACG_OUTPUT_DIR", "/env/out")
	t.Setenv("ACG_LOG_FORMAT", "console")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("merge-key", "", "")
	flags.String("output-dir", "", "")
	require.NoError(t, flags.Parse([]string{"--merge-key", "PID"}))

	cfg, err := Load(path, flags)
	require.NoError(t, err)

	assert.Equal(t, "PID", cfg.MergeKey)
	assert.Equal(t, "/env/out", cfg.OutputDir)
	assert.Equal(t, '|', cfg.DelimiterRune())
	assert.Equal(t, "Rx_{timestamp}.txt", cfg.Files.PharmacyData)
	assert.Equal(t, "ACG_MedicalServices_{timestamp}.csv", cfg.Files.MedicalServices)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, []Dataset{{Name: "Patient_Details", Columns: []string{"PatID", "Sex"}}}, cfg.Datasets)

	assert.Equal(t, "Rx_{timestamp}.txt", cfg.Naming().Templates[mapping.TargetPharmacyData])
	assert.Equal(t, "PID", cfg.Generate().MergeKey)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "tab delimiter", mutate: func(c *Config) { c.Delimiter = "\t" }},
		{name: "empty merge key", mutate: func(c *Config) { c.MergeKey = " " }, wantErr: "merge_key"},
		{name: "long delimiter", mutate: func(c *Config) { c.Delimiter = ";;" }, wantErr: "single character"},
		{name: "quote delimiter", mutate: func(c *Config) { c.Delimiter = `"` }, wantErr: "cannot be used"},
		{name: "empty template", mutate: func(c *Config) { c.Files.PatientData = "" }, wantErr: "files.patient_data"},
		{name: "no timestamp", mutate: func(c *Config) { c.Files.MedicalServices = "med.csv" }, wantErr: "{timestamp}"},
		{name: "template with dir", mutate: func(c *Config) { c.Files.PharmacyData = "x/{timestamp}.csv" }, wantErr: "file name"},
		{
			name:    "duplicate dataset",
			mutate:  func(c *Config) { c.Datasets = append(c.Datasets, c.Datasets[0]) },
			wantErr: "defined twice",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("", nil)
			require.NoError(t, err)

			tt.mutate(cfg)

			err = cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestResolvePath(t *testing.T) {
	exeDir := t.TempDir()
	writeFile(t, exeDir, "mapping.csv", "x")

	exe := func() (string, error) { return filepath.Join(exeDir, "acg-converter"), nil }

	assert.Equal(t, filepath.Join(exeDir, "mapping.csv"), resolvePath("mapping.csv", exe))
	assert.Equal(t, "absent.csv", resolvePath("absent.csv", exe))

	abs := filepath.Join(t.TempDir(), "m.csv")
	assert.Equal(t, abs, resolvePath(abs, exe))

	// the working directory wins over the executable directory
	assert.Equal(t, "config_test.go", resolvePath("config_test.go", exe))
}
