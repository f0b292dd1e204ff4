package output

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acg-converter/internal/mapping"
	"acg-converter/internal/table"
)

func sample() *table.Table {
	t := table.New("medical_services", "patient_id", "dx_cd_1", "note")
	t.AppendRow("P1", "195967001", "")
	t.AppendRow("P2", "44054006", "has, comma")

	return t
}

func TestNaming_FileName(t *testing.T) {
	n := DefaultNaming()
	ts := n.Timestamp(time.Date(2024, 1, 31, 15, 45, 2, 0, time.UTC))
	assert.Equal(t, "20240131_154502", ts)

	tests := []struct {
		file mapping.TargetFile
		want string
	}{
		{mapping.TargetPatientData, "ACG_PatientData_20240131_154502.csv"},
		{mapping.TargetMedicalServices, "ACG_MedicalServices_20240131_154502.csv"},
		{mapping.TargetPharmacyData, "ACG_PharmacyData_20240131_154502.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.file.String(), func(t *testing.T) {
			got, err := n.FileName(tt.file, ts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := n.FileName(mapping.TargetUnknown, ts)
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	got, err := Render(sample(), 0)
	require.NoError(t, err)
	assert.Equal(t, "P1,195967001,\nP2,44054006,\"has, comma\"\n", string(got))

	got, err = Render(sample(), '|')
	require.NoError(t, err)
	assert.Equal(t, "P1|195967001|\nP2|44054006|has, comma\n", string(got))
}

func TestWriteTable(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")

	path, err := WriteTable(sample(), dir, "ACG_MedicalServices_x.csv", ',')
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "ACG_MedicalServices_x.csv"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "P1,195967001,\nP2,44054006,\"has, comma\"\n", string(content))
}

func TestWriteTable_Empty(t *testing.T) {
	dir := t.TempDir()

	_, err := WriteTable(table.New("pharmacy_data", "patient_id"), dir, "x.csv", ',')
	require.ErrorIs(t, err, ErrEmptyTable)

	_, statErr := os.Stat(filepath.Join(dir, "x.csv"))
	assert.True(t, os.IsNotExist(statErr))
}
