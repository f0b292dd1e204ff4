package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Record(t *testing.T) {
	m := New()

	m.FileWritten("patient_data", 3)
	m.FileWritten("patient_data", 2)
	m.RunFinished(1500*time.Millisecond, true, map[string]int{"warning": 2, "error": 1})

	assert.InDelta(t, 5, testutil.ToFloat64(m.RowsWritten.WithLabelValues("patient_data")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.FilesWritten.WithLabelValues("patient_data")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.Diagnostics.WithLabelValues("warning")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.RunFailures), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(m.RunDuration))
}

func TestMetrics_PrivateRegistry(t *testing.T) {
	// registering twice must not panic
	a, b := New(), New()
	a.RunFinished(time.Second, false, nil)

	assert.InDelta(t, 0, testutil.ToFloat64(b.RunFailures), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(a.RunFailures), 0)
}

func TestMetrics_WriteTextfile(t *testing.T) {
	m := New()
	m.FileWritten("medical_services", 7)

	path := filepath.Join(t.TempDir(), "acg.prom")
	require.NoError(t, m.WriteTextfile(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), `acg_rows_written_total{file="medical_services"} 7`)
	assert.Contains(t, string(content), "# TYPE acg_run_duration_seconds histogram")
}
