// Package output renders generated tables as headerless delimited files.
package output

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"acg-converter/internal/mapping"
	"acg-converter/internal/table"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// TimestampPlaceholder is replaced in file name templates by the run timestamp.
const TimestampPlaceholder = "{timestamp}"

// DefaultTimestampLayout renders run timestamps as 20240131_154502.
const DefaultTimestampLayout = "20060102_150405"

// ErrEmptyTable is returned when asked to write a table without rows.
var ErrEmptyTable = errors.New("table has no rows")

// Naming decides output file names.
type Naming struct {
	Templates       map[mapping.TargetFile]string
	TimestampLayout string
}

// DefaultNaming returns the grouper's conventional file names.
func DefaultNaming() Naming {
	return Naming{
		Templates: map[mapping.TargetFile]string{
			mapping.TargetPatientData:     "ACG_PatientData_{timestamp}.csv",
			mapping.TargetMedicalServices: "ACG_MedicalServices_{timestamp}.csv",
			mapping.TargetPharmacyData:    "ACG_PharmacyData_{timestamp}.csv",
		},
		TimestampLayout: DefaultTimestampLayout,
	}
}

// Timestamp formats t with the naming layout.
func (n Naming) Timestamp(t time.Time) string {
	layout := n.TimestampLayout
	if layout == "" {
		layout = DefaultTimestampLayout
	}

	return t.Format(layout)
}

// FileName returns the file name for tf with the timestamp substituted.
func (n Naming) FileName(tf mapping.TargetFile, timestamp string) (string, error) {
	tmpl, ok := n.Templates[tf]
	if !ok || tmpl == "" {
		return "", fmt.Errorf("no file name template for %s", tf)
	}

	return strings.ReplaceAll(tmpl, TimestampPlaceholder, timestamp), nil
}

// Render encodes the rows of t, without a header line.
func Render(t *table.Table, delimiter rune) ([]byte, error) {
	var buf bytes.Buffer

	w := csv.NewWriter(&buf)
	if delimiter != 0 {
		w.Comma = delimiter
	}

	for i, row := range t.Rows {
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("encoding row %d: %w", i, err)
		}
	}

	w.Flush()

	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("encoding %s: %w", t.Name, err)
	}

	return buf.Bytes(), nil
}

// WriteTable writes t to dir/name and returns the written path.
// It creates the directory if it doesn't exist.
func WriteTable(t *table.Table, dir, name string, delimiter rune) (string, error) {
	if t.IsEmpty() {
		return "", fmt.Errorf("writing %s: %w", name, ErrEmptyTable)
	}

	content, err := Render(t, delimiter)
	if err != nil {
		return "", err
	}

	err = os.MkdirAll(dir, dirPerm)
	if err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	path := filepath.Join(dir, name)

	err = os.WriteFile(path, content, filePerm)
	if err != nil {
		return "", fmt.Errorf("writing file %s: %w", name, err)
	}

	return path, nil
}
