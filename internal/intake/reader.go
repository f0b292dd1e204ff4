// Package intake reads extract files and works out which dataset each one
// holds.
package intake

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"acg-converter/internal/table"
)

// ErrNoHeader is returned for files without a header line.
var ErrNoHeader = errors.New("file has no header")

// Decoder returns the decoder for a WHATWG encoding label such as
// "windows-1252" or "latin1". An empty label means UTF-8. A leading byte
// order mark is always honoured and stripped.
func Decoder(label string) (transform.Transformer, error) {
	var enc encoding.Encoding = unicode.UTF8

	if label != "" {
		e, err := htmlindex.Get(label)
		if err != nil {
			return nil, fmt.Errorf("input encoding %q: %w", label, err)
		}

		enc = e
	}

	return unicode.BOMOverride(enc.NewDecoder()), nil
}

// Read parses a delimited extract into a table named name. Every cell is
// kept as text; short rows read as empty cells.
func Read(r io.Reader, name, encodingLabel string) (*table.Table, error) {
	dec, err := Decoder(encodingLabel)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(transform.NewReader(r, dec))
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: %w", name, ErrNoHeader)
	}

	if err != nil {
		return nil, fmt.Errorf("%s: read header: %w", name, err)
	}

	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	t := table.New(name, header...)

	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}

		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}

		t.AppendRow(record...)
	}

	return t, nil
}

// ReadFile reads the extract at path. The table is named after the file.
func ReadFile(path, encodingLabel string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	return Read(f, filepath.Base(path), encodingLabel)
}
