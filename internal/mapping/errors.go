package mapping

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyMapping is wrapped by ConfigError when a mapping file holds no rules.
var ErrEmptyMapping = errors.New("mapping has no rules")

// ConfigError reports a mapping table that cannot be used at all.
// It aborts a run before any file is generated.
type ConfigError struct {
	// Path is the mapping file, when the mapping was loaded from disk.
	Path string
	// Missing lists required columns absent from the header.
	Missing []string
	// Err is the underlying cause.
	Err error
}

func (e *ConfigError) Error() string {
	var b strings.Builder

	b.WriteString("invalid mapping")

	if e.Path != "" {
		fmt.Fprintf(&b, " %s", e.Path)
	}

	if len(e.Missing) > 0 {
		fmt.Fprintf(&b, ": missing required columns: %s", strings.Join(e.Missing, ", "))
	}

	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}

	return b.String()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
