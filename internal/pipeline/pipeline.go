// Package pipeline runs one conversion: it loads the mapping, generates the
// patient, medical services and pharmacy tables and writes them out.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"acg-converter/internal/diagnostic"
	"acg-converter/internal/generate"
	"acg-converter/internal/mapping"
	"acg-converter/internal/metrics"
	"acg-converter/internal/output"
	"acg-converter/internal/resolve"
	"acg-converter/internal/transform"
)

// Options configures a Runner.
type Options struct {
	// MappingPath is the mapping rule table (CSV or YAML).
	MappingPath string
	// OutputDir receives the generated files.
	OutputDir string
	Generate  generate.Config
	Naming    output.Naming
	Delimiter rune
	// Registry defaults to transform.Builtins().
	Registry *transform.Registry
	// Metrics is optional.
	Metrics *metrics.Metrics
	Logger  zerolog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// FileOutcome is the result for one output file.
type FileOutcome struct {
	File     mapping.TargetFile
	Required bool
	// Path is empty when nothing was written.
	Path string
	Rows int
	Err  error
}

// Written returns true when the file was written.
func (o FileOutcome) Written() bool {
	return o.Path != ""
}

// Result summarises a run.
type Result struct {
	RunID     string
	Timestamp string
	// Files are the written paths in generation order.
	Files    []string
	Outcomes []FileOutcome
	// Validation holds the findings of the mapping checks run before generation.
	Validation *diagnostic.Diagnostics
	// Diagnostics holds what generation recorded.
	Diagnostics *diagnostic.Diagnostics
}

// Outcome returns the outcome for tf.
func (r *Result) Outcome(tf mapping.TargetFile) (FileOutcome, bool) {
	for _, o := range r.Outcomes {
		if o.File == tf {
			return o, true
		}
	}

	return FileOutcome{}, false
}

// RunError reports that at least one required file was not produced. Result
// holds everything the run did produce.
type RunError struct {
	Failed []FileOutcome
	Result *Result
}

func (e *RunError) Error() string {
	parts := make([]string, 0, len(e.Failed))
	for _, o := range e.Failed {
		parts = append(parts, fmt.Sprintf("%s: %v", o.File, o.Err))
	}

	return "required files not generated: " + strings.Join(parts, "; ")
}

// Unwrap exposes the per-file causes to errors.Is and errors.As.
func (e *RunError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failed))
	for _, o := range e.Failed {
		errs = append(errs, o.Err)
	}

	return errs
}

// Runner executes conversions. It holds only immutable configuration, so Run
// may be called concurrently.
type Runner struct {
	opts Options
}

// NewRunner creates a Runner, filling unset options with defaults.
func NewRunner(opts Options) *Runner {
	if opts.Registry == nil {
		opts.Registry = transform.Builtins()
	}

	if opts.Naming.Templates == nil {
		opts.Naming = output.DefaultNaming()
	}

	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}

	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Runner{opts: opts}
}

var stages = []struct {
	file     mapping.TargetFile
	required bool
}{
	{mapping.TargetPatientData, true},
	{mapping.TargetMedicalServices, true},
	{mapping.TargetPharmacyData, false},
}

// Run converts inputs into the grouper files. A mapping that cannot be loaded
// aborts the run before anything is generated. Otherwise all three files are
// attempted, and a *RunError is returned at the end when the patient or
// medical services file was not written.
func (r *Runner) Run(ctx context.Context, inputs generate.Inputs) (*Result, error) {
	started := r.opts.Now()

	res := &Result{
		RunID:       uuid.NewString(),
		Timestamp:   r.opts.Naming.Timestamp(started),
		Diagnostics: &diagnostic.Diagnostics{},
	}

	logger := r.opts.Logger.With().Str("run_id", res.RunID).Logger()
	logger.Info().
		Str("mapping", r.opts.MappingPath).
		Str("output_dir", r.opts.OutputDir).
		Int("inputs", len(inputs)).
		Msg("conversion started")

	rules, err := mapping.LoadFile(r.opts.MappingPath)
	if err != nil {
		logger.Error().Err(err).Msg("loading mapping")
		r.finish(res, started, true)

		return nil, err
	}

	res.Validation = mapping.Validate(rules, r.opts.Registry)
	for _, d := range res.Validation.All() {
		logger.Debug().Str("code", d.Code).Str("scope", d.Scope).Str("column", d.Column).Msg(d.Message)
	}

	logger.Info().
		Int("rules", len(rules)).
		Int("validation_errors", len(res.Validation.Errors)).
		Int("validation_warnings", len(res.Validation.Warnings)).
		Msg("mapping loaded")

	resolver := resolve.New(r.opts.Registry, res.Diagnostics, logger)
	gen := generate.New(r.opts.Generate, rules, resolver, logger)

	var failed []FileOutcome

	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			logger.Warn().Err(err).Msg("conversion cancelled")
			r.finish(res, started, true)

			return nil, err
		}

		outcome := r.produce(gen, st.file, st.required, inputs, res.Timestamp, logger)

		res.Outcomes = append(res.Outcomes, outcome)
		if outcome.Written() {
			res.Files = append(res.Files, outcome.Path)
		}

		if st.required && !outcome.Written() {
			failed = append(failed, outcome)
		}
	}

	r.finish(res, started, len(failed) > 0)

	if len(failed) > 0 {
		runErr := &RunError{Failed: failed, Result: res}
		logger.Error().Err(runErr).Msg("conversion failed")

		return res, runErr
	}

	logger.Info().
		Strs("files", res.Files).
		Dur("took", r.opts.Now().Sub(started)).
		Msg("conversion finished")

	return res, nil
}

// produce generates and writes one file. Generation errors are carried in
// the outcome, never returned. A failed optional file is logged as a warning.
func (r *Runner) produce(
	gen *generate.Generator,
	tf mapping.TargetFile,
	required bool,
	inputs generate.Inputs,
	timestamp string,
	logger zerolog.Logger,
) FileOutcome {
	outcome := FileOutcome{File: tf, Required: required}
	log := logger.With().Str("file", tf.String()).Logger()

	t, err := gen.Generate(tf, inputs)
	if err != nil {
		outcome.Err = err

		level := zerolog.ErrorLevel
		if !required {
			level = zerolog.WarnLevel
		}

		log.WithLevel(level).Err(err).Msg("file not generated")

		return outcome
	}

	if t == nil {
		log.Warn().Msg("optional file not generated")

		return outcome
	}

	name, err := r.opts.Naming.FileName(tf, timestamp)
	if err == nil {
		outcome.Path, err = output.WriteTable(t, r.opts.OutputDir, name, r.opts.Delimiter)
	}

	if err != nil {
		outcome.Err = err
		log.Error().Err(err).Msg("file not written")

		return outcome
	}

	outcome.Rows = t.Len()
	if r.opts.Metrics != nil {
		r.opts.Metrics.FileWritten(tf.String(), outcome.Rows)
	}

	log.Info().Str("path", outcome.Path).Int("rows", outcome.Rows).Msg("file written")

	return outcome
}

func (r *Runner) finish(res *Result, started time.Time, failed bool) {
	if r.opts.Metrics == nil {
		return
	}

	bySeverity := map[string]int{}
	for _, d := range res.Diagnostics.All() {
		bySeverity[d.Severity.String()]++
	}

	r.opts.Metrics.RunFinished(r.opts.Now().Sub(started), failed, bySeverity)
}
