package wfs

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// State is a step of a validation run
type State int

const (
	StateStart State = iota
	StateCapabilitiesFetched
	StateTypesEnumerated
	StateSchemaBuilt
	StateValidatingTypes
	StateDone
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateCapabilitiesFetched:
		return "capabilities-fetched"
	case StateTypesEnumerated:
		return "types-enumerated"
	case StateSchemaBuilt:
		return "schema-built"
	case StateValidatingTypes:
		return "validating-types"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// TypeResult is the outcome of checking one feature type
type TypeResult struct {
	Name FeatureTypeName

	// Skipped is set when the service returned an empty sample
	Skipped bool

	// FetchErr is set when the sample could not be retrieved or parsed.
	// Links and schema are not checked in that case.
	FetchErr error

	// ValidateErr is set when schema validation could not run
	ValidateErr error

	Violations []Violation
	Hrefs      HrefReport
	Duration   time.Duration
}

// Errors is the contribution of this type to the run error count: one for a
// failed fetch, otherwise one per broken link plus one if the schema check
// failed, however many violations it found.
func (r TypeResult) Errors() int {
	if r.FetchErr != nil {
		return 1
	}
	n := len(r.Hrefs.Broken)
	if r.ValidateErr != nil || len(r.Violations) > 0 {
		n++
	}
	return n
}

// Status summarises the result in one word
func (r TypeResult) Status() string {
	switch {
	case r.FetchErr != nil:
		return "fetch-failed"
	case r.Skipped:
		return "skipped"
	case r.ValidateErr != nil, len(r.Violations) > 0:
		return "invalid"
	case len(r.Hrefs.Broken) > 0:
		return "broken-links"
	default:
		return "valid"
	}
}

// RunSummary is everything a run reports back
type RunSummary struct {
	RunID    string
	Endpoint Endpoint

	// State is the last state the run reached
	State State

	// BlankCapabilities is set when GetCapabilities returned no content
	BlankCapabilities bool

	// Malformed holds one error per FeatureType entry without a name
	Malformed []error

	// Types holds one result per feature type in enumeration order
	Types []TypeResult

	// Fatal is set when the run was aborted (capabilities or schema failure)
	Fatal error

	Duration time.Duration
}

// Errors is the total error count of the run
func (s RunSummary) Errors() int {
	n := len(s.Malformed)
	if s.BlankCapabilities {
		n++
	}
	if s.Fatal != nil {
		n++
	}
	for _, t := range s.Types {
		n += t.Errors()
	}
	return n
}

// Failed reports whether any error was found
func (s RunSummary) Failed() bool {
	return s.Errors() > 0
}

// ExitCode is the process status for the run: 0 without errors, 2 otherwise
func (s RunSummary) ExitCode() int {
	if s.Failed() {
		return 2
	}
	return 0
}

// Runner drives a validation run: capabilities, feature type enumeration, one
// schema build, then a check of every feature type. A failing feature type never
// stops the others.
type Runner struct {
	Fetcher Fetcher
	Schemas *SchemaCache
	Hrefs   *HrefChecker
	Logger  *slog.Logger
	Metrics *Metrics

	// Count is the number of features requested per type
	Count int

	// Workers is the number of feature types checked at a time. Values below 2
	// keep the run sequential.
	Workers int

	// RunID tags the log records of the run. Generated when empty.
	RunID string

	// Formatter, when set, adds source context to violation records at debug level
	Formatter *ViolationFormatter
}

// Run validates the service at endpoint
func (r *Runner) Run(ctx context.Context, endpoint Endpoint) (summary RunSummary) {
	start := time.Now()
	summary = RunSummary{
		RunID:    r.RunID,
		Endpoint: endpoint,
		State:    StateStart,
	}
	if summary.RunID == "" {
		summary.RunID = uuid.NewString()
	}
	logger := r.logger().With("run_id", summary.RunID)

	defer func() {
		summary.Duration = time.Since(start)
		r.Metrics.RecordRun(summary)
	}()

	logger.Info("validating service", "url", endpoint)

	names, ok := r.enumerate(ctx, endpoint, logger, &summary)
	if !ok {
		return summary
	}
	summary.State = StateTypesEnumerated
	logger.Info("found feature types", "count", len(names))

	logger.Info("building schema for WFS")
	schema, err := r.Schemas.Get(ctx, endpoint)
	if err != nil {
		logger.Error("failed to build schema", "error", err)
		summary.Fatal = err
		r.Metrics.RecordErrors("schema", 1)
		return summary
	}
	summary.State = StateSchemaBuilt

	summary.State = StateValidatingTypes
	summary.Types = r.validateTypes(ctx, endpoint, schema, names, logger)
	summary.State = StateDone

	for _, t := range summary.Types {
		r.Metrics.RecordFeatureType(t.Status())
		r.Metrics.RecordHrefs(t.Hrefs.Checked)
		r.Metrics.RecordErrors("broken_link", len(t.Hrefs.Broken))
		switch {
		case t.FetchErr != nil:
			r.Metrics.RecordErrors("fetch", 1)
		case t.ValidateErr != nil || len(t.Violations) > 0:
			r.Metrics.RecordErrors("schema_violation", 1)
		}
	}

	logger.Info("validation finished", "feature_types", len(summary.Types), "errors", summary.Errors())
	return summary
}

// enumerate fetches the capabilities and reads the feature type names. It
// returns false when the run has to be aborted.
func (r *Runner) enumerate(ctx context.Context, endpoint Endpoint, logger *slog.Logger, summary *RunSummary) ([]FeatureTypeName, bool) {
	text, err := r.Fetcher.Fetch(ctx, endpoint.CapabilitiesURL())
	if err != nil {
		logger.Error("failed to fetch capabilities", "error", err)
		summary.Fatal = fmt.Errorf("%w: %w", ErrCapabilities, err)
		r.Metrics.RecordErrors("capabilities", 1)
		return nil, false
	}
	summary.State = StateCapabilitiesFetched

	if strings.TrimSpace(text) == "" {
		logger.Warn("capabilities response without content")
		summary.BlankCapabilities = true
		r.Metrics.RecordErrors("capabilities", 1)
		return nil, true
	}

	doc, err := ParseDocument(text)
	if err != nil {
		logger.Error("failed to read capabilities", "error", err)
		summary.Fatal = fmt.Errorf("%w: %w", ErrCapabilities, err)
		r.Metrics.RecordErrors("capabilities", 1)
		return nil, false
	}

	names, malformed := ReadFeatureTypes(doc)
	for _, err := range malformed {
		logger.Warn("skipping feature type", "error", err)
	}
	summary.Malformed = malformed
	r.Metrics.RecordErrors("malformed_capabilities", len(malformed))
	return names, true
}

// validateTypes checks every feature type. Results are stored by position, so
// the outcome does not depend on the number of workers.
func (r *Runner) validateTypes(ctx context.Context, endpoint Endpoint, schema CompiledSchema, names []FeatureTypeName, logger *slog.Logger) []TypeResult {
	results := make([]TypeResult, len(names))

	if r.Workers < 2 {
		for i, name := range names {
			results[i] = r.validateType(ctx, endpoint, schema, name, logger)
		}
		return results
	}

	var g errgroup.Group
	g.SetLimit(r.Workers)
	for i, name := range names {
		g.Go(func() error {
			results[i] = r.validateType(ctx, endpoint, schema, name, logger)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (r *Runner) validateType(ctx context.Context, endpoint Endpoint, schema CompiledSchema, name FeatureTypeName, logger *slog.Logger) (result TypeResult) {
	start := time.Now()
	result = TypeResult{Name: name}
	defer func() {
		result.Duration = time.Since(start)
	}()

	logger = logger.With("feature_type", name)
	if err := ctx.Err(); err != nil {
		result.FetchErr = fmt.Errorf("%w: %w", ErrTypeFetch, err)
		return result
	}
	logger.Info("validating feature type")

	featuresURL := endpoint.GetFeatureURL(name, r.count())
	text, err := r.Fetcher.Fetch(ctx, featuresURL)
	if err != nil {
		logger.Warn("error requesting feature type", "url", featuresURL, "error", err)
		result.FetchErr = fmt.Errorf("%w: %w", ErrTypeFetch, err)
		return result
	}
	if strings.TrimSpace(text) == "" {
		logger.Info("empty feature response, skipping")
		result.Skipped = true
		return result
	}

	doc, err := ParseDocument(text)
	if err != nil {
		logger.Warn("error reading feature response", "url", featuresURL, "error", err)
		result.FetchErr = fmt.Errorf("%w: %w", ErrTypeFetch, err)
		return result
	}

	result.Hrefs = r.hrefs().Check(ctx, doc, endpoint)

	result.Violations, result.ValidateErr = ValidateFeatures(text, schema)
	if result.ValidateErr != nil {
		logger.Warn("error validating feature type", "error", result.ValidateErr)
	}
	for _, v := range result.Violations {
		logger.Info("error validating schema",
			"line", v.Position.Line, "severity", v.Severity, "code", v.Code, "message", v.Message)
		if r.Formatter != nil {
			logger.Debug("violation context", "context", r.Formatter.Format(v, text))
		}
	}
	if result.ValidateErr == nil && len(result.Violations) == 0 {
		logger.Info("feature type is valid")
	}
	return result
}

func (r *Runner) count() int {
	if r.Count <= 0 {
		return DefaultFeatureCount
	}
	return r.Count
}

func (r *Runner) hrefs() *HrefChecker {
	if r.Hrefs != nil {
		return r.Hrefs
	}
	return &HrefChecker{Fetcher: r.Fetcher, Logger: r.Logger}
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}
