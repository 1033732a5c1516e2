// Package translator converts natural language questions about the hotel
// review graph into validated Gremlin queries. It detects the input language,
// composes a schema-grounded generation prompt, calls an external query
// generator, repairs the candidate against domain completeness rules and
// falls back to deterministic intent templates when generation fails.
//
// The package is stateless per call: all static data (schema, few-shot sets,
// rules, fallback patterns) is built once and shared read-only, so concurrent
// translations need no coordination.
package translator

import (
	"context"
	"errors"
	"time"
)

// Generation failure reasons reported by TranslateStrict.
var (
	ErrNoGenerator     = errors.New("no query generator configured")
	ErrEmptyGeneration = errors.New("generator returned no usable query")
	ErrUnrepairable    = errors.New("generated query could not be repaired")
)

// Source records which path produced the final query.
type Source string

const (
	SourceGenerated Source = "generated"
	SourceRepaired  Source = "repaired"
	SourceFallback  Source = "fallback"
)

// GeneratedQuery is the raw output of the external query generator.
type GeneratedQuery struct {
	RawText string
	// Confidence is advisory metadata only. It never gates repair or
	// fallback decisions; presence of a usable query does.
	Confidence float64
}

// QueryGenerator is the external LLM collaborator. Implementations are
// fallible remote calls; the translator applies no retry policy of its own.
type QueryGenerator interface {
	GenerateQuery(ctx context.Context, prompt string) (GeneratedQuery, error)
}

// Metrics is the subset of the metrics service the translator records to.
type Metrics interface {
	IncrementCounter(name string, tags map[string]string)
	RecordDuration(name string, duration time.Duration, tags map[string]string)
}

// Result is the final translation for one request.
type Result struct {
	QueryText   string   `json:"query_text"`
	Explanation string   `json:"explanation,omitempty"`
	Confidence  float64  `json:"confidence"`
	Source      Source   `json:"source"`
	Language    Language `json:"detected_language"`
}

// Options configures a Translator.
type Options struct {
	Generator QueryGenerator
	Metrics   Metrics
	// GenerationTimeout bounds the generator call when the caller's context
	// carries no earlier deadline. Zero means no extra bound.
	GenerationTimeout time.Duration
}

// Translator orchestrates the translation pipeline. Safe for concurrent use.
type Translator struct {
	schema    *Schema
	composer  *PromptComposer
	validator *Validator
	fallback  *FallbackGenerator
	generator QueryGenerator
	metrics   Metrics
	timeout   time.Duration
}

// New builds a Translator with the static domain data and the given options.
func New(opts Options) (*Translator, error) {
	schema, err := NewSchema()
	if err != nil {
		return nil, err
	}
	return &Translator{
		schema:    schema,
		composer:  NewPromptComposer(schema),
		validator: NewValidator(),
		fallback:  NewFallbackGenerator(),
		generator: opts.Generator,
		metrics:   opts.Metrics,
		timeout:   opts.GenerationTimeout,
	}, nil
}

// Schema exposes the static domain schema, e.g. for the schema endpoint.
func (t *Translator) Schema() *Schema {
	return t.schema
}

// Translate converts one natural language question into a validated Gremlin
// query. It never returns an error: generator failures, timeouts, empty
// output and unrepairable candidates all degrade to the deterministic
// fallback, whose catch-all guarantees a usable result for any input.
func (t *Translator) Translate(ctx context.Context, rawText string, limit int) Result {
	start := time.Now()
	req := Request{
		RawText:  rawText,
		Language: DetectLanguage(rawText),
		Limit:    limit,
	}

	result, err := t.generate(ctx, req)
	if err != nil {
		result = t.fallbackResult(req)
	}
	result.Language = req.Language

	t.record(result, req, time.Since(start))
	return result
}

// TranslateStrict converts a question without the fallback safety net:
// generation failures surface as errors instead of degrading to the
// deterministic patterns. Deployments that disable the fallback use this
// entry point.
func (t *Translator) TranslateStrict(ctx context.Context, rawText string, limit int) (Result, error) {
	start := time.Now()
	req := Request{
		RawText:  rawText,
		Language: DetectLanguage(rawText),
		Limit:    limit,
	}

	result, err := t.generate(ctx, req)
	if err != nil {
		return Result{}, err
	}
	result.Language = req.Language

	t.record(result, req, time.Since(start))
	return result, nil
}

func (t *Translator) generate(ctx context.Context, req Request) (Result, error) {
	if t.generator == nil {
		return Result{}, ErrNoGenerator
	}
	if req.RawText == "" {
		return Result{}, ErrEmptyGeneration
	}

	prompt := t.composer.Compose(req.RawText, req.Language)

	genCtx := ctx
	if t.timeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	generated, err := t.generator.GenerateQuery(genCtx, prompt)
	if err != nil {
		return Result{}, err
	}

	candidate, explanation := ExtractQuery(generated.RawText)
	if candidate == "" {
		return Result{}, ErrEmptyGeneration
	}

	repaired, ok := t.validator.ValidateAndRepair(candidate, req)
	if !ok {
		return Result{}, ErrUnrepairable
	}

	source := SourceGenerated
	if repaired != candidate {
		source = SourceRepaired
	}
	return Result{
		QueryText:   repaired,
		Explanation: explanation,
		Confidence:  generated.Confidence,
		Source:      source,
	}, nil
}

func (t *Translator) fallbackResult(req Request) Result {
	query, pattern := t.fallback.Generate(req.RawText, req.Language, req.ResultLimit())
	return Result{
		QueryText:   query,
		Explanation: "matched fallback pattern: " + pattern,
		Source:      SourceFallback,
	}
}

func (t *Translator) record(result Result, req Request, elapsed time.Duration) {
	if t.metrics == nil {
		return
	}
	tags := map[string]string{
		"language": string(req.Language),
		"source":   string(result.Source),
	}
	t.metrics.IncrementCounter("translation.requests.total", tags)
	t.metrics.RecordDuration("translation.duration", elapsed, tags)
}
