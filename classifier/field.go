// Package classifier implements the field detection pipeline: an ordered
// chain of classification strategies that agree on one verdict per form
// field.
//
// Strategies are evaluated in list order; the first confident, non-unknown
// result terminates the chain. Deterministic strategies therefore always win
// over statistical ones when both would be confident, by construction.
package classifier

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Configuration defaults for the pipeline and its strategies.
const (
	// ModelThreshold is the minimum pretrained-model score; a score below it
	// is a deferral, a score equal to it is accepted.
	ModelThreshold = 0.2
	// LearnedThreshold is the minimum cosine similarity against a learned
	// vector for the learned pass to short-circuit the model pass.
	LearnedThreshold = 0.5
	// OracleMinConfidence is the minimum confidence for an oracle verdict to
	// be accepted.
	OracleMinConfidence = 0.6
	// OracleTimeout bounds a single oracle call.
	OracleTimeout = 60 * time.Second
	// MaxElementHTML bounds the element snapshot sent to the oracle.
	MaxElementHTML = 600
	// MaxContainerHTML bounds the ancestor-container snapshot sent to the
	// oracle.
	MaxContainerHTML = 500

	// FallbackMethod is the method recorded on the pipeline's terminal
	// sentinel result.
	FallbackMethod = "html-fallback"
	// FallbackConfidence is the confidence of the terminal sentinel result.
	FallbackConfidence = 0.1
)

// FormField is one candidate form element, produced by the DOM extraction
// layer. The pipeline reads Selector, ContextSignals and the metadata fields,
// and writes the detection verdict back onto the same object.
type FormField struct {
	Selector       string
	ContextSignals string

	// Element is the raw DOM node; opaque to the pipeline, used only by
	// strategies that need raw HTML (the oracle). May be nil.
	Element *goquery.Selection

	Label      string
	Name       string
	ID         string
	Tag        string // "input", "textarea", "select"
	NativeType string // input type attribute, lowercased; "" for non-inputs

	// Verdict, set by the pipeline.
	FieldType           FieldType
	DetectionMethod     string
	DetectionConfidence float64
	DetectionDuration   time.Duration
}

// SignalText returns the text used for pattern matching and vectorization:
// the precomputed context signals, or the field metadata when the extraction
// layer left them empty.
func (f *FormField) SignalText() string {
	if strings.TrimSpace(f.ContextSignals) != "" {
		return f.ContextSignals
	}
	parts := make([]string, 0, 3)
	for _, p := range []string{f.Label, f.Name, f.ID} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// Result is a single strategy's verdict. A nil Result, or one typed
// FieldUnknown, means "defer to the next strategy".
type Result struct {
	Type       FieldType
	Confidence float64
}

// PipelineResult is the authoritative verdict for one field and one pipeline
// run.
type PipelineResult struct {
	Type       FieldType
	Method     string
	Confidence float64
	Duration   time.Duration
}

// Strategy is a named classification unit. Detect must be non-blocking and
// must not panic; ordinary uncertainty is expressed by returning nil, never
// by an error.
type Strategy interface {
	Name() string
	Detect(f *FormField) *Result
}

// AsyncStrategy is a Strategy that can also participate in asynchronous
// pipeline runs. DetectAsync follows the same no-error contract as Detect:
// timeouts and transport failures are logged and become nil.
type AsyncStrategy interface {
	Strategy
	DetectAsync(ctx context.Context, f *FormField) *Result
}

// LearnedEntry is one confirmed classification persisted in the learning
// store.
type LearnedEntry struct {
	Signals       string
	Type          FieldType
	GeneratorType string
}

// DatasetEntry is one training example persisted in the dataset store.
type DatasetEntry struct {
	Signals    string
	Type       FieldType
	Source     string
	Difficulty string
}

// LearningStore is the durable store of confirmed classifications. Read by
// the statistical classifier on load and invalidation, written by the oracle
// strategy.
type LearningStore interface {
	LearnedEntries(ctx context.Context) ([]LearnedEntry, error)
	StoreLearnedEntry(ctx context.Context, signals string, t FieldType, generatorType string) error
}

// DatasetStore accumulates training examples as a side effect of accepted
// oracle verdicts. Never read by the pipeline.
type DatasetStore interface {
	AddDatasetEntry(ctx context.Context, e DatasetEntry) error
}

// OracleInput is the bounded HTML context snapshot sent to the external
// oracle.
type OracleInput struct {
	ElementHTML   string
	ContainerHTML string
	Signals       string
}

// OracleVerdict is the oracle's structured response.
type OracleVerdict struct {
	FieldType     string  `json:"fieldType"`
	Confidence    float64 `json:"confidence"`
	GeneratorType string  `json:"generatorType"`
}

// Oracle is the external high-context classifier consulted only in
// asynchronous pipeline runs.
type Oracle interface {
	Classify(ctx context.Context, in OracleInput) (*OracleVerdict, error)
}
