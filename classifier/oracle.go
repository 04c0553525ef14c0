package classifier

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/happyhackingspace/campo/internal/textutil"
)

// OracleStrategy consults an external language-model oracle. It only
// participates in asynchronous pipeline runs: the synchronous Detect is a
// hard no-op. Accepted verdicts are written back to the learning store and
// the statistical classifier's cache is invalidated, closing the
// online-learning loop.
type OracleStrategy struct {
	Oracle   Oracle
	Learning LearningStore
	Dataset  DatasetStore
	State    *ModelState

	// Source tags dataset entries with where the field came from (page URL
	// or domain). Optional.
	Source string

	// Timeout and MinConfidence default to OracleTimeout and
	// OracleMinConfidence when zero.
	Timeout       time.Duration
	MinConfidence float64
}

// Name implements Strategy.
func (o *OracleStrategy) Name() string { return "oracle" }

// Detect implements Strategy. Always defers: the oracle is async-only.
func (o *OracleStrategy) Detect(f *FormField) *Result { return nil }

// DetectAsync implements AsyncStrategy. All failures, including timeouts, are
// converted to deferrals; a timeout is distinguishable from a rejection only
// in the logs.
func (o *OracleStrategy) DetectAsync(ctx context.Context, f *FormField) *Result {
	if o.Oracle == nil {
		return nil
	}

	in := o.buildInput(f)
	timeout := o.Timeout
	if timeout <= 0 {
		timeout = OracleTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	verdict, err := o.Oracle.Classify(ctx, in)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			slog.Warn("Oracle timed out", "selector", f.Selector, "timeout", timeout)
		} else {
			slog.Warn("Oracle call failed", "selector", f.Selector, "error", err)
		}
		return nil
	}
	if verdict == nil {
		return nil
	}

	ft, ok := ParseFieldType(verdict.FieldType)
	if !ok || ft == FieldUnknown {
		slog.Debug("Oracle verdict rejected", "fieldType", verdict.FieldType)
		return nil
	}
	conf := verdict.Confidence
	if math.IsNaN(conf) {
		slog.Debug("Oracle verdict rejected: confidence is not numeric")
		return nil
	}
	conf = math.Min(math.Max(conf, 0), 1)
	minConf := o.MinConfidence
	if minConf <= 0 {
		minConf = OracleMinConfidence
	}
	if conf < minConf {
		slog.Debug("Oracle verdict below acceptance threshold", "fieldType", ft, "confidence", conf)
		return nil
	}

	o.persist(in.Signals, ft, verdict.GeneratorType)
	return &Result{Type: ft, Confidence: conf}
}

// persist writes the accepted verdict to the learning and dataset stores,
// then invalidates the statistical cache. Failures are swallowed: the
// classification already succeeded for this call.
func (o *OracleStrategy) persist(signals string, t FieldType, generatorType string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if o.Learning != nil {
			if err := o.Learning.StoreLearnedEntry(ctx, signals, t, generatorType); err != nil {
				slog.Debug("Cannot store learned entry", "error", err)
			}
		}
		if o.Dataset != nil {
			e := DatasetEntry{Signals: signals, Type: t, Source: o.Source, Difficulty: "hard"}
			if err := o.Dataset.AddDatasetEntry(ctx, e); err != nil {
				slog.Debug("Cannot store dataset entry", "error", err)
			}
		}
		if o.State != nil {
			o.State.Invalidate(ctx)
		}
	}()
}

func (o *OracleStrategy) buildInput(f *FormField) OracleInput {
	in := OracleInput{Signals: textutil.Normalize(f.SignalText())}
	if f.Element == nil || f.Element.Length() == 0 {
		return in
	}
	if html, err := goquery.OuterHtml(f.Element); err == nil {
		in.ElementHTML = truncate(html, MaxElementHTML)
	}
	container := f.Element.Closest("form, fieldset, section, table")
	if container.Length() == 0 {
		container = f.Element.Parent()
	}
	if container.Length() > 0 {
		if html, err := goquery.OuterHtml(container); err == nil {
			in.ContainerHTML = truncate(html, MaxContainerHTML)
		}
	}
	return in
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
