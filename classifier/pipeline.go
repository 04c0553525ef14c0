package classifier

import (
	"context"
	"slices"
	"time"
)

// Pipeline evaluates an ordered, immutable list of strategies. The first
// non-nil, non-unknown result wins; order is the only priority, no score
// comparison happens across strategies. Reconfiguration operations return a
// new Pipeline and never mutate the receiver.
type Pipeline struct {
	strategies []Strategy
}

// NewPipeline creates a pipeline over the given strategies, in order.
func NewPipeline(strategies ...Strategy) *Pipeline {
	return &Pipeline{strategies: slices.Clone(strategies)}
}

// Strategies returns a copy of the strategy list in evaluation order.
func (p *Pipeline) Strategies() []Strategy {
	return slices.Clone(p.strategies)
}

// Names returns the strategy names in evaluation order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.strategies))
	for i, s := range p.strategies {
		names[i] = s.Name()
	}
	return names
}

// Run classifies a field using only synchronous strategies. Async-only
// strategies naturally defer. The verdict is annotated back onto the field.
func (p *Pipeline) Run(f *FormField) PipelineResult {
	start := time.Now()
	for _, s := range p.strategies {
		if r := s.Detect(f); confident(r) {
			return p.annotate(f, r.Type, s.Name(), r.Confidence, start)
		}
	}
	return p.annotate(f, FieldUnknown, FallbackMethod, FallbackConfidence, start)
}

// RunAsync classifies a field, letting strategies with an async capability
// use it. Strategies are awaited strictly in list order; there is no fan-out.
func (p *Pipeline) RunAsync(ctx context.Context, f *FormField) PipelineResult {
	start := time.Now()
	for _, s := range p.strategies {
		var r *Result
		if as, ok := s.(AsyncStrategy); ok {
			r = as.DetectAsync(ctx, f)
		} else {
			r = s.Detect(f)
		}
		if confident(r) {
			return p.annotate(f, r.Type, s.Name(), r.Confidence, start)
		}
	}
	return p.annotate(f, FieldUnknown, FallbackMethod, FallbackConfidence, start)
}

func confident(r *Result) bool {
	return r != nil && r.Type != FieldUnknown
}

func (p *Pipeline) annotate(f *FormField, t FieldType, method string, confidence float64, start time.Time) PipelineResult {
	res := PipelineResult{
		Type:       t,
		Method:     method,
		Confidence: confidence,
		Duration:   time.Since(start),
	}
	f.FieldType = res.Type
	f.DetectionMethod = res.Method
	f.DetectionConfidence = res.Confidence
	f.DetectionDuration = res.Duration
	return res
}

// With returns a new pipeline with the strategy appended.
func (p *Pipeline) With(s Strategy) *Pipeline {
	out := slices.Clone(p.strategies)
	return &Pipeline{strategies: append(out, s)}
}

// Without returns a new pipeline with the named strategy removed.
func (p *Pipeline) Without(name string) *Pipeline {
	out := make([]Strategy, 0, len(p.strategies))
	for _, s := range p.strategies {
		if s.Name() != name {
			out = append(out, s)
		}
	}
	return &Pipeline{strategies: out}
}

// WithOrder returns a new pipeline containing the named strategies in the
// given order. Unknown names are skipped; unnamed strategies are dropped.
func (p *Pipeline) WithOrder(names ...string) *Pipeline {
	byName := make(map[string]Strategy, len(p.strategies))
	for _, s := range p.strategies {
		byName[s.Name()] = s
	}
	out := make([]Strategy, 0, len(names))
	for _, n := range names {
		if s, ok := byName[n]; ok {
			out = append(out, s)
		}
	}
	return &Pipeline{strategies: out}
}

// InsertBefore returns a new pipeline with the strategy inserted before the
// named one, or appended when the name is absent.
func (p *Pipeline) InsertBefore(name string, s Strategy) *Pipeline {
	out := make([]Strategy, 0, len(p.strategies)+1)
	inserted := false
	for _, existing := range p.strategies {
		if !inserted && existing.Name() == name {
			out = append(out, s)
			inserted = true
		}
		out = append(out, existing)
	}
	if !inserted {
		out = append(out, s)
	}
	return &Pipeline{strategies: out}
}
