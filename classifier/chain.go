package classifier

import "context"

// Chain is a thin batch/stream wrapper around a pipeline. Fields are
// processed sequentially, never concurrently: this bounds peak load on the
// oracle and lets an accepted verdict for one field influence the statistical
// classification of the next.
type Chain struct {
	pipeline *Pipeline
}

// NewChain creates a chain over the given strategies.
func NewChain(strategies ...Strategy) *Chain {
	return &Chain{pipeline: NewPipeline(strategies...)}
}

// Classify replaces the stored strategy list. It is a full reconfiguration,
// never an append.
func (c *Chain) Classify(strategies ...Strategy) {
	c.pipeline = NewPipeline(strategies...)
}

// Pipeline returns the current pipeline.
func (c *Chain) Pipeline() *Pipeline {
	return c.pipeline
}

// RunAsync classifies every field sequentially, annotating each, and returns
// the same slice.
func (c *Chain) RunAsync(ctx context.Context, fields []*FormField) []*FormField {
	for _, f := range fields {
		c.pipeline.RunAsync(ctx, f)
	}
	return fields
}

// Stream classifies fields sequentially and yields each one as soon as its
// own classification completes. Yields follow input order, not completion
// order. The channel is closed when all fields are done or ctx is cancelled.
func (c *Chain) Stream(ctx context.Context, fields []*FormField) <-chan *FormField {
	out := make(chan *FormField)
	go func() {
		defer close(out)
		for _, f := range fields {
			if ctx.Err() != nil {
				return
			}
			c.pipeline.RunAsync(ctx, f)
			select {
			case out <- f:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
