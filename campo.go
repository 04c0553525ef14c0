// Package campo detects the semantic type of HTML form fields on Brazilian
// web pages and generates plausible fill values for them.
//
//	c, _ := campo.New()
//	fields, _ := c.ExtractFields(htmlString)
//	for _, f := range fields {
//	    fmt.Println(f.Selector, f.FieldType) // "#cpf" "cpf"
//	}
package campo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/happyhackingspace/campo/classifier"
	"github.com/happyhackingspace/campo/internal/generator"
	"github.com/happyhackingspace/campo/internal/htmlutil"
)

// Classifier is the top-level entry point: DOM extraction, the detection
// pipeline, and value generation behind one facade.
type Classifier struct {
	state *classifier.ModelState
	chain *classifier.Chain
	gen   *generator.Registry
}

// Options configures a Classifier.
type Options struct {
	// ModelPath points to a trained model file. Empty means search upward
	// from the working directory, then fall back to the bundled seed model.
	ModelPath string

	// Store persists learned classifications. Optional.
	Store classifier.LearningStore

	// Dataset accumulates training examples from oracle verdicts. Optional.
	Dataset classifier.DatasetStore

	// Oracle enables the LLM strategy in async runs. Optional.
	Oracle classifier.Oracle

	// Source tags dataset entries with their origin (page URL or domain).
	Source string
}

// FillEntry is one selector/value pair in a fill plan.
type FillEntry struct {
	Selector   string               `json:"selector"`
	Type       classifier.FieldType `json:"type"`
	Method     string               `json:"method"`
	Confidence float64              `json:"confidence"`
	Value      string               `json:"value"`
}

// New creates a Classifier with default options: model discovery, the seed
// fallback, no persistence and no oracle.
func New() (*Classifier, error) {
	return NewWithOptions(context.Background(), Options{})
}

// Load creates a Classifier from an explicit model file.
func Load(path string) (*Classifier, error) {
	return NewWithOptions(context.Background(), Options{ModelPath: path})
}

// NewWithOptions creates a fully configured Classifier and loads its model.
func NewWithOptions(ctx context.Context, opts Options) (*Classifier, error) {
	var sources []classifier.ModelSource
	if opts.ModelPath != "" {
		sources = append(sources, classifier.FileModelSource{Path: opts.ModelPath})
	} else {
		if path, err := findModel("model.json"); err == nil {
			sources = append(sources, classifier.FileModelSource{Path: path})
		}
		sources = append(sources, classifier.SeedModelSource{})
	}

	state := classifier.NewModelState(opts.Store, sources...)
	if err := state.Load(ctx); err != nil {
		return nil, fmt.Errorf("campo: %w", err)
	}

	strategies := []classifier.Strategy{
		classifier.HTMLType{},
		classifier.Keyword{},
		&classifier.Statistical{State: state},
	}
	if opts.Oracle != nil {
		strategies = append(strategies, &classifier.OracleStrategy{
			Oracle:   opts.Oracle,
			Learning: opts.Store,
			Dataset:  opts.Dataset,
			State:    state,
			Source:   opts.Source,
		})
	}

	return &Classifier{
		state: state,
		chain: classifier.NewChain(strategies...),
		gen:   generator.New(),
	}, nil
}

// findModel searches for the model file from the working directory upward,
// stopping at the module root, then checks the user cache directory.
func findModel(name string) (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	cached := filepath.Join(ModelDir(), name)
	if _, err := os.Stat(cached); err == nil {
		return cached, nil
	}
	return "", fmt.Errorf("%s not found", name)
}

// ModelDir returns the per-user directory for downloaded model files.
func ModelDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "campo")
}

// Pipeline returns the current detection pipeline, for reconfiguration via
// the builder methods.
func (c *Classifier) Pipeline() *classifier.Pipeline {
	return c.chain.Pipeline()
}

// SetPipeline replaces the detection pipeline.
func (c *Classifier) SetPipeline(p *classifier.Pipeline) {
	c.chain.Classify(p.Strategies()...)
}

// ExtractFields parses the HTML, extracts fillable fields and classifies each
// one with the synchronous strategies.
func (c *Classifier) ExtractFields(html string) ([]*classifier.FormField, error) {
	fields, err := c.extract(html)
	if err != nil {
		return nil, err
	}
	for _, f := range fields {
		c.chain.Pipeline().Run(f)
	}
	return fields, nil
}

// ExtractFieldsAsync classifies with the full pipeline, including the oracle
// when one is configured.
func (c *Classifier) ExtractFieldsAsync(ctx context.Context, html string) ([]*classifier.FormField, error) {
	fields, err := c.extract(html)
	if err != nil {
		return nil, err
	}
	return c.chain.RunAsync(ctx, fields), nil
}

// StreamFields classifies fields one at a time and yields each as soon as its
// verdict is ready, in document order.
func (c *Classifier) StreamFields(ctx context.Context, html string) (<-chan *classifier.FormField, error) {
	fields, err := c.extract(html)
	if err != nil {
		return nil, err
	}
	return c.chain.Stream(ctx, fields), nil
}

func (c *Classifier) extract(html string) ([]*classifier.FormField, error) {
	doc, err := htmlutil.LoadHTMLString(html)
	if err != nil {
		return nil, fmt.Errorf("campo: parse html: %w", err)
	}
	return htmlutil.ExtractFields(doc), nil
}

// FillPlan generates a synthetic value for every classified field. Fields
// left unknown get a generic text value.
func (c *Classifier) FillPlan(fields []*classifier.FormField) []FillEntry {
	plan := make([]FillEntry, len(fields))
	for i, f := range fields {
		plan[i] = FillEntry{
			Selector:   f.Selector,
			Type:       f.FieldType,
			Method:     f.DetectionMethod,
			Confidence: f.DetectionConfidence,
			Value:      c.gen.Generate(f.FieldType),
		}
	}
	return plan
}

// Save writes the loaded model to a file.
func (c *Classifier) Save(path string) error {
	model, err := c.state.Model()
	if err != nil {
		return fmt.Errorf("campo: %w", err)
	}
	if err := classifier.SaveModel(model, path); err != nil {
		return fmt.Errorf("campo: %w", err)
	}
	return nil
}

// Reload drops the model and the learned-vector cache and loads both again.
func (c *Classifier) Reload(ctx context.Context) error {
	if err := c.state.Reload(ctx); err != nil {
		return fmt.Errorf("campo: %w", err)
	}
	return nil
}
