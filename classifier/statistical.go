package classifier

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/happyhackingspace/campo/internal/textutil"
	"github.com/happyhackingspace/campo/internal/vectorizer"
)

// ModelSource supplies a pretrained model. Sources are tried in order; the
// first that succeeds wins.
type ModelSource interface {
	Name() string
	Load(ctx context.Context) (*Model, error)
}

// FileModelSource loads a runtime-trained model from a JSON file.
type FileModelSource struct {
	Path string
}

// Name implements ModelSource.
func (s FileModelSource) Name() string { return "file:" + s.Path }

// Load implements ModelSource.
func (s FileModelSource) Load(ctx context.Context) (*Model, error) {
	return LoadModelFile(s.Path)
}

// LearnedVector is a cached feature vector derived from a confirmed
// classification. Vectors are L2-normalized against the loaded model's
// vocabulary, so DotSparse against a normalized query vector is a cosine
// similarity. Vectors from different vocabularies are never compared: the
// cache is rebuilt whenever the model is replaced.
type LearnedVector struct {
	Vector vectorizer.SparseVector
	Type   FieldType
}

// ModelState owns the statistical classifier's process-wide state: the
// pretrained model triple and the learned-vector cache. It is safe for
// concurrent use; concurrent Load calls share one in-flight load.
type ModelState struct {
	store   LearningStore
	sources []ModelSource

	mu      sync.Mutex
	model   *Model
	learned []LearnedVector
	loading chan struct{} // non-nil while a load is in flight
	loadErr error
}

// NewModelState creates a ModelState backed by the given learning store
// (may be nil) and model sources.
func NewModelState(store LearningStore, sources ...ModelSource) *ModelState {
	return &ModelState{store: store, sources: sources}
}

// Loaded reports whether a pretrained model is available.
func (s *ModelState) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model != nil
}

// Model returns the loaded model, or an error when none is loaded.
func (s *ModelState) Model() (*Model, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.model == nil {
		return nil, fmt.Errorf("no model loaded")
	}
	return s.model, nil
}

// LearnedCount returns the number of cached learned vectors.
func (s *ModelState) LearnedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.learned)
}

// Load loads the pretrained model and populates the learned-vector cache.
// Idempotent; concurrent callers share a single in-flight load. On failure
// the state stays unloaded and classification degrades to deferrals.
func (s *ModelState) Load(ctx context.Context) error {
	s.mu.Lock()
	if s.model != nil {
		s.mu.Unlock()
		return nil
	}
	if s.loading != nil {
		ch := s.loading
		s.mu.Unlock()
		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.loadErr
	}
	ch := make(chan struct{})
	s.loading = ch
	s.mu.Unlock()

	model, err := s.loadFromSources(ctx)
	var learned []LearnedVector
	if err == nil {
		learned = s.buildLearnedVectors(ctx, model)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		s.model = model
		s.learned = learned
	}
	s.loadErr = err
	s.loading = nil
	close(ch)
	return err
}

func (s *ModelState) loadFromSources(ctx context.Context) (*Model, error) {
	var lastErr error
	for _, src := range s.sources {
		model, err := src.Load(ctx)
		if err != nil {
			slog.Debug("Model source failed", "source", src.Name(), "error", err)
			lastErr = err
			continue
		}
		slog.Debug("Model loaded", "source", src.Name(), "classes", len(model.Classes), "vocab", model.Vocab.VocabSize())
		return model, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no model sources configured")
	}
	return nil, fmt.Errorf("load model: %w", lastErr)
}

// buildLearnedVectors reads the learning store and vectorizes each entry with
// the given model's vocabulary. A read failure clears the cache rather than
// retaining stale entries.
func (s *ModelState) buildLearnedVectors(ctx context.Context, model *Model) []LearnedVector {
	if s.store == nil {
		return nil
	}
	entries, err := s.store.LearnedEntries(ctx)
	if err != nil {
		slog.Warn("Cannot read learned entries; cache cleared", "error", err)
		return nil
	}
	learned := make([]LearnedVector, 0, len(entries))
	for _, e := range entries {
		if !e.Type.Valid() || e.Type == FieldUnknown {
			continue
		}
		vec := model.Vectorize(e.Signals)
		if vec.Nnz() == 0 {
			continue
		}
		vec.Normalize()
		learned = append(learned, LearnedVector{Vector: vec, Type: e.Type})
	}
	return learned
}

// Invalidate drops the learned-vector cache immediately and repopulates it
// from the learning store in the background. The pretrained model itself is
// untouched. A no-op (with a warning) when the model is unloaded.
func (s *ModelState) Invalidate(ctx context.Context) {
	s.mu.Lock()
	model := s.model
	if model == nil {
		s.mu.Unlock()
		slog.Warn("Invalidate called with no model loaded; ignoring")
		return
	}
	s.learned = nil
	s.mu.Unlock()

	// The rebuild outlives the caller: callers cancel their context as soon
	// as Invalidate returns, and a cancelled store read would leave the cache
	// empty until the next full load.
	rctx := context.WithoutCancel(ctx)
	go func() {
		learned := s.buildLearnedVectors(rctx, model)
		s.mu.Lock()
		// The reference swap keeps in-flight classifications consistent:
		// they finish against whichever slice they captured.
		if s.model == model {
			s.learned = learned
		}
		s.mu.Unlock()
	}()
}

// Reload performs a full reset: drops the model and the learned vectors, then
// loads everything again.
func (s *ModelState) Reload(ctx context.Context) error {
	s.mu.Lock()
	s.model = nil
	s.learned = nil
	s.loadErr = nil
	s.mu.Unlock()
	return s.Load(ctx)
}

// ClassifyByTfSoft classifies signal text. The learned-vector pass reflects
// confirmed corrections and takes precedence over the pretrained model even
// when the model would disagree. Returns nil (deferral) for empty signals,
// unloaded model, unrecognized tokens, or sub-threshold scores.
func (s *ModelState) ClassifyByTfSoft(signals string) *Result {
	text := textutil.Normalize(signals)
	if text == "" {
		return nil
	}

	s.mu.Lock()
	model := s.model
	learned := s.learned
	s.mu.Unlock()

	if model == nil {
		slog.Debug("Statistical classifier has no model; deferring")
		return nil
	}

	vec := model.Vectorize(text)
	if vec.Nnz() == 0 {
		return nil
	}
	vec.Normalize()

	var bestLearned float64
	var bestLearnedType FieldType
	for _, lv := range learned {
		score := vec.DotSparse(lv.Vector)
		if score > bestLearned {
			bestLearned = score
			bestLearnedType = lv.Type
		}
	}
	if bestLearned >= LearnedThreshold {
		return &Result{Type: bestLearnedType, Confidence: bestLearned}
	}

	t, score := model.Best(vec)
	if score < ModelThreshold {
		return nil
	}
	return &Result{Type: t, Confidence: score}
}

// Statistical is the pipeline strategy wrapping a ModelState.
type Statistical struct {
	State *ModelState
}

// Name implements Strategy.
func (s *Statistical) Name() string { return "statistical" }

// Detect implements Strategy.
func (s *Statistical) Detect(f *FormField) *Result {
	return s.State.ClassifyByTfSoft(f.SignalText())
}

// ClassifyField always produces a type: the statistical verdict when there is
// one, else the native input type fallback, else FieldUnknown.
func (s *Statistical) ClassifyField(f *FormField) FieldType {
	if r := s.Detect(f); r != nil {
		return r.Type
	}
	if t, ok := nativeFallbackTypes[f.NativeType]; ok {
		return t
	}
	return FieldUnknown
}
