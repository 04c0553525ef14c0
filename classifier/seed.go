package classifier

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"
)

//go:embed seed_dataset.json
var seedDatasetJSON []byte

var (
	seedOnce     sync.Once
	seedExamples []TrainingExample
	seedErr      error
)

// SeedExamples returns the bundled pt-BR training examples.
func SeedExamples() ([]TrainingExample, error) {
	seedOnce.Do(func() {
		seedErr = json.Unmarshal(seedDatasetJSON, &seedExamples)
	})
	if seedErr != nil {
		return nil, fmt.Errorf("seed dataset: %w", seedErr)
	}
	return seedExamples, nil
}

// SeedModelSource trains a model from the bundled seed dataset. It is the
// fallback source when no runtime-trained model exists.
type SeedModelSource struct{}

// Name implements ModelSource.
func (SeedModelSource) Name() string { return "seed" }

// Load implements ModelSource.
func (SeedModelSource) Load(ctx context.Context) (*Model, error) {
	examples, err := SeedExamples()
	if err != nil {
		return nil, err
	}
	return TrainModel(examples, DefaultTrainConfig())
}
