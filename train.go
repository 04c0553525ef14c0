package campo

import (
	"context"
	"fmt"

	"github.com/happyhackingspace/campo/classifier"
	"github.com/happyhackingspace/campo/internal/storage"
)

// TrainOptions controls model training from the dataset store.
type TrainOptions struct {
	// IncludeSeed mixes the bundled seed examples into the training set.
	IncludeSeed bool
	Config      classifier.TrainConfig
}

// EvalOptions controls cross-validation.
type EvalOptions struct {
	Folds       int
	IncludeSeed bool
	Config      classifier.TrainConfig
}

// EvalResult holds cross-validation accuracy.
type EvalResult struct {
	Accuracy float64
	Correct  int
	Total    int
	PerType  map[classifier.FieldType]TypeAccuracy
}

// TypeAccuracy is per-class accuracy.
type TypeAccuracy struct {
	Correct int
	Total   int
}

// Train fits a model on the accumulated dataset entries, optionally mixed
// with the bundled seed examples.
func Train(ctx context.Context, store *storage.Store, opts TrainOptions) (*classifier.Model, error) {
	examples, _, err := trainingData(ctx, store, opts.IncludeSeed)
	if err != nil {
		return nil, err
	}
	cfg := opts.Config
	if cfg.MaxIter == 0 {
		cfg = classifier.DefaultTrainConfig()
	}
	model, err := classifier.TrainModel(examples, cfg)
	if err != nil {
		return nil, fmt.Errorf("campo: %w", err)
	}
	return model, nil
}

// Evaluate runs grouped k-fold cross-validation over the dataset. Entries
// from the same source domain always land in the same fold, so accuracy
// reflects unseen sites rather than memorized ones.
func Evaluate(ctx context.Context, store *storage.Store, opts EvalOptions) (*EvalResult, error) {
	examples, groups, err := trainingData(ctx, store, opts.IncludeSeed)
	if err != nil {
		return nil, err
	}

	nFolds := opts.Folds
	if nFolds <= 0 {
		nFolds = 10
	}
	cfg := opts.Config
	if cfg.MaxIter == 0 {
		cfg = classifier.DefaultTrainConfig()
	}

	result := &EvalResult{PerType: make(map[classifier.FieldType]TypeAccuracy)}
	folds := groupKFold(groups, nFolds)

	for _, testIdx := range folds {
		if len(testIdx) == 0 {
			continue
		}
		testSet := make([]bool, len(examples))
		for _, i := range testIdx {
			testSet[i] = true
		}
		var trainExamples []classifier.TrainingExample
		for i, ex := range examples {
			if !testSet[i] {
				trainExamples = append(trainExamples, ex)
			}
		}

		model, err := classifier.TrainModel(trainExamples, cfg)
		if err != nil {
			// A degenerate fold (single class) is skipped, not fatal.
			continue
		}

		for _, idx := range testIdx {
			ex := examples[idx]
			got, _ := model.Best(model.Vectorize(ex.Signals))
			ta := result.PerType[ex.Type]
			ta.Total++
			result.Total++
			if got == ex.Type {
				ta.Correct++
				result.Correct++
			}
			result.PerType[ex.Type] = ta
		}
	}

	if result.Total > 0 {
		result.Accuracy = float64(result.Correct) / float64(result.Total)
	}
	return result, nil
}

// trainingData flattens store entries (and optionally the seed set) into
// training examples plus a per-example domain group for fold assignment.
func trainingData(ctx context.Context, store *storage.Store, includeSeed bool) ([]classifier.TrainingExample, []int, error) {
	var examples []classifier.TrainingExample
	var groups []int
	domainMap := make(map[string]int)
	groupOf := func(domain string) int {
		if _, ok := domainMap[domain]; !ok {
			domainMap[domain] = len(domainMap)
		}
		return domainMap[domain]
	}

	if store != nil {
		entries, err := store.DatasetEntries(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("campo: %w", err)
		}
		for _, e := range entries {
			if !e.Type.Valid() || e.Type == classifier.FieldUnknown {
				continue
			}
			examples = append(examples, classifier.TrainingExample{Signals: e.Signals, Type: e.Type})
			groups = append(groups, groupOf(storage.GetDomain(e.Source)))
		}

		learned, err := store.LearnedEntries(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("campo: %w", err)
		}
		for _, e := range learned {
			if !e.Type.Valid() || e.Type == classifier.FieldUnknown {
				continue
			}
			examples = append(examples, classifier.TrainingExample{Signals: e.Signals, Type: e.Type})
			groups = append(groups, groupOf("learned"))
		}
	}

	if includeSeed {
		seed, err := classifier.SeedExamples()
		if err != nil {
			return nil, nil, fmt.Errorf("campo: %w", err)
		}
		for _, ex := range seed {
			examples = append(examples, ex)
			groups = append(groups, groupOf("seed"))
		}
	}

	if len(examples) == 0 {
		return nil, nil, fmt.Errorf("campo: no training examples available")
	}
	return examples, groups, nil
}

func groupKFold(groups []int, nFolds int) [][]int {
	uniqueGroups := make(map[int]bool)
	for _, g := range groups {
		uniqueGroups[g] = true
	}
	if nFolds > len(uniqueGroups) {
		nFolds = len(uniqueGroups)
	}
	if nFolds < 1 {
		nFolds = 1
	}

	groupToFold := make(map[int]int)
	next := 0
	for _, g := range groups {
		if _, ok := groupToFold[g]; !ok {
			groupToFold[g] = next % nFolds
			next++
		}
	}

	folds := make([][]int, nFolds)
	for i, g := range groups {
		fold := groupToFold[g]
		folds[fold] = append(folds[fold], i)
	}
	return folds
}
