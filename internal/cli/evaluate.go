package cli

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/happyhackingspace/campo"
	"github.com/happyhackingspace/campo/classifier"
	"github.com/happyhackingspace/campo/internal/storage"
)

func (c *CLI) newEvaluateCommand() *cobra.Command {
	var dbPath string
	var cvFolds int
	var includeSeed bool

	cmd := &cobra.Command{
		Use:     "evaluate",
		Short:   "Evaluate model accuracy via grouped cross-validation",
		Example: `  campo evaluate --db campo.db --cv 10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := storage.Open(dbPath)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			slog.Info("Evaluating", "folds", cvFolds, "db", dbPath)
			start := time.Now()
			result, err := campo.Evaluate(cmd.Context(), store, campo.EvalOptions{
				Folds:       cvFolds,
				IncludeSeed: includeSeed,
			})
			if err != nil {
				return err
			}
			slog.Debug("Evaluation completed", "duration", time.Since(start))

			fmt.Printf("Field type accuracy: %.1f%% (%d/%d)\n",
				result.Accuracy*100, result.Correct, result.Total)

			types := make([]string, 0, len(result.PerType))
			for t := range result.PerType {
				types = append(types, string(t))
			}
			sort.Strings(types)
			fmt.Printf("\nPer-type accuracy:\n")
			for _, t := range types {
				ta := result.PerType[classifier.FieldType(t)]
				acc := 0.0
				if ta.Total > 0 {
					acc = float64(ta.Correct) / float64(ta.Total) * 100
				}
				fmt.Printf("%12s  %5.1f%%  (%d/%d)\n", t, acc, ta.Correct, ta.Total)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "campo.db", "Path to learning database")
	cmd.Flags().IntVar(&cvFolds, "cv", 10, "Number of cross-validation folds")
	cmd.Flags().BoolVar(&includeSeed, "seed", true, "Mix the bundled seed examples into the evaluation set")
	return cmd
}
