package cli

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/happyhackingspace/campo"
	"github.com/happyhackingspace/campo/classifier"
	"github.com/happyhackingspace/campo/internal/storage"
)

func (c *CLI) newTrainCommand() *cobra.Command {
	var dbPath string
	var includeSeed bool

	cmd := &cobra.Command{
		Use:   "train <modelfile>",
		Short: "Train a model from the learning database",
		Args:  cobra.ExactArgs(1),
		Example: `  campo train model.json --db campo.db
  campo train model.json --db campo.db --seed -v`,
		RunE: func(cmd *cobra.Command, args []string) error {
			modelPath := args[0]
			store, err := storage.Open(dbPath)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			slog.Info("Training classifier", "db", dbPath, "output", modelPath, "seed", includeSeed)
			start := time.Now()
			cfg := classifier.DefaultTrainConfig()
			cfg.Verbose = c.verbose
			model, err := campo.Train(cmd.Context(), store, campo.TrainOptions{
				IncludeSeed: includeSeed,
				Config:      cfg,
			})
			if err != nil {
				return err
			}
			slog.Debug("Training completed", "duration", time.Since(start))

			if err := classifier.SaveModel(model, modelPath); err != nil {
				return err
			}
			slog.Info("Model saved", "path", modelPath, "classes", len(model.Classes))
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "campo.db", "Path to learning database")
	cmd.Flags().BoolVar(&includeSeed, "seed", true, "Mix the bundled seed examples into the training set")
	return cmd
}
