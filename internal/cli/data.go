package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/happyhackingspace/campo/classifier"
	"github.com/happyhackingspace/campo/internal/storage"
)

func (c *CLI) newDataCommand() *cobra.Command {
	dataCmd := &cobra.Command{
		Use:   "data",
		Short: "Inspect and export the learning database",
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	var statsDB string
	statsCmd := &cobra.Command{
		Use:     "stats",
		Short:   "Show entry counts per table and field type",
		Example: `  campo data stats --db campo.db`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := storage.Open(statsDB)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			st, err := store.Stats(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Printf("Learned entries: %d\n", st.LearnedCount)
			printTypeCounts(st.LearnedByType)
			fmt.Printf("\nDataset entries: %d (from %d sources)\n", st.DatasetCount, st.DatasetSources)
			printTypeCounts(st.DatasetByType)
			return nil
		},
	}
	statsCmd.Flags().StringVar(&statsDB, "db", "campo.db", "Path to learning database")

	var exportDB string
	var exportOut string
	exportCmd := &cobra.Command{
		Use:     "export",
		Short:   "Export dataset entries as JSON training examples",
		Example: `  campo data export --db campo.db --out dataset.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := storage.Open(exportDB)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			entries, err := store.DatasetEntries(cmd.Context())
			if err != nil {
				return err
			}
			examples := make([]classifier.TrainingExample, 0, len(entries))
			for _, e := range entries {
				if !e.Type.Valid() || e.Type == classifier.FieldUnknown {
					continue
				}
				examples = append(examples, classifier.TrainingExample{Signals: e.Signals, Type: e.Type})
			}

			data, err := json.MarshalIndent(examples, "", "  ")
			if err != nil {
				return err
			}
			if exportOut == "" || exportOut == "-" {
				fmt.Println(string(data))
				return nil
			}
			if err := os.WriteFile(exportOut, data, 0644); err != nil {
				return fmt.Errorf("write %s: %w", exportOut, err)
			}
			fmt.Printf("Exported %d examples to %s\n", len(examples), exportOut)
			return nil
		},
	}
	exportCmd.Flags().StringVar(&exportDB, "db", "campo.db", "Path to learning database")
	exportCmd.Flags().StringVar(&exportOut, "out", "-", "Output file (- for stdout)")

	dataCmd.AddCommand(statsCmd, exportCmd)
	return dataCmd
}

func printTypeCounts(counts map[classifier.FieldType]int) {
	types := make([]string, 0, len(counts))
	for t := range counts {
		types = append(types, string(t))
	}
	sort.Strings(types)
	for _, t := range types {
		fmt.Printf("%12s  %d\n", t, counts[classifier.FieldType(t)])
	}
}
