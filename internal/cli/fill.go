package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
)

func (c *CLI) newFillCommand() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "fill [url-or-file]",
		Short: "Detect field types and generate fill values",
		Args:  cobra.MaximumNArgs(1),
		Example: `  # Generate a fill plan for a page
  campo fill https://loja.example.com.br/cadastro

  # From a local file, with the oracle enabled
  campo fill cadastro.html --oracle --db campo.db`,
		RunE: func(cmd *cobra.Command, args []string) error {
			htmlContent, target, err := resolveInput(cmd, args, opts)
			if err != nil || htmlContent == "" {
				return err
			}

			cl, cleanup, err := buildClassifier(opts, target)
			if err != nil {
				return err
			}
			defer cleanup()

			start := time.Now()
			fields, err := cl.ExtractFieldsAsync(cmd.Context(), htmlContent)
			if err != nil {
				return err
			}
			plan := cl.FillPlan(fields)
			slog.Debug("Fill plan generated", "fields", len(plan), "duration", time.Since(start))

			if len(plan) == 0 {
				fmt.Println("No fillable fields found.")
				return nil
			}
			output, _ := json.MarshalIndent(plan, "", "  ")
			fmt.Println(string(output))
			return nil
		},
	}

	opts.register(cmd)
	return cmd
}
