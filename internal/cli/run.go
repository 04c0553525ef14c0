package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/happyhackingspace/campo"
	"github.com/happyhackingspace/campo/classifier"
	"github.com/happyhackingspace/campo/internal/fetch"
	"github.com/happyhackingspace/campo/internal/oracleai"
	"github.com/happyhackingspace/campo/internal/storage"
)

const modelURL = "https://huggingface.co/datasets/happyhackingspace/campo/resolve/main/model.json"

// runOptions are the flags shared by run and fill.
type runOptions struct {
	modelPath     string
	dbPath        string
	render        bool
	renderTimeout int
	oracle        bool
	oracleModel   string
}

func (o *runOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.modelPath, "model", "", "Path to model file (default: auto-detect or download)")
	cmd.Flags().StringVar(&o.dbPath, "db", "", "Path to learning database (default: none)")
	cmd.Flags().BoolVar(&o.render, "render", false, "Render JavaScript-driven pages in a headless browser")
	cmd.Flags().IntVar(&o.renderTimeout, "timeout", 30, "Render browser timeout in seconds")
	cmd.Flags().BoolVar(&o.oracle, "oracle", false, "Consult the LLM oracle for undetected fields (needs OPENAI_API_KEY)")
	cmd.Flags().StringVar(&o.oracleModel, "oracle-model", "", "Chat model for the oracle")
}

func (c *CLI) newRunCommand() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run [url-or-file]",
		Short: "Detect field types in a URL, HTML file, or stdin",
		Args:  cobra.MaximumNArgs(1),
		Example: `  # Classify fields on a page
  campo run https://loja.example.com.br/cadastro

  # Classify a local HTML file
  campo run cadastro.html

  # Pipe HTML content
  curl -s https://loja.example.com.br/cadastro | campo run

  # Render JavaScript-heavy pages
  campo run https://loja.example.com.br/cadastro --render

  # Let the LLM oracle resolve undetected fields and learn from it
  campo run cadastro.html --oracle --db campo.db

  # Use a custom model file
  campo run cadastro.html --model custom.json`,
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
			var fields []*classifier.FormField
			if opts.oracle {
				fields, err = cl.ExtractFieldsAsync(cmd.Context(), htmlContent)
			} else {
				fields, err = cl.ExtractFields(htmlContent)
			}
			if err != nil {
				return err
			}
			slog.Debug("Classification completed", "fields", len(fields), "duration", time.Since(start))

			if len(fields) == 0 {
				fmt.Println("No fillable fields found.")
				return nil
			}
			output, _ := json.MarshalIndent(fieldReports(fields), "", "  ")
			fmt.Println(string(output))
			return nil
		},
	}

	opts.register(cmd)
	return cmd
}

// fieldReport is the JSON shape printed per field.
type fieldReport struct {
	Selector   string  `json:"selector"`
	Type       string  `json:"type"`
	Method     string  `json:"method"`
	Confidence float64 `json:"confidence"`
	DurationMS int64   `json:"durationMs"`
}

func fieldReports(fields []*classifier.FormField) []fieldReport {
	out := make([]fieldReport, len(fields))
	for i, f := range fields {
		out[i] = fieldReport{
			Selector:   f.Selector,
			Type:       string(f.FieldType),
			Method:     f.DetectionMethod,
			Confidence: f.DetectionConfidence,
			DurationMS: f.DetectionDuration.Milliseconds(),
		}
	}
	return out
}

// resolveInput fetches HTML from args or stdin. An empty content with nil
// error means help was printed.
func resolveInput(cmd *cobra.Command, args []string, opts runOptions) (content, target string, err error) {
	fetchOpts := fetch.Options{
		Render:  opts.render,
		Timeout: time.Duration(opts.renderTimeout) * time.Second,
	}

	if len(args) == 0 {
		if isStdinTerminal() {
			return "", "", cmd.Help()
		}
		return readFromStdin(fetchOpts)
	}

	target = args[0]
	if fetchOpts.Render && fetch.IsURL(target) && opts.renderTimeout <= 0 {
		return "", "", fmt.Errorf("--timeout must be a positive integer")
	}
	slog.Debug("Fetching HTML", "target", target, "render", fetchOpts.Render)
	content, err = fetch.HTML(target, fetchOpts)
	return content, target, err
}

// buildClassifier wires the model, the optional learning database and the
// optional oracle into a campo.Classifier.
func buildClassifier(opts runOptions, target string) (*campo.Classifier, func(), error) {
	cleanup := func() {}
	campoOpts := campo.Options{ModelPath: opts.modelPath}

	if opts.modelPath == "" {
		if err := ensureModel(); err != nil {
			slog.Debug("No downloadable model; using bundled fallback", "error", err)
		}
	}

	if opts.dbPath != "" {
		store, err := storage.Open(opts.dbPath)
		if err != nil {
			return nil, nil, err
		}
		cleanup = func() { _ = store.Close() }
		campoOpts.Store = store
		campoOpts.Dataset = store
	}

	if opts.oracle {
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			cleanup()
			return nil, nil, fmt.Errorf("--oracle requires OPENAI_API_KEY")
		}
		campoOpts.Oracle = oracleai.New(oracleai.Config{
			APIKey:  apiKey,
			BaseURL: os.Getenv("OPENAI_BASE_URL"),
			Model:   opts.oracleModel,
		})
		if fetch.IsURL(target) {
			campoOpts.Source = target
		}
	}

	cl, err := campo.NewWithOptions(context.Background(), campoOpts)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return cl, cleanup, nil
}

// ensureModel downloads the published model into the cache directory when
// neither a local nor a cached copy exists.
func ensureModel() error {
	if _, err := os.Stat("model.json"); err == nil {
		return nil
	}
	dest := filepath.Join(campo.ModelDir(), "model.json")
	if _, err := os.Stat(dest); err == nil {
		return nil
	}

	slog.Info("Model not found, downloading", "url", modelURL, "dest", dest)
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("create model dir: %w", err)
	}

	resp, err := http.Get(modelURL)
	if err != nil {
		return fmt.Errorf("download model: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download model: HTTP %d", resp.StatusCode)
	}

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create model file: %w", err)
	}
	written, err := io.Copy(f, resp.Body)
	if err != nil {
		_ = f.Close()
		_ = os.Remove(dest)
		return fmt.Errorf("download model: %w", err)
	}
	_ = f.Close()
	slog.Info("Model downloaded", "size", fmt.Sprintf("%.1fMB", float64(written)/1024/1024))
	return nil
}

func isStdinTerminal() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func readFromStdin(opts fetch.Options) (string, string, error) {
	slog.Debug("Reading from stdin")
	body, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", "", fmt.Errorf("read stdin: %w", err)
	}
	content := strings.TrimSpace(string(body))
	if content == "" {
		return "", "", fmt.Errorf("stdin is empty")
	}

	if fetch.IsURL(content) {
		slog.Debug("Stdin contains URL", "url", content)
		html, err := fetch.HTML(content, opts)
		if err != nil {
			return "", "", err
		}
		return html, content, nil
	}
	return content, "stdin", nil
}
