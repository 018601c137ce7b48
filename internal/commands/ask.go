// internal/commands/ask.go
package repomind

import (
	"context"
	"fmt"
	"strings"

	"github.com/mwiater/repomind/internal/rag"
	"github.com/mwiater/repomind/internal/tui"
	"github.com/spf13/cobra"
)

var (
	askModel    string
	askDir      string
	askMaxFiles int
	askMaxChars int
)

// askCmd answers a question using repository context.
var askCmd = &cobra.Command{
	Use:   "ask <question...>",
	Short: "Ask a question about the repository",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		out := cmd.OutOrStdout()
		ctx := cmd.Context()
		question := strings.Join(args, " ")

		model := cfg.Model
		if askModel != "" {
			model = askModel
		}

		provider, err := newProvider(cfg, aggregator)
		if err != nil {
			return err
		}
		defer provider.Close()

		if !provider.HealthCheck(ctx) {
			tui.Dim(cmd.ErrOrStderr(), "   Make sure the %s server is running (for Ollama: ollama serve)", cfg.Host.Type)
			return fmt.Errorf("cannot reach %s at %s", cfg.Host.Type, cfg.Host.URL)
		}

		res, err := rag.BuildPromptWithContext(ctx, provider, question, contextOptions(cmd))
		if err != nil {
			return err
		}

		if len(res.UsedFiles) > 0 {
			tui.PrintUsedFiles(out, workingDir(), res.Root, res.UsedFiles)
		} else {
			tui.Dim(out, "No index or matching files found; answering from question only.\n")
		}

		answer, err := tui.RunWithSpinner(ctx, out, fmt.Sprintf("Thinking with model %s...", model), func(ctx context.Context) (string, error) {
			return provider.Generate(ctx, model, res.Prompt)
		})
		if err != nil {
			return fmt.Errorf("error talking to the model: %w", err)
		}

		fmt.Fprintf(out, "\n%s\n\n%s\n\n", tui.Banner(), strings.TrimSpace(answer))
		printMetrics(out)
		return nil
	},
}

// contextOptions merges the config limits with the ask/preview flags.
func contextOptions(cmd *cobra.Command) rag.ContextOptions {
	cfg := GetConfig()
	opts := rag.ContextOptions{
		StartDir: askDir,
		RetrieveOptions: rag.RetrieveOptions{
			MaxFiles:        cfg.MaxFiles,
			MaxCharsPerFile: cfg.MaxCharsPerFile,
			TopChunks:       cfg.TopChunks,
			Model:           cfg.EmbeddingModel,
		},
	}
	if opts.StartDir == "" {
		opts.StartDir = workingDir()
	}
	if cmd.Flags().Changed("max-files") {
		opts.MaxFiles = askMaxFiles
	}
	if cmd.Flags().Changed("max-chars") {
		opts.MaxCharsPerFile = askMaxChars
	}
	return opts
}

func addContextFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&askDir, "dir", "", "directory to search upward from for the index (default: working directory)")
	cmd.Flags().IntVar(&askMaxFiles, "max-files", rag.DefaultMaxFiles, "maximum files matched by path keywords")
	cmd.Flags().IntVar(&askMaxChars, "max-chars", rag.DefaultMaxCharsPerFile, "maximum characters per matched file")
}

func init() {
	askCmd.Flags().StringVarP(&askModel, "model", "m", "", "generation model (default from config)")
	addContextFlags(askCmd)
	rootCmd.AddCommand(askCmd)
}
