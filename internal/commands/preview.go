// internal/commands/preview.go
package repomind

import (
	"fmt"
	"strings"

	"github.com/mwiater/repomind/internal/logging"
	"github.com/mwiater/repomind/internal/rag"
	"github.com/mwiater/repomind/internal/tui"
	"github.com/spf13/cobra"
)

// previewCmd shows the context and prompt ask would send, without generating.
var previewCmd = &cobra.Command{
	Use:   "preview <question...>",
	Short: "Preview the retrieved context and prompt for a question",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		out := cmd.OutOrStdout()
		question := strings.Join(args, " ")

		provider, err := newProvider(cfg, aggregator)
		if err != nil {
			return err
		}
		defer provider.Close()

		opts := contextOptions(cmd)
		logging.LogEvent("[PREVIEW] query=%q start=%s maxFiles=%d maxChars=%d topChunks=%d",
			question, opts.StartDir, opts.MaxFiles, opts.MaxCharsPerFile, opts.TopChunks)

		res, err := rag.BuildPromptWithContext(cmd.Context(), provider, question, opts)
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "%s %s\n", tui.Label("Strategy:"), res.Strategy)
		if res.Root != "" {
			fmt.Fprintf(out, "%s %s\n", tui.Label("Root:"), res.Root)
		}
		fmt.Fprintf(out, "%s %d\n", tui.Label("Files:"), len(res.UsedFiles))
		for _, f := range res.UsedFiles {
			fmt.Fprintf(out, "  %s\n", f)
		}
		fmt.Fprintf(out, "\n%s\n%s\n", tui.Label("Prompt:"), res.Prompt)
		printMetrics(out)
		return nil
	},
}

func init() {
	addContextFlags(previewCmd)
	rootCmd.AddCommand(previewCmd)
}
