// internal/commands/index.go
package repomind

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/mwiater/repomind/internal/rag"
	"github.com/mwiater/repomind/internal/repoindex"
	"github.com/mwiater/repomind/internal/tui"
	"github.com/spf13/cobra"
)

var (
	indexOutput           string
	indexExtensions       []string
	indexWithEmbeddings   bool
	indexEmbeddingsOutput string
	indexConcurrency      int
	indexChunkSize        int
	indexMaxChunks        int
)

// indexCmd builds the repository index and, optionally, the embedding index.
var indexCmd = &cobra.Command{
	Use:   "index [path]",
	Short: "Index a repository for context-aware queries",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		out := cmd.OutOrStdout()

		root := "."
		if len(args) == 1 {
			root = args[0]
		}
		fmt.Fprintf(out, "Building index for: %s\n", root)

		extra := append(append([]string{}, cfg.ExtraExtensions...), indexExtensions...)
		idx, err := repoindex.Build(root, repoindex.BuildOptions{
			OutputPath:      indexOutput,
			ExtraExtensions: extra,
		})
		var writeErr *repoindex.IndexWriteError
		if errors.As(err, &writeErr) {
			tui.Warn(out, "Indexed %d files but the index could not be saved.", len(writeErr.Index.Entries))
		}
		if err != nil {
			return fmt.Errorf("failed to build index: %w", err)
		}

		tui.Success(out, "Indexed %d files (%s).", len(idx.Entries), humanize.Bytes(uint64(idx.TotalSize())))
		written := indexOutput
		if written == "" {
			written = repoindex.DefaultPath(idx.Root)
		}
		fmt.Fprintf(out, "Index written to: %s\n", written)

		if indexWithEmbeddings {
			if err := buildEmbeddings(cmd, idx); err != nil {
				return err
			}
		}
		printMetrics(out)
		return nil
	},
}

func buildEmbeddings(cmd *cobra.Command, idx *repoindex.RepositoryIndex) error {
	cfg := GetConfig()
	out := cmd.OutOrStdout()

	provider, err := newProvider(cfg, aggregator)
	if err != nil {
		return err
	}
	defer provider.Close()

	opts := rag.EmbeddingOptions{
		RootDir:           idx.Root,
		Index:             idx,
		OutputPath:        indexEmbeddingsOutput,
		ChunkSize:         cfg.ChunkSize,
		MaxChunksPerFile:  cfg.MaxChunksPerFile,
		Model:             cfg.EmbeddingModel,
		Concurrency:       cfg.EmbedWorkers(),
		RequestsPerSecond: cfg.EmbedRateLimit,
	}
	if cmd.Flags().Changed("chunk-size") {
		opts.ChunkSize = indexChunkSize
	}
	if cmd.Flags().Changed("max-chunks") {
		opts.MaxChunksPerFile = indexMaxChunks
	}
	if cmd.Flags().Changed("concurrency") {
		opts.Concurrency = indexConcurrency
	}

	fmt.Fprintf(out, "Building embedding index with %s (this may take a while)...\n", cfg.EmbeddingModel)
	chunks, err := rag.BuildEmbeddingIndex(cmd.Context(), provider, opts)
	if err != nil {
		return fmt.Errorf("failed to build embedding index: %w", err)
	}

	written := opts.OutputPath
	if written == "" {
		written = filepath.Join(idx.Root, repoindex.EmbeddingFileName)
	}
	tui.Success(out, "Embedding index written to: %s (%d chunks)", written, len(chunks))
	return nil
}

func init() {
	indexCmd.Flags().StringVarP(&indexOutput, "output", "o", "", "path to index JSON file (default: .repomind-index.json in repo root)")
	indexCmd.Flags().StringSliceVarP(&indexExtensions, "ext", "e", nil, "extra file extensions to include (e.g. .md,.yml)")
	indexCmd.Flags().BoolVar(&indexWithEmbeddings, "with-embeddings", false, "also build an embedding index (writes .repomind-vec.json)")
	indexCmd.Flags().StringVar(&indexEmbeddingsOutput, "embeddings-output", "", "path to the embedding index (default: .repomind-vec.json in repo root)")
	indexCmd.Flags().IntVar(&indexConcurrency, "concurrency", 1, "concurrent embedding requests")
	indexCmd.Flags().IntVar(&indexChunkSize, "chunk-size", rag.DefaultChunkSize, "characters per embedded chunk")
	indexCmd.Flags().IntVar(&indexMaxChunks, "max-chunks", rag.DefaultMaxChunksPerFile, "maximum chunks embedded per file")
	rootCmd.AddCommand(indexCmd)
}
