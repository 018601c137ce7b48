package rag

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/mwiater/repomind/internal/logging"
	"github.com/mwiater/repomind/internal/repoindex"
)

// ContextOptions controls BuildPromptWithContext. StartDir defaults to the
// working directory; IndexPath skips the upward search.
type ContextOptions struct {
	StartDir  string
	IndexPath string
	RetrieveOptions
}

// PromptResult is an assembled prompt with the files it draws on. Root is
// empty when no index was found.
type PromptResult struct {
	Prompt    string
	UsedFiles []string
	Root      string
	Strategy  Strategy
}

// BuildPromptWithContext finds the repository index, selects context for
// question and assembles the prompt. A missing or unreadable index is not an
// error; the prompt then relies on the question alone.
func BuildPromptWithContext(ctx context.Context, embedder Embedder, question string, opts ContextOptions) (PromptResult, error) {
	index := loadIndex(opts)
	if index == nil {
		return PromptResult{
			Prompt:   AssemblePrompt(question, Retrieval{Strategy: StrategyNoIndex}),
			Strategy: StrategyNoIndex,
		}, nil
	}

	chunks := loadChunks(filepath.Join(index.Root, repoindex.EmbeddingFileName))
	r, err := Retrieve(ctx, embedder, question, index, chunks, opts.RetrieveOptions)
	if err != nil {
		return PromptResult{}, err
	}
	logging.LogEvent("[CONTEXT] strategy=%s snippets=%d files=%d", r.Strategy, len(r.Snippets), len(r.UsedFiles))

	return PromptResult{
		Prompt:    AssemblePrompt(question, r),
		UsedFiles: r.UsedFiles,
		Root:      index.Root,
		Strategy:  r.Strategy,
	}, nil
}

func loadIndex(opts ContextOptions) *repoindex.RepositoryIndex {
	path := opts.IndexPath
	if path == "" {
		start := opts.StartDir
		if start == "" {
			start = "."
		}
		found, ok := repoindex.Locate(start)
		if !ok {
			logging.LogEvent("[CONTEXT] no index found from %s", start)
			return nil
		}
		path = found
	}
	index, err := repoindex.Load(path)
	if err != nil {
		logging.LogEvent("[CONTEXT] ignoring index: %v", err)
		return nil
	}
	return index
}

// loadChunks returns nil when the embedding file is missing or unusable so
// retrieval falls back to path matching.
func loadChunks(path string) []EmbeddingChunk {
	chunks, err := LoadEmbeddingIndex(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logging.LogEvent("[CONTEXT] ignoring embedding index: %v", err)
		}
		return nil
	}
	return chunks
}
