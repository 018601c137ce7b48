package rag

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mwiater/repomind/internal/logging"
	"github.com/mwiater/repomind/internal/repoindex"
	"github.com/mwiater/repomind/internal/util"
	"github.com/mwiater/repomind/internal/workqueue"
)

// EmbeddingOptions controls BuildEmbeddingIndex. Zero values use the defaults.
type EmbeddingOptions struct {
	RootDir           string
	Index             *repoindex.RepositoryIndex
	OutputPath        string
	ChunkSize         int
	MaxChunksPerFile  int
	Model             string
	Concurrency       int
	RequestsPerSecond float64
}

// EmbeddingWriteError is returned when the chunks were embedded but could not
// be written. Chunks holds the in-memory result.
type EmbeddingWriteError struct {
	Path   string
	Chunks []EmbeddingChunk
	Err    error
}

func (e *EmbeddingWriteError) Error() string {
	return fmt.Sprintf("write embedding index %s: %v", e.Path, e.Err)
}

func (e *EmbeddingWriteError) Unwrap() error { return e.Err }

// BuildEmbeddingIndex chunks every readable entry, embeds each chunk and
// writes the result. Ids follow file then chunk order regardless of how the
// embedding requests complete. Any embedding failure aborts the build before
// anything is written.
func BuildEmbeddingIndex(ctx context.Context, embedder Embedder, opts EmbeddingOptions) ([]EmbeddingChunk, error) {
	if opts.Index == nil {
		return nil, fmt.Errorf("repository index is nil")
	}
	rootDir := opts.RootDir
	if rootDir == "" {
		rootDir = opts.Index.Root
	}
	root, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("resolve root %s: %w", rootDir, err)
	}
	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	maxChunks := opts.MaxChunksPerFile
	if maxChunks <= 0 {
		maxChunks = DefaultMaxChunksPerFile
	}

	start := time.Now()
	var planned []EmbeddingChunk
	var texts []string
	for _, fc := range repoindex.ReadEntries(root, opts.Index.Entries) {
		if fc.Err != nil {
			continue
		}
		for _, c := range ChunkText(fc.Text, chunkSize, maxChunks) {
			planned = append(planned, EmbeddingChunk{
				ID:    len(planned),
				File:  fc.Entry.Path,
				Start: c.Start,
				End:   c.End,
			})
			texts = append(texts, c.Text)
		}
	}
	logging.LogEvent("[EMBED] planned %d chunks from %d entries", len(planned), len(opts.Index.Entries))

	vectors, err := workqueue.Run(ctx, len(planned), workqueue.Options{
		Concurrency:       opts.Concurrency,
		RequestsPerSecond: opts.RequestsPerSecond,
	}, func(ctx context.Context, i int) ([]float64, error) {
		vec, err := embedder.Embed(ctx, texts[i], opts.Model)
		if err != nil {
			return nil, fmt.Errorf("embed %s [%d-%d]: %w", planned[i].File, planned[i].Start, planned[i].End, err)
		}
		return vec, nil
	})
	if err != nil {
		return nil, err
	}
	for i := range planned {
		if i > 0 && len(vectors[i]) != len(vectors[0]) {
			return nil, fmt.Errorf("embedding dimension changed within build: %s has %d, expected %d",
				planned[i].File, len(vectors[i]), len(vectors[0]))
		}
		planned[i].Embedding = vectors[i]
	}
	logging.LogEvent("[EMBED] embedded %d chunks in %s", len(planned), time.Since(start).Truncate(time.Millisecond))

	out := opts.OutputPath
	if out == "" {
		out = filepath.Join(root, repoindex.EmbeddingFileName)
	}
	if err := SaveEmbeddingIndex(out, planned); err != nil {
		return planned, &EmbeddingWriteError{Path: out, Chunks: planned, Err: err}
	}
	return planned, nil
}

// SaveEmbeddingIndex writes chunks as a compact JSON array.
func SaveEmbeddingIndex(path string, chunks []EmbeddingChunk) error {
	if chunks == nil {
		chunks = []EmbeddingChunk{}
	}
	data, err := json.Marshal(chunks)
	if err != nil {
		return fmt.Errorf("marshal embedding index: %w", err)
	}
	return util.WriteFile(path, data)
}

// LoadEmbeddingIndex reads a file written by SaveEmbeddingIndex.
func LoadEmbeddingIndex(path string) ([]EmbeddingChunk, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read embedding index: %w", err)
	}
	var chunks []EmbeddingChunk
	if err := json.Unmarshal(data, &chunks); err != nil {
		return nil, fmt.Errorf("parse embedding index %s: %w", path, err)
	}
	return chunks, nil
}
