package rag

import (
	"context"
	"math"

	"github.com/mwiater/repomind/internal/repoindex"
)

// Default retrieval limits.
const (
	DefaultMaxFiles        = 5
	DefaultMaxCharsPerFile = 2000
	DefaultTopChunks       = 10
)

// RetrieveOptions bounds a retrieval. Zero values use the defaults.
type RetrieveOptions struct {
	MaxFiles        int
	MaxCharsPerFile int
	TopChunks       int
	Model           string
}

func (o RetrieveOptions) withDefaults() RetrieveOptions {
	if o.MaxFiles <= 0 {
		o.MaxFiles = DefaultMaxFiles
	}
	if o.MaxCharsPerFile <= 0 {
		o.MaxCharsPerFile = DefaultMaxCharsPerFile
	}
	if o.TopChunks <= 0 {
		o.TopChunks = DefaultTopChunks
	}
	return o
}

// Retrieve selects context snippets for question. With embedding chunks it
// ranks chunks by similarity to the embedded question; otherwise it matches
// question keywords against file paths. A nil index yields StrategyNoIndex.
func Retrieve(ctx context.Context, embedder Embedder, question string, index *repoindex.RepositoryIndex, chunks []EmbeddingChunk, opts RetrieveOptions) (Retrieval, error) {
	if index == nil {
		return Retrieval{Strategy: StrategyNoIndex}, nil
	}
	opts = opts.withDefaults()
	if len(chunks) > 0 {
		return retrieveSemantic(ctx, embedder, question, index, chunks, opts)
	}
	return retrieveLexical(question, index, opts), nil
}

// CosineSimilarity returns dot(a,b)/(|a||b|+1e-8). Vectors must have equal length.
func CosineSimilarity(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	return dot / (math.Sqrt(na)*math.Sqrt(nb) + 1e-8)
}

// usedFiles lists snippet files once each in first-seen order.
func usedFiles(snippets []Snippet) []string {
	seen := make(map[string]struct{}, len(snippets))
	var files []string
	for _, s := range snippets {
		if _, ok := seen[s.File]; ok {
			continue
		}
		seen[s.File] = struct{}{}
		files = append(files, s.File)
	}
	return files
}
