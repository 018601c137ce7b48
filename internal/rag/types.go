package rag

import "context"

// Embedder turns text into a vector with the named model.
type Embedder interface {
	Embed(ctx context.Context, text, model string) ([]float64, error)
}

// EmbeddingChunk is one embedded character range of an indexed file.
type EmbeddingChunk struct {
	ID        int       `json:"id"`
	File      string    `json:"file"`
	Start     int       `json:"start"`
	End       int       `json:"end"`
	Embedding []float64 `json:"embedding"`
}

// Strategy names how snippets were selected for a question.
type Strategy string

const (
	StrategyNoIndex  Strategy = "none"
	StrategyLexical  Strategy = "lexical"
	StrategySemantic Strategy = "semantic"
)

// Snippet is file text selected as context. Start and End are only set for
// semantic snippets.
type Snippet struct {
	File     string
	Start    int
	End      int
	Semantic bool
	Text     string
	Score    float64
}

// Retrieval is the outcome of selecting context for one question.
type Retrieval struct {
	Strategy  Strategy
	Snippets  []Snippet
	UsedFiles []string
}
