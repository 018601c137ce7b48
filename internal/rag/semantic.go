package rag

import (
	"context"
	"fmt"
	"sort"

	"github.com/mwiater/repomind/internal/logging"
	"github.com/mwiater/repomind/internal/repoindex"
	"github.com/mwiater/repomind/internal/util"
)

type scoredChunk struct {
	chunk EmbeddingChunk
	score float64
}

func retrieveSemantic(ctx context.Context, embedder Embedder, question string, index *repoindex.RepositoryIndex, chunks []EmbeddingChunk, opts RetrieveOptions) (Retrieval, error) {
	if embedder == nil {
		return Retrieval{}, fmt.Errorf("semantic retrieval requires an embedder")
	}
	queryVec, err := embedder.Embed(ctx, question, opts.Model)
	if err != nil {
		return Retrieval{}, fmt.Errorf("embed question: %w", err)
	}

	ranked := rankChunks(queryVec, chunks)
	if len(ranked) > opts.TopChunks {
		ranked = ranked[:opts.TopChunks]
	}

	// chunk ranges are re-read from the current file content
	contents := make(map[string]string)
	unreadable := make(map[string]struct{})
	var snippets []Snippet
	for _, sc := range ranked {
		file := sc.chunk.File
		if _, bad := unreadable[file]; bad {
			continue
		}
		text, ok := contents[file]
		if !ok {
			read, err := repoindex.ReadFile(index.Root, file)
			if err != nil {
				logging.LogEvent("[RETRIEVE] skipping chunk %d: %v", sc.chunk.ID, err)
				unreadable[file] = struct{}{}
				continue
			}
			contents[file] = read
			text = read
		}
		part, ok := util.RuneSlice(text, sc.chunk.Start, sc.chunk.End)
		if !ok {
			continue
		}
		snippets = append(snippets, Snippet{
			File:     file,
			Start:    sc.chunk.Start,
			End:      sc.chunk.End,
			Semantic: true,
			Text:     part,
			Score:    sc.score,
		})
	}

	return Retrieval{
		Strategy:  StrategySemantic,
		Snippets:  snippets,
		UsedFiles: usedFiles(snippets),
	}, nil
}

// rankChunks scores chunks against queryVec and orders them by descending
// similarity, keeping index order for ties. Chunks of a different dimension
// are not scored.
func rankChunks(queryVec []float64, chunks []EmbeddingChunk) []scoredChunk {
	scored := make([]scoredChunk, 0, len(chunks))
	for _, c := range chunks {
		if len(c.Embedding) != len(queryVec) {
			continue
		}
		scored = append(scored, scoredChunk{chunk: c, score: CosineSimilarity(queryVec, c.Embedding)})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	return scored
}
