package rag

// Default chunking limits, in characters and chunks.
const (
	DefaultChunkSize        = 800
	DefaultMaxChunksPerFile = 8
)

// Chunk is the character range [Start, End) of a file and its text.
type Chunk struct {
	Start int
	End   int
	Text  string
}

// ChunkText splits text into consecutive non-overlapping slices of chunkSize
// characters, stopping after maxChunks slices.
func ChunkText(text string, chunkSize, maxChunks int) []Chunk {
	if chunkSize <= 0 || maxChunks <= 0 {
		return nil
	}
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	var chunks []Chunk
	for start := 0; start < len(runes) && len(chunks) < maxChunks; {
		end := min(start+chunkSize, len(runes))
		chunks = append(chunks, Chunk{
			Start: start,
			End:   end,
			Text:  string(runes[start:end]),
		})
		start = end
	}
	return chunks
}
