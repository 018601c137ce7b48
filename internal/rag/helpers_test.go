package rag

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// fakeEmbedder returns vectors from fn and records every text it embeds.
type fakeEmbedder struct {
	mu    sync.Mutex
	fn    func(text string) ([]float64, error)
	texts []string
}

func (f *fakeEmbedder) Embed(ctx context.Context, text, model string) ([]float64, error) {
	f.mu.Lock()
	f.texts = append(f.texts, text)
	f.mu.Unlock()
	return f.fn(text)
}

func (f *fakeEmbedder) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.texts)
}

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
}
