package repoindex

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mwiater/repomind/internal/logging"
	"github.com/mwiater/repomind/internal/util"
)

// File names written at the repository root.
const (
	IndexFileName     = ".repomind-index.json"
	EmbeddingFileName = ".repomind-vec.json"
)

// IndexEntry describes one candidate file at index time.
type IndexEntry struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
	Ext  string `json:"ext"`
}

// RepositoryIndex is a snapshot of the candidate files under Root.
type RepositoryIndex struct {
	Root        string       `json:"root"`
	GeneratedAt time.Time    `json:"generatedAt"`
	Entries     []IndexEntry `json:"entries"`
}

// TotalSize sums the recorded sizes of all entries.
func (idx *RepositoryIndex) TotalSize() int64 {
	var total int64
	for _, e := range idx.Entries {
		total += e.Size
	}
	return total
}

// BuildOptions controls Build. Zero values use the defaults.
type BuildOptions struct {
	OutputPath      string
	ExtraExtensions []string
}

// IndexWriteError is returned when an index was built but could not be
// written. Index holds the in-memory snapshot.
type IndexWriteError struct {
	Path  string
	Index *RepositoryIndex
	Err   error
}

func (e *IndexWriteError) Error() string {
	return fmt.Sprintf("write index file %s: %v", e.Path, e.Err)
}

func (e *IndexWriteError) Unwrap() error { return e.Err }

// DefaultPath returns where the index for root is written by default.
func DefaultPath(root string) string {
	return filepath.Join(root, IndexFileName)
}

// Build walks rootDir and persists the resulting index. On a write failure the
// index is still returned together with an *IndexWriteError.
func Build(rootDir string, opts BuildOptions) (*RepositoryIndex, error) {
	root, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("resolve root %s: %w", rootDir, err)
	}

	extensions := NormalizeExtensions(opts.ExtraExtensions)
	idx := &RepositoryIndex{
		Root:        root,
		GeneratedAt: time.Now().UTC(),
		Entries:     Walk(root, extensions),
	}
	logging.LogEvent("[INDEX] walked %s: %d entries", root, len(idx.Entries))

	out := opts.OutputPath
	if out == "" {
		out = DefaultPath(root)
	}
	if err := Save(out, idx); err != nil {
		return idx, &IndexWriteError{Path: out, Index: idx, Err: err}
	}
	logging.LogEvent("[INDEX] wrote %s", out)
	return idx, nil
}

// Save writes idx as indented JSON.
func Save(path string, idx *RepositoryIndex) error {
	if idx.Entries == nil {
		idx.Entries = []IndexEntry{}
	}
	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal index: %w", err)
	}
	return util.WriteFile(path, data)
}

// Load reads an index written by Save.
func Load(path string) (*RepositoryIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}
	var idx RepositoryIndex
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("parse index %s: %w", path, err)
	}
	return &idx, nil
}
