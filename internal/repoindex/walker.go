package repoindex

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/mwiater/repomind/internal/logging"
)

// DefaultExtensions is the base allowlist of source file extensions.
var DefaultExtensions = []string{
	".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs", ".json",
	".py", ".go", ".rs", ".java", ".cs", ".php", ".rb",
	".c", ".h", ".cpp", ".hpp", ".swift", ".kt", ".kts",
}

// IgnoredDirs holds directory names that are never descended into.
var IgnoredDirs = map[string]struct{}{
	"node_modules": {},
	".git":         {},
	".idea":        {},
	".vscode":      {},
	"dist":         {},
	"build":        {},
	"out":          {},
	".next":        {},
	".turbo":       {},
	".venv":        {},
	"venv":         {},
	".tox":         {},
	"__pycache__":  {},
}

// WalkReadError reports a file or directory the walker could not read.
// It is logged and absorbed; a walk never fails because of one.
type WalkReadError struct {
	Path string
	Err  error
}

func (e *WalkReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *WalkReadError) Unwrap() error { return e.Err }

// NormalizeExtensions merges extra into the base allowlist. Every extension is
// lower-cased and given a leading dot; duplicates are dropped.
func NormalizeExtensions(extra []string) []string {
	out := make([]string, 0, len(DefaultExtensions)+len(extra))
	for _, ext := range append(slices.Clone(DefaultExtensions), extra...) {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" || ext == "." {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if !slices.Contains(out, ext) {
			out = append(out, ext)
		}
	}
	return out
}

// Walk enumerates regular files under root whose extension is in extensions.
// Ignored directories are skipped, and unreadable paths are logged and left
// out. A symlinked root is resolved first; symlinks below it are not
// followed. Entry paths are relative to root with forward slashes.
func Walk(root string, extensions []string) []IndexEntry {
	allowed := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		allowed[strings.ToLower(ext)] = struct{}{}
	}

	root = resolveRoot(root)
	entries := []IndexEntry{}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logSkipped(&WalkReadError{Path: path, Err: err})
			if d != nil && d.IsDir() && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if _, skip := IgnoredDirs[d.Name()]; skip && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || isIndexArtifact(d.Name()) {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if _, ok := allowed[ext]; !ok {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			logSkipped(&WalkReadError{Path: path, Err: err})
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			logSkipped(&WalkReadError{Path: path, Err: err})
			return nil
		}

		entries = append(entries, IndexEntry{
			Path: filepath.ToSlash(rel),
			Size: info.Size(),
			Ext:  ext,
		})
		return nil
	})
	return entries
}

// resolveRoot follows root when it is itself a symlink, since WalkDir does not.
func resolveRoot(root string) string {
	resolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		return root
	}
	if resolved != root {
		logging.LogEvent("[INDEX] walking %s via %s", resolved, root)
	}
	return resolved
}

// isIndexArtifact reports whether name is one of the files repomind writes.
func isIndexArtifact(name string) bool {
	return name == IndexFileName || name == EmbeddingFileName
}

func logSkipped(err *WalkReadError) {
	logging.LogEvent("[INDEX] skipping %v", err)
}
