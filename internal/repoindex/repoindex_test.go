package repoindex

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTree(t *testing.T, root string, files map[string]string) {
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

func TestWalkIgnoresOnlyIgnoredDirs(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"node_modules/pkg/index.js": "x",
		".git/hooks/pre-commit.py":  "x",
		"dist/bundle.js":            "x",
		"__pycache__/mod.py":        "x",
	})

	if got := Walk(root, NormalizeExtensions(nil)); len(got) != 0 {
		t.Fatalf("expected no entries, got %+v", got)
	}
}

func TestWalkRelativeUniquePaths(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"main.go":            "package main",
		"src/auth/login.ts":  "export {}",
		"src/auth/LOGIN.TSX": "export {}",
		"README.md":          "# readme",
		"docs/notes.txt":     "notes",
		IndexFileName:        "{}",
	})

	entries := Walk(root, NormalizeExtensions(nil))
	seen := map[string]bool{}
	for _, e := range entries {
		if filepath.IsAbs(e.Path) || strings.Contains(e.Path, `\`) {
			t.Fatalf("expected relative slash path, got %q", e.Path)
		}
		if seen[e.Path] {
			t.Fatalf("duplicate path %q", e.Path)
		}
		seen[e.Path] = true
	}
	for _, want := range []string{"main.go", "src/auth/login.ts", "src/auth/LOGIN.TSX"} {
		if !seen[want] {
			t.Fatalf("expected %s in %+v", want, entries)
		}
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %+v", entries)
	}
	for _, e := range entries {
		if e.Path == "src/auth/LOGIN.TSX" && e.Ext != ".tsx" {
			t.Fatalf("expected lower-cased ext, got %q", e.Ext)
		}
	}
}

func TestNormalizeExtensions(t *testing.T) {
	exts := NormalizeExtensions([]string{"MD", ".yml", ".go", " .Md "})
	count := map[string]int{}
	for _, e := range exts {
		count[e]++
	}
	if count[".md"] != 1 || count[".yml"] != 1 || count[".go"] != 1 {
		t.Fatalf("unexpected extensions: %v", exts)
	}
	if len(exts) != len(DefaultExtensions)+2 {
		t.Fatalf("expected %d extensions, got %d", len(DefaultExtensions)+2, len(exts))
	}
}

func TestBuildAndLoadRoundTrip(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.go":      "package a",
		"b/c.py":    "print(1)",
		"notes.md":  "skip me",
		"extra.yml": "k: v",
	})

	idx, err := Build(root, BuildOptions{ExtraExtensions: []string{".yml"}})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if len(idx.Entries) != 3 {
		t.Fatalf("expected 3 entries, got %+v", idx.Entries)
	}

	loaded, err := Load(DefaultPath(root))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded.Root != idx.Root || !loaded.GeneratedAt.Equal(idx.GeneratedAt) {
		t.Fatalf("round trip mismatch: %+v vs %+v", loaded, idx)
	}
	if len(loaded.Entries) != len(idx.Entries) {
		t.Fatalf("entry count mismatch")
	}
	for i := range idx.Entries {
		if loaded.Entries[i] != idx.Entries[i] {
			t.Fatalf("entry %d mismatch: %+v vs %+v", i, loaded.Entries[i], idx.Entries[i])
		}
	}
	if idx.TotalSize() != int64(len("package a")+len("print(1)")+len("k: v")) {
		t.Fatalf("unexpected total size %d", idx.TotalSize())
	}

	raw, err := os.ReadFile(DefaultPath(root))
	if err != nil {
		t.Fatalf("read index: %v", err)
	}
	if !strings.Contains(string(raw), "\n  \"entries\": [") {
		t.Fatalf("expected indented JSON, got %s", raw)
	}
}

func TestBuildEmptyRepo(t *testing.T) {
	root := t.TempDir()
	idx, err := Build(root, BuildOptions{})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if len(idx.Entries) != 0 {
		t.Fatalf("expected empty index")
	}
	raw, err := os.ReadFile(DefaultPath(root))
	if err != nil {
		t.Fatalf("read index: %v", err)
	}
	if !strings.Contains(string(raw), `"entries": []`) {
		t.Fatalf("expected empty entries array, got %s", raw)
	}
}

func TestBuildThroughSymlinkedRoot(t *testing.T) {
	target := t.TempDir()
	writeTree(t, target, map[string]string{
		"main.go":     "package main",
		"pkg/util.go": "package pkg",
	})
	link := filepath.Join(t.TempDir(), "repo")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	idx, err := Build(link, BuildOptions{})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if idx.Root != link {
		t.Fatalf("expected root %s, got %s", link, idx.Root)
	}
	var paths []string
	for _, e := range idx.Entries {
		paths = append(paths, e.Path)
	}
	if strings.Join(paths, ",") != "main.go,pkg/util.go" {
		t.Fatalf("unexpected entries through symlinked root: %v", paths)
	}
	if _, err := os.Stat(filepath.Join(target, IndexFileName)); err != nil {
		t.Fatalf("expected index written into the link target: %v", err)
	}
}

func TestBuildWriteError(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.go": "package a"})
	out := filepath.Join(root, "missing", "dir", "index.json")

	idx, err := Build(root, BuildOptions{OutputPath: out})
	var werr *IndexWriteError
	if !errors.As(err, &werr) {
		t.Fatalf("expected IndexWriteError, got %v", err)
	}
	if werr.Path != out || werr.Index == nil || len(werr.Index.Entries) != 1 {
		t.Fatalf("unexpected write error contents: %+v", werr)
	}
	if idx == nil || idx != werr.Index {
		t.Fatalf("expected returned index to match error index")
	}
}

func TestLocateFromSubdir(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"src/deep/x.go": "package x"})
	if _, err := Build(root, BuildOptions{}); err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	path, ok := Locate(filepath.Join(root, "src", "deep"))
	if !ok {
		t.Fatal("expected index to be found")
	}
	want, _ := filepath.Abs(DefaultPath(root))
	if path != want {
		t.Fatalf("Locate = %q, want %q", path, want)
	}
}

func TestLocateMissing(t *testing.T) {
	root := t.TempDir()
	if path, ok := Locate(root); ok {
		if _, err := os.Stat(path); err != nil || strings.HasPrefix(path, root) {
			t.Fatalf("unexpected index found at %s", path)
		}
	}
}

func TestReadEntriesReportsMissingFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.go": "package a"})
	entries := []IndexEntry{{Path: "a.go"}, {Path: "gone.go"}}

	got := ReadEntries(root, entries)
	if got[0].Err != nil || got[0].Text != "package a" {
		t.Fatalf("unexpected first result: %+v", got[0])
	}
	var werr *WalkReadError
	if !errors.As(got[1].Err, &werr) || !errors.Is(got[1].Err, os.ErrNotExist) {
		t.Fatalf("expected WalkReadError wrapping not-exist, got %v", got[1].Err)
	}
}
