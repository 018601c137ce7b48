package repoindex

import (
	"os"
	"path/filepath"
)

// FileContent is the current text of one entry, or the reason it was skipped.
type FileContent struct {
	Entry IndexEntry
	Text  string
	Err   error
}

// ReadFile returns the current content of the file at rel under root. A
// failure is a *WalkReadError.
func ReadFile(root, rel string) (string, error) {
	text, werr := readFile(root, rel)
	if werr != nil {
		return "", werr
	}
	return text, nil
}

// ReadEntries reads every entry under root. Failures are logged and reported
// per file in FileContent.Err.
func ReadEntries(root string, entries []IndexEntry) []FileContent {
	out := make([]FileContent, len(entries))
	for i, e := range entries {
		out[i] = FileContent{Entry: e}
		text, werr := readFile(root, e.Path)
		if werr != nil {
			logSkipped(werr)
			out[i].Err = werr
			continue
		}
		out[i].Text = text
	}
	return out
}

func readFile(root, rel string) (string, *WalkReadError) {
	path := filepath.Join(root, filepath.FromSlash(rel))
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &WalkReadError{Path: path, Err: err}
	}
	return string(data), nil
}
