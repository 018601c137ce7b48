// internal/util/util_test.go
package util

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "sample.txt")
	data := []byte("test payload")

	if err := WriteFile(path, data); err != nil {
		t.Fatalf("WriteFile returned error: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	if string(got) != string(data) {
		t.Fatalf("unexpected file contents: got %q want %q", got, data)
	}
}

func TestTruncateRunes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{name: "no truncation", in: "hello", max: 10, want: "hello"},
		{name: "ascii truncation", in: "helloworld", max: 5, want: "hello" + TruncatedMarker},
		{name: "multibyte truncation", in: "こんにちは世界", max: 4, want: "こんにち" + TruncatedMarker},
		{name: "exact length", in: "hello", max: 5, want: "hello"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := TruncateRunes(tt.in, tt.max, TruncatedMarker); got != tt.want {
				t.Fatalf("TruncateRunes(%q,%d)=%q want %q", tt.in, tt.max, got, tt.want)
			}
		})
	}
}

func TestTruncateToWidth(t *testing.T) {
	t.Parallel()

	input := "line1\nSecondLine"
	want := "line1\nSecon…"

	if got := TruncateToWidth(input, 5); got != want {
		t.Fatalf("TruncateToWidth result mismatch\nwant:\n%s\n\ngot:\n%s", want, got)
	}
}

func TestTruncateRunesLongFile(t *testing.T) {
	t.Parallel()

	in := strings.Repeat("a", 5000)
	got := TruncateRunes(in, 2000, TruncatedMarker)
	if !strings.HasSuffix(got, "\n... [truncated]") {
		t.Fatalf("expected truncation marker, got suffix %q", got[len(got)-20:])
	}
	if RuneLen(strings.TrimSuffix(got, TruncatedMarker)) != 2000 {
		t.Fatalf("expected 2000 characters before the marker")
	}
}

func TestRuneSlice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		text       string
		start, end int
		want       string
		ok         bool
	}{
		{name: "inside", text: "abcdef", start: 1, end: 4, want: "bcd", ok: true},
		{name: "end clamped", text: "abcdef", start: 4, end: 100, want: "ef", ok: true},
		{name: "start past end", text: "abc", start: 3, end: 10, ok: false},
		{name: "negative start", text: "abc", start: -1, end: 2, ok: false},
		{name: "multibyte", text: "héllo wörld", start: 1, end: 5, want: "éllo", ok: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := RuneSlice(tt.text, tt.start, tt.end)
			if ok != tt.ok || got != tt.want {
				t.Fatalf("RuneSlice(%q,%d,%d)=(%q,%v) want (%q,%v)", tt.text, tt.start, tt.end, got, ok, tt.want, tt.ok)
			}
		})
	}
}
