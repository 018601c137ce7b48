// internal/tui/render.go
package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/mwiater/repomind/internal/util"
)

const (
	previewLines = 10
	previewWidth = 160
)

var (
	bannerStyle = lipgloss.NewStyle().Bold(true)
	labelStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))

	pathColor  = color.New(color.FgCyan)
	dimColor   = color.New(color.Faint)
	okColor    = color.New(color.FgGreen)
	errorColor = color.New(color.FgRed)
	warnColor  = color.New(color.FgYellow)
)

// Banner renders the heading printed above an answer.
func Banner() string {
	return bannerStyle.Render("=== repomind ===")
}

// Label renders a section label for preview output.
func Label(text string) string {
	return labelStyle.Render(text)
}

// Success prints a green status line.
func Success(out io.Writer, format string, args ...any) {
	okColor.Fprintf(out, format+"\n", args...)
}

// Warn prints a yellow status line.
func Warn(out io.Writer, format string, args ...any) {
	warnColor.Fprintf(out, format+"\n", args...)
}

// Error prints a red error line.
func Error(out io.Writer, format string, args ...any) {
	errorColor.Fprintf(out, format+"\n", args...)
}

// Dim prints a faint line.
func Dim(out io.Writer, format string, args ...any) {
	dimColor.Fprintf(out, format+"\n", args...)
}

// PrintUsedFiles lists the context files relative to cwd as path:1, each
// followed by its first lines, clipped to previewWidth. Files that cannot be read are listed without a
// preview.
func PrintUsedFiles(out io.Writer, cwd, root string, files []string) {
	fmt.Fprintln(out, bannerStyle.Render("Using context from files:"))
	fmt.Fprintln(out)
	for _, f := range files {
		abs := f
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(root, filepath.FromSlash(f))
		}
		display := abs
		if rel, err := filepath.Rel(cwd, abs); err == nil && rel != "" {
			display = rel
		}
		pathColor.Fprintf(out, "   %s:1\n", filepath.ToSlash(display))

		if data, err := os.ReadFile(abs); err == nil {
			lines := strings.Split(util.TruncateToWidth(string(data), previewWidth), "\n")
			for _, line := range lines[:min(len(lines), previewLines)] {
				dimColor.Fprintf(out, "     %s\n", line)
			}
			if len(lines) > previewLines {
				dimColor.Fprintln(out, "     ...")
			}
		}
		fmt.Fprintln(out)
	}
}
