// Package logging routes the standard logger to the repomind log file and,
// in debug mode, to stderr. With neither configured, log output is dropped so
// that answers printed on stdout stay clean.
package logging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	mu      sync.Mutex
	logFile *os.File
	stderr  io.Writer = os.Stderr
)

// Init configures the standard logger. Calling it again replaces the previous
// destination and closes any previously opened log file.
func Init(logPath string, debug bool) error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}

	var writers []io.Writer
	if debug {
		writers = append(writers, stderr)
	}

	if logPath != "" {
		if dir := filepath.Dir(logPath); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		logFile = file
		writers = append(writers, logFile)
	}

	if len(writers) == 0 {
		log.SetOutput(io.Discard)
		return nil
	}
	log.SetOutput(io.MultiWriter(writers...))
	return nil
}

// Close flushes and closes the log file, if any, and restores stderr output.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if logFile == nil {
		return nil
	}
	log.SetOutput(os.Stderr)
	err := logFile.Close()
	logFile = nil
	return err
}

func LogEvent(format string, args ...any) {
	log.Println(fmt.Sprintf(format, args...))
}

// Directions of a provider exchange.
const (
	Outbound = "REPOMIND->LLM"
	Inbound  = "LLM->REPOMIND"
)

// Exchange is one side of a call to a model host.
type Exchange struct {
	Direction string
	Host      string
	Model     string
	Method    string
	Endpoint  string
	Status    string
	Body      []byte
	// SizeOnly logs the body length instead of its content. Embedding
	// vectors are large and unreadable in the log.
	SizeOnly bool
}

// LogExchange writes x as a single line.
func LogExchange(x Exchange) {
	log.Println(x.String())
}

func (x Exchange) String() string {
	parts := []string{fmt.Sprintf("[%s]", strings.ToUpper(strings.TrimSpace(x.Direction)))}
	parts = append(parts, "host="+orUnknown(x.Host))
	parts = append(parts, "model="+orUnknown(x.Model))
	if method := strings.TrimSpace(x.Method); method != "" {
		parts = append(parts, "method="+method)
	}
	if endpoint := strings.TrimSpace(x.Endpoint); endpoint != "" {
		parts = append(parts, "endpoint="+endpoint)
	}
	if status := strings.TrimSpace(x.Status); status != "" {
		parts = append(parts, fmt.Sprintf("status=%q", status))
	}
	switch {
	case x.Body == nil:
	case x.SizeOnly:
		parts = append(parts, fmt.Sprintf("bytes=%d", len(x.Body)))
	default:
		parts = append(parts, "body="+formatBody(x.Body))
	}
	return strings.Join(parts, " ")
}

func orUnknown(value string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return "unknown"
}

// formatBody compacts JSON bodies onto one line and quotes anything else.
func formatBody(body []byte) string {
	if len(bytes.TrimSpace(body)) == 0 {
		return `""`
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, body); err == nil {
		return buf.String()
	}
	return fmt.Sprintf("%q", body)
}
