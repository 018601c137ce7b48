package logging

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitAndLoggingToFile(t *testing.T) {
	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "nested", "repomind.log")

	if err := Init(logPath, false); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	t.Cleanup(func() {
		_ = Close()
	})

	LogEvent("hello %s", "world")
	LogExchange(Exchange{Direction: Outbound, Host: "local", Model: "llama3", Endpoint: "/api/generate", Body: []byte(`{"prompt": "hi"}`)})
	_ = Close()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "hello world") {
		t.Fatalf("expected LogEvent content, got: %s", content)
	}
	if !strings.Contains(content, `[REPOMIND->LLM] host=local model=llama3 endpoint=/api/generate body={"prompt":"hi"}`) {
		t.Fatalf("expected exchange content, got: %s", content)
	}
}

func TestInitDebugWritesToStderr(t *testing.T) {
	var buf bytes.Buffer
	orig := stderr
	stderr = &buf
	t.Cleanup(func() {
		stderr = orig
		log.SetOutput(os.Stderr)
	})

	if err := Init("", true); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	LogEvent("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Fatalf("expected debug output on stderr writer, got: %q", buf.String())
	}
}

func TestExchangeDefaults(t *testing.T) {
	msg := Exchange{Direction: " in ", Host: " ", Method: "GET", Endpoint: " /api/tags "}.String()
	want := "[IN] host=unknown model=unknown method=GET endpoint=/api/tags"
	if msg != want {
		t.Fatalf("unexpected message:\n got %s\nwant %s", msg, want)
	}
}

func TestExchangeSizeOnly(t *testing.T) {
	body := []byte(`{"embedding":[0.1,0.2,0.3]}`)
	msg := Exchange{Direction: Inbound, Host: "h", Model: "m", Endpoint: "/api/embeddings", Status: "200 OK", Body: body, SizeOnly: true}.String()
	if !strings.Contains(msg, `status="200 OK"`) {
		t.Fatalf("expected status, got: %s", msg)
	}
	if !strings.HasSuffix(msg, "bytes=27") {
		t.Fatalf("expected body size, got: %s", msg)
	}
	if strings.Contains(msg, "0.1") {
		t.Fatalf("expected vector content omitted, got: %s", msg)
	}
}

func TestFormatBodyVariants(t *testing.T) {
	cases := map[string]string{
		" ":               `""`,
		"{\n  \"a\": 1\n}": `{"a":1}`,
		"not json":        `"not json"`,
	}
	for in, want := range cases {
		if got := formatBody([]byte(in)); got != want {
			t.Fatalf("formatBody(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestInitDiscard(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
	if err := Init("", false); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	LogEvent("discard")
	if buf.Len() != 0 {
		t.Fatalf("expected log output discarded, got: %s", buf.String())
	}
}
