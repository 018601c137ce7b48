package appconfig

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "repomind.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestLoad checks that a partial file is layered over the defaults and that
// invalid, out-of-range and missing files are rejected.
func TestLoad(t *testing.T) {
	path := writeConfig(t, `{
        "host": {"name": "gpu", "url": "http://10.0.0.5:11434", "type": "ollama"},
        "model": "codellama",
        "maxFiles": 3
    }`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() with valid config failed: %v", err)
	}
	if cfg.Host.Name != "gpu" || cfg.Model != "codellama" || cfg.MaxFiles != 3 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.EmbeddingModel != DefaultEmbeddingModel {
		t.Fatalf("expected default embedding model, got %q", cfg.EmbeddingModel)
	}
	if cfg.ChunkSize != DefaultChunkSize || cfg.MaxCharsPerFile != DefaultMaxCharsPerFile {
		t.Fatalf("expected defaults for chunking, got %+v", cfg)
	}
	if cfg.RequestTimeout() != 600*time.Second {
		t.Fatalf("expected default request timeout of 600s, got %v", cfg.RequestTimeout())
	}
	if cfg.ConfigPath != path {
		t.Fatalf("expected config path %q, got %q", path, cfg.ConfigPath)
	}

	if _, err := Load(writeConfig(t, `{ "host": [`)); err == nil {
		t.Fatal("Load() with invalid JSON should have failed")
	}

	if _, err := Load(writeConfig(t, `{ "chunkSize": -1 }`)); err == nil {
		t.Fatal("Load() with negative chunk size should have failed")
	}

	if _, err := Load(filepath.Join(t.TempDir(), "nonexistent.json")); err == nil {
		t.Fatal("Load() with nonexistent file should have failed")
	}
}

func TestHostValidate(t *testing.T) {
	cases := []struct {
		name    string
		host    Host
		wantErr bool
	}{
		{name: "ollama", host: Host{URL: "http://localhost:11434", Type: HostTypeOllama}},
		{name: "llamacpp", host: Host{URL: "https://llm.internal:8080", Type: HostTypeLlamaCpp}},
		{name: "empty type", host: Host{URL: "http://127.0.0.1:8080"}},
		{name: "missing url", host: Host{Type: HostTypeOllama}, wantErr: true},
		{name: "relative url", host: Host{URL: "localhost:11434"}, wantErr: true},
		{name: "unknown type", host: Host{URL: "http://localhost", Type: "bedrock"}, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.host.Validate()
			if tc.wantErr && err == nil {
				t.Fatal("expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestDefaultsMatchDefault(t *testing.T) {
	d := Default()
	if err := d.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	flat := Defaults()
	if flat["host.url"] != d.Host.URL || flat["topChunks"] != d.TopChunks {
		t.Fatalf("flattened defaults disagree: %v", flat)
	}
}

func TestEmbedWorkers(t *testing.T) {
	cfg := Config{}
	if cfg.EmbedWorkers() != 1 {
		t.Fatalf("expected 1 worker for zero value, got %d", cfg.EmbedWorkers())
	}
	cfg.EmbedConcurrency = 4
	if cfg.EmbedWorkers() != 4 {
		t.Fatalf("expected 4 workers, got %d", cfg.EmbedWorkers())
	}
}

func TestShowConfig(t *testing.T) {
	var buf bytes.Buffer
	cfg := Default()
	cfg.LogFile = "repomind.log"
	ShowConfig(&buf, "repomind.json", &cfg)
	out := buf.String()
	for _, want := range []string{"Config file: repomind.json", "llama3", "nomic-embed-text", "repomind.log", "Top Chunks:         10"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}

	buf.Reset()
	ShowConfig(&buf, "", nil)
	if !strings.Contains(buf.String(), "No config file loaded") {
		t.Fatalf("expected defaults notice, got:\n%s", buf.String())
	}
}
