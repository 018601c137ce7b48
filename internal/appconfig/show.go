package appconfig

import (
	"fmt"
	"io"
)

// ShowConfig prints the current configuration summary.
func ShowConfig(out io.Writer, file string, cfg *Config) {
	if file == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", file)
	}

	if cfg == nil {
		d := Default()
		cfg = &d
	}

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintf(out, "  Host:               %s (%s) %s\n", cfg.Host.Name, cfg.Host.Type, cfg.Host.URL)
	fmt.Fprintf(out, "  Model:              %s\n", cfg.Model)
	fmt.Fprintf(out, "  Embedding Model:    %s\n", cfg.EmbeddingModel)
	fmt.Fprintf(out, "  Request Timeout:    %s\n", cfg.RequestTimeout())
	fmt.Fprintf(out, "  Debug:              %v\n", cfg.Debug)
	fmt.Fprintf(out, "  Metrics:            %v\n", cfg.Metrics)
	if path := cfg.LogFilePath(); path != "" {
		fmt.Fprintf(out, "  Log File:           %s\n", path)
	}
	fmt.Fprintf(out, "  Chunk Size:         %d chars\n", cfg.ChunkSize)
	fmt.Fprintf(out, "  Max Chunks/File:    %d\n", cfg.MaxChunksPerFile)
	fmt.Fprintf(out, "  Extra Extensions:   %v\n", cfg.ExtraExtensions)
	fmt.Fprintf(out, "  Embed Concurrency:  %d\n", cfg.EmbedWorkers())
	if cfg.EmbedRateLimit > 0 {
		fmt.Fprintf(out, "  Embed Rate Limit:   %.2f req/s\n", cfg.EmbedRateLimit)
	}
	fmt.Fprintf(out, "  Max Files:          %d\n", cfg.MaxFiles)
	fmt.Fprintf(out, "  Max Chars/File:     %d\n", cfg.MaxCharsPerFile)
	fmt.Fprintf(out, "  Top Chunks:         %d\n", cfg.TopChunks)
}
