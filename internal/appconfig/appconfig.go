// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	// DefaultConfigPath is the config file looked up in the working directory.
	DefaultConfigPath = "repomind.json"
	// defaultRequestTimeout is the default timeout for provider HTTP requests.
	defaultRequestTimeout = 600 * time.Second

	DefaultModel            = "llama3"
	DefaultEmbeddingModel   = "nomic-embed-text"
	DefaultChunkSize        = 800
	DefaultMaxChunksPerFile = 8
	DefaultMaxFiles         = 5
	DefaultMaxCharsPerFile  = 2000
	DefaultTopChunks        = 10
)

// Provider host types.
const (
	HostTypeOllama   = "ollama"
	HostTypeLlamaCpp = "llama.cpp"
)

// Config represents the top-level application configuration.
type Config struct {
	Host             Host     `json:"host" mapstructure:"host"`
	Model            string   `json:"model" mapstructure:"model"`
	EmbeddingModel   string   `json:"embeddingModel" mapstructure:"embeddingModel"`
	TimeoutSeconds   int      `json:"timeout,omitempty" mapstructure:"timeout"`
	LogFile          string   `json:"logFile,omitempty" mapstructure:"logFile"`
	Debug            bool     `json:"debug" mapstructure:"debug"`
	Metrics          bool     `json:"metrics" mapstructure:"metrics"`
	ChunkSize        int      `json:"chunkSize" mapstructure:"chunkSize"`
	MaxChunksPerFile int      `json:"maxChunksPerFile" mapstructure:"maxChunksPerFile"`
	ExtraExtensions  []string `json:"extraExtensions,omitempty" mapstructure:"extraExtensions"`
	EmbedConcurrency int      `json:"embedConcurrency" mapstructure:"embedConcurrency"`
	EmbedRateLimit   float64  `json:"embedRateLimit,omitempty" mapstructure:"embedRateLimit"`
	MaxFiles         int      `json:"maxFiles" mapstructure:"maxFiles"`
	MaxCharsPerFile  int      `json:"maxCharsPerFile" mapstructure:"maxCharsPerFile"`
	TopChunks        int      `json:"topChunks" mapstructure:"topChunks"`
	ConfigPath       string   `json:"-" mapstructure:"-"`
}

// Host describes the generation/embedding provider endpoint.
type Host struct {
	Name string `json:"name" mapstructure:"name"`
	URL  string `json:"url" mapstructure:"url"`
	Type string `json:"type" mapstructure:"type"`
}

// Default returns a Config holding the built-in defaults.
func Default() Config {
	return Config{
		Host: Host{
			Name: "local",
			URL:  "http://localhost:11434",
			Type: HostTypeOllama,
		},
		Model:            DefaultModel,
		EmbeddingModel:   DefaultEmbeddingModel,
		TimeoutSeconds:   int(defaultRequestTimeout.Seconds()),
		ChunkSize:        DefaultChunkSize,
		MaxChunksPerFile: DefaultMaxChunksPerFile,
		EmbedConcurrency: 1,
		MaxFiles:         DefaultMaxFiles,
		MaxCharsPerFile:  DefaultMaxCharsPerFile,
		TopChunks:        DefaultTopChunks,
	}
}

// Defaults flattens Default into viper-style dotted keys.
func Defaults() map[string]any {
	d := Default()
	return map[string]any{
		"host.name":        d.Host.Name,
		"host.url":         d.Host.URL,
		"host.type":        d.Host.Type,
		"model":            d.Model,
		"embeddingModel":   d.EmbeddingModel,
		"timeout":          d.TimeoutSeconds,
		"logFile":          d.LogFile,
		"debug":            d.Debug,
		"metrics":          d.Metrics,
		"chunkSize":        d.ChunkSize,
		"maxChunksPerFile": d.MaxChunksPerFile,
		"extraExtensions":  []string{},
		"embedConcurrency": d.EmbedConcurrency,
		"embedRateLimit":   d.EmbedRateLimit,
		"maxFiles":         d.MaxFiles,
		"maxCharsPerFile":  d.MaxCharsPerFile,
		"topChunks":        d.TopChunks,
	}
}

// Validate checks the configuration for values the engine cannot work with.
func (c *Config) Validate() error {
	if err := c.Host.Validate(); err != nil {
		return fmt.Errorf("host: %w", err)
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Model, validation.Required),
		validation.Field(&c.EmbeddingModel, validation.Required),
		validation.Field(&c.TimeoutSeconds, validation.Min(0)),
		validation.Field(&c.ChunkSize, validation.Required, validation.Min(1)),
		validation.Field(&c.MaxChunksPerFile, validation.Required, validation.Min(1)),
		validation.Field(&c.EmbedConcurrency, validation.Min(0)),
		validation.Field(&c.EmbedRateLimit, validation.Min(0.0)),
		validation.Field(&c.MaxFiles, validation.Required, validation.Min(1)),
		validation.Field(&c.MaxCharsPerFile, validation.Required, validation.Min(1)),
		validation.Field(&c.TopChunks, validation.Required, validation.Min(1)),
	)
}

// Validate checks the provider host settings.
func (h *Host) Validate() error {
	return validation.ValidateStruct(h,
		validation.Field(&h.URL, validation.Required, validation.By(httpURL)),
		validation.Field(&h.Type, validation.In(HostTypeOllama, HostTypeLlamaCpp, "llamacpp", "")),
	)
}

func httpURL(value any) error {
	raw, _ := value.(string)
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("must be an absolute http(s) URL")
	}
	return nil
}

// RequestTimeout returns the timeout duration for HTTP requests, falling back to the default if not specified.
func (c Config) RequestTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultRequestTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// LogFilePath returns the log file path; empty means no file logging.
func (c Config) LogFilePath() string {
	return strings.TrimSpace(c.LogFile)
}

// EmbedWorkers returns the number of concurrent embedding requests, at least one.
func (c Config) EmbedWorkers() int {
	if c.EmbedConcurrency <= 0 {
		return 1
	}
	return c.EmbedConcurrency
}

// Load reads the application configuration from a JSON file layered over the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	config, err := loadFromPath(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("no configuration file found at %q", path)
		}
		return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %q: %w", path, err)
	}
	config.ConfigPath = path
	return config, nil
}

func loadFromPath(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	config := Default()
	if err := json.NewDecoder(file).Decode(&config); err != nil {
		return Config{}, err
	}
	if config.TimeoutSeconds <= 0 {
		config.TimeoutSeconds = int(defaultRequestTimeout.Seconds())
	}

	return config, nil
}
