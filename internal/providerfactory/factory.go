package providerfactory

import (
	"fmt"
	"strings"

	"github.com/mwiater/repomind/internal/appconfig"
	"github.com/mwiater/repomind/internal/logging"
	"github.com/mwiater/repomind/internal/metrics"
	"github.com/mwiater/repomind/internal/providers"
	"github.com/mwiater/repomind/internal/providers/llamacpp"
	"github.com/mwiater/repomind/internal/providers/ollama"
)

// NewProvider selects the provider for the configured host type. When agg is
// non-nil the provider is wrapped so every call is recorded.
func NewProvider(cfg *appconfig.Config, agg *metrics.Aggregator) (providers.Provider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config provided to provider factory")
	}

	hostType, err := normalizeHostType(cfg.Host.Type)
	if err != nil {
		return nil, err
	}

	var provider providers.Provider
	switch hostType {
	case appconfig.HostTypeLlamaCpp:
		provider = llamacpp.New(cfg)
	default:
		provider = ollama.New(cfg)
	}
	logging.LogEvent("provider ready: type=%s url=%s", hostType, cfg.Host.URL)

	if agg != nil {
		provider = metrics.NewProvider(provider, agg)
	}
	return provider, nil
}

func normalizeHostType(value string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", appconfig.HostTypeOllama:
		return appconfig.HostTypeOllama, nil
	case "llamacpp", appconfig.HostTypeLlamaCpp:
		return appconfig.HostTypeLlamaCpp, nil
	default:
		return "", fmt.Errorf("unsupported host type %q", value)
	}
}
