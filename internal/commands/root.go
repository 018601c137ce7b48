// internal/commands/root.go
package repomind

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/mwiater/repomind/internal/appconfig"
	"github.com/mwiater/repomind/internal/logging"
	"github.com/mwiater/repomind/internal/metrics"
	"github.com/mwiater/repomind/internal/providerfactory"
	"github.com/mwiater/repomind/internal/providers"
	"github.com/mwiater/repomind/internal/tui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile       string
	configLoaded  bool
	currentConfig *appconfig.Config
	aggregator    *metrics.Aggregator
	appVersion    = "dev"
	appCommit     = "none"
	appDate       = "unknown"
)

// newProvider builds the provider used by commands. Tests replace it.
var newProvider = func(cfg *appconfig.Config, agg *metrics.Aggregator) (providers.Provider, error) {
	return providerfactory.NewProvider(cfg, agg)
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:           "repomind",
	Short:         "repomind: local AI assistant to explore and understand your code repositories",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureConfigLoaded(); err != nil {
			return err
		}

		var cfg appconfig.Config
		if err := viper.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("unmarshal config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		if configLoaded {
			cfg.ConfigPath = viper.ConfigFileUsed()
		}
		currentConfig = &cfg

		aggregator = nil
		if cfg.Metrics {
			aggregator = metrics.NewAggregator()
		}

		if err := logging.Init(cfg.LogFilePath(), cfg.Debug); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logging.LogEvent("repomind %s: running %q", appVersion, cmd.CommandPath())
		return nil
	},
}

// Execute runs the root command and prints any error once.
func Execute() error {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", appVersion, appCommit, appDate)

	defer logging.Close()
	if err := rootCmd.Execute(); err != nil {
		tui.Error(rootCmd.ErrOrStderr(), "Error: %v", err)
		return err
	}
	return nil
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", appconfig.DefaultConfigPath, "config file (missing file means defaults)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging to stderr")
	rootCmd.PersistentFlags().String("logFile", "", "path to the log file")
	rootCmd.PersistentFlags().Bool("metrics", false, "print provider call statistics")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("logFile", rootCmd.PersistentFlags().Lookup("logFile"))
	_ = viper.BindPFlag("metrics", rootCmd.PersistentFlags().Lookup("metrics"))

	for key, value := range appconfig.Defaults() {
		viper.SetDefault(key, value)
	}
	viper.SetEnvPrefix("REPOMIND")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// ensureConfigLoaded reads the config file; a missing file leaves the defaults.
func ensureConfigLoaded() error {
	configLoaded = false
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load config: %w", err)
	}
	configLoaded = true
	return nil
}

// GetConfig returns the loaded application configuration for other packages.
func GetConfig() *appconfig.Config {
	return currentConfig
}

// DebugEnabled returns true if debug mode is enabled.
func DebugEnabled() bool { return viper.GetBool("debug") }

// SetVersionInfo allows the main package to inject build-time variables.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

// printMetrics writes the provider call summary when metrics are enabled.
func printMetrics(out io.Writer) {
	if aggregator == nil {
		return
	}
	summary := aggregator.Summary()
	if len(summary) == 0 {
		return
	}
	fmt.Fprintln(out, tui.Label("Provider calls:"))
	for _, s := range summary {
		fmt.Fprintf(out, "  %-9s calls=%d errors=%d total=%s mean=%.1fms max=%.1fms\n",
			s.Operation, s.Calls, s.Errors, s.Total(), s.LatencyMillis.Mean, s.LatencyMillis.Max)
	}
}

func workingDir() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}
