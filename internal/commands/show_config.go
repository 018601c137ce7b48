package repomind

import (
	"github.com/k0kubun/pp/v3"
	"github.com/mwiater/repomind/internal/appconfig"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show repomind settings",
}

var dumpConfig bool

// showConfigCmd implements the 'show config' command, which displays the current configuration settings.
var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show config settings",
	Long:  `Show config settings ensuring that the JSON config is loaded properly and overridden by environment variables and flags accordingly.`,
	Run: func(cmd *cobra.Command, args []string) {
		if dumpConfig {
			printer := pp.New()
			printer.SetOutput(cmd.OutOrStdout())
			printer.SetColoringEnabled(false)
			printer.Println(GetConfig())
			return
		}
		file := ""
		if configLoaded {
			file = viper.ConfigFileUsed()
		}
		appconfig.ShowConfig(cmd.OutOrStdout(), file, GetConfig())
	},
}

func init() {
	showConfigCmd.Flags().BoolVar(&dumpConfig, "dump", false, "pretty-print the full config struct")
	showCmd.AddCommand(showConfigCmd)
	rootCmd.AddCommand(showCmd)
}
