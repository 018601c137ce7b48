// internal/commands/list_commands.go
package repomind

import (
	"fmt"
	"io"
	"strings"

	"github.com/mwiater/repomind/internal/tui"
	"github.com/spf13/cobra"
)

// CommandInfo holds the path and description of a command for display.
type CommandInfo struct {
	Path        string
	Description string
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List repomind resources",
}

// commandsCmd implements 'list commands', which prints the available
// commands and subcommands in an indented, two-column format.
var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "List all commands and subcommands in two columns",
	Run: func(cmd *cobra.Command, args []string) {
		var filtered []CommandInfo
		for _, data := range collectCommandData(rootCmd, "", "") {
			if strings.Contains(data.Path, "completion") || strings.Contains(data.Path, "help") {
				continue
			}
			filtered = append(filtered, data)
		}
		ListCommands(cmd.OutOrStdout(), filtered)
	},
}

func init() {
	listCmd.AddCommand(commandsCmd)
	rootCmd.AddCommand(listCmd)
}

// ListCommands prints the command tree in a two-column layout.
func ListCommands(out io.Writer, commands []CommandInfo) {
	width := 0
	for _, data := range commands {
		width = max(width, len(data.Path))
	}

	fmt.Fprintln(out, tui.Label("Commands and Subcommands:"))
	for _, data := range commands {
		fmt.Fprintf(out, "  %-*s  %s\n", width, data.Path, data.Description)
	}
}

// collectCommandData flattens the command tree under cmd into
// path/description pairs, indenting each level by two spaces.
func collectCommandData(cmd *cobra.Command, currentPath string, indent string) []CommandInfo {
	fullPath := cmd.Name()
	if currentPath != "" {
		fullPath = currentPath + " " + cmd.Name()
	}

	all := []CommandInfo{{Path: indent + fullPath, Description: cmd.Short}}
	for _, sub := range cmd.Commands() {
		all = append(all, collectCommandData(sub, fullPath, indent+"  ")...)
	}
	return all
}
