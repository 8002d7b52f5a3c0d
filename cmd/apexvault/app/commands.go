package app

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/apexvault/cmd/apexvault/cmd/add"
	"github.com/agentstation/apexvault/cmd/apexvault/cmd/copypass"
	"github.com/agentstation/apexvault/cmd/apexvault/cmd/list"
	"github.com/agentstation/apexvault/cmd/apexvault/cmd/remove"
	"github.com/agentstation/apexvault/cmd/apexvault/cmd/show"
	"github.com/agentstation/apexvault/cmd/apexvault/cmd/transfer"
	"github.com/agentstation/apexvault/cmd/apexvault/cmd/version"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(add.NewCommand(a))
	rootCmd.AddCommand(list.NewCommand(a))
	rootCmd.AddCommand(show.NewCommand(a))
	rootCmd.AddCommand(copypass.NewCommand(a))

	// Management commands
	rootCmd.AddCommand(remove.NewDeleteCommand(a))
	rootCmd.AddCommand(remove.NewClearCommand(a))
	rootCmd.AddCommand(transfer.NewExportCommand(a))
	rootCmd.AddCommand(transfer.NewImportCommand(a))

	// Utility commands
	rootCmd.AddCommand(version.NewCommand(a))
}
