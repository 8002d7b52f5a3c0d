// Package list provides the command that lists vault entries.
package list

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/apexvault/internal/appcontext"
	"github.com/agentstation/apexvault/internal/cmd/output"
	"github.com/agentstation/apexvault/internal/cmd/styles"
)

// EmptyNotice is printed instead of a table when the vault has no entries.
const EmptyNotice = "No entries yet. Add one with 'apexvault add' or import a file."

// NewCommand creates the list command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var reveal bool

	cmd := &cobra.Command{
		Use:     "list",
		GroupID: "core",
		Aliases: []string{"ls"},
		Short:   "List saved entries",
		Long: `List shows every entry, most recently updated first. Passwords are
masked unless --reveal is given.`,
		Example: `  apexvault list                 # Table of entries
  apexvault list -o wide         # Include ids, links and raw timestamps
  apexvault list -o json --reveal`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := output.ParseFormat(app.OutputFormat())
			if err != nil {
				return err
			}
			format = output.DetectFormat(string(format))

			v, err := app.Vault()
			if err != nil {
				return err
			}

			rs := v.Sorted()
			if len(rs) == 0 && (format == output.FormatTable || format == output.FormatWide) {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), styles.Notice(EmptyNotice, !app.Interactive()))
				return err
			}

			return output.FormatRecords(cmd.OutOrStdout(), rs, format, reveal)
		},
	}

	cmd.Flags().BoolVar(&reveal, "reveal", false, "show passwords in clear text")

	return cmd
}
