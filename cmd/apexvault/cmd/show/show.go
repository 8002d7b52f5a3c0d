// Package show provides the command that prints a single vault entry.
package show

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/apexvault/internal/appcontext"
	"github.com/agentstation/apexvault/internal/cmd/output"
)

// NewCommand creates the show command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var reveal bool

	cmd := &cobra.Command{
		Use:     "show <id>",
		GroupID: "core",
		Short:   "Show one entry",
		Example: `  apexvault show 0190f3c2-7d4e-7a51-9b1c-2f6a3e8d4b10 --reveal`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := output.ParseFormat(app.OutputFormat())
			if err != nil {
				return err
			}
			format = output.DetectFormat(string(format))

			v, err := app.Vault()
			if err != nil {
				return err
			}

			rec, err := v.Get(args[0])
			if err != nil {
				return err
			}

			return output.FormatRecord(cmd.OutOrStdout(), rec, format, reveal)
		},
	}

	cmd.Flags().BoolVar(&reveal, "reveal", false, "show the password in clear text")

	return cmd
}
