// Package copypass provides the command that copies an entry's password
// to the system clipboard.
package copypass

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/agentstation/apexvault/internal/appcontext"
	"github.com/agentstation/apexvault/internal/cmd/styles"
	"github.com/agentstation/apexvault/pkg/errors"
)

// WriteClipboard is the clipboard sink; tests replace it.
var WriteClipboard = clipboard.WriteAll

// NewCommand creates the copy command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:     "copy <id>",
		GroupID: "core",
		Aliases: []string{"cp"},
		Short:   "Copy an entry's password to the clipboard",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := app.Vault()
			if err != nil {
				return err
			}

			rec, err := v.Get(args[0])
			if err != nil {
				return err
			}

			if err := WriteClipboard(rec.Password); err != nil {
				return errors.WrapIO("write", "clipboard", err)
			}

			msg := fmt.Sprintf("Copied password for %s.", rec.DisplayName())
			_, err = fmt.Fprintln(cmd.OutOrStdout(), styles.Success(msg, !app.Interactive()))
			return err
		},
	}
}
