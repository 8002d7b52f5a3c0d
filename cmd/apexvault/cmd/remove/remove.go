// Package remove provides the destructive commands: delete and clear.
package remove

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/apexvault/internal/appcontext"
	"github.com/agentstation/apexvault/internal/cmd/prompt"
	"github.com/agentstation/apexvault/internal/cmd/styles"
	"github.com/agentstation/apexvault/pkg/errors"
	"github.com/agentstation/apexvault/pkg/logging"
)

// NotFound is printed when delete is given an id that is not in the vault.
const NotFound = "No entry with that id."

// Confirm asks before a destructive change; tests replace it.
var Confirm = prompt.Confirm

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(app appcontext.Interface) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "delete <id>",
		GroupID: "management",
		Aliases: []string{"rm"},
		Short:   "Delete one entry",
		Long: `Delete removes the entry with the given id. Deleting an id that is not
in the vault changes nothing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := app.Vault()
			if err != nil {
				return err
			}

			id := args[0]
			if !yes {
				title := "Delete this entry?"
				if rec, err := v.Get(id); err == nil {
					title = fmt.Sprintf("Delete '%s'?", rec.DisplayName())
				}
				if err := confirm(app, title); err != nil {
					return err
				}
			}

			ctx := logging.WithRecordID(logging.WithLogger(cmd.Context(), app.Logger()), id)
			removed, err := v.DeleteByID(ctx, id)
			if err != nil {
				return err
			}
			if !removed {
				app.Logger().Debug().Str("record_id", id).Msg("No entry with that id")
				_, err = fmt.Fprintln(cmd.OutOrStdout(), styles.Notice(NotFound, !app.Interactive()))
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), styles.Success("Deleted 1 entry.", !app.Interactive()))
			return err
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	return cmd
}

// NewClearCommand creates the clear command.
func NewClearCommand(app appcontext.Interface) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "clear",
		GroupID: "management",
		Short:   "Delete every entry",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := app.Vault()
			if err != nil {
				return err
			}

			if !yes {
				if err := confirm(app, fmt.Sprintf("Delete all %d entries?", v.Len())); err != nil {
					return err
				}
			}

			ctx := logging.WithLogger(cmd.Context(), app.Logger())
			if err := v.Clear(ctx); err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), styles.Success("Cleared all entries.", !app.Interactive()))
			return err
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	return cmd
}

// confirm returns nil only when the user agreed. Without a terminal the
// caller must pass --yes.
func confirm(app appcontext.Interface, title string) error {
	if !app.Interactive() {
		return errors.NewValidationError("yes", false, "refusing to delete without confirmation; pass --yes")
	}

	ok, err := Confirm(title, "WARNING: This cannot be undone!", true)
	if err != nil {
		return err
	}
	if !ok {
		return errors.ErrCanceled
	}
	return nil
}
