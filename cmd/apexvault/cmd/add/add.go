// Package add provides the command that saves a vault entry.
package add

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"github.com/agentstation/apexvault/internal/appcontext"
	"github.com/agentstation/apexvault/internal/cmd/prompt"
	"github.com/agentstation/apexvault/internal/cmd/styles"
	"github.com/agentstation/apexvault/pkg/errors"
	"github.com/agentstation/apexvault/pkg/logging"
	"github.com/agentstation/apexvault/pkg/records"
)

// input mirrors the entry form. Every field is required.
type input struct {
	Name      string `validate:"required"`
	Link      string `validate:"required"`
	Workspace string `validate:"required"`
	Username  string `validate:"required"`
	Password  string `validate:"required"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// NewCommand creates the add command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var entry prompt.Entry

	cmd := &cobra.Command{
		Use:     "add",
		GroupID: "core",
		Short:   "Save an entry",
		Long: `Add saves a login to the vault. An entry with the same link, workspace
and username (ignoring case and surrounding spaces) is replaced.

Fields not given as flags are prompted for on a terminal.`,
		Example: `  apexvault add                                   # Prompt for every field
  apexvault add --name Mail --link https://mail.example.com \
      --workspace acme --username jo --password hunter2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, app, entry)
		},
	}

	cmd.Flags().StringVar(&entry.Name, "name", "", "display name")
	cmd.Flags().StringVar(&entry.Link, "link", "", "sign-in URL")
	cmd.Flags().StringVar(&entry.Workspace, "workspace", "", "workspace or tenant")
	cmd.Flags().StringVar(&entry.Username, "username", "", "login name")
	cmd.Flags().StringVar(&entry.Password, "password", "", "password (prompted without echo when omitted)")

	return cmd
}

func run(cmd *cobra.Command, app appcontext.Interface, entry prompt.Entry) error {
	trim(&entry)
	if entry.Missing() {
		if !app.Interactive() {
			return missingFields(entry)
		}
		if err := prompt.EntryForm(&entry); err != nil {
			return err
		}
		trim(&entry)
	}

	in := input(entry)
	if err := validate.Struct(in); err != nil {
		return missingFields(entry)
	}

	v, err := app.Vault()
	if err != nil {
		return err
	}

	ctx := logging.WithLogger(cmd.Context(), app.Logger())
	res, err := v.Upsert(ctx, records.Record{
		Name:      entry.Name,
		Link:      entry.Link,
		Workspace: entry.Workspace,
		Username:  entry.Username,
		Password:  entry.Password,
	})
	if err != nil {
		return err
	}

	app.Logger().Debug().
		Str("record_id", res.Record.ID).
		Bool("updated", res.WasUpdate).
		Msg("Saved entry")

	_, err = fmt.Fprintln(cmd.OutOrStdout(), styles.Success(res.Summary(), !app.Interactive()))
	return err
}

// trim strips surrounding spaces from every field but the password.
func trim(e *prompt.Entry) {
	e.Name = strings.TrimSpace(e.Name)
	e.Link = strings.TrimSpace(e.Link)
	e.Workspace = strings.TrimSpace(e.Workspace)
	e.Username = strings.TrimSpace(e.Username)
}

func missingFields(e prompt.Entry) error {
	var missing []string
	for _, f := range []struct {
		name, value string
	}{
		{records.FieldName, e.Name},
		{records.FieldLink, e.Link},
		{records.FieldWorkspace, e.Workspace},
		{records.FieldUsername, e.Username},
		{records.FieldPassword, e.Password},
	} {
		if f.value == "" {
			missing = append(missing, "--"+f.name)
		}
	}
	return errors.NewValidationError("", nil, "please fill all fields; missing "+strings.Join(missing, ", "))
}
