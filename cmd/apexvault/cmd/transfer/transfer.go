// Package transfer provides the export and import commands.
package transfer

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"

	"github.com/agentstation/apexvault/internal/appcontext"
	"github.com/agentstation/apexvault/internal/cmd/constants"
	"github.com/agentstation/apexvault/internal/cmd/prompt"
	"github.com/agentstation/apexvault/internal/cmd/styles"
	pkgconstants "github.com/agentstation/apexvault/pkg/constants"
	"github.com/agentstation/apexvault/pkg/errors"
	"github.com/agentstation/apexvault/pkg/logging"
	"github.com/agentstation/apexvault/pkg/reconcile"
	"github.com/agentstation/apexvault/pkg/transfer"
)

// ImportFailed is printed when an import is rejected.
const ImportFailed = "Import failed."

// SelectMode asks how to apply an import; tests replace it.
var SelectMode = prompt.SelectMode

// NewExportCommand creates the export command.
func NewExportCommand(app appcontext.Interface) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:     "export",
		GroupID: "management",
		Short:   "Write the vault to a JSON file",
		Long: `Export writes every entry, passwords included, to a JSON file that
import understands. Use --file - to write to stdout.`,
		Example: `  apexvault export                          # ./apex-workspace-vault.json
  apexvault export --file backup.json
  apexvault export --file - | gpg -c > vault.json.gpg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := app.Vault()
			if err != nil {
				return err
			}

			ctx := logging.WithLogger(cmd.Context(), app.Logger())
			data, err := v.Export(ctx)
			if err != nil {
				return err
			}

			if file == constants.StdioPath {
				_, err := cmd.OutOrStdout().Write(append(data, '\n'))
				return err
			}

			if err := atomic.WriteFile(file, bytes.NewReader(data)); err != nil {
				return errors.WrapIO("write", file, err)
			}
			if err := os.Chmod(file, pkgconstants.SecureFilePermissions); err != nil {
				return errors.WrapIO("chmod", file, err)
			}

			msg := fmt.Sprintf("Exported %d entries to %s.", v.Len(), file)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), styles.Success(msg, !app.Interactive()))
			return err
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", pkgconstants.ExportFileName, "output file, or - for stdout")

	return cmd
}

// NewImportCommand creates the import command.
func NewImportCommand(app appcontext.Interface) *cobra.Command {
	var modeFlag string

	cmd := &cobra.Command{
		Use:     "import <file|->",
		GroupID: "management",
		Short:   "Load entries from an exported JSON file",
		Long: `Import reads an export file (or a bare JSON array of entries) and
applies it to the vault.

  merge    keep current entries; for the same link, workspace and username
           the more recently updated entry wins
  replace  discard current entries and keep only the imported ones

Entries missing a link, workspace, username or password are skipped. When the
file cannot be read as an export the vault is left untouched.`,
		Example: `  apexvault import backup.json               # Ask merge or replace
  apexvault import backup.json --mode merge
  cat backup.json | apexvault import - --mode replace`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runImport(cmd, app, args[0], modeFlag)
			if err != nil && !errors.IsCanceled(err) {
				fmt.Fprintln(cmd.ErrOrStderr(), styles.Failure(ImportFailed, !app.Interactive()))
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&modeFlag, "mode", "m", "", "merge or replace (prompted when omitted)")

	return cmd
}

func runImport(cmd *cobra.Command, app appcontext.Interface, source, modeFlag string) error {
	data, err := readSource(cmd, source)
	if err != nil {
		return err
	}

	// Decode up front so a bad file fails before the mode prompt.
	decoded, err := transfer.DecodeImport(data)
	if err != nil {
		return err
	}

	mode, err := chooseMode(app, modeFlag, len(decoded.Records))
	if err != nil {
		return err
	}

	v, err := app.Vault()
	if err != nil {
		return err
	}

	ctx := logging.WithLogger(cmd.Context(), app.Logger())
	res, err := v.Import(ctx, data, mode)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), styles.Success(res.Summary(), !app.Interactive()))
	return err
}

func chooseMode(app appcontext.Interface, flag string, count int) (reconcile.Mode, error) {
	if flag != "" {
		return reconcile.ParseMode(flag)
	}
	if !app.Interactive() {
		app.Logger().Debug().Msg("No --mode given and no terminal; merging")
		return reconcile.ModeMerge, nil
	}
	return SelectMode(count)
}

func readSource(cmd *cobra.Command, source string) ([]byte, error) {
	var r io.Reader
	if source == constants.StdioPath {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(source)
		if err != nil {
			return nil, errors.WrapIO("open", source, err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	data, err := io.ReadAll(io.LimitReader(r, pkgconstants.MaxImportBytes+1))
	if err != nil {
		return nil, errors.WrapIO("read", source, err)
	}
	if len(data) > pkgconstants.MaxImportBytes {
		return nil, errors.NewValidationError("file", source,
			fmt.Sprintf("import is larger than %d bytes", pkgconstants.MaxImportBytes))
	}
	return data, nil
}
