// Package prompt wraps the huh forms used by the interactive commands.
// Every prompt maps a user abort to errors.ErrCanceled.
package prompt

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/agentstation/apexvault/internal/cmd/styles"
	"github.com/agentstation/apexvault/pkg/errors"
	"github.com/agentstation/apexvault/pkg/reconcile"
)

// Entry holds the fields of the add form.
type Entry struct {
	Name      string
	Link      string
	Workspace string
	Username  string
	Password  string
}

// Missing reports whether any field still needs input.
func (e *Entry) Missing() bool {
	return e.Name == "" || e.Link == "" || e.Workspace == "" || e.Username == "" || e.Password == ""
}

// Confirm asks a yes/no question. Destructive questions use the red theme.
func Confirm(title, description string, destructive bool) (bool, error) {
	var confirmed bool
	confirm := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Yes").
		Negative("No").
		Value(&confirmed)

	theme := styles.Theme()
	if destructive {
		theme = styles.DestructiveTheme()
	}

	if err := huh.NewForm(huh.NewGroup(confirm)).WithTheme(theme).Run(); err != nil {
		return false, abort(err)
	}
	return confirmed, nil
}

// SelectMode asks how an import should be applied.
func SelectMode(count int) (reconcile.Mode, error) {
	mode := reconcile.ModeMerge
	sel := huh.NewSelect[reconcile.Mode]().
		Title(fmt.Sprintf("Import %d entries", count)).
		Description("Merge keeps existing entries; replace discards them.").
		Options(
			huh.NewOption("Merge into current vault", reconcile.ModeMerge),
			huh.NewOption("Replace current vault", reconcile.ModeReplace),
		).
		Value(&mode)

	if err := huh.NewForm(huh.NewGroup(sel)).WithTheme(styles.Theme()).Run(); err != nil {
		return "", abort(err)
	}
	return mode, nil
}

// EntryForm prompts for the fields of e that are still empty. Every field
// is required; all but the password are judged after trimming.
func EntryForm(e *Entry) error {
	var fields []huh.Field
	add := func(title string, value *string, password bool) {
		if *value != "" {
			return
		}
		input := huh.NewInput().Title(title).Value(value).Validate(required(title, !password))
		if password {
			input = input.EchoMode(huh.EchoModePassword)
		}
		fields = append(fields, input)
	}

	add("Name", &e.Name, false)
	add("Link", &e.Link, false)
	add("Workspace", &e.Workspace, false)
	add("Username", &e.Username, false)
	add("Password", &e.Password, true)

	if len(fields) == 0 {
		return nil
	}

	form := huh.NewForm(huh.NewGroup(fields...)).WithTheme(styles.Theme()).WithShowHelp(true)
	return abort(form.Run())
}

func required(title string, trim bool) func(string) error {
	return func(s string) error {
		if trim {
			s = strings.TrimSpace(s)
		}
		if s == "" {
			return fmt.Errorf("%s is required", strings.ToLower(title))
		}
		return nil
	}
}

func abort(err error) error {
	if stderrors.Is(err, huh.ErrUserAborted) {
		return errors.ErrCanceled
	}
	return err
}
