// Package styles holds the lipgloss styles and huh themes shared by the
// interactive commands.
package styles

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/agentstation/apexvault/internal/cmd/emoji"
)

var (
	white       = lipgloss.Color("#ffffff")
	gray        = lipgloss.Color("#a6adc8")
	accent      = lipgloss.Color("#5a56e0")
	accentLight = lipgloss.Color("#8a86f0")
	success     = lipgloss.Color("#3EB974")
	destructive = lipgloss.Color("#a83c3c")
)

var (
	SuccessStyle = lipgloss.NewStyle().Foreground(success)
	ErrStyle     = lipgloss.NewStyle().Foreground(destructive)
	MutedStyle   = lipgloss.NewStyle().Foreground(gray)
)

// Theme is the default form theme.
func Theme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = t.Focused.Title.Foreground(white)
	t.Focused.Description = t.Focused.Description.Foreground(gray)
	t.Focused.ErrorIndicator = t.Focused.ErrorIndicator.Foreground(destructive)
	t.Focused.ErrorMessage = t.Focused.ErrorMessage.Foreground(destructive)
	t.Focused.SelectSelector = t.Focused.SelectSelector.Foreground(accentLight).Bold(true)
	t.Focused.Option = t.Focused.Option.Foreground(gray)
	t.Focused.SelectedOption = t.Focused.SelectedOption.Foreground(white)
	t.Focused.FocusedButton = t.Focused.FocusedButton.Foreground(white).Background(accent)
	t.Focused.TextInput.Cursor = t.Focused.TextInput.Cursor.Foreground(white)
	t.Focused.TextInput.Placeholder = t.Focused.TextInput.Placeholder.Foreground(gray)
	t.Focused.TextInput.Prompt = t.Focused.TextInput.Prompt.Foreground(accentLight)

	t.Blurred = t.Focused
	t.Blurred.Base = t.Blurred.Base.BorderStyle(lipgloss.HiddenBorder())

	return t
}

// DestructiveTheme is used for confirmations that delete data.
func DestructiveTheme() *huh.Theme {
	t := Theme()

	red := lipgloss.AdaptiveColor{Light: "#FF4672", Dark: "#ED567A"}

	t.Focused.Base = t.Focused.Base.BorderForeground(lipgloss.Color("238"))
	t.Focused.Title = t.Focused.Title.Foreground(red).Bold(true)
	t.Focused.Description = t.Focused.Description.Foreground(red)

	return t
}

// Success renders a status line for a completed operation. Color is
// dropped when plain is set.
func Success(msg string, plain bool) string {
	if plain {
		return msg
	}
	return SuccessStyle.Render(emoji.Success + " " + msg)
}

// Failure renders a status line for a failed operation.
func Failure(msg string, plain bool) string {
	if plain {
		return msg
	}
	return ErrStyle.Render(emoji.Error + " " + msg)
}

// Notice renders an informational line.
func Notice(msg string, plain bool) string {
	if plain {
		return msg
	}
	return MutedStyle.Render(msg)
}
