// Package table provides common table formatting utilities for CLI commands.
package table

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/agentstation/apexvault/pkg/constants"
	"github.com/agentstation/apexvault/pkg/records"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data to avoid import cycles.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

// RecordsToTableData converts records to table format. The wide layout adds
// the record id and the raw timestamp.
func RecordsToTableData(rs []records.Record, reveal, wide bool) Data {
	headers := Headers(records.FieldName, records.FieldWorkspace, records.FieldUsername, records.FieldPassword, "updated")
	if wide {
		headers = append([]string{"ID"}, Headers(records.FieldName, records.FieldLink, records.FieldWorkspace,
			records.FieldUsername, records.FieldPassword, records.FieldUpdatedAt)...)
	}

	rows := make([][]string, 0, len(rs))
	for _, r := range rs {
		password := Password(r.Password, reveal)
		if wide {
			rows = append(rows, []string{
				r.ID, r.DisplayName(), r.Link, r.Workspace, r.Username, password, r.UpdatedAt,
			})
			continue
		}
		rows = append(rows, []string{
			r.DisplayName(), r.Workspace, r.Username, password, FormatTime(r.UpdatedAt),
		})
	}

	return Data{Headers: headers, Rows: rows}
}

// RecordToTableData renders a single record as a property/value table.
func RecordToTableData(r records.Record, reveal bool) Data {
	return Data{
		Headers: []string{"Property", "Value"},
		Rows: [][]string{
			{"ID", r.ID},
			{"Name", r.DisplayName()},
			{"Link", r.Link},
			{"Workspace", r.Workspace},
			{"Username", r.Username},
			{"Password", Password(r.Password, reveal)},
			{"Updated", FormatTime(r.UpdatedAt)},
		},
		ColumnAlignment: []Align{AlignRight, AlignLeft},
	}
}

// Headers title-cases field names, splitting camel case and underscores:
// "updatedAt" becomes "Updated At".
func Headers(fields ...string) []string {
	caser := cases.Title(language.English)
	out := make([]string, len(fields))
	for i, f := range fields {
		var b strings.Builder
		for j, r := range f {
			if j > 0 && r >= 'A' && r <= 'Z' {
				b.WriteByte(' ')
			}
			b.WriteRune(r)
		}
		out[i] = caser.String(strings.ReplaceAll(b.String(), "_", " "))
	}
	return out
}

// Password returns p, or the mask unless reveal is set.
func Password(p string, reveal bool) string {
	if reveal {
		return p
	}
	return constants.PasswordMask
}

// FormatTime renders an ISO timestamp for humans. Values that do not parse
// are shown unchanged.
func FormatTime(ts string) string {
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return ts
	}
	return t.Local().Format(constants.TimeFormatHuman)
}
