package output

import (
	"io"

	"github.com/agentstation/apexvault/internal/cmd/table"
	"github.com/agentstation/apexvault/pkg/records"
)

// FormatRecords writes rs in the given format. Passwords are masked in every
// format unless reveal is set.
func FormatRecords(w io.Writer, rs []records.Record, format Format, reveal bool) error {
	formatter := NewFormatter(format)

	switch format {
	case FormatJSON, FormatYAML:
		return formatter.Format(w, masked(rs, reveal))
	default:
		return formatter.Format(w, table.RecordsToTableData(rs, reveal, format == FormatWide))
	}
}

// FormatRecord writes a single record in the given format.
func FormatRecord(w io.Writer, r records.Record, format Format, reveal bool) error {
	formatter := NewFormatter(format)

	switch format {
	case FormatJSON, FormatYAML:
		return formatter.Format(w, masked([]records.Record{r}, reveal)[0])
	default:
		return formatter.Format(w, table.RecordToTableData(r, reveal))
	}
}

func masked(rs []records.Record, reveal bool) []records.Record {
	out := records.Clone(rs)
	for i := range out {
		out[i].Password = table.Password(out[i].Password, reveal)
	}
	return out
}
