// Package version provides the version command.
package version

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/agentstation/apexvault/internal/appcontext"
	"github.com/agentstation/apexvault/internal/cmd/output"
	"github.com/agentstation/apexvault/internal/cmd/table"
)

// Info is the version report.
type Info struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	Date      string `json:"date" yaml:"date"`
	BuiltBy   string `json:"built_by" yaml:"built_by"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	Platform  string `json:"platform" yaml:"platform"`
}

// NewCommand creates the version command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := Info{
				Version:   app.Version(),
				Commit:    app.Commit(),
				Date:      app.Date(),
				BuiltBy:   app.BuiltBy(),
				GoVersion: runtime.Version(),
				Platform:  runtime.GOOS + "/" + runtime.GOARCH,
			}

			format, err := output.ParseFormat(app.OutputFormat())
			if err != nil {
				return err
			}

			var data any = info
			if format == "" || format == output.FormatTable || format == output.FormatWide {
				format = output.FormatTable
				data = table.Data{
					Headers: []string{"Property", "Value"},
					Rows: [][]string{
						{"Version", info.Version},
						{"Commit", info.Commit},
						{"Built", info.Date},
						{"Built By", info.BuiltBy},
						{"Go Version", info.GoVersion},
						{"Platform", info.Platform},
					},
				}
			}
			return output.NewFormatter(format).Format(cmd.OutOrStdout(), data)
		},
	}
}
