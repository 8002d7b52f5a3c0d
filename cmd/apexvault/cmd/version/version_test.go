package version

import (
	"bytes"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/apexvault/internal/appcontext"
)

func TestVersion(t *testing.T) {
	tests := []struct {
		format string
		want   []string
	}{
		{format: "", want: []string{"1.2.3", "abc", runtime.Version()}},
		{format: "json", want: []string{`"version": "1.2.3"`, `"built_by": "ci"`}},
		{format: "yaml", want: []string{"version: 1.2.3", "platform: " + runtime.GOOS}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			app := &appcontext.Mock{
				VersionFunc:      func() string { return "1.2.3" },
				CommitFunc:       func() string { return "abc" },
				BuiltByFunc:      func() string { return "ci" },
				OutputFormatFunc: func() string { return tt.format },
			}
			cmd := NewCommand(app)
			var out bytes.Buffer
			cmd.SetOut(&out)
			cmd.SetArgs(nil)
			require.NoError(t, cmd.Execute())
			for _, w := range tt.want {
				assert.Contains(t, out.String(), w)
			}
		})
	}
}
