package records_test

import (
	"strings"
	"testing"

	"github.com/agentstation/apexvault/pkg/records"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestIdentityKey(t *testing.T) {
	tests := []struct {
		name string
		rec  records.Record
		want string
	}{
		{
			name: "lower-cases",
			rec:  records.Record{Link: "HTTPS://Mail.Example.com", Workspace: "Acme", Username: "Jo"},
			want: "https://mail.example.com|acme|jo",
		},
		{
			name: "trims outer whitespace only",
			rec:  records.Record{Link: "  a ", Workspace: " b ", Username: " c  "},
			want: "a | b | c",
		},
		{
			name: "ignores id password and timestamps",
			rec:  records.Record{ID: "1", Password: "p", UpdatedAt: "t", Name: "n", Link: "l", Workspace: "w", Username: "u"},
			want: "l|w|u",
		},
		{
			name: "degenerate",
			rec:  records.Record{},
			want: "||",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, records.IdentityKey(tt.rec))
			assert.Equal(t, tt.want, tt.rec.Key())
		})
	}
}

func TestIsDegenerateKey(t *testing.T) {
	assert.True(t, records.IsDegenerateKey("||"))
	assert.True(t, records.IsDegenerateKey(records.Record{Workspace: "  "}.Key()))
	assert.False(t, records.IsDegenerateKey("a||"))
}

func TestIdentityKeyStable(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("outer padding and case do not change the key", prop.ForAll(
		func(link, workspace, username, pad string) bool {
			plain := records.Record{Link: link, Workspace: workspace, Username: username}
			noisy := records.Record{
				Link:      pad + strings.ToUpper(link),
				Workspace: strings.ToUpper(workspace),
				Username:  username + pad,
			}
			return plain.Key() == noisy.Key()
		},
		gen.AlphaString(),
		gen.AlphaString(),
		gen.AlphaString(),
		gen.OneConstOf("", " ", "\t", "  \n"),
	))

	properties.Property("non-identity fields do not change the key", prop.ForAll(
		func(id, password, updatedAt string) bool {
			base := records.Record{Link: "l", Workspace: "w", Username: "u"}
			other := base
			other.ID, other.Password, other.UpdatedAt = id, password, updatedAt
			return base.Key() == other.Key()
		},
		gen.AnyString(),
		gen.AnyString(),
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
