package records

import "strings"

// KeySeparator joins the identity fields.
const KeySeparator = "|"

// IdentityKey derives the deduplication key for r from link, workspace and
// username. Only the outer whitespace of the joined string is trimmed, and the
// result is lower-cased. The id, name, password and timestamp do not take part.
//
// A record with all three fields empty yields "||". Such keys are accepted;
// every empty record collapses onto the same key.
func IdentityKey(r Record) string {
	joined := r.Link + KeySeparator + r.Workspace + KeySeparator + r.Username
	return strings.ToLower(strings.TrimSpace(joined))
}

// IsDegenerateKey reports whether key carries no identifying text at all.
func IsDegenerateKey(key string) bool {
	return strings.Trim(key, KeySeparator+" \t\r\n") == ""
}
