package domain

import "strings"

// Fixed entity substitutions for markup-significant characters in display
// text. Note `&` is deliberately absent: the set matches what the protocol
// promises, and adding `&` would double-escape already-escaped text.
var sanitizer = strings.NewReplacer(
	"<", "&lt;",
	">", "&gt;",
	"/", "&#47;",
	"`", "&#96;",
	"'", "&#39;",
	`"`, "&#34;",
)

// Sanitize neutralizes markup-significant characters in user-supplied
// display text. Not idempotent; apply exactly once per mutation.
func Sanitize(text string) string {
	return sanitizer.Replace(text)
}

// SanitizeInfo returns a copy of info with both display fields sanitized.
func SanitizeInfo(info ParticipantInfo) ParticipantInfo {
	return ParticipantInfo{
		Nickname: Sanitize(info.Nickname),
		Avatar:   Sanitize(info.Avatar),
	}
}
