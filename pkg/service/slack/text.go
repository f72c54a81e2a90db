package slack

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Slack rejects message text longer than 40,000 characters. Stay under it in
// bytes so multi-byte text is also safe.
const maxTextBytes = 39000

var mentionPattern = regexp.MustCompile(`<@[A-Z0-9]+(\|[^>]*)?>`)

// StripMentions removes user mentions such as "<@U123>" from text and trims
// the surrounding whitespace
func StripMentions(text string) string {
	text = mentionPattern.ReplaceAllString(text, "")
	return strings.Join(strings.Fields(text), " ")
}

// truncateToMaxBytes cuts s to at most maxBytes bytes without splitting a
// UTF-8 sequence
func truncateToMaxBytes(s string, maxBytes int) string {
	if len(s) <= maxBytes {
		return s
	}

	cut := maxBytes
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
