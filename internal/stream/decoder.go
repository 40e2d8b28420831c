package stream

import (
	"encoding/json"
	"strings"
)

// contentPrefix tags the frames of the completion data stream that carry a
// chunk of generated text. Other prefixes ("1:", "e:", "d:", ...) carry
// metadata, tool calls, errors, or the end-of-stream marker.
const contentPrefix = "0:"

// DecodeLine decodes one framed line of the completion data stream. Content
// frames yield their text delta with ok=true; every other frame kind is
// ignored with ok=false and contributes nothing.
//
// A content payload is a single JSON string literal, which preserves embedded
// newlines, quotes, and escapes. A payload that fails to parse degrades to
// literal text with one surrounding quote pair removed, so a malformed or
// version-skewed frame never aborts accumulation.
func DecodeLine(line string) (string, bool) {
	payload, found := strings.CutPrefix(line, contentPrefix)
	if !found {
		return "", false
	}

	var text string
	if err := json.Unmarshal([]byte(payload), &text); err == nil {
		return text, true
	}

	return stripQuotePair(payload), true
}

// stripQuotePair removes one matching pair of surrounding double quotes.
func stripQuotePair(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s[1 : len(s)-1]
	}
	return s
}
