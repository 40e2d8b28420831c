package stream

import "strings"

const fenceMarker = "```"

// StripFences removes one pair of markdown code fences wrapping the text.
// The opening fence may carry a language tag ("```tsx"). Text that does not
// carry both an opening and a closing fence is returned unchanged, which
// makes the operation idempotent: stripping an already-stripped string is a
// no-op.
func StripFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, fenceMarker) {
		return text
	}

	rest := trimmed[len(fenceMarker):]
	newline := strings.IndexByte(rest, '\n')
	if newline < 0 {
		// An opening fence with no body; nothing to unwrap.
		return text
	}

	body := rest[newline+1:]
	tail := strings.TrimRight(body, " \t\r\n")
	if !strings.HasSuffix(tail, fenceMarker) {
		return text
	}

	tail = strings.TrimSuffix(tail, fenceMarker)
	return strings.TrimRight(tail, "\r\n")
}
