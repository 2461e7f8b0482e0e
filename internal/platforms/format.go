package platforms

import "strings"

// TruncateLogical cuts text to at most max characters. It prefers ending at
// the last sentence-ending punctuation past the midpoint of the budget, then
// the last whitespace past the midpoint, then a hard cut. An ellipsis marks
// any cut that does not land on a sentence boundary. Idempotent.
func TruncateLogical(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	if max <= 3 {
		return string(runes[:max])
	}

	window := runes[:max]
	mid := max / 2

	for i := len(window) - 1; i > mid; i-- {
		switch window[i] {
		case '.', '!', '?':
			return string(window[:i+1])
		}
	}

	// Leave room for the ellipsis so the budget still holds.
	window = runes[:max-3]
	for i := len(window) - 1; i > mid; i-- {
		if window[i] == ' ' {
			return strings.TrimRight(string(window[:i]), " ") + "..."
		}
	}

	return strings.TrimRight(string(window), " ") + "..."
}

// ComposeText builds the posting body from the record parts: title, content
// and url joined by blank lines when present, bare content otherwise.
func ComposeText(title, body, url string) string {
	switch {
	case title != "" && url != "":
		return title + "\n\n" + body + "\n\n" + url
	case url != "":
		return body + "\n\n" + url
	default:
		return StripQuotes(body)
	}
}

// StripQuotes removes stray wrapping quotes the text service sometimes adds.
func StripQuotes(text string) string {
	return strings.Trim(text, `"'`)
}
