package markdown

import "strings"

func ReplaceManagedBlock(body, startMarker, endMarker, generated string) string {
	start := strings.Index(body, startMarker)
	end := strings.Index(body, endMarker)
	block := startMarker + "\n" + generated + "\n" + endMarker

	if start >= 0 && end > start {
		end += len(endMarker)
		return body[:start] + block + body[end:]
	}

	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return block + "\n"
	}
	if strings.HasSuffix(body, "\n") {
		return body + "\n" + block + "\n"
	}
	return body + "\n\n" + block + "\n"
}

// ExtractManagedBlock returns the generated text between the markers and the
// body with the whole block (and the blank line before it) removed.
func ExtractManagedBlock(body, startMarker, endMarker string) (generated, rest string, ok bool) {
	start := strings.Index(body, startMarker)
	end := strings.Index(body, endMarker)
	if start < 0 || end <= start {
		return "", body, false
	}
	generated = strings.TrimSuffix(strings.TrimPrefix(body[start+len(startMarker):end], "\n"), "\n")
	before := strings.TrimRight(body[:start], "\n")
	if before != "" {
		before += "\n"
	}
	after := strings.TrimPrefix(body[end+len(endMarker):], "\n")
	return generated, before + after, true
}
