package domain

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	headerPattern   = regexp.MustCompile(`^#{1,6}\s`)
	listItemPattern = regexp.MustCompile(`^([-*+]|\d+[.)])\s`)
)

const (
	sentenceEnders = "。！？"
	closingMarks   = "」』）】〉》\"')"
)

// NormalizeContent makes fetched text readable as markdown: a blank line
// before headers, list blocks and code fences, and Japanese sentences split
// one per line outside fenced code. Runs of blank lines collapse to one.
func NormalizeContent(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))
	inFence := false
	prevList := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if isFence(trimmed) {
			if !inFence {
				out = ensureBlank(out)
			}
			out = append(out, strings.TrimRight(line, " \t"))
			inFence = !inFence
			prevList = false
			continue
		}
		if inFence {
			out = append(out, line)
			continue
		}
		if trimmed == "" {
			out = ensureBlank(out)
			prevList = false
			continue
		}

		switch {
		case headerPattern.MatchString(trimmed):
			out = ensureBlank(out)
			out = append(out, trimmed)
			prevList = false
		case listItemPattern.MatchString(trimmed):
			if !prevList {
				out = ensureBlank(out)
			}
			out = append(out, strings.TrimRight(line, " \t"))
			prevList = true
		default:
			if prevList && !startsWithSpace(line) {
				out = ensureBlank(out)
				prevList = false
			}
			out = append(out, SplitSentences(strings.TrimRight(line, " \t"))...)
		}
	}
	return strings.TrimRight(strings.Join(out, "\n"), "\n \t")
}

// SplitSentences breaks a line after each Japanese sentence ender, keeping
// trailing closing brackets with their sentence.
func SplitSentences(line string) []string {
	if !strings.ContainsAny(line, sentenceEnders) {
		return []string{line}
	}
	var (
		parts   []string
		current strings.Builder
	)
	for i := 0; i < len(line); {
		r, size := utf8.DecodeRuneInString(line[i:])
		current.WriteRune(r)
		i += size
		if !strings.ContainsRune(sentenceEnders, r) {
			continue
		}
		for i < len(line) {
			next, nextSize := utf8.DecodeRuneInString(line[i:])
			if !strings.ContainsRune(closingMarks, next) && !strings.ContainsRune(sentenceEnders, next) {
				break
			}
			current.WriteRune(next)
			i += nextSize
		}
		if strings.TrimSpace(line[i:]) == "" {
			continue
		}
		parts = append(parts, current.String())
		current.Reset()
		for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
			i++
		}
	}
	if current.Len() > 0 {
		parts = append(parts, current.String())
	}
	return parts
}

func isFence(trimmed string) bool {
	return strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~")
}

func startsWithSpace(line string) bool {
	return strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")
}

func ensureBlank(lines []string) []string {
	if len(lines) == 0 || strings.TrimSpace(lines[len(lines)-1]) == "" {
		return lines
	}
	return append(lines, "")
}

// Prefix returns at most maxRunes runes of content.
func Prefix(content string, maxRunes int) string {
	if maxRunes <= 0 || utf8.RuneCountInString(content) <= maxRunes {
		return content
	}
	count := 0
	for idx := range content {
		if count == maxRunes {
			return content[:idx]
		}
		count++
	}
	return content
}
