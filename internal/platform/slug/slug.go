package slug

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const maxRunes = 60

var nonWord = regexp.MustCompile(`[^\p{L}\p{N}]+`)

func Make(input string) string {
	s := strings.ToLower(strings.TrimSpace(input))
	s = nonWord.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if utf8.RuneCountInString(s) > maxRunes {
		s = strings.Trim(string([]rune(s)[:maxRunes]), "-")
	}
	if s == "" {
		return "untitled"
	}
	return s
}
