package domain

import (
	"net/url"
	"strings"
	"unicode"
)

var (
	videoHosts  = []string{"youtube.com", "youtu.be", "vimeo.com", "nicovideo.jp", "tiktok.com"}
	socialHosts = []string{"twitter.com", "x.com", "threads.net", "bsky.app", "instagram.com", "facebook.com", "linkedin.com", "reddit.com"}
)

// ClassifyURL picks the extraction flavor for a URL by its host.
func ClassifyURL(raw string) SourceKind {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return SourceKindArticle
	}
	host := strings.ToLower(strings.TrimPrefix(parsed.Hostname(), "www."))
	host = strings.TrimPrefix(host, "m.")
	switch {
	case matchesHost(host, videoHosts):
		return SourceKindVideo
	case matchesHost(host, socialHosts):
		return SourceKindSocial
	default:
		return SourceKindArticle
	}
}

func matchesHost(host string, candidates []string) bool {
	for _, candidate := range candidates {
		if host == candidate || strings.HasSuffix(host, "."+candidate) {
			return true
		}
	}
	return false
}

// DetectLanguage returns "ja" when kana or kanji make up at least a tenth of
// the letters in content, "en" otherwise.
func DetectLanguage(content string) string {
	letters, japanese := 0, 0
	for _, r := range content {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if unicode.In(r, unicode.Hiragana, unicode.Katakana, unicode.Han) {
			japanese++
		}
	}
	if letters > 0 && japanese*10 >= letters {
		return "ja"
	}
	return "en"
}
