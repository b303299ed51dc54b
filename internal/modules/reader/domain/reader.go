package domain

import "strings"

// Document is an item prepared for reading.
type Document struct {
	ItemID     string
	Title      string
	SourceKind string
	SourceRef  string
	Lifecycle  string
	Summary    string
	Content    string
}

// ExternalTarget returns the web address a browser can open, or "" for
// items that only exist locally.
func (d Document) ExternalTarget() string {
	ref := strings.TrimSpace(d.SourceRef)
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	return ""
}
