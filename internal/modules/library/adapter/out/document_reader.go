package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"rsc.io/pdf"

	"mindshelf/internal/modules/library/domain"
	libraryout "mindshelf/internal/modules/library/port/out"
	apperrors "mindshelf/internal/platform/errors"
)

// LocalDocumentReader extracts text from PDFs page by page and reads
// markdown or plain text files as they are.
type LocalDocumentReader struct{}

func NewLocalDocumentReader() libraryout.DocumentReader {
	return &LocalDocumentReader{}
}

func (r *LocalDocumentReader) Read(_ context.Context, path string) (domain.FetchedContent, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return readPDF(path)
	case ".md", ".markdown", ".txt", "":
		return readText(path)
	default:
		return domain.FetchedContent{}, fmt.Errorf("%w: unsupported document type %s", apperrors.ErrSourceFetch, filepath.Ext(path))
	}
}

func readText(path string) (domain.FetchedContent, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return domain.FetchedContent{}, fmt.Errorf("%w: read document: %v", apperrors.ErrSourceFetch, err)
	}
	content := string(b)
	title := ""
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, "# ") {
			title = strings.TrimSpace(strings.TrimPrefix(line, "# "))
			break
		}
	}
	return domain.FetchedContent{Title: title, Content: content}, nil
}

func readPDF(path string) (out domain.FetchedContent, err error) {
	// rsc.io/pdf panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			out, err = domain.FetchedContent{}, fmt.Errorf("%w: malformed pdf: %v", apperrors.ErrSourceFetch, r)
		}
	}()
	doc, err := pdf.Open(path)
	if err != nil {
		return domain.FetchedContent{}, fmt.Errorf("%w: open pdf: %v", apperrors.ErrSourceFetch, err)
	}
	pages := make([]string, 0, doc.NumPage())
	for n := 1; n <= doc.NumPage(); n++ {
		page := doc.Page(n)
		if page.V.IsNull() {
			continue
		}
		content := page.Content()
		parts := make([]string, 0, len(content.Text))
		for _, text := range content.Text {
			if strings.TrimSpace(text.S) == "" {
				continue
			}
			parts = append(parts, text.S)
		}
		if len(parts) > 0 {
			pages = append(pages, strings.Join(parts, " "))
		}
	}
	title := strings.TrimSpace(doc.Trailer().Key("Info").Key("Title").Text())
	return domain.FetchedContent{Title: title, Content: strings.Join(pages, "\n\n")}, nil
}
