package out

import (
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"testing"

	librarydto "mindshelf/internal/modules/library/dto"
	libraryin "mindshelf/internal/modules/library/port/in"
)

func TestLaunchCommandPerPlatform(t *testing.T) {
	t.Parallel()
	cases := map[string]string{"darwin": "open", "linux": "xdg-open"}
	for goos, bin := range cases {
		cmd, err := launchCommand(goos, "https://go.dev")
		if err != nil {
			t.Fatalf("%s: %v", goos, err)
		}
		if filepath.Base(cmd.Path) != bin || cmd.Args[len(cmd.Args)-1] != "https://go.dev" {
			t.Fatalf("%s: unexpected command %v", goos, cmd.Args)
		}
	}
	if _, err := launchCommand("plan9", "https://go.dev"); err == nil {
		t.Fatalf("expected unsupported platform error")
	}
}

func TestOSExternalLauncherStartsCommand(t *testing.T) {
	t.Parallel()
	var started []string
	l := &OSExternalLauncher{goos: "linux", start: func(cmd *exec.Cmd) error {
		started = cmd.Args
		return nil
	}}
	if err := l.Open(context.Background(), "https://go.dev"); err != nil {
		t.Fatalf("open: %v", err)
	}
	if len(started) != 2 || started[1] != "https://go.dev" {
		t.Fatalf("unexpected args %v", started)
	}

	l.start = func(*exec.Cmd) error { return errors.New("no display") }
	if err := l.Open(context.Background(), "https://go.dev"); err == nil {
		t.Fatalf("expected start failure to surface")
	}
}

type fakeLibrary struct {
	libraryin.Usecase
	item       librarydto.ItemDetailOutput
	marked     int
	highlights []string
}

func (f *fakeLibrary) GetItem(context.Context, string) (librarydto.ItemDetailOutput, error) {
	return f.item, nil
}

func (f *fakeLibrary) MarkReading(context.Context, string) (librarydto.ItemDetailOutput, error) {
	f.marked++
	f.item.LifecycleStatus = "reading"
	return f.item, nil
}

func (f *fakeLibrary) ApplyHighlight(_ context.Context, input librarydto.HighlightInput) (librarydto.ItemDetailOutput, error) {
	f.highlights = append(f.highlights, input.Passage)
	return f.item, nil
}

func TestLibraryAdapterMapsItems(t *testing.T) {
	t.Parallel()
	lib := &fakeLibrary{item: librarydto.ItemDetailOutput{
		ItemOutput: librarydto.ItemOutput{
			ID:              "i-1",
			Title:           "Pipelines",
			SourceKind:      "article",
			SourceRef:       "https://go.dev/blog/pipelines",
			LifecycleStatus: "new",
		},
		RawContent: "Stages run concurrently.",
		Summary:    "About stages.",
	}}
	a := NewLibraryAdapter(lib)

	doc, err := a.Get(context.Background(), "i-1")
	if err != nil || doc.Lifecycle != "new" || doc.Content != "Stages run concurrently." {
		t.Fatalf("unexpected get %+v (%v)", doc, err)
	}
	doc, err = a.MarkReading(context.Background(), "i-1")
	if err != nil || doc.Lifecycle != "reading" || lib.marked != 1 {
		t.Fatalf("unexpected mark reading %+v (%v)", doc, err)
	}
	if doc.ExternalTarget() != "https://go.dev/blog/pipelines" {
		t.Fatalf("unexpected target %q", doc.ExternalTarget())
	}
	if _, err := a.Highlight(context.Background(), "i-1", "Stages"); err != nil || len(lib.highlights) != 1 {
		t.Fatalf("highlight not delegated: %v %v", lib.highlights, err)
	}
}
