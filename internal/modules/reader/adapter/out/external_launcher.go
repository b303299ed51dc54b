package out

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	readerout "mindshelf/internal/modules/reader/port/out"
)

type OSExternalLauncher struct {
	goos  string
	start func(cmd *exec.Cmd) error
}

func NewOSExternalLauncher() *OSExternalLauncher {
	return &OSExternalLauncher{
		goos:  runtime.GOOS,
		start: func(cmd *exec.Cmd) error { return cmd.Start() },
	}
}

var _ readerout.ExternalLauncher = (*OSExternalLauncher)(nil)

func (l *OSExternalLauncher) Open(_ context.Context, target string) error {
	cmd, err := launchCommand(l.goos, target)
	if err != nil {
		return err
	}
	if err := l.start(cmd); err != nil {
		return fmt.Errorf("open external target: %w", err)
	}
	return nil
}

// launchCommand builds the opener detached from any request context so the
// browser outlives the command that started it.
func launchCommand(goos, target string) (*exec.Cmd, error) {
	switch goos {
	case "darwin":
		return exec.Command("open", target), nil
	case "linux", "freebsd", "openbsd":
		return exec.Command("xdg-open", target), nil
	default:
		return nil, fmt.Errorf("external open is not supported on %s", goos)
	}
}
