package process

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/nikbrunner/bkmr/internal/logger"
	"github.com/nikbrunner/bkmr/internal/model"
)

// Opener opens a bookmark url.
type Opener interface {
	Open(ctx context.Context, url string) error
}

// SystemOpener runs shell bookmarks directly and hands everything else
// to the platform's default handler.
type SystemOpener struct {
	ShellPrefix string
	Stdin       io.Reader
	Stdout      io.Writer
	Stderr      io.Writer

	log logger.Logger
}

// NewSystemOpener creates a SystemOpener wired to the process's stdio.
func NewSystemOpener(shellPrefix string, log logger.Logger) *SystemOpener {
	return &SystemOpener{
		ShellPrefix: shellPrefix,
		Stdin:       os.Stdin,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		log:         log,
	}
}

// Open runs a shell bookmark and waits for it, or starts the default
// handler without waiting.
func (o *SystemOpener) Open(ctx context.Context, url string) error {
	if o.ShellPrefix != "" {
		if command, ok := strings.CutPrefix(url, o.ShellPrefix); ok {
			return o.runShell(ctx, command)
		}
	}

	target := url
	if path, ok := AbsPath(url); ok {
		target = path
	}

	name, args := openCommand(runtime.GOOS, target)
	if name == "" {
		return fmt.Errorf("no default opener for %s: %w", runtime.GOOS, model.ErrExternalProcess)
	}
	o.log.Debug("opening with system handler", logger.String("target", target), logger.String("handler", name))

	// Not CommandContext: the handler must outlive this process.
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open %s: %w: %w", target, model.ErrExternalProcess, err)
	}
	return nil
}

func (o *SystemOpener) runShell(ctx context.Context, command string) error {
	o.log.Debug("running shell bookmark", logger.String("command", command))

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Stdin = o.Stdin
	cmd.Stdout = o.Stdout
	cmd.Stderr = o.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("shell command %q: %w: %w", command, model.ErrExternalProcess, err)
	}
	return nil
}

// openCommand returns the default open handler for goos.
func openCommand(goos, target string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{target}
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", []string{target}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", target}
	default:
		return "", nil
	}
}

// AbsPath expands a leading "~" and returns the absolute path of uri
// when it names an existing file or directory.
func AbsPath(uri string) (string, bool) {
	path := uri
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", false
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}

	if _, err := os.Stat(path); err != nil {
		return "", false
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	return abs, true
}
