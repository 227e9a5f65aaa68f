package process

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/nikbrunner/bkmr/internal/model"
)

// Editor lets the user change a bookmark and returns the edited copy.
type Editor interface {
	Edit(ctx context.Context, bm model.Bookmark) (model.Bookmark, error)
}

// ExternalEditor edits bookmarks as a text template in an external program.
type ExternalEditor struct {
	// Command may carry arguments, e.g. "code --wait".
	Command string
	// TempDir is where templates are written. Empty means os.TempDir().
	TempDir string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewExternalEditor creates an ExternalEditor wired to the process's stdio.
func NewExternalEditor(command string) *ExternalEditor {
	return &ExternalEditor{
		Command: command,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
}

// Edit writes bm to a temporary template, waits for the editor to exit
// and parses the result. The template is removed on every return path.
func (e *ExternalEditor) Edit(ctx context.Context, bm model.Bookmark) (model.Bookmark, error) {
	argv := strings.Fields(e.Command)
	if len(argv) == 0 {
		return model.Bookmark{}, fmt.Errorf("no editor configured: %w", model.ErrExternalProcess)
	}

	f, err := os.CreateTemp(e.TempDir, "bkmr-edit-*.txt")
	if err != nil {
		return model.Bookmark{}, fmt.Errorf("create temp file: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.WriteString(RenderTemplate(bm)); err != nil {
		f.Close()
		return model.Bookmark{}, fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return model.Bookmark{}, fmt.Errorf("close temp file: %w", err)
	}

	cmd := exec.CommandContext(ctx, argv[0], append(argv[1:], path)...)
	cmd.Stdin = e.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr
	if err := cmd.Run(); err != nil {
		return model.Bookmark{}, fmt.Errorf("editor %s: %w: %w", argv[0], model.ErrExternalProcess, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return model.Bookmark{}, fmt.Errorf("read temp file: %w", err)
	}

	edited, err := ParseTemplate(bm, string(data))
	if err != nil {
		return model.Bookmark{}, fmt.Errorf("bookmark %d: %w", bm.ID, err)
	}
	return edited, nil
}
