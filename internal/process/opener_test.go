package process

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/nikbrunner/bkmr/internal/logger"
	"github.com/nikbrunner/bkmr/internal/model"
)

func TestOpenCommand(t *testing.T) {
	tests := []struct {
		goos     string
		wantName string
		wantArgs int
	}{
		{"darwin", "open", 1},
		{"linux", "xdg-open", 1},
		{"windows", "rundll32", 2},
		{"plan9", "", 0},
	}

	for _, tt := range tests {
		name, args := openCommand(tt.goos, "https://example.com")
		if name != tt.wantName || len(args) != tt.wantArgs {
			t.Errorf("openCommand(%q) = %q %v", tt.goos, name, args)
		}
	}
}

func TestSystemOpener_ShellPrefixRunsAndWaits(t *testing.T) {
	var out bytes.Buffer
	opener := NewSystemOpener("shell::", logger.NewNop())
	opener.Stdin = nil
	opener.Stdout = &out
	opener.Stderr = &out

	if err := opener.Open(context.Background(), "shell::echo hello"); err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if out.String() != "hello\n" {
		t.Errorf("expected command output, got %q", out.String())
	}
}

func TestSystemOpener_ShellFailure(t *testing.T) {
	opener := NewSystemOpener("shell::", logger.NewNop())
	opener.Stdin = nil
	opener.Stdout = nil
	opener.Stderr = nil

	err := opener.Open(context.Background(), "shell::exit 3")
	if !errors.Is(err, model.ErrExternalProcess) {
		t.Errorf("expected ErrExternalProcess, got %v", err)
	}
}

func TestAbsPath(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	got, ok := AbsPath(file)
	if !ok || got != file {
		t.Errorf("expected %q, got %q (%v)", file, got, ok)
	}

	if _, ok := AbsPath("https://example.com"); ok {
		t.Error("expected urls not to resolve as paths")
	}
	if _, ok := AbsPath(filepath.Join(dir, "missing")); ok {
		t.Error("expected missing paths not to resolve")
	}
}

func TestAbsPath_HomeExpansion(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	if err := os.WriteFile(filepath.Join(home, "bm.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	got, ok := AbsPath("~/bm.txt")
	if !ok || got != filepath.Join(home, "bm.txt") {
		t.Errorf("expected home expanded path, got %q (%v)", got, ok)
	}
}
