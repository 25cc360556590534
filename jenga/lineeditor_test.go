package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// pipeStdin replaces os.Stdin with a pipe for the duration of the test.
func pipeStdin(t *testing.T) *os.File {
	t.Helper()
	oldStdin := os.Stdin
	reader, writer, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdin = reader
	t.Cleanup(func() {
		os.Stdin = oldStdin
		reader.Close()
		writer.Close()
	})
	return writer
}

func TestNewLineEditorNonInteractive(t *testing.T) {
	pipeStdin(t)

	editor := NewLineEditor(filepath.Join(t.TempDir(), historyFileName))
	defer editor.Close()

	if editor.IsInteractive() {
		t.Error("editor should be non-interactive when stdin is a pipe")
	}
}

func TestNewLineEditorWithEmacsEnv(t *testing.T) {
	pipeStdin(t)
	t.Setenv("INSIDE_EMACS", "29.1,comint")

	editor := NewLineEditor(filepath.Join(t.TempDir(), historyFileName))
	defer editor.Close()

	if editor.IsInteractive() {
		t.Error("editor should be non-interactive when INSIDE_EMACS is set")
	}
}

func TestPlainEditorReadsLines(t *testing.T) {
	var out bytes.Buffer
	editor := newPlainEditor(strings.NewReader("reset\nstep 3 y\n"), &out)
	defer editor.Close()

	for _, want := range []string{"reset", "step 3 y"} {
		got, err := editor.GetLine(replPrompt)
		if err != nil {
			t.Fatalf("GetLine: %v", err)
		}
		if got != want {
			t.Errorf("GetLine() = %q, want %q", got, want)
		}
	}

	if _, err := editor.GetLine(replPrompt); err != io.EOF {
		t.Errorf("expected io.EOF at end of input, got %v", err)
	}

	if got := strings.Count(out.String(), replPrompt); got != 3 {
		t.Errorf("prompt printed %d times, want 3", got)
	}
}

func TestLineEditorCloseTwice(t *testing.T) {
	editor := newPlainEditor(strings.NewReader(""), io.Discard)
	editor.Close()
	editor.Close()
}
