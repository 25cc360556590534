package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ergochat/readline"
	"golang.org/x/term"
)

// historySize is the maximum number of history entries kept on disk.
const historySize = 500

// LineEditor reads REPL input. On a terminal it uses readline with
// persistent history and Ctrl-R search; otherwise it reads plain lines
// from stdin and prints the prompt itself so piped sessions stay readable.
type LineEditor struct {
	interactive bool
	rl          *readline.Instance
	scanner     *bufio.Scanner
	out         io.Writer
}

// NewLineEditor creates a LineEditor, picking the mode from stdin.
// Sessions under Emacs or a dumb terminal are treated as non-interactive.
func NewLineEditor(historyPath string) *LineEditor {
	isInteractive := term.IsTerminal(int(os.Stdin.Fd())) &&
		os.Getenv("INSIDE_EMACS") == "" &&
		os.Getenv("TERM") != "dumb"

	if !isInteractive {
		return newPlainEditor(os.Stdin, os.Stdout)
	}

	rl, err := readline.NewFromConfig(&readline.Config{
		HistoryFile:            historyPath,
		HistoryLimit:           historySize,
		DisableAutoSaveHistory: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: readline init failed (%v), using basic input\n", err)
		return newPlainEditor(os.Stdin, os.Stdout)
	}

	return &LineEditor{interactive: true, rl: rl, out: os.Stdout}
}

func newPlainEditor(in io.Reader, out io.Writer) *LineEditor {
	return &LineEditor{scanner: bufio.NewScanner(in), out: out}
}

// GetLine reads one line, returning io.EOF at end of input or on Ctrl-C.
func (le *LineEditor) GetLine(prompt string) (string, error) {
	if le.interactive {
		return le.getInteractiveLine(prompt)
	}
	return le.getPlainLine(prompt)
}

func (le *LineEditor) getInteractiveLine(prompt string) (string, error) {
	le.rl.SetPrompt(prompt)

	line, err := le.rl.Readline()
	if err != nil {
		if err == readline.ErrInterrupt {
			return "", io.EOF
		}
		return "", err
	}

	if trimmed := strings.TrimSpace(line); trimmed != "" {
		le.rl.SaveToHistory(trimmed)
	}
	return line, nil
}

func (le *LineEditor) getPlainLine(prompt string) (string, error) {
	fmt.Fprint(le.out, prompt)

	if !le.scanner.Scan() {
		if err := le.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return le.scanner.Text(), nil
}

// Close saves history and releases the terminal. Safe to call twice.
func (le *LineEditor) Close() {
	if le.rl != nil {
		le.rl.Close()
		le.rl = nil
	}
}

// IsInteractive reports whether readline editing is active.
func (le *LineEditor) IsInteractive() bool {
	return le.interactive
}
