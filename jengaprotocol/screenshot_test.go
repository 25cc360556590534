package jengaprotocol

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
}

func TestScreenshotResolverSingleImage(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "Screenshot_01-01-2025-10-00-00.png", "notes.txt", "Screenshot.png.meta")
	if err := os.Mkdir(filepath.Join(dir, "sub.png"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	got, err := NewScreenshotResolver(dir).Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := filepath.Join(dir, "Screenshot_01-01-2025-10-00-00.png")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestScreenshotResolverUppercaseExtension(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "SHOT.PNG")

	if _, err := NewScreenshotResolver(dir).Resolve(); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
}

func TestScreenshotResolverErrors(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		found int
	}{
		{"empty", nil, 0},
		{"only other files", []string{"readme.txt"}, 0},
		{"two images", []string{"a.png", "b.png"}, 2},
		{"three images", []string{"a.png", "b.png", "c.png"}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFiles(t, dir, tt.files...)

			_, err := NewScreenshotResolver(dir).Resolve()
			var artErr *ArtifactStateError
			if !errors.As(err, &artErr) {
				t.Fatalf("expected *ArtifactStateError, got %v", err)
			}
			if len(artErr.Found) != tt.found {
				t.Errorf("Found = %v, want %d entries", artErr.Found, tt.found)
			}
		})
	}
}

func TestScreenshotResolverMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")

	_, err := NewScreenshotResolver(dir).Resolve()
	var artErr *ArtifactStateError
	if !errors.As(err, &artErr) {
		t.Fatalf("expected *ArtifactStateError, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected wrapped os.ErrNotExist, got %v", err)
	}
}

func TestScreenshotResolverDoesNotTouchFiles(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.png", "b.png")

	NewScreenshotResolver(dir).Resolve()

	images, err := NewScreenshotResolver(dir).List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(images) != 2 {
		t.Errorf("resolver changed the directory: %v", images)
	}
}

func TestScreenshotResolverCustomExtensions(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.png", "b.jpg")

	r := &ScreenshotResolver{Dir: dir, Extensions: []string{".jpg"}}
	got, err := r.Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if filepath.Base(got) != "b.jpg" {
		t.Errorf("got %q, want b.jpg", got)
	}
}

func TestNewScreenshotResolverDefaultDir(t *testing.T) {
	if got := NewScreenshotResolver("").Dir; got != DefaultScreenshotDir {
		t.Errorf("Dir = %q, want %q", got, DefaultScreenshotDir)
	}
}
