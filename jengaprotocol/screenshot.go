package jengaprotocol

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ArtifactResolver locates the screenshot the host produced after an action.
type ArtifactResolver interface {
	Resolve() (string, error)
}

// ScreenshotResolver finds the single image file in a directory the host
// writes to. It never deletes, renames or moves files; clearing old
// screenshots is the host's job.
type ScreenshotResolver struct {
	// Dir is the screenshot directory. Relative paths are resolved against
	// the working directory at the time Resolve is called.
	Dir string

	// Extensions lists the file extensions treated as images, compared
	// case-insensitively. Defaults to ".png".
	Extensions []string
}

// NewScreenshotResolver creates a resolver for PNG files in dir.
// An empty dir selects DefaultScreenshotDir.
func NewScreenshotResolver(dir string) *ScreenshotResolver {
	if dir == "" {
		dir = DefaultScreenshotDir
	}
	return &ScreenshotResolver{Dir: dir, Extensions: []string{".png"}}
}

// Resolve returns the absolute path of the only image in the directory.
// It fails with an *ArtifactStateError when the directory cannot be read or
// does not contain exactly one image.
func (r *ScreenshotResolver) Resolve() (string, error) {
	dir, err := filepath.Abs(r.Dir)
	if err != nil {
		return "", &ArtifactStateError{Dir: r.Dir, Cause: err}
	}

	images, err := r.List()
	if err != nil {
		return "", &ArtifactStateError{Dir: dir, Cause: err}
	}
	if len(images) != 1 {
		return "", &ArtifactStateError{Dir: dir, Found: images}
	}

	return filepath.Join(dir, images[0]), nil
}

// List returns the names of the image files in the directory, sorted.
func (r *ScreenshotResolver) List() ([]string, error) {
	entries, err := os.ReadDir(r.Dir)
	if err != nil {
		return nil, err
	}

	var images []string
	for _, entry := range entries {
		if entry.IsDir() || !r.isImage(entry.Name()) {
			continue
		}
		images = append(images, entry.Name())
	}
	sort.Strings(images)
	return images, nil
}

func (r *ScreenshotResolver) isImage(name string) bool {
	exts := r.Extensions
	if len(exts) == 0 {
		exts = []string{".png"}
	}
	ext := filepath.Ext(name)
	for _, e := range exts {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}
