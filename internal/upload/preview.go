package upload

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/gabriel-vasile/mimetype"
)

// Preview is a displayable handle to a staged candidate. Release must be
// called once the preview is superseded; it is safe to call more than once.
type Preview interface {
	Path() string
	Release() error
}

// Previews creates preview handles for candidates.
type Previews interface {
	Create(c *Candidate) (Preview, error)
}

// TempPreviews writes each candidate to a temporary file under Dir (the
// system temp directory when empty). Release removes the file.
type TempPreviews struct {
	Dir string
}

// Create implements Previews.
func (p TempPreviews) Create(c *Candidate) (Preview, error) {
	if c == nil {
		return nil, ErrNoCandidate
	}
	ext := ""
	if detected := mimetype.Lookup(c.MediaType()); detected != nil {
		ext = detected.Extension()
	}
	file, err := os.CreateTemp(p.Dir, "animeid-preview-*"+ext)
	if err != nil {
		return nil, fmt.Errorf("create preview: %w", err)
	}
	if _, err := file.Write(c.Data); err != nil {
		file.Close()
		os.Remove(file.Name())
		return nil, fmt.Errorf("write preview: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(file.Name())
		return nil, fmt.Errorf("close preview: %w", err)
	}
	return &tempPreview{path: file.Name()}, nil
}

type tempPreview struct {
	path string
	once sync.Once
	err  error
}

func (p *tempPreview) Path() string { return p.path }

func (p *tempPreview) Release() error {
	p.once.Do(func() {
		if err := os.Remove(p.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			p.err = fmt.Errorf("release preview: %w", err)
		}
	})
	return p.err
}
