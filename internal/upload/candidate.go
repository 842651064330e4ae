package upload

import (
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Candidate is an image staged for search but not yet submitted.
type Candidate struct {
	Name     string
	MIMEType string
	Size     int64
	Data     []byte
}

// NewCandidate builds a Candidate from in-memory bytes. An empty mimeType is
// sniffed from the content.
func NewCandidate(name string, data []byte, mimeType string) *Candidate {
	mimeType = strings.TrimSpace(mimeType)
	if mimeType == "" {
		mimeType = mimetype.Detect(data).String()
	}
	return &Candidate{
		Name:     name,
		MIMEType: mimeType,
		Size:     int64(len(data)),
		Data:     data,
	}
}

// MediaType returns the MIME type without parameters, lowercased.
func (c *Candidate) MediaType() string {
	if c == nil {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(c.MIMEType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(c.MIMEType))
	}
	return mediaType
}

// Open reads the file at path into a Candidate. Files larger than limit are
// not read: the returned Candidate carries only the name and size so the
// validator can reject it. A limit of zero or less disables the check.
func Open(path string, limit int64) (*Candidate, error) {
	if path == "-" {
		return Read("stdin", os.Stdin, limit)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat image: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("open image: %s is a directory", path)
	}
	name := filepath.Base(path)
	if limit > 0 && info.Size() > limit {
		return &Candidate{Name: name, Size: info.Size()}, nil
	}
	return Read(name, file, limit)
}

// Read consumes r into a Candidate, reading at most limit+1 bytes so an
// oversized stream is detected without buffering all of it.
func Read(name string, r io.Reader, limit int64) (*Candidate, error) {
	reader := r
	if limit > 0 {
		reader = io.LimitReader(r, limit+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if limit > 0 && int64(len(data)) > limit {
		return &Candidate{Name: name, Size: int64(len(data))}, nil
	}
	return NewCandidate(name, data, ""), nil
}
