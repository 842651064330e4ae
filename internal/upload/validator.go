package upload

import (
	"errors"
	"fmt"
	"strings"

	"animeid/internal/services"
)

var (
	// ErrNoCandidate marks an empty selection. Callers treat it as a no-op.
	ErrNoCandidate = errors.New("no candidate selected")
	// ErrTooLarge marks a candidate above the configured size ceiling.
	ErrTooLarge = errors.New("size limit exceeded")
	// ErrNotImage marks a candidate whose MIME type is not image/*.
	ErrNotImage = errors.New("not an image")
)

// Rejection is returned by Validate. Message is suitable for display; the
// error also matches services.ErrValidation and the specific reason.
type Rejection struct {
	Reason  error
	Message string
}

func (r *Rejection) Error() string {
	return r.Message
}

func (r *Rejection) Unwrap() []error {
	return []error{services.ErrValidation, r.Reason}
}

// Validator enforces size and type constraints on candidates.
type Validator struct {
	MaxBytes int64
}

// Validate checks, in order: presence, size, and MIME type.
func (v Validator) Validate(c *Candidate) error {
	if c == nil {
		return ErrNoCandidate
	}
	if v.MaxBytes > 0 && c.Size > v.MaxBytes {
		return &Rejection{
			Reason:  ErrTooLarge,
			Message: fmt.Sprintf("File size exceeds %s limit", FormatLimit(v.MaxBytes)),
		}
	}
	if !strings.HasPrefix(c.MediaType(), "image/") {
		return &Rejection{
			Reason:  ErrNotImage,
			Message: fmt.Sprintf("%s is not an image (detected %s)", displayName(c), c.MediaType()),
		}
	}
	return nil
}

// FormatLimit renders a byte ceiling the way it is configured: whole MiB as
// "25MB", anything else in bytes.
func FormatLimit(limit int64) string {
	const mib = 1024 * 1024
	if limit > 0 && limit%mib == 0 {
		return fmt.Sprintf("%dMB", limit/mib)
	}
	return fmt.Sprintf("%d bytes", limit)
}

func displayName(c *Candidate) string {
	if name := strings.TrimSpace(c.Name); name != "" {
		return name
	}
	return "file"
}
