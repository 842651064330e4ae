package upload

import "errors"

// Stage holds at most one candidate and its preview. It is not safe for
// concurrent use; the search controller serializes access.
type Stage struct {
	previews  Previews
	candidate *Candidate
	preview   Preview
}

// NewStage returns an empty Stage. A nil previews disables preview handles.
func NewStage(previews Previews) *Stage {
	return &Stage{previews: previews}
}

// Replace stages c, releasing the preview of the prior candidate.
func (s *Stage) Replace(c *Candidate) error {
	if c == nil {
		return ErrNoCandidate
	}
	var next Preview
	if s.previews != nil {
		created, err := s.previews.Create(c)
		if err != nil {
			return err
		}
		next = created
	}
	releaseErr := s.Clear()
	s.candidate = c
	s.preview = next
	return releaseErr
}

// Clear drops the staged candidate and releases its preview.
func (s *Stage) Clear() error {
	var err error
	if s.preview != nil {
		err = s.preview.Release()
	}
	s.candidate = nil
	s.preview = nil
	return err
}

// Candidate returns the staged candidate or nil.
func (s *Stage) Candidate() *Candidate {
	return s.candidate
}

// Preview returns the staged preview or nil.
func (s *Stage) Preview() Preview {
	return s.preview
}

// IsRejection reports whether err is a validation rejection.
func IsRejection(err error) bool {
	var rejection *Rejection
	return errors.As(err, &rejection)
}
