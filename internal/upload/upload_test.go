package upload_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"animeid/internal/services"
	"animeid/internal/upload"
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

func pngBytes(size int) []byte {
	data := make([]byte, size)
	copy(data, pngSignature)
	return data
}

func TestNewCandidateSniffsMIMEType(t *testing.T) {
	c := upload.NewCandidate("frame.png", pngBytes(64), "")
	if c.MediaType() != "image/png" {
		t.Fatalf("expected image/png, got %q", c.MediaType())
	}
	if c.Size != 64 {
		t.Fatalf("unexpected size %d", c.Size)
	}

	declared := upload.NewCandidate("frame", []byte("whatever"), "image/jpeg; q=1")
	if declared.MediaType() != "image/jpeg" {
		t.Fatalf("expected declared type to be kept, got %q", declared.MediaType())
	}
}

func TestValidatorOrder(t *testing.T) {
	v := upload.Validator{MaxBytes: 100}

	if err := v.Validate(nil); !errors.Is(err, upload.ErrNoCandidate) {
		t.Fatalf("expected ErrNoCandidate, got %v", err)
	}

	// Oversized and not an image: size is reported first.
	err := v.Validate(upload.NewCandidate("notes.txt", bytes.Repeat([]byte("a"), 101), ""))
	if !errors.Is(err, upload.ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation marker, got %v", err)
	}
	if !upload.IsRejection(err) {
		t.Fatal("expected rejection type")
	}

	err = v.Validate(upload.NewCandidate("notes.txt", []byte("hello"), ""))
	if !errors.Is(err, upload.ErrNotImage) {
		t.Fatalf("expected ErrNotImage, got %v", err)
	}
	if !strings.Contains(err.Error(), "notes.txt") {
		t.Fatalf("expected file name in message, got %q", err.Error())
	}

	if err := v.Validate(upload.NewCandidate("frame.png", pngBytes(100), "")); err != nil {
		t.Fatalf("expected valid candidate at the ceiling, got %v", err)
	}
}

func TestValidatorMessageUsesConfiguredLimit(t *testing.T) {
	v := upload.Validator{MaxBytes: 5 * 1024 * 1024}
	err := v.Validate(&upload.Candidate{Name: "big.png", MIMEType: "image/png", Size: 6 * 1024 * 1024})
	if err == nil || err.Error() != "File size exceeds 5MB limit" {
		t.Fatalf("unexpected rejection %v", err)
	}
	if got := upload.FormatLimit(1500); got != "1500 bytes" {
		t.Fatalf("unexpected limit format %q", got)
	}
}

func TestOpenSkipsReadingOversizedFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "big.png")
	if err := os.WriteFile(path, pngBytes(2048), 0o644); err != nil {
		t.Fatalf("write image: %v", err)
	}

	c, err := upload.Open(path, 1024)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if c.Size != 2048 || c.Data != nil {
		t.Fatalf("expected size-only candidate, got size=%d data=%d", c.Size, len(c.Data))
	}
	if err := (upload.Validator{MaxBytes: 1024}).Validate(c); !errors.Is(err, upload.ErrTooLarge) {
		t.Fatalf("expected oversized rejection, got %v", err)
	}

	c, err = upload.Open(path, 4096)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if c.Name != "big.png" || len(c.Data) != 2048 || c.MediaType() != "image/png" {
		t.Fatalf("unexpected candidate %+v", c)
	}
}

func TestOpenErrors(t *testing.T) {
	if _, err := upload.Open(filepath.Join(t.TempDir(), "missing.png"), 0); err == nil {
		t.Fatal("expected error for missing file")
	}
	if _, err := upload.Open(t.TempDir(), 0); err == nil {
		t.Fatal("expected error for directory")
	}
}

func TestReadBoundsStream(t *testing.T) {
	c, err := upload.Read("stdin", bytes.NewReader(pngBytes(300)), 200)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if c.Size != 201 || c.Data != nil {
		t.Fatalf("expected truncated size marker, got size=%d data=%d", c.Size, len(c.Data))
	}
}

func TestStageReleasesSupersededPreview(t *testing.T) {
	dir := t.TempDir()
	stage := upload.NewStage(upload.TempPreviews{Dir: dir})

	first := upload.NewCandidate("a.png", pngBytes(32), "")
	if err := stage.Replace(first); err != nil {
		t.Fatalf("Replace returned error: %v", err)
	}
	firstPath := stage.Preview().Path()
	if filepath.Ext(firstPath) != ".png" {
		t.Fatalf("expected png extension, got %q", firstPath)
	}
	content, err := os.ReadFile(firstPath)
	if err != nil {
		t.Fatalf("read preview: %v", err)
	}
	if !bytes.Equal(content, first.Data) {
		t.Fatal("preview content differs from candidate")
	}

	second := upload.NewCandidate("b.png", pngBytes(48), "")
	if err := stage.Replace(second); err != nil {
		t.Fatalf("Replace returned error: %v", err)
	}
	if _, err := os.Stat(firstPath); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected first preview removed, stat err=%v", err)
	}
	if stage.Candidate() != second {
		t.Fatal("expected second candidate staged")
	}

	secondPreview := stage.Preview()
	if err := stage.Clear(); err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}
	if _, err := os.Stat(secondPreview.Path()); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected second preview removed, stat err=%v", err)
	}
	if err := secondPreview.Release(); err != nil {
		t.Fatalf("second Release should be a no-op, got %v", err)
	}
	if stage.Candidate() != nil || stage.Preview() != nil {
		t.Fatal("expected empty stage after Clear")
	}
}

func TestStageWithoutPreviews(t *testing.T) {
	stage := upload.NewStage(nil)
	if err := stage.Replace(nil); !errors.Is(err, upload.ErrNoCandidate) {
		t.Fatalf("expected ErrNoCandidate, got %v", err)
	}
	if err := stage.Replace(upload.NewCandidate("a.png", pngBytes(8), "")); err != nil {
		t.Fatalf("Replace returned error: %v", err)
	}
	if stage.Preview() != nil {
		t.Fatal("expected no preview handle")
	}
}
