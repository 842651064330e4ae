package search_test

import (
	"errors"
	"fmt"
	"testing"

	"animeid/internal/config"
	"animeid/internal/search"
	"animeid/internal/services"
	"animeid/internal/tracemoe"
	"animeid/internal/upload"
)

func defaultLinker(t *testing.T) search.Linker {
	t.Helper()
	cfg := config.Default()
	linker, err := search.LinkerFromConfig(&cfg)
	if err != nil {
		t.Fatalf("LinkerFromConfig returned error: %v", err)
	}
	return linker
}

func TestPresent(t *testing.T) {
	outcome := &tracemoe.Outcome{Matches: []tracemoe.Match{
		{
			Filename:   "[Group] Some Show - 01 (1080p).mkv",
			Episode:    tracemoe.Episode{Known: true, Number: 1},
			From:       65.5,
			To:         67.25,
			Similarity: 0.9734,
			Video:      "https://media.trace.moe/video/1",
		},
		{
			Filename:   "Feature Film.mp4",
			From:       3725.4,
			To:         3726,
			Similarity: 0.91,
		},
		{
			Filename:   "12345",
			Episode:    tracemoe.Episode{Known: true, Number: 0},
			Similarity: 0.5,
		},
	}}

	records := search.Present(outcome, defaultLinker(t))
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	first := records[0]
	want := search.Record{
		Rank:           1,
		Title:          "Some Show mkv",
		Filename:       "[Group] Some Show - 01 (1080p).mkv",
		Episode:        "1",
		TimeHeader:     "Time (MM:SS:MS)",
		TimeRange:      "1:05.50 - 1:07.25",
		Similarity:     0.9734,
		SimilarityText: "97.3%",
		VideoURL:       "https://media.trace.moe/video/1",
		SearchURL:      "https://kaido.to/search?keyword=Some+Show+mkv",
		Action:         "Watch Full Episode",
	}
	if first != want {
		t.Fatalf("unexpected first record\n got %+v\nwant %+v", first, want)
	}

	movie := records[1]
	if movie.Episode != "Movie/Special" || movie.Action != "Watch Full Movie" {
		t.Fatalf("unexpected movie labels %+v", movie)
	}
	if movie.TimeHeader != "Time (HH:MM:SS:MS)" || movie.TimeRange != "1:02:05.40 - 1:02:06.00" {
		t.Fatalf("unexpected movie time %q %q", movie.TimeHeader, movie.TimeRange)
	}

	zero := records[2]
	if zero.Rank != 3 || zero.Episode != "Movie/Special" || zero.Action != "Watch Full Movie" {
		t.Fatalf("episode zero should read as a movie: %+v", zero)
	}
	if zero.Title != "12345" || zero.SearchURL != "https://kaido.to/search?keyword=12345" {
		t.Fatalf("expected filename fallback, got %+v", zero)
	}
}

func TestPresentInvalidOffset(t *testing.T) {
	records := search.Present(&tracemoe.Outcome{Matches: []tracemoe.Match{{Filename: "x.mkv", From: -1, To: 2}}}, search.Linker{})
	if records[0].TimeRange != "unknown" {
		t.Fatalf("unexpected range %q", records[0].TimeRange)
	}
	if records[0].SearchURL != "" {
		t.Fatalf("unconfigured linker should not build links, got %q", records[0].SearchURL)
	}
}

func TestPresentEmpty(t *testing.T) {
	if records := search.Present(&tracemoe.Outcome{}, search.Linker{}); records != nil {
		t.Fatalf("expected nil records, got %v", records)
	}
	if records := search.Present(nil, search.Linker{}); records != nil {
		t.Fatalf("expected nil records, got %v", records)
	}
}

func TestLinker(t *testing.T) {
	linker, err := search.NewLinker("https://example.org/find?lang=en", "q")
	if err != nil {
		t.Fatalf("NewLinker returned error: %v", err)
	}
	tests := map[string]string{
		"Some Show":  "https://example.org/find?lang=en&q=Some+Show",
		"A&B / C?":   "https://example.org/find?lang=en&q=A%26B+%2F+C%3F",
		"   ":        "",
		"Kimi no Na": "https://example.org/find?lang=en&q=Kimi+no+Na",
	}
	for title, want := range tests {
		if got := linker.Link(title); got != want {
			t.Fatalf("Link(%q) = %q, want %q", title, got, want)
		}
	}

	for _, bad := range [][2]string{{"ftp://example.org", "q"}, {"https://", "q"}, {"https://example.org", " "}} {
		if _, err := search.NewLinker(bad[0], bad[1]); !errors.Is(err, services.ErrConfiguration) {
			t.Fatalf("NewLinker(%q, %q) expected configuration error, got %v", bad[0], bad[1], err)
		}
	}
}

func TestUserMessage(t *testing.T) {
	validator := upload.Validator{MaxBytes: 25 * 1024 * 1024}
	rejection := validator.Validate(&upload.Candidate{Name: "big.png", MIMEType: "image/png", Size: 26 * 1024 * 1024})

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"rejection", rejection, "File size exceeds 25MB limit"},
		{"client ceiling", services.Wrap(services.ErrValidation, "tracemoe", "search", "", upload.ErrTooLarge), search.TooLargeMessage},
		{"transport", services.Wrap(services.ErrTransport, "tracemoe", "search", "", nil), search.NetworkMessage},
		{"upstream verbatim", fmt.Errorf("outer: %w", &tracemoe.UpstreamError{StatusCode: 400, Message: "Invalid image url"}), "Invalid image url"},
		{"upstream generic", &tracemoe.UpstreamError{StatusCode: 503}, search.GenericMessage},
		{"configuration", services.Wrap(services.ErrConfiguration, "tracemoe", "init", "", nil), search.ConfigMessage},
		{"unclassified", errors.New("boom"), search.GenericMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := search.UserMessage(tt.err); got != tt.want {
				t.Fatalf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
