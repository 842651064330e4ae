package search

import (
	"fmt"

	"animeid/internal/timecode"
	"animeid/internal/titles"
	"animeid/internal/tracemoe"
)

const (
	movieLabel         = "Movie/Special"
	watchEpisodeAction = "Watch Full Episode"
	watchMovieAction   = "Watch Full Movie"
	unknownTime        = "unknown"
)

// Record is one match prepared for display.
type Record struct {
	Rank           int     `json:"rank"`
	Title          string  `json:"title"`
	Filename       string  `json:"filename"`
	Episode        string  `json:"episode"`
	TimeHeader     string  `json:"time_header"`
	TimeRange      string  `json:"time_range"`
	Similarity     float64 `json:"similarity"`
	SimilarityText string  `json:"similarity_text"`
	VideoURL       string  `json:"video_url,omitempty"`
	ImageURL       string  `json:"image_url,omitempty"`
	SearchURL      string  `json:"search_url,omitempty"`
	Action         string  `json:"action"`
}

// Present turns an outcome into display records in rank order. Matches are
// assumed already ranked.
func Present(outcome *tracemoe.Outcome, linker Linker) []Record {
	if outcome.Empty() {
		return nil
	}
	records := make([]Record, 0, len(outcome.Matches))
	for i, match := range outcome.Matches {
		records = append(records, presentMatch(i+1, match, linker))
	}
	return records
}

func presentMatch(rank int, match tracemoe.Match, linker Linker) Record {
	episodeNull := match.Episode.IsNull()
	title := titles.DisplayTitle(match.Filename)

	timeRange, err := timecode.Range(match.From, match.To, episodeNull)
	if err != nil {
		timeRange = unknownTime
	}

	record := Record{
		Rank:           rank,
		Title:          title,
		Filename:       match.Filename,
		Episode:        episodeLabel(match.Episode),
		TimeHeader:     timecode.Header(episodeNull),
		TimeRange:      timeRange,
		Similarity:     match.Similarity,
		SimilarityText: fmt.Sprintf("%.1f%%", match.Similarity*100),
		VideoURL:       match.Video,
		ImageURL:       match.Image,
		SearchURL:      linker.Link(title),
		Action:         watchMovieAction,
	}
	if hasEpisode(match.Episode) {
		record.Action = watchEpisodeAction
	}
	return record
}

// An episode of 0 is shown the same as a missing one.
func hasEpisode(e tracemoe.Episode) bool {
	return e.Known && (e.Number != 0 || e.Label != "")
}

func episodeLabel(e tracemoe.Episode) string {
	if !hasEpisode(e) {
		return movieLabel
	}
	return e.String()
}
