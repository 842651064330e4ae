package tracemoe

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Episode is the episode number reported for a match. Known is false when
// upstream sent null or omitted the field, which marks a movie or special.
// Label carries non-numeric values such as "OVA" or ranges like "1|2".
type Episode struct {
	Number int
	Label  string
	Known  bool
}

// UnmarshalJSON accepts null, numbers, strings, and arrays of numbers or
// strings.
func (e *Episode) UnmarshalJSON(data []byte) error {
	*e = Episode{}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		e.Known = true
		if n, err := strconv.Atoi(s); err == nil {
			e.Number = n
			return nil
		}
		e.Label = s
		return nil
	case '[':
		var values []any
		if err := json.Unmarshal(trimmed, &values); err != nil {
			return fmt.Errorf("decode episode list: %w", err)
		}
		parts := make([]string, 0, len(values))
		for _, v := range values {
			switch value := v.(type) {
			case float64:
				parts = append(parts, strconv.FormatFloat(value, 'f', -1, 64))
			case string:
				if value = strings.TrimSpace(value); value != "" {
					parts = append(parts, value)
				}
			default:
				return fmt.Errorf("decode episode list: unsupported element %v", v)
			}
		}
		if len(parts) == 0 {
			return nil
		}
		e.Known = true
		e.Label = strings.Join(parts, "|")
		if n, err := strconv.ParseFloat(parts[0], 64); err == nil {
			e.Number = int(n)
		}
		return nil
	default:
		var n float64
		if err := json.Unmarshal(trimmed, &n); err != nil {
			return fmt.Errorf("decode episode: %w", err)
		}
		e.Known = true
		e.Number = int(n)
		return nil
	}
}

// MarshalJSON writes null for unknown episodes, the label when present, and
// the number otherwise.
func (e Episode) MarshalJSON() ([]byte, error) {
	switch {
	case !e.Known:
		return []byte("null"), nil
	case e.Label != "":
		return json.Marshal(e.Label)
	default:
		return json.Marshal(e.Number)
	}
}

// IsNull reports whether the match is a movie or special without an episode.
func (e Episode) IsNull() bool {
	return !e.Known
}

// String renders the episode for display; empty when unknown.
func (e Episode) String() string {
	switch {
	case !e.Known:
		return ""
	case e.Label != "":
		return e.Label
	default:
		return strconv.Itoa(e.Number)
	}
}

// Match is one candidate returned by trace.moe. It is not modified after
// decoding; From <= To is not checked.
type Match struct {
	AniListID  int64   `json:"anilist,omitempty"`
	Filename   string  `json:"filename"`
	Episode    Episode `json:"episode"`
	From       float64 `json:"from"`
	To         float64 `json:"to"`
	At         float64 `json:"at,omitempty"`
	Duration   float64 `json:"duration,omitempty"`
	Similarity float64 `json:"similarity"`
	Video      string  `json:"video,omitempty"`
	Image      string  `json:"image,omitempty"`
}

// Outcome is the ranked result of one search. Matches are ordered by
// descending similarity; ties keep upstream order.
type Outcome struct {
	Matches    []Match `json:"result"`
	FrameCount int64   `json:"frameCount,omitempty"`
}

// Empty reports whether the search found nothing.
func (o *Outcome) Empty() bool {
	return o == nil || len(o.Matches) == 0
}

// Best returns the highest ranked match.
func (o *Outcome) Best() (Match, bool) {
	if o.Empty() {
		return Match{}, false
	}
	return o.Matches[0], true
}

type searchResponse struct {
	FrameCount int64             `json:"frameCount"`
	Error      string            `json:"error"`
	Message    string            `json:"message"`
	Result     []json.RawMessage `json:"result"`
}

type wireMatch struct {
	AniList    json.RawMessage `json:"anilist"`
	Filename   string          `json:"filename"`
	Episode    Episode         `json:"episode"`
	From       float64         `json:"from"`
	To         float64         `json:"to"`
	At         float64         `json:"at"`
	Duration   float64         `json:"duration"`
	Similarity float64         `json:"similarity"`
	Video      string          `json:"video"`
	Image      string          `json:"image"`
}

// aniListID accepts the bare id or the expanded object returned when
// anilistInfo is requested.
func (w wireMatch) aniListID() int64 {
	trimmed := bytes.TrimSpace(w.AniList)
	if len(trimmed) == 0 {
		return 0
	}
	var id int64
	if err := json.Unmarshal(trimmed, &id); err == nil {
		return id
	}
	var info struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(trimmed, &info); err == nil {
		return info.ID
	}
	return 0
}

func (w wireMatch) toMatch() Match {
	return Match{
		AniListID:  w.aniListID(),
		Filename:   w.Filename,
		Episode:    w.Episode,
		From:       w.From,
		To:         w.To,
		At:         w.At,
		Duration:   w.Duration,
		Similarity: w.Similarity,
		Video:      w.Video,
		Image:      w.Image,
	}
}
