// Package youtube talks to the video catalog and transcript endpoints and
// persists the raw per-video records used by the chunking stage.
package youtube

import (
	"encoding/json"
	"fmt"
	"os"
)

// Video identifies one catalog entry from a channel's uploads playlist.
type Video struct {
	VideoID     string `json:"video_id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	PublishedAt string `json:"published_at"`
	ChannelName string `json:"channel_name"`
}

// Snippet is one timestamped caption unit. Times are seconds.
type Snippet struct {
	Text      string  `json:"text"`
	StartTime float64 `json:"start_time"`
	Duration  float64 `json:"duration"`
}

// End returns the snippet's exclusive end time.
func (s Snippet) End() float64 {
	return s.StartTime + s.Duration
}

// TranscriptInfo describes the transcript track a video's snippets came from.
type TranscriptInfo struct {
	Language     string `json:"language"`
	LanguageCode string `json:"language_code"`
	IsGenerated  bool   `json:"is_generated"`
}

// VideoRecord is the persisted raw unit: catalog metadata plus the fetched
// transcript. Transcript and TranscriptMetadata are nil when the video has no
// usable captions; that is an expected state, not an error.
type VideoRecord struct {
	Channel            string          `json:"channel"`
	VideoTitle         string          `json:"video_title"`
	VideoURL           string          `json:"video_url"`
	VideoID            string          `json:"video_id"`
	PublishedAt        string          `json:"published_at"`
	Transcript         []Snippet       `json:"transcript"`
	TranscriptMetadata *TranscriptInfo `json:"transcript_metadata"`
}

// SaveRecords writes the full record set as an indented JSON array. The
// four-space indent matches the existing artifact format byte for byte.
func SaveRecords(records []VideoRecord, path string) error {
	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return fmt.Errorf("encode video records: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write video records: %w", err)
	}
	return nil
}

// LoadRecords reads a record array previously written by SaveRecords.
func LoadRecords(path string) ([]VideoRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read video records: %w", err)
	}
	var records []VideoRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode video records: %w", err)
	}
	return records, nil
}
