package chunking

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"newsbrief/youtube"
)

// ChunkRecord is the indexable unit: one chunk plus video provenance and
// transcript language metadata. Records are written once at ingestion time
// and only replaced by a full re-ingestion. The downstream identity key is
// (video_id, chunk_start_time).
type ChunkRecord struct {
	Channel            string  `json:"channel"`
	VideoTitle         string  `json:"video_title"`
	VideoURL           string  `json:"video_url"`
	VideoID            string  `json:"video_id"`
	PublishedAt        string  `json:"published_at"`
	ChunkStartTime     float64 `json:"chunk_start_time"`
	ChunkEndTime       float64 `json:"chunk_end_time"`
	ChunkDuration      float64 `json:"chunk_duration"`
	Text               string  `json:"text"`
	TextLanguage       string  `json:"text_language"`
	TextLanguageCode   string  `json:"text_language_code"`
	IsAutoGenerated    bool    `json:"is_auto_generated"`
	SnippetCount       int     `json:"snippet_count"`
	VideoPublishedDate string  `json:"video_published_date"`
}

// ID returns the composite identity key used for deduplication across
// keyword queries.
func (r ChunkRecord) ID() string {
	return ChunkID(r.VideoID, r.ChunkStartTime)
}

// DocumentID returns the wider key the index stores documents under.
func (r ChunkRecord) DocumentID() string {
	return fmt.Sprintf("%s_%g_%g", r.VideoID, r.ChunkStartTime, r.ChunkEndTime)
}

// ChunkID renders the (video_id, chunk_start_time) identity. %g keeps
// integral seconds free of a decimal point, matching the persisted artifacts.
func ChunkID(videoID string, startTime float64) string {
	return fmt.Sprintf("%s_%g", videoID, startTime)
}

// BuildRecords maps chunks onto persistable records. Missing transcript
// metadata defaults to zero values instead of failing; the chunk duration is
// recomputed rather than trusted from input.
func BuildRecords(chunks []Chunk, video youtube.Video, channel string, info *youtube.TranscriptInfo) []ChunkRecord {
	records := make([]ChunkRecord, 0, len(chunks))
	for _, chunk := range chunks {
		record := ChunkRecord{
			Channel:            channel,
			VideoTitle:         video.Title,
			VideoURL:           video.URL,
			VideoID:            video.VideoID,
			PublishedAt:        video.PublishedAt,
			ChunkStartTime:     chunk.StartTime,
			ChunkEndTime:       chunk.EndTime,
			ChunkDuration:      chunk.EndTime - chunk.StartTime,
			Text:               chunk.Text,
			SnippetCount:       len(chunk.Snippets),
			VideoPublishedDate: publishedDate(video.PublishedAt),
		}
		if info != nil {
			record.TextLanguage = info.Language
			record.TextLanguageCode = info.LanguageCode
			record.IsAutoGenerated = info.IsGenerated
		}
		records = append(records, record)
	}
	return records
}

// publishedDate truncates an ISO-8601 timestamp at the date/time separator.
// Values without a separator pass through unchanged.
func publishedDate(publishedAt string) string {
	if idx := strings.IndexByte(publishedAt, 'T'); idx >= 0 {
		return publishedAt[:idx]
	}
	return publishedAt
}

// WriteJSONL writes one compact JSON object per line, the format the index
// loader expects.
func WriteJSONL(w io.Writer, records []ChunkRecord) error {
	enc := json.NewEncoder(w)
	for i, record := range records {
		if err := enc.Encode(record); err != nil {
			return fmt.Errorf("encode chunk record %d: %w", i, err)
		}
	}
	return nil
}

// ReadJSONL loads chunk records from a JSONL stream, skipping blank lines.
func ReadJSONL(r io.Reader) ([]ChunkRecord, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	records := make([]ChunkRecord, 0)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var record ChunkRecord
		if err := json.Unmarshal([]byte(text), &record); err != nil {
			return nil, fmt.Errorf("decode chunk record at line %d: %w", line, err)
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read chunk records: %w", err)
	}
	return records, nil
}

// WriteJSONLFile writes records to path via WriteJSONL.
func WriteJSONLFile(path string, records []ChunkRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chunk file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := WriteJSONL(w, records); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush chunk file: %w", err)
	}
	return nil
}

// ReadJSONLFile loads records from path via ReadJSONL.
func ReadJSONLFile(path string) ([]ChunkRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open chunk file: %w", err)
	}
	defer f.Close()
	return ReadJSONL(f)
}
