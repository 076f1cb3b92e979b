package youtube

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	watchURL       = "https://www.youtube.com/watch?v="
	transcriptUA   = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	captionsMarker = `"captionTracks":`
)

// TranscriptClient fetches caption tracks by scraping the watch page. There is
// no official API for transcripts, so this mirrors what the player itself does:
// read the embedded captionTracks list and fetch the track's timedtext URL.
type TranscriptClient struct {
	httpClient *http.Client
}

func NewTranscriptClient() *TranscriptClient {
	return &TranscriptClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type captionTrack struct {
	BaseURL string `json:"baseUrl"`
	Name    struct {
		SimpleText string `json:"simpleText"`
	} `json:"name"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"`
}

type timedText struct {
	Texts []struct {
		Start float64 `xml:"start,attr"`
		Dur   float64 `xml:"dur,attr"`
		Body  string  `xml:",chardata"`
	} `xml:"text"`
}

// Fetch returns the snippets and track metadata for a video, preferring a
// manually created track over an auto-generated one. A video without captions
// returns (nil, nil, nil): unavailability is an expected state.
func (c *TranscriptClient) Fetch(ctx context.Context, videoID string) ([]Snippet, *TranscriptInfo, error) {
	page, err := c.get(ctx, watchURL+videoID)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch watch page: %w", err)
	}

	tracks, err := extractCaptionTracks(page)
	if err != nil {
		return nil, nil, fmt.Errorf("parse caption tracks for %s: %w", videoID, err)
	}
	if len(tracks) == 0 {
		return nil, nil, nil
	}

	track := pickTrack(tracks)
	body, err := c.get(ctx, track.BaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch timedtext: %w", err)
	}

	var doc timedText
	if err := xml.Unmarshal([]byte(body), &doc); err != nil {
		return nil, nil, fmt.Errorf("decode timedtext for %s: %w", videoID, err)
	}

	snippets := make([]Snippet, 0, len(doc.Texts))
	for _, t := range doc.Texts {
		text := strings.TrimSpace(html.UnescapeString(t.Body))
		if text == "" {
			continue
		}
		snippets = append(snippets, Snippet{
			Text:      text,
			StartTime: t.Start,
			Duration:  t.Dur,
		})
	}

	info := &TranscriptInfo{
		Language:     track.Name.SimpleText,
		LanguageCode: track.LanguageCode,
		IsGenerated:  track.Kind == "asr",
	}
	return snippets, info, nil
}

func (c *TranscriptClient) get(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", transcriptUA)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// extractCaptionTracks pulls the captionTracks JSON array out of the watch
// page. The array is located by marker and closed with a small bracket walker
// so string values containing brackets do not trip it up.
func extractCaptionTracks(page string) ([]captionTrack, error) {
	idx := strings.Index(page, captionsMarker)
	if idx < 0 {
		return nil, nil
	}

	raw := page[idx+len(captionsMarker):]
	end, err := jsonArrayEnd(raw)
	if err != nil {
		return nil, err
	}

	var tracks []captionTrack
	if err := json.Unmarshal([]byte(raw[:end]), &tracks); err != nil {
		return nil, fmt.Errorf("decode captionTracks: %w", err)
	}
	return tracks, nil
}

// jsonArrayEnd returns the index one past the closing bracket of the JSON
// array starting at s[0].
func jsonArrayEnd(s string) (int, error) {
	if len(s) == 0 || s[0] != '[' {
		return 0, fmt.Errorf("caption list does not start with an array")
	}

	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '[', '{':
			depth++
		case ']', '}':
			depth--
			if depth == 0 {
				return i + 1, nil
			}
		}
	}
	return 0, fmt.Errorf("unterminated caption list")
}

// pickTrack prefers the first manually created track and falls back to the
// first track of any kind.
func pickTrack(tracks []captionTrack) captionTrack {
	for _, track := range tracks {
		if track.Kind != "asr" {
			return track
		}
	}
	return tracks[0]
}
