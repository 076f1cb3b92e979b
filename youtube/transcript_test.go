package youtube

import (
	"os"
	"strings"
	"testing"
)

func TestJSONArrayEnd(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{`[]`, 2},
		{`[1,2,3] trailing`, 7},
		{`[{"a":"b"}]`, 11},
		{`[{"url":"x[1]y"}]`, 17},
		{`[{"q":"say \"]\" now"}]`, 23},
		{`[[1],[2]] rest`, 9},
	}
	for _, tc := range cases {
		got, err := jsonArrayEnd(tc.in)
		if err != nil {
			t.Errorf("jsonArrayEnd(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("jsonArrayEnd(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestJSONArrayEndErrors(t *testing.T) {
	if _, err := jsonArrayEnd(`{"a":1}`); err == nil {
		t.Errorf("expected an error for a non-array start")
	}
	if _, err := jsonArrayEnd(`[1,2`); err == nil {
		t.Errorf("expected an error for an unterminated array")
	}
}

func TestExtractCaptionTracks(t *testing.T) {
	page := `... "captions":{...},"captionTracks":[{"baseUrl":"https://example.com/tt?v=1\u0026lang=en","name":{"simpleText":"English"},"languageCode":"en","kind":"asr"}],"audioTracks": ...`

	tracks, err := extractCaptionTracks(page)
	if err != nil {
		t.Fatalf("extractCaptionTracks: %v", err)
	}
	if len(tracks) != 1 {
		t.Fatalf("expected 1 track, got %d", len(tracks))
	}
	track := tracks[0]
	if track.BaseURL != "https://example.com/tt?v=1&lang=en" {
		t.Errorf("BaseURL = %q, escaped ampersand should decode", track.BaseURL)
	}
	if track.LanguageCode != "en" || track.Kind != "asr" {
		t.Errorf("track = %+v", track)
	}
	if track.Name.SimpleText != "English" {
		t.Errorf("Name = %q", track.Name.SimpleText)
	}
}

func TestExtractCaptionTracksNoCaptions(t *testing.T) {
	tracks, err := extractCaptionTracks("<html>no captions here</html>")
	if err != nil {
		t.Fatalf("extractCaptionTracks: %v", err)
	}
	if tracks != nil {
		t.Errorf("expected nil tracks for a page without captions, got %v", tracks)
	}
}

func TestPickTrackPrefersManual(t *testing.T) {
	tracks := []captionTrack{
		{LanguageCode: "en", Kind: "asr"},
		{LanguageCode: "en", Kind: ""},
		{LanguageCode: "de", Kind: ""},
	}
	if got := pickTrack(tracks); got.LanguageCode != "en" || got.Kind != "" {
		t.Errorf("pickTrack = %+v, want the first manual track", got)
	}
}

func TestPickTrackFallsBackToGenerated(t *testing.T) {
	tracks := []captionTrack{
		{LanguageCode: "en", Kind: "asr"},
		{LanguageCode: "de", Kind: "asr"},
	}
	if got := pickTrack(tracks); got.LanguageCode != "en" {
		t.Errorf("pickTrack = %+v, want the first track when all are generated", got)
	}
}

func TestSnippetEnd(t *testing.T) {
	s := Snippet{StartTime: 12.5, Duration: 4.5}
	if got := s.End(); got != 17 {
		t.Errorf("End = %g, want 17", got)
	}
}

func TestSaveAndLoadRecords(t *testing.T) {
	path := t.TempDir() + "/records.json"
	records := []VideoRecord{
		{
			Channel:    "NewsChannel",
			VideoID:    "abc",
			VideoTitle: "Clip",
			Transcript: []Snippet{{Text: "hello", StartTime: 0, Duration: 2}},
			TranscriptMetadata: &TranscriptInfo{
				Language: "English", LanguageCode: "en", IsGenerated: true,
			},
		},
		{Channel: "NewsChannel", VideoID: "def", VideoTitle: "No captions"},
	}

	if err := SaveRecords(records, path); err != nil {
		t.Fatalf("SaveRecords: %v", err)
	}

	loaded, err := LoadRecords(path)
	if err != nil {
		t.Fatalf("LoadRecords: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 records, got %d", len(loaded))
	}
	if loaded[0].Transcript == nil || loaded[0].Transcript[0].Text != "hello" {
		t.Errorf("transcript lost in round trip: %+v", loaded[0])
	}
	if loaded[1].Transcript != nil {
		t.Errorf("missing transcript should stay nil, got %v", loaded[1].Transcript)
	}
}

func TestSaveRecordsIndented(t *testing.T) {
	path := t.TempDir() + "/records.json"
	if err := SaveRecords([]VideoRecord{{VideoID: "abc"}}, path); err != nil {
		t.Fatalf("SaveRecords: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read records file: %v", err)
	}
	if !strings.Contains(string(data), "\n    {") {
		t.Errorf("records should use four-space indentation:\n%s", data)
	}
}
