package chunking

import (
	"testing"

	"newsbrief/youtube"
)

func TestChunkByWindowStraddlingSnippet(t *testing.T) {
	snippets := []youtube.Snippet{
		{Text: "straddles", StartTime: 45, Duration: 20},
	}

	chunks := ChunkByWindow(snippets, 30)

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0].StartTime != 30 || chunks[0].EndTime != 60 {
		t.Errorf("first chunk window = [%g, %g), want [30, 60)", chunks[0].StartTime, chunks[0].EndTime)
	}
	if chunks[1].StartTime != 60 || chunks[1].EndTime != 90 {
		t.Errorf("second chunk window = [%g, %g), want [60, 90)", chunks[1].StartTime, chunks[1].EndTime)
	}
	for i, chunk := range chunks {
		if chunk.Text != "straddles" {
			t.Errorf("chunk %d text = %q, want %q", i, chunk.Text, "straddles")
		}
	}
}

func TestChunkByWindowZeroDurationOnBoundary(t *testing.T) {
	snippets := []youtube.Snippet{
		{Text: "point", StartTime: 30, Duration: 0},
		{Text: "anchor", StartTime: 0, Duration: 70},
	}

	chunks := ChunkByWindow(snippets, 30)

	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	// A zero-duration snippet on a window boundary belongs to the window it
	// opens, never the one it closes.
	if chunks[0].Text != "anchor" {
		t.Errorf("first window text = %q, want %q", chunks[0].Text, "anchor")
	}
	if chunks[1].StartTime != 30 || chunks[1].Text != "anchor point" {
		t.Errorf("second window = [%g, %g) text %q, want [30, 60) %q",
			chunks[1].StartTime, chunks[1].EndTime, chunks[1].Text, "anchor point")
	}
	if chunks[2].Text != "anchor" {
		t.Errorf("third window text = %q, want %q", chunks[2].Text, "anchor")
	}
}

func TestChunkByWindowEmptyInput(t *testing.T) {
	if chunks := ChunkByWindow(nil, 30); chunks != nil {
		t.Errorf("expected nil for empty input, got %d chunks", len(chunks))
	}
	if chunks := ChunkByWindow([]youtube.Snippet{{Text: "x", StartTime: 1, Duration: 1}}, 0); chunks != nil {
		t.Errorf("expected nil for non-positive window, got %d chunks", len(chunks))
	}
}

func TestChunkByWindowShorterThanWindow(t *testing.T) {
	snippets := []youtube.Snippet{
		{Text: "short", StartTime: 0, Duration: 5},
	}

	chunks := ChunkByWindow(snippets, 30)

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	// EndTime stays at the full window width even past the last snippet.
	if chunks[0].StartTime != 0 || chunks[0].EndTime != 30 {
		t.Errorf("chunk window = [%g, %g), want [0, 30)", chunks[0].StartTime, chunks[0].EndTime)
	}
}

func TestChunkByWindowSkipsEmptyWindows(t *testing.T) {
	snippets := []youtube.Snippet{
		{Text: "early", StartTime: 0, Duration: 10},
		{Text: "late", StartTime: 65, Duration: 5},
	}

	chunks := ChunkByWindow(snippets, 30)

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0].StartTime != 0 {
		t.Errorf("first chunk starts at %g, want 0", chunks[0].StartTime)
	}
	if chunks[1].StartTime != 60 {
		t.Errorf("second chunk starts at %g, want 60 (the [30, 60) window is empty)", chunks[1].StartTime)
	}
}

func TestChunkByWindowSortsInput(t *testing.T) {
	snippets := []youtube.Snippet{
		{Text: "second", StartTime: 10, Duration: 5},
		{Text: "first", StartTime: 2, Duration: 5},
	}

	chunks := ChunkByWindow(snippets, 30)

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Text != "first second" {
		t.Errorf("chunk text = %q, want %q", chunks[0].Text, "first second")
	}
	if len(chunks[0].Snippets) != 2 {
		t.Errorf("snippet count = %d, want 2", len(chunks[0].Snippets))
	}
}

func TestChunkByWindowContiguousWindows(t *testing.T) {
	snippets := []youtube.Snippet{
		{Text: "a", StartTime: 0, Duration: 30},
		{Text: "b", StartTime: 30, Duration: 30},
		{Text: "c", StartTime: 60, Duration: 30},
	}

	chunks := ChunkByWindow(snippets, 30)

	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		wantStart := float64(i) * 30
		if chunk.StartTime != wantStart || chunk.EndTime != wantStart+30 {
			t.Errorf("chunk %d window = [%g, %g), want [%g, %g)",
				i, chunk.StartTime, chunk.EndTime, wantStart, wantStart+30)
		}
		if chunk.Text != string(rune('a'+i)) {
			t.Errorf("chunk %d text = %q", i, chunk.Text)
		}
	}
}
