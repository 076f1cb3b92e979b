// Package chunking turns timestamped transcript snippets into fixed-duration
// windows and enriches them into the records the index stores.
package chunking

import (
	"sort"
	"strings"

	"newsbrief/youtube"
)

// Chunk is one fixed-duration window of transcript text. EndTime is always
// StartTime plus the window width, even when the last snippet ends earlier.
type Chunk struct {
	Text      string
	StartTime float64
	EndTime   float64
	Snippets  []youtube.Snippet
}

// ChunkByWindow partitions [0, T_max] into consecutive windows of
// windowSeconds starting at zero and assigns each snippet to every window its
// interval overlaps. Windows that no snippet touches are omitted, so the
// result can be shorter than ceil(T_max/windowSeconds). Input order is not
// trusted; snippets are sorted by start time first.
func ChunkByWindow(snippets []youtube.Snippet, windowSeconds float64) []Chunk {
	if len(snippets) == 0 || windowSeconds <= 0 {
		return nil
	}

	ordered := make([]youtube.Snippet, len(snippets))
	copy(ordered, snippets)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].StartTime < ordered[j].StartTime
	})

	var tMax float64
	for _, s := range ordered {
		if end := s.End(); end > tMax {
			tMax = end
		}
	}

	windows := int(tMax / windowSeconds)
	if float64(windows)*windowSeconds < tMax {
		windows++
	}
	if windows == 0 {
		// All snippets collapse to t=0; a single window still covers them.
		windows = 1
	}

	chunks := make([]Chunk, 0, windows)
	for i := 0; i < windows; i++ {
		winStart := float64(i) * windowSeconds
		winEnd := winStart + windowSeconds

		var members []youtube.Snippet
		for _, s := range ordered {
			if snippetInWindow(s, winStart, winEnd) {
				members = append(members, s)
			}
		}
		if len(members) == 0 {
			continue
		}

		texts := make([]string, len(members))
		for i, s := range members {
			texts[i] = s.Text
		}

		chunks = append(chunks, Chunk{
			Text:      strings.Join(texts, " "),
			StartTime: winStart,
			EndTime:   winEnd,
			Snippets:  members,
		})
	}

	return chunks
}

// snippetInWindow applies the half-open overlap rule: the snippet's
// [start, end) must intersect the window's [start, end) with strict
// inequalities on both sides. Zero-duration snippets collapse to a point and
// belong to the window whose [start, end) contains their start time.
func snippetInWindow(s youtube.Snippet, winStart, winEnd float64) bool {
	if s.Duration == 0 {
		return s.StartTime >= winStart && s.StartTime < winEnd
	}
	return s.StartTime < winEnd && s.End() > winStart
}
