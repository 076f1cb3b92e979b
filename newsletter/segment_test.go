package newsletter

import (
	"strings"
	"testing"
)

// section builds a divider-led section: a 10-char "=" divider line, a bold
// title line, and a body of bodyLen filler characters.
func section(title string, bodyLen int) string {
	return strings.Repeat("=", 10) + "\n*" + title + "*\n" + strings.Repeat("x", bodyLen)
}

func TestSegmentMessageShortMessageIsOnePart(t *testing.T) {
	message := "# Hello\n\nA short update."
	segments := SegmentMessage(message, 1500)
	if len(segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segments))
	}
	if !strings.Contains(segments[0], "A short update.") {
		t.Errorf("segment lost content: %q", segments[0])
	}
}

func TestSegmentMessageGreedyPacking(t *testing.T) {
	// Three ~720-char sections under a 1500 cap: the first two fit together,
	// the third opens a new segment.
	message := strings.Join([]string{
		section("One", 700),
		section("Two", 700),
		section("Three", 700),
	}, "\n")

	segments := SegmentMessage(message, 1500)

	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d (lengths %v)", len(segments), segmentLengths(segments))
	}
	if !strings.Contains(segments[0], "*One*") || !strings.Contains(segments[0], "*Two*") {
		t.Errorf("first segment should hold sections One and Two")
	}
	if !strings.Contains(segments[1], "*Three*") {
		t.Errorf("second segment should hold section Three")
	}
	for i, segment := range segments {
		if len(segment) > 1500 {
			t.Errorf("segment %d length %d exceeds the cap", i, len(segment))
		}
	}
}

func TestSegmentMessageEachSectionAlone(t *testing.T) {
	// Three ~820-char sections: no two fit under 1500 together, so each one
	// becomes its own segment even though pairs of bodies would fit a looser
	// packing.
	message := strings.Join([]string{
		section("One", 800),
		section("Two", 800),
		section("Three", 800),
	}, "\n")

	segments := SegmentMessage(message, 1500)

	if len(segments) != 3 {
		t.Fatalf("expected 3 segments, got %d (lengths %v)", len(segments), segmentLengths(segments))
	}
}

func TestSegmentMessageOversizedSectionSplitsByParagraph(t *testing.T) {
	long := strings.Repeat("a", 900) + "\n\n" + strings.Repeat("b", 900)
	segments := SegmentMessage(long, 1500)

	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d (lengths %v)", len(segments), segmentLengths(segments))
	}
	if !strings.HasPrefix(segments[0], "a") || !strings.HasPrefix(segments[1], "b") {
		t.Errorf("paragraph split out of order: %v", segmentLengths(segments))
	}
}

func TestSegmentMessageOversizedParagraphEmittedWhole(t *testing.T) {
	long := strings.Repeat("a", 2000)
	segments := SegmentMessage(long, 1500)

	if len(segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segments))
	}
	if len(segments[0]) != 2000 {
		t.Errorf("oversized paragraph was cut: length %d, want 2000", len(segments[0]))
	}
}

func TestSegmentMessagePreservesContentAndOrder(t *testing.T) {
	message := strings.Join([]string{
		section("Alpha", 600),
		section("Beta", 600),
		section("Gamma", 600),
	}, "\n")

	segments := SegmentMessage(message, 1500)

	joined := strings.Join(segments, "\n")
	for _, title := range []string{"*Alpha*", "*Beta*", "*Gamma*"} {
		if !strings.Contains(joined, title) {
			t.Errorf("section %s missing from output", title)
		}
	}
	if strings.Index(joined, "*Alpha*") > strings.Index(joined, "*Beta*") ||
		strings.Index(joined, "*Beta*") > strings.Index(joined, "*Gamma*") {
		t.Errorf("sections reordered")
	}
	for i, segment := range segments {
		if strings.TrimSpace(segment) == "" {
			t.Errorf("segment %d is empty", i)
		}
	}
}

func TestSegmentMessageInvalidMaxLength(t *testing.T) {
	if segments := SegmentMessage("anything", 0); segments != nil {
		t.Errorf("expected nil for non-positive maxLength, got %v", segments)
	}
}

func TestIsDivider(t *testing.T) {
	cases := []struct {
		line string
		want bool
	}{
		{strings.Repeat("=", 25), true},
		{strings.Repeat("━", 30), true},
		{"midline === rule", true},
		{"== too short", false},
		{"plain text", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := isDivider(tc.line); got != tc.want {
			t.Errorf("isDivider(%q) = %v, want %v", tc.line, got, tc.want)
		}
	}
}

func segmentLengths(segments []string) []int {
	lengths := make([]int, len(segments))
	for i, s := range segments {
		lengths[i] = len(s)
	}
	return lengths
}
