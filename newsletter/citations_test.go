package newsletter

import (
	"fmt"
	"testing"

	"newsbrief/retrieval"
	"newsbrief/vectorstore"
)

func testResults(n int) []retrieval.Result {
	results := make([]retrieval.Result, n)
	for i := range results {
		results[i] = retrieval.Result{
			ChunkID: fmt.Sprintf("vid%d_0", i+1),
			Metadata: vectorstore.Metadata{
				VideoID:    fmt.Sprintf("vid%d", i+1),
				VideoTitle: fmt.Sprintf("Video %d", i+1),
			},
		}
	}
	return results
}

func renderTag(ordinal int, result retrieval.Result) string {
	return fmt.Sprintf("<%d:%s>", ordinal, result.Metadata.VideoID)
}

func repeatTag(ordinal int) string {
	return fmt.Sprintf("(%d)", ordinal)
}

func TestResolveCitationsFirstAndRepeat(t *testing.T) {
	text := "[1] said X. Later [1] confirmed. See [2] and [9]."

	got := ResolveCitations(text, testResults(2), renderTag, repeatTag)

	want := "<1:vid1> said X. Later (1) confirmed. See <2:vid2> and [9]."
	if got != want {
		t.Errorf("ResolveCitations = %q, want %q", got, want)
	}
}

func TestResolveCitationsMalformedTokens(t *testing.T) {
	cases := []struct{ in, want string }{
		{"[abc] stays", "[abc] stays"},
		{"[] stays", "[] stays"},
		{"[0] stays", "[0] stays"},
		{"trailing [1", "trailing [1"},
		{"[1] works", "<1:vid1> works"},
	}
	for _, tc := range cases {
		if got := ResolveCitations(tc.in, testResults(2), renderTag, repeatTag); got != tc.want {
			t.Errorf("ResolveCitations(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestResolveCitationsMultiDigit(t *testing.T) {
	got := ResolveCitations("see [12]", testResults(15), renderTag, repeatTag)
	want := "see <12:vid12>"
	if got != want {
		t.Errorf("ResolveCitations = %q, want %q", got, want)
	}
}

func TestResolveCitationsStateIsPerCall(t *testing.T) {
	results := testResults(1)
	first := ResolveCitations("[1]", results, renderTag, repeatTag)
	second := ResolveCitations("[1]", results, renderTag, repeatTag)
	if first != second {
		t.Errorf("rendered-ordinal state leaked between calls: %q vs %q", first, second)
	}
	if first != "<1:vid1>" {
		t.Errorf("first occurrence = %q, want full render", first)
	}
}

func TestResolveCitationsNoResults(t *testing.T) {
	got := ResolveCitations("[1] stays put", nil, renderTag, repeatTag)
	if got != "[1] stays put" {
		t.Errorf("ResolveCitations = %q, all ordinals are out of range with no results", got)
	}
}
