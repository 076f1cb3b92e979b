package newsletter

import (
	"strings"

	"newsbrief/retrieval"
)

// RenderFunc renders the first occurrence of a citation ordinal. The ordinal
// is 1-based and indexes the ranked result sequence the prompt was built from.
type RenderFunc func(ordinal int, result retrieval.Result) string

// RepeatFunc renders every later occurrence of an already-rendered ordinal.
type RepeatFunc func(ordinal int) string

// ResolveCitations walks the text once, replacing bracketed integer tokens
// like [3]. The first valid occurrence of each ordinal goes through render,
// repeats go through renderRepeat. Tokens outside 1..len(results) are copied
// through verbatim; malformed ordinals are expected input, not an error.
// Rendered-ordinal state lives and dies with this call.
func ResolveCitations(text string, results []retrieval.Result, render RenderFunc, renderRepeat RepeatFunc) string {
	var out strings.Builder
	out.Grow(len(text))

	rendered := make(map[int]bool)

	for i := 0; i < len(text); {
		ch := text[i]
		if ch != '[' {
			out.WriteByte(ch)
			i++
			continue
		}

		ordinal, width, ok := scanCitation(text[i:])
		if !ok || ordinal < 1 || ordinal > len(results) {
			out.WriteByte(ch)
			i++
			continue
		}

		if rendered[ordinal] {
			out.WriteString(renderRepeat(ordinal))
		} else {
			rendered[ordinal] = true
			out.WriteString(render(ordinal, results[ordinal-1]))
		}
		i += width
	}

	return out.String()
}

// scanCitation matches a leading "[digits]" token, returning the parsed
// number and the token width.
func scanCitation(s string) (ordinal, width int, ok bool) {
	// s[0] is known to be '['.
	i := 1
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		ordinal = ordinal*10 + int(s[i]-'0')
		i++
	}
	if i == 1 || i >= len(s) || s[i] != ']' {
		return 0, 0, false
	}
	return ordinal, i + 1, true
}
