package newsletter

import "strings"

// SegmentMessage splits a rendered message into delivery-sized parts. Whole
// sections (divider line plus the lines that follow it) are packed greedily
// under maxLength; a part that still overflows is re-split by paragraph. A
// single paragraph longer than maxLength is emitted whole rather than being
// cut mid-sentence; that over-length part is the documented limitation, not a
// truncation.
func SegmentMessage(message string, maxLength int) []string {
	if maxLength <= 0 {
		return nil
	}

	sections := splitSections(message)
	packed := packGreedy(sections, maxLength)

	segments := make([]string, 0, len(packed))
	for _, segment := range packed {
		if len(segment) <= maxLength {
			segments = append(segments, segment)
			continue
		}
		segments = append(segments, packGreedy(strings.Split(segment, "\n\n"), maxLength)...)
	}

	return segments
}

// splitSections groups lines into sections, attaching each divider line to
// the start of the section that follows it.
func splitSections(message string) []string {
	sections := make([]string, 0)
	current := make([]string, 0)

	for _, line := range strings.Split(message, "\n") {
		if isDivider(line) {
			if len(current) > 0 {
				sections = append(sections, strings.Join(current, "\n"))
				current = current[:0]
			}
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		sections = append(sections, strings.Join(current, "\n"))
	}

	return sections
}

// packGreedy joins consecutive units while the running length stays within
// maxLength, closing the segment as soon as the next unit would overflow.
func packGreedy(units []string, maxLength int) []string {
	segments := make([]string, 0)
	var current strings.Builder

	flush := func() {
		if trimmed := strings.TrimSpace(current.String()); trimmed != "" {
			segments = append(segments, trimmed)
		}
		current.Reset()
	}

	for _, unit := range units {
		if strings.TrimSpace(unit) == "" {
			continue
		}
		if current.Len() > 0 && current.Len()+len(unit)+2 > maxLength {
			flush()
		}
		current.WriteString(unit)
		current.WriteString("\n\n")
	}
	flush()

	return segments
}

// isDivider reports whether the line is a section boundary: the "=" rule the
// part headers use, or the heavy underline the header formatter draws.
func isDivider(line string) bool {
	const (
		ruleMarker      = "==="
		underlineMarker = "━━━"
	)
	return strings.Contains(line, ruleMarker) || strings.Contains(line, underlineMarker)
}
