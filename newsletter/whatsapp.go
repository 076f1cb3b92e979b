package newsletter

import (
	"fmt"
	"strings"

	"newsbrief/retrieval"
)

// FormatWhatsApp renders the article as WhatsApp text. The first occurrence
// of each citation becomes a titled block with a timestamped watch URL,
// repeats collapse to a bare " [n]". Markdown headers become bold lines.
func FormatWhatsApp(article string, results []retrieval.Result) string {
	resolved := ResolveCitations(article, results, whatsAppVideoBlock, func(ordinal int) string {
		return fmt.Sprintf(" [%d]", ordinal)
	})
	formatted := boldHeaders(resolved)
	formatted = collapseNewlines(formatted)
	return strings.TrimSpace(formatted)
}

func whatsAppVideoBlock(_ int, result retrieval.Result) string {
	meta := result.Metadata
	title := meta.VideoTitle
	if title == "" {
		title = "Video"
	}
	channel := meta.Channel
	if channel == "" {
		channel = "Unknown"
	}

	return fmt.Sprintf("\n\n\U0001F3AC *%s*\n_%s_ • %ds-%ds\n%s\n",
		title, channel, int(meta.ChunkStartTime), int(meta.ChunkEndTime), TimestampedURL(meta.VideoURL, meta.VideoID, meta.ChunkStartTime))
}

// TimestampedURL appends the chunk's start offset to the watch URL, falling
// back to a canonical URL when the record carries none.
func TimestampedURL(videoURL, videoID string, startTime float64) string {
	if videoURL != "" && strings.Contains(videoURL, "?") {
		return fmt.Sprintf("%s&t=%ds", videoURL, int(startTime))
	}
	return fmt.Sprintf("https://www.youtube.com/watch?v=%s&t=%ds", videoID, int(startTime))
}

// boldHeaders rewrites markdown headers line by line: a top-level header gets
// a heavy underline so the segmenter later treats it as a section boundary,
// subheadings become plain bold lines.
func boldHeaders(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "## "):
			out = append(out, "", "", "*"+strings.TrimPrefix(line, "## ")+"*", "")
		case strings.HasPrefix(line, "# "):
			out = append(out, "", "*"+strings.TrimPrefix(line, "# ")+"*", strings.Repeat("━", 30), "")
		default:
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

// collapseNewlines caps runs of blank lines so the formatted message never
// contains more than two in a row.
func collapseNewlines(text string) string {
	var out strings.Builder
	out.Grow(len(text))
	run := 0
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			run++
			if run <= 3 {
				out.WriteByte('\n')
			}
			continue
		}
		run = 0
		out.WriteByte(text[i])
	}
	return out.String()
}
