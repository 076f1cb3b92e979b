// Package newsletter turns aggregated transcript chunks into a cited article
// and renders it for the HTML and WhatsApp targets.
package newsletter

import (
	"fmt"
	"strings"

	"newsbrief/retrieval"
)

// BuildArticlePrompt numbers each aggregated chunk and instructs the model to
// cite it by that 1-based ordinal. The ordinal-to-chunk mapping is an
// interface contract with the model: the resolver trusts the numbering, and
// malformed ordinals in the output are tolerated downstream.
func BuildArticlePrompt(results []retrieval.Result, targetLanguage string, keywords []string) string {
	var sources strings.Builder
	for i, result := range results {
		meta := result.Metadata
		date := meta.VideoPublishedDate
		if date == "" {
			date = meta.PublishedAt
		}
		sources.WriteString(fmt.Sprintf("[%d] Video: %q | Channel: %s | Date: %s\nTranscript: %s\n\n",
			i+1, meta.VideoTitle, meta.Channel, date, result.Text))
	}

	var sb strings.Builder
	sb.WriteString("You are a professional news article writer. Your task is to write a comprehensive article based on video transcript excerpts.\n\n")
	sb.WriteString("SEARCH KEYWORDS: " + strings.Join(keywords, ", ") + "\n")
	sb.WriteString("TARGET LANGUAGE: " + targetLanguage + "\n\n")
	sb.WriteString(fmt.Sprintf("SOURCE MATERIAL:\nBelow are %d video transcript excerpts. Each is numbered [1], [2], [3], etc.\n\n", len(results)))
	sb.WriteString(sources.String())
	sb.WriteString(`INSTRUCTIONS:
1. Write a comprehensive news article synthesizing this information
2. Structure with: headline, introduction, 2-4 sections with subheadings, conclusion
3. CRITICAL: Cite sources using [1], [2], [3] whenever you mention information from the transcripts
4. Write the ENTIRE article in ` + targetLanguage + `
5. Be objective and journalistic in tone
6. If transcripts conflict or present different perspectives, present multiple viewpoints
7. Use the citations frequently - every major point should be cited
8. Make the article engaging and well-structured

OUTPUT FORMAT:
# [Article Headline in ` + targetLanguage + `]

[Introduction paragraph with citations like [1], [2]]

## Section 1: [Subheading in ` + targetLanguage + `]
[Content with citations [3], [4], etc.]

## Section 2: [Subheading in ` + targetLanguage + `]
[Content with citations]

## Conclusion
[Summary paragraph]

Remember: Write EVERYTHING in ` + targetLanguage + ` and cite sources using [1], [2], [3] format.`)

	return sb.String()
}
