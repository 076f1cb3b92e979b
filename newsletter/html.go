package newsletter

import (
	"fmt"
	"html/template"
	"strings"

	"newsbrief/retrieval"
)

// Page carries the newsletter shell metadata around the rendered article.
type Page struct {
	Title       string
	Date        string
	Keywords    []string
	TotalVideos int
	TotalChunks int
	Body        template.HTML
}

// RenderHTMLArticle resolves citations into embedded video cards, then
// converts the markdown-style article body to HTML.
func RenderHTMLArticle(article string, results []retrieval.Result) string {
	resolved := ResolveCitations(article, results, videoCardHTML, func(ordinal int) string {
		return fmt.Sprintf(`<sup class="citation-link">[%d]</sup>`, ordinal)
	})
	return markdownToHTML(resolved)
}

// videoCardHTML renders the first occurrence of a citation as a lazy-loading
// video embed card.
func videoCardHTML(ordinal int, result retrieval.Result) string {
	meta := result.Metadata
	date := meta.VideoPublishedDate
	if date == "" {
		date = meta.PublishedAt
	}

	thumbnail := fmt.Sprintf("https://img.youtube.com/vi/%s/maxresdefault.jpg", meta.VideoID)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<div class="video-clip" data-citation="%d" data-video-id="%s" data-start-time="%d">`,
		ordinal, template.HTMLEscapeString(meta.VideoID), int(meta.ChunkStartTime)))
	sb.WriteString(`<div class="video-container">`)
	sb.WriteString(fmt.Sprintf(`<div class="video-thumbnail" style="background-image: url('%s');">`, thumbnail))
	sb.WriteString(`<div class="play-button" onclick="loadVideo(this)">&#9654;</div>`)
	sb.WriteString(fmt.Sprintf(`<div class="video-time-badge">%ds - %ds</div>`, int(meta.ChunkStartTime), int(meta.ChunkEndTime)))
	sb.WriteString(`</div></div>`)
	sb.WriteString(`<div class="video-info">`)
	sb.WriteString(fmt.Sprintf(`<h4 class="video-title">%s</h4>`, template.HTMLEscapeString(meta.VideoTitle)))
	sb.WriteString(fmt.Sprintf(`<p class="video-meta"><span class="channel">%s</span> &bull; <span class="date">%s</span></p>`,
		template.HTMLEscapeString(meta.Channel), template.HTMLEscapeString(date)))
	sb.WriteString(`</div></div>`)
	return sb.String()
}

// markdownToHTML converts the article's markdown-flavored subset in a single
// line pass: leading # and ## become headers, blank lines close paragraphs,
// and lines that already start with a tag pass through untouched.
func markdownToHTML(article string) string {
	var out []string
	var paragraph []string

	flush := func() {
		if len(paragraph) == 0 {
			return
		}
		text := strings.Join(paragraph, " ")
		paragraph = paragraph[:0]
		if strings.HasPrefix(text, "<") {
			out = append(out, text)
			return
		}
		out = append(out, "<p>"+text+"</p>")
	}

	for _, line := range strings.Split(article, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
			flush()
		case strings.HasPrefix(line, "## "):
			flush()
			out = append(out, "<h2>"+strings.TrimPrefix(line, "## ")+"</h2>")
		case strings.HasPrefix(line, "# "):
			flush()
			out = append(out, "<h1>"+strings.TrimPrefix(line, "# ")+"</h1>")
		case strings.HasPrefix(line, "<"):
			flush()
			out = append(out, line)
		default:
			paragraph = append(paragraph, line)
		}
	}
	flush()

	return strings.Join(out, "\n")
}

// RenderNewsletter wraps the article body in the full HTML document.
func RenderNewsletter(page Page) (string, error) {
	var sb strings.Builder
	if err := newsletterTemplate.Execute(&sb, page); err != nil {
		return "", fmt.Errorf("render newsletter: %w", err)
	}
	return sb.String(), nil
}

var newsletterTemplate = template.Must(template.New("newsletter").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            font-family: 'Inter', -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            line-height: 1.7;
            color: #1a1a1a;
            background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
            padding: 20px;
            min-height: 100vh;
        }
        .container {
            max-width: 900px;
            margin: 0 auto;
            background-color: #ffffff;
            border-radius: 20px;
            overflow: hidden;
            box-shadow: 0 20px 60px rgba(0,0,0,0.3);
        }
        .header {
            background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
            color: white;
            padding: 60px 40px;
            text-align: center;
        }
        .header h1 { font-size: 2.5em; font-weight: 800; margin-bottom: 15px; }
        .header .meta { font-size: 1em; opacity: 0.95; font-weight: 300; }
        .tags { display: flex; flex-wrap: wrap; gap: 10px; justify-content: center; margin-top: 25px; }
        .tag {
            background-color: rgba(255,255,255,0.25);
            padding: 8px 18px;
            border-radius: 20px;
            font-size: 0.9em;
            font-weight: 500;
            border: 1px solid rgba(255,255,255,0.3);
        }
        .stats { display: flex; justify-content: center; gap: 30px; margin-top: 25px; flex-wrap: wrap; }
        .stat {
            background-color: rgba(255,255,255,0.2);
            padding: 12px 24px;
            border-radius: 12px;
            font-weight: 600;
            border: 1px solid rgba(255,255,255,0.3);
        }
        .content { padding: 60px 50px; }
        .content h1 { font-size: 2.8em; font-weight: 800; margin: 40px 0 25px 0; line-height: 1.2; }
        .content h2 {
            color: #2d3748;
            font-size: 2em;
            font-weight: 700;
            margin: 50px 0 20px 0;
            padding-bottom: 15px;
            border-bottom: 3px solid #667eea;
        }
        .content p { margin-bottom: 24px; font-size: 1.1em; line-height: 1.8; color: #4a5568; }
        .citation-link { color: #667eea; font-weight: 600; text-decoration: none; margin: 0 2px; }
        .video-clip {
            margin: 40px 0;
            border-radius: 16px;
            overflow: hidden;
            box-shadow: 0 10px 30px rgba(0,0,0,0.1);
            border: 1px solid #e2e8f0;
        }
        .video-container { position: relative; cursor: pointer; }
        .video-thumbnail {
            position: relative;
            padding-bottom: 56.25%;
            background-color: #000;
            background-size: cover;
            background-position: center;
        }
        .video-container iframe { position: absolute; top: 0; left: 0; width: 100%; height: 100%; }
        .play-button {
            position: absolute;
            top: 50%;
            left: 50%;
            transform: translate(-50%, -50%);
            font-size: 48px;
            color: #f00;
            cursor: pointer;
            z-index: 10;
        }
        .video-time-badge {
            position: absolute;
            bottom: 12px;
            right: 12px;
            background: rgba(0,0,0,0.85);
            color: white;
            padding: 6px 12px;
            border-radius: 6px;
            font-size: 0.85em;
            font-weight: 600;
        }
        .video-info { padding: 20px 24px; background: white; }
        .video-title { font-size: 1.15em; font-weight: 600; color: #1a202c; margin-bottom: 8px; }
        .video-meta { font-size: 0.9em; color: #718096; }
        .channel { font-weight: 500; color: #667eea; }
        .footer {
            background: linear-gradient(135deg, #2d3748 0%, #1a202c 100%);
            color: white;
            padding: 50px 40px;
            text-align: center;
        }
        .footer p { margin: 10px 0; font-size: 0.95em; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>{{.Title}}</h1>
            <div class="meta">Generated on {{.Date}}</div>
            <div class="tags">
                {{range .Keywords}}<span class="tag">{{.}}</span>{{end}}
            </div>
            <div class="stats">
                <div class="stat">{{.TotalVideos}} Videos</div>
                <div class="stat">{{.TotalChunks}} Clips</div>
            </div>
        </div>
        <div class="content">
            {{.Body}}
        </div>
        <div class="footer">
            <p><strong>newsbrief</strong></p>
            <p>Generated from news channel transcripts.</p>
        </div>
    </div>
    <script>
        function loadVideo(playButton) {
            const videoClip = playButton.closest('.video-clip');
            const videoContainer = videoClip.querySelector('.video-container');
            const videoId = videoClip.getAttribute('data-video-id');
            const startTime = videoClip.getAttribute('data-start-time');

            const iframe = document.createElement('iframe');
            iframe.setAttribute('src', 'https://www.youtube.com/embed/' + videoId + '?start=' + startTime + '&autoplay=1');
            iframe.setAttribute('title', 'YouTube video player');
            iframe.setAttribute('frameborder', '0');
            iframe.setAttribute('allow', 'autoplay; encrypted-media; picture-in-picture');
            iframe.setAttribute('allowfullscreen', '');

            videoContainer.innerHTML = '';
            videoContainer.style.position = 'relative';
            videoContainer.style.paddingBottom = '56.25%';
            videoContainer.style.height = '0';
            videoContainer.appendChild(iframe);
        }
    </script>
</body>
</html>
`))
