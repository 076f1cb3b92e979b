package newsletter

import (
	"context"
	"fmt"
	"html/template"
	"log"
	"strings"
	"time"

	"newsbrief/llm"
	"newsbrief/retrieval"
)

// Service runs retrieval aggregation and article generation end to end.
type Service struct {
	aggregator *retrieval.Aggregator
	llm        llm.Client
	retry      llm.RetryPolicy
	logger     *log.Logger
	now        func() time.Time
}

// Digest is one generated article together with the ranked chunks its
// citation ordinals index into.
type Digest struct {
	Article  string
	Results  []retrieval.Result
	Keywords []string
	Language string
}

func NewService(aggregator *retrieval.Aggregator, llmClient llm.Client, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		aggregator: aggregator,
		llm:        llmClient,
		retry:      llm.DefaultRetryPolicy(),
		logger:     logger,
		now:        time.Now,
	}
}

// Generate aggregates the keywords, builds the article prompt, and calls the
// model through the bounded-backoff wrapper. No keyword hits anywhere yields
// a Digest with empty Results and no article; that is the caller's "no
// results" signal, not an error.
func (s *Service) Generate(ctx context.Context, keywords []string, language string, perKeyword int) (Digest, error) {
	cleaned := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		if trimmed := strings.TrimSpace(keyword); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	if len(cleaned) == 0 {
		return Digest{}, fmt.Errorf("at least one keyword is required")
	}
	if strings.TrimSpace(language) == "" {
		language = "English"
	}
	if s.llm == nil {
		return Digest{}, fmt.Errorf("llm client is not configured")
	}

	results, err := s.aggregator.Aggregate(ctx, cleaned, perKeyword)
	if err != nil {
		return Digest{}, fmt.Errorf("aggregate keywords: %w", err)
	}
	if len(results) == 0 {
		return Digest{Keywords: cleaned, Language: language}, nil
	}

	s.logger.Printf("generating article in %s from %d chunks", language, len(results))

	prompt := BuildArticlePrompt(results, language, cleaned)
	messages := []llm.Message{{Role: llm.RoleUser, Content: prompt}}

	article, err := llm.GenerateWithRetry(ctx, s.llm, messages, s.retry, s.logger)
	if err != nil {
		return Digest{}, fmt.Errorf("generate article: %w", err)
	}

	return Digest{
		Article:  strings.TrimSpace(article),
		Results:  results,
		Keywords: cleaned,
		Language: language,
	}, nil
}

// HTML renders the digest as a complete newsletter document.
func (s *Service) HTML(digest Digest) (string, error) {
	body := RenderHTMLArticle(digest.Article, digest.Results)
	return RenderNewsletter(Page{
		Title:       "AI News Digest: " + strings.Join(digest.Keywords, ", "),
		Date:        s.now().Format("2006-01-02"),
		Keywords:    digest.Keywords,
		TotalVideos: digest.UniqueVideos(),
		TotalChunks: len(digest.Results),
		Body:        template.HTML(body),
	})
}

// WhatsApp renders the digest as WhatsApp-formatted text.
func (s *Service) WhatsApp(digest Digest) string {
	return FormatWhatsApp(digest.Article, digest.Results)
}

// UniqueVideos counts the distinct videos behind the digest's chunks.
func (d Digest) UniqueVideos() int {
	seen := make(map[string]struct{}, len(d.Results))
	for _, result := range d.Results {
		seen[result.Metadata.VideoID] = struct{}{}
	}
	return len(seen)
}
