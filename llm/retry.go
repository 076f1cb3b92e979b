package llm

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
)

const (
	defaultMaxAttempts = 3
	defaultBaseDelay   = 2 * time.Second
)

// RetryPolicy bounds the exponential backoff applied around the single
// article-generation call. Other collaborator calls are not retried.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: defaultMaxAttempts, BaseDelay: defaultBaseDelay}
}

// GenerateWithRetry calls the client, doubling the wait after each
// rate-limited attempt. Empty output from a successful call is reported as an
// error distinct from transport failures so the caller can tell a blocked
// generation from a broken connection.
func GenerateWithRetry(ctx context.Context, client Client, messages []Message, policy RetryPolicy, logger *log.Logger) (string, error) {
	if logger == nil {
		logger = log.Default()
	}
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = defaultMaxAttempts
	}
	if policy.BaseDelay <= 0 {
		policy.BaseDelay = defaultBaseDelay
	}

	var lastErr error
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		logger.Printf("calling LLM (attempt %d/%d)", attempt, policy.MaxAttempts)

		answer, err := client.Generate(ctx, messages)
		if err == nil {
			if strings.TrimSpace(answer) == "" {
				return "", fmt.Errorf("generation returned empty output, response may have been blocked")
			}
			return answer, nil
		}
		lastErr = err

		if attempt == policy.MaxAttempts {
			break
		}

		delay := policy.BaseDelay
		if isRateLimited(err) {
			delay = policy.BaseDelay << (attempt - 1)
			logger.Printf("rate limit hit, waiting %s before retry", delay)
		} else {
			logger.Printf("generation error: %v, retrying", err)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}
	}

	return "", fmt.Errorf("generation failed after %d attempts: %w", policy.MaxAttempts, lastErr)
}

func isRateLimited(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "rate limit") || strings.Contains(msg, "quota") || strings.Contains(msg, "429")
}
