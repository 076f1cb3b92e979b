package llm

import (
	"context"
	"fmt"
	"testing"
	"time"
)

// scriptedClient returns one scripted response per call, in order.
type scriptedClient struct {
	answers []string
	errs    []error
	calls   int
}

func (s *scriptedClient) Generate(_ context.Context, _ []Message) (string, error) {
	i := s.calls
	s.calls++
	var answer string
	var err error
	if i < len(s.answers) {
		answer = s.answers[i]
	}
	if i < len(s.errs) {
		err = s.errs[i]
	}
	return answer, err
}

var _ Client = (*scriptedClient)(nil)

func fastPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond}
}

func TestGenerateWithRetrySucceedsFirstTry(t *testing.T) {
	client := &scriptedClient{answers: []string{"article"}}

	got, err := GenerateWithRetry(context.Background(), client, nil, fastPolicy(), nil)
	if err != nil {
		t.Fatalf("GenerateWithRetry: %v", err)
	}
	if got != "article" {
		t.Errorf("answer = %q", got)
	}
	if client.calls != 1 {
		t.Errorf("calls = %d, want 1", client.calls)
	}
}

func TestGenerateWithRetryRecoversFromRateLimit(t *testing.T) {
	client := &scriptedClient{
		answers: []string{"", "", "article"},
		errs:    []error{fmt.Errorf("429 rate limit exceeded"), fmt.Errorf("quota exhausted"), nil},
	}

	got, err := GenerateWithRetry(context.Background(), client, nil, fastPolicy(), nil)
	if err != nil {
		t.Fatalf("GenerateWithRetry: %v", err)
	}
	if got != "article" {
		t.Errorf("answer = %q", got)
	}
	if client.calls != 3 {
		t.Errorf("calls = %d, want 3", client.calls)
	}
}

func TestGenerateWithRetryExhaustsAttempts(t *testing.T) {
	client := &scriptedClient{
		errs: []error{
			fmt.Errorf("rate limit"),
			fmt.Errorf("rate limit"),
			fmt.Errorf("rate limit"),
		},
	}

	_, err := GenerateWithRetry(context.Background(), client, nil, fastPolicy(), nil)
	if err == nil {
		t.Fatalf("expected an error after exhausting attempts")
	}
	if client.calls != 3 {
		t.Errorf("calls = %d, want 3", client.calls)
	}
}

func TestGenerateWithRetryEmptyOutputIsAnError(t *testing.T) {
	client := &scriptedClient{answers: []string{"   \n  "}}

	_, err := GenerateWithRetry(context.Background(), client, nil, fastPolicy(), nil)
	if err == nil {
		t.Fatalf("expected an error for blank model output")
	}
	// A blank generation is terminal, not retried.
	if client.calls != 1 {
		t.Errorf("calls = %d, want 1", client.calls)
	}
}

func TestGenerateWithRetryHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := &scriptedClient{errs: []error{fmt.Errorf("rate limit")}}

	_, err := GenerateWithRetry(ctx, client, nil, RetryPolicy{MaxAttempts: 3, BaseDelay: time.Minute}, nil)
	if err == nil {
		t.Fatalf("expected the context error")
	}
	if client.calls != 1 {
		t.Errorf("calls = %d, want 1 (no retry after cancellation)", client.calls)
	}
}

func TestIsRateLimited(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{fmt.Errorf("Rate Limit exceeded"), true},
		{fmt.Errorf("insufficient quota"), true},
		{fmt.Errorf("status 429"), true},
		{fmt.Errorf("connection refused"), false},
	}
	for _, tc := range cases {
		if got := isRateLimited(tc.err); got != tc.want {
			t.Errorf("isRateLimited(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}
