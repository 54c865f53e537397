package embedding

import (
	"context"
	"errors"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// fakeProvider scripts a sequence of responses.
type fakeProvider struct {
	responses []fakeResponse
	calls     int
}

type fakeResponse struct {
	vec []float32
	err error
}

func (f *fakeProvider) CreateEmbedding(_ context.Context, _ string) ([]float32, error) {
	resp := f.responses[f.calls]
	f.calls++
	return resp.vec, resp.err
}

func serverError() error {
	return &openai.APIError{HTTPStatusCode: 503, Message: "service unavailable"}
}

func clientError() error {
	return &openai.APIError{HTTPStatusCode: 400, Message: "bad request"}
}

func TestAttemptTimeout_GrowsAndCaps(t *testing.T) {
	var prev time.Duration
	for attempt := 1; attempt <= 5; attempt++ {
		d := attemptTimeout(attempt)
		if d < prev {
			t.Fatalf("attempt timeout decreased at attempt %d: %v < %v", attempt, d, prev)
		}
		if d > attemptTimeoutCeiling {
			t.Fatalf("attempt timeout exceeds ceiling: %v", d)
		}
		prev = d
	}
	if attemptTimeout(1) != 2*time.Second {
		t.Fatalf("first attempt should get 2s, got %v", attemptTimeout(1))
	}
	if attemptTimeout(3) != 5*time.Second {
		t.Fatalf("third attempt should be capped at 5s, got %v", attemptTimeout(3))
	}
}

func TestEmbed_RetriesTransientThenSucceeds(t *testing.T) {
	want := []float32{0.1, 0.2, 0.3}
	provider := &fakeProvider{responses: []fakeResponse{
		{err: serverError()},
		{err: serverError()},
		{vec: want},
	}}
	c := New(provider, 2, zap.NewNop())

	got := c.Embed(context.Background(), "some text")
	if got == nil {
		t.Fatal("expected vector after retries")
	}
	if provider.calls != 3 {
		t.Fatalf("expected exactly 3 calls, got %d", provider.calls)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("vector mismatch at %d: %v vs %v", i, got[i], want[i])
		}
	}
}

func TestEmbed_ExhaustedRetriesReturnsNil(t *testing.T) {
	provider := &fakeProvider{responses: []fakeResponse{
		{err: serverError()},
		{err: serverError()},
	}}
	c := New(provider, 1, zap.NewNop())

	if got := c.Embed(context.Background(), "text"); got != nil {
		t.Fatalf("expected nil after exhausted retries, got %v", got)
	}
	if provider.calls != 2 {
		t.Fatalf("expected 2 calls (1 + 1 retry), got %d", provider.calls)
	}
}

func TestEmbed_NonRetryableFailsImmediately(t *testing.T) {
	provider := &fakeProvider{responses: []fakeResponse{
		{err: clientError()},
	}}
	c := New(provider, 3, zap.NewNop())

	if got := c.Embed(context.Background(), "text"); got != nil {
		t.Fatal("expected nil on client error")
	}
	if provider.calls != 1 {
		t.Fatalf("client errors must not be retried, got %d calls", provider.calls)
	}
}

func TestEmbed_MissingConfigurationReturnsNil(t *testing.T) {
	c := New(nil, 2, zap.NewNop())

	if got := c.Embed(context.Background(), "text"); got != nil {
		t.Fatal("expected nil when no provider is configured")
	}
}

func TestRetryable_Classification(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"deadline", context.DeadlineExceeded, true},
		{"api 503", serverError(), true},
		{"api 400", clientError(), false},
		{"request 502", &openai.RequestError{HTTPStatusCode: 502}, true},
		{"plain", errors.New("boom"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := retryable(tc.err); got != tc.want {
				t.Fatalf("retryable(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}
