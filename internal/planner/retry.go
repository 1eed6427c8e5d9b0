package planner

import (
	"context"
	"time"

	"github.com/PeytonLeFleur/lamp-and-light/internal/model"
	"github.com/PeytonLeFleur/lamp-and-light/internal/devotional"
)

const (
	// maxAttempts bounds generation to one retry: worst-case latency is
	// roughly timeout + backoff + timeout.
	maxAttempts = 2
	// DefaultBackoff is the fixed wait before the single retry. No
	// exponential growth, no jitter.
	DefaultBackoff = 500 * time.Millisecond
)

// generateOutcome is the tagged result of a bounded generation attempt.
type generateOutcome struct {
	content model.DevotionalContent
	ok      bool
	calls   int
}

// generateWithRetry calls the provider up to maxAttempts times with identical
// inputs, waiting backoff between attempts. It never returns an error: a
// failed final attempt yields ok=false and the caller assigns fallback.
func generateWithRetry(ctx context.Context, p devotional.Provider, backoff time.Duration, ref, text string, themes []string) generateOutcome {
	out := generateOutcome{}
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		out.calls++
		content, err := p.Generate(ctx, ref, text, themes)
		if err == nil {
			out.content = content
			out.ok = true
			return out
		}
		if attempt == maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return out
		case <-time.After(backoff):
		}
	}
	return out
}
