// Package devotional generates reflection content for a passage via an
// OpenAI-compatible chat completions endpoint.
package devotional

import (
	"context"
	"errors"

	"github.com/PeytonLeFleur/lamp-and-light/internal/model"
)

// ErrGenerationFailed is the single failure surfaced to callers. Transport
// errors, timeouts, non-2xx statuses and parse failures all collapse into it;
// the orchestrator's retry policy does not need finer classification.
var ErrGenerationFailed = errors.New("devotional generation failed")

// Provider produces structured devotional content for a passage.
type Provider interface {
	Generate(ctx context.Context, passageRef, passageText string, recentThemes []string) (model.DevotionalContent, error)
}
