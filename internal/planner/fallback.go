package planner

import "github.com/PeytonLeFleur/lamp-and-light/internal/model"

// Static placeholder content used when generation is unavailable. Fallback
// content is never written to the cache: it is not real generated content.
const (
	fallbackApplication = "A short reflection on this passage for today."
	fallbackPrayer      = "Lord, help me trust you and walk in your word today. Amen."
	fallbackChallenge   = "Spend five quiet minutes praying through this passage."
)

// FallbackContent returns the fixed placeholder content for a passage. The
// passage's own cross-references are carried so the plan still links related
// scripture.
func FallbackContent(passage model.Passage) model.DevotionalContent {
	return model.DevotionalContent{
		Application: fallbackApplication,
		Prayer:      fallbackPrayer,
		Challenge:   fallbackChallenge,
		CrossRefs:   passage.CrossRefs,
	}
}
