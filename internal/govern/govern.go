// Package govern enforces post-generation content policy: field length caps
// and the challenge time-boxing rule.
package govern

import (
	"strings"

	"github.com/PeytonLeFleur/lamp-and-light/internal/model"
)

const (
	// MaxApplicationLen and MaxPrayerLen cap the long-form fields.
	MaxApplicationLen = 800
	MaxPrayerLen      = 800
	// MaxChallengeLen caps the challenge field.
	MaxChallengeLen = 200

	// Ellipsis marks a truncated field.
	Ellipsis = "…"

	// SafeChallenge replaces any challenge that violates the
	// under-ten-minutes rule.
	SafeChallenge = "Spend five quiet minutes praying through this passage."
)

// disallowedDurations lists phrases at or above fifteen minutes. A challenge
// mentioning any of them is wholly replaced, not truncated.
var disallowedDurations = []string{
	"hour",
	"hours",
	"15 minutes",
	"20 minutes",
	"30 minutes",
	"45 minutes",
	"60 minutes",
	"90 minutes",
}

// Apply returns a governed copy of content. Length truncation and the
// duration override are independent checks; the override supersedes any
// truncation outcome for the challenge field.
func Apply(content model.DevotionalContent) model.DevotionalContent {
	out := content
	out.Application = truncate(out.Application, MaxApplicationLen)
	out.Prayer = truncate(out.Prayer, MaxPrayerLen)
	out.Challenge = truncate(out.Challenge, MaxChallengeLen)

	if violatesTimeBox(content.Challenge) {
		out.Challenge = SafeChallenge
	}
	return out
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + Ellipsis
}

func violatesTimeBox(challenge string) bool {
	lower := strings.ToLower(challenge)
	for _, phrase := range disallowedDurations {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
