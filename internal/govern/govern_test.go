package govern

import (
	"strings"
	"testing"

	"github.com/PeytonLeFleur/lamp-and-light/internal/model"
)

func TestApply_TruncatesLongApplication(t *testing.T) {
	in := model.DevotionalContent{Application: strings.Repeat("a", 900)}
	out := Apply(in)
	if got := len([]rune(out.Application)); got != MaxApplicationLen+1 {
		t.Fatalf("governed application length = %d, want %d", got, MaxApplicationLen+1)
	}
	if !strings.HasPrefix(out.Application, strings.Repeat("a", MaxApplicationLen)) {
		t.Fatal("governed application is not a prefix of the original")
	}
	if !strings.HasSuffix(out.Application, Ellipsis) {
		t.Fatal("governed application missing ellipsis marker")
	}
}

func TestApply_TruncatesLongPrayer(t *testing.T) {
	in := model.DevotionalContent{Prayer: strings.Repeat("p", 801)}
	out := Apply(in)
	if got := len([]rune(out.Prayer)); got != MaxPrayerLen+1 {
		t.Fatalf("governed prayer length = %d, want %d", got, MaxPrayerLen+1)
	}
}

func TestApply_TruncatesLongChallenge(t *testing.T) {
	in := model.DevotionalContent{Challenge: strings.Repeat("c", 250)}
	out := Apply(in)
	if got := len([]rune(out.Challenge)); got != MaxChallengeLen+1 {
		t.Fatalf("governed challenge length = %d, want %d", got, MaxChallengeLen+1)
	}
}

func TestApply_LeavesShortFieldsAlone(t *testing.T) {
	in := model.DevotionalContent{
		Application: "Short reflection.",
		Prayer:      "Short prayer.",
		Challenge:   "Read the passage aloud once.",
		CrossRefs:   []string{"Psalm 18:2"},
	}
	out := Apply(in)
	if out.Application != in.Application || out.Prayer != in.Prayer || out.Challenge != in.Challenge {
		t.Fatalf("short content was modified: %+v", out)
	}
	if len(out.CrossRefs) != 1 {
		t.Fatal("cross references were modified")
	}
}

func TestApply_DurationOverrideReplacesChallenge(t *testing.T) {
	cases := []string{
		"Pray for 45 minutes tonight.",
		"Spend an Hour reading Romans.",
		"Meditate for 30 minutes before bed.",
		"Fast for two hours this afternoon.",
		"Journal for 15 minutes.",
	}
	for _, c := range cases {
		out := Apply(model.DevotionalContent{Challenge: c})
		if out.Challenge != SafeChallenge {
			t.Fatalf("challenge %q not replaced, got %q", c, out.Challenge)
		}
	}
}

func TestApply_DurationOverrideSupersedesTruncation(t *testing.T) {
	long := strings.Repeat("x", 300) + " for 45 minutes"
	out := Apply(model.DevotionalContent{Challenge: long})
	if out.Challenge != SafeChallenge {
		t.Fatalf("expected safe default, got %q", out.Challenge)
	}
}

func TestApply_AllowsShortDurations(t *testing.T) {
	out := Apply(model.DevotionalContent{Challenge: "Pray quietly for 5 minutes."})
	if out.Challenge != "Pray quietly for 5 minutes." {
		t.Fatalf("short duration wrongly replaced: %q", out.Challenge)
	}
}
