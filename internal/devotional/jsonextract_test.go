package devotional

import "testing"

func TestExtractJSONObject_Bare(t *testing.T) {
	got := extractJSONObject(`{"application":"a"}`)
	if string(got) != `{"application":"a"}` {
		t.Fatalf("got %q", got)
	}
}

func TestExtractJSONObject_FencedCodeBlock(t *testing.T) {
	in := "Here you go:\n```json\n{\"prayer\":\"p\"}\n```\nBlessings!"
	got := extractJSONObject(in)
	if string(got) != `{"prayer":"p"}` {
		t.Fatalf("got %q", got)
	}
}

func TestExtractJSONObject_NestedBraces(t *testing.T) {
	in := `noise {"a":{"b":"{deep}"},"c":1} trailing {ignored}`
	got := extractJSONObject(in)
	if string(got) != `{"a":{"b":"{deep}"},"c":1}` {
		t.Fatalf("got %q", got)
	}
}

func TestExtractJSONObject_Unbalanced(t *testing.T) {
	if got := extractJSONObject(`{"a": {"b": 1}`); got != nil {
		t.Fatalf("expected nil for unbalanced input, got %q", got)
	}
}

func TestExtractJSONObject_NoObject(t *testing.T) {
	if got := extractJSONObject("no json here"); got != nil {
		t.Fatalf("expected nil, got %q", got)
	}
}
