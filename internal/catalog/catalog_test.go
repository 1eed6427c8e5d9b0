package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func mustLoad(t *testing.T) *Catalog {
	t.Helper()
	c, err := Load("")
	if err != nil {
		t.Fatalf("load bundled catalog: %v", err)
	}
	return c
}

func TestLoad_Bundled(t *testing.T) {
	c := mustLoad(t)
	if c.Len() == 0 {
		t.Fatal("bundled catalog is empty")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_Malformed(t *testing.T) {
	p := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(p, []byte(`{"not":"an array"`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(p); err == nil {
		t.Fatal("expected error for malformed catalog")
	}
}

func TestSelectByThemes_RestrictsToMatchingSubset(t *testing.T) {
	c := mustLoad(t)
	// Selection is random across runs but policy is fixed: a matching
	// passage must always intersect the requested set.
	for i := 0; i < 50; i++ {
		p := c.SelectByThemes([]string{"ANXIETY"})
		found := false
		for _, th := range p.Themes {
			if th == "anxiety" {
				found = true
			}
		}
		if !found {
			t.Fatalf("selected %s does not carry requested theme", p.Reference)
		}
	}
}

func TestSelectByThemes_NoMatchFallsBackToDefault(t *testing.T) {
	c := mustLoad(t)
	p := c.SelectByThemes([]string{"no-such-theme"})
	if p.Reference != DefaultReference {
		t.Fatalf("expected default %s, got %s", DefaultReference, p.Reference)
	}
}

func TestSelectByThemes_NoDefaultUsesFirst(t *testing.T) {
	p := filepath.Join(t.TempDir(), "small.json")
	data := `[{"reference":"John 3:16","text":"For God so loved the world...","themes":["love"],"crossrefs":[]}]`
	if err := os.WriteFile(p, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	got := c.SelectByThemes([]string{"no-such-theme"})
	if got.Reference != "John 3:16" {
		t.Fatalf("expected first passage, got %s", got.Reference)
	}
}

func TestSelectRandom_CoversCatalog(t *testing.T) {
	c := mustLoad(t)
	seen := map[string]bool{}
	for i := 0; i < 500; i++ {
		seen[c.SelectRandom().Reference] = true
	}
	if len(seen) < 2 {
		t.Fatalf("random selection stuck on %d passage(s)", len(seen))
	}
}
