// Package catalog holds the bundled scripture passage dataset and the
// theme-weighted selection policy used when assigning a daily passage.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"strings"

	"github.com/PeytonLeFleur/lamp-and-light/internal/model"
)

//go:embed scripture.json
var bundled []byte

// DefaultReference is returned by SelectByThemes when no passage matches the
// given themes.
const DefaultReference = "Psalm 46:1-3"

// Catalog is an immutable-after-load collection of candidate passages.
type Catalog struct {
	passages []model.Passage
	rng      *rand.Rand
}

// Load reads the passage dataset. An empty path loads the bundled catalog;
// otherwise the file at path is used. A missing or malformed dataset is a
// startup precondition failure; callers should treat the error as fatal.
func Load(path string) (*Catalog, error) {
	data := bundled
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", path, err)
		}
		data = b
	}
	return loadBytes(data)
}

func loadBytes(data []byte) (*Catalog, error) {
	var passages []model.Passage
	if err := json.Unmarshal(data, &passages); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if len(passages) == 0 {
		return nil, fmt.Errorf("catalog is empty")
	}
	return &Catalog{passages: passages, rng: rand.New(rand.NewSource(rand.Int63()))}, nil
}

// Len reports the number of loaded passages.
func (c *Catalog) Len() int { return len(c.passages) }

// ByReference returns the passage with the given reference.
func (c *Catalog) ByReference(ref string) (model.Passage, bool) {
	for _, p := range c.passages {
		if p.Reference == ref {
			return p, true
		}
	}
	return model.Passage{}, false
}

// SelectRandom returns a uniformly random passage over the full catalog.
func (c *Catalog) SelectRandom() model.Passage {
	return c.passages[c.rng.Intn(len(c.passages))]
}

// SelectByThemes returns a uniformly random passage among those whose themes
// intersect the given set (case-insensitive). When nothing matches it falls
// back to the default reference, then to the first loaded passage.
func (c *Catalog) SelectByThemes(themes []string) model.Passage {
	want := make(map[string]bool, len(themes))
	for _, t := range themes {
		want[strings.ToLower(t)] = true
	}

	var matching []model.Passage
	for _, p := range c.passages {
		for _, th := range p.Themes {
			if want[strings.ToLower(th)] {
				matching = append(matching, p)
				break
			}
		}
	}
	if len(matching) > 0 {
		return matching[c.rng.Intn(len(matching))]
	}

	for _, p := range c.passages {
		if p.Reference == DefaultReference {
			return p
		}
	}
	return c.passages[0]
}
