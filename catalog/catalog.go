package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Entry is one card definition from the static catalog. The three hint
// fields are pre-authored alternate descriptions of Value; the wire keys
// "1", "2", "3" match the cards.json format.
type Entry struct {
	Category string `json:"category"`
	Value    string `json:"value"`
	Hint1    string `json:"1"`
	Hint2    string `json:"2"`
	Hint3    string `json:"3"`
}

// Hint returns the pre-authored hint for variant 1, 2 or 3.
func (e Entry) Hint(variant int) string {
	switch variant {
	case 1:
		return e.Hint1
	case 2:
		return e.Hint2
	case 3:
		return e.Hint3
	default:
		return ""
	}
}

// Catalog is the immutable card list loaded once at startup.
type Catalog struct {
	entries    []Entry
	categories map[string]struct{}
}

// New builds a Catalog from a list of entries.
func New(entries []Entry) *Catalog {
	cats := make(map[string]struct{})
	for _, e := range entries {
		cats[e.Category] = struct{}{}
	}
	return &Catalog{entries: entries, categories: cats}
}

// Load reads and parses the card catalog from a JSON file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading card catalog: %w", err)
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing card catalog: %w", err)
	}
	return New(entries), nil
}

// Entries returns the full card list. Callers must not modify it.
func (c *Catalog) Entries() []Entry {
	return c.entries
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// HasCategory reports whether any catalog entry uses the given category.
func (c *Catalog) HasCategory(category string) bool {
	_, ok := c.categories[category]
	return ok
}

// Categories returns the distinct categories in sorted order.
func (c *Catalog) Categories() []string {
	out := make([]string, 0, len(c.categories))
	for cat := range c.categories {
		out = append(out, cat)
	}
	sort.Strings(out)
	return out
}
