package catalog

import (
	"testing"

	"github.com/shelfsync/shelfsync/internal/domain"
)

func testEntries() []*domain.Entry {
	return []*domain.Entry{
		{ID: "1", Name: "Neovim", Category: "Editors", Summary: "Modal editor", Tags: []string{"terminal"}},
		{ID: "2", Name: "VS Code", Category: "Editors", Summary: "Electron-based editor"},
		{ID: "3", Name: "Vim", Category: "Editors", Summary: "The original modal editor"},
		{ID: "4", Name: "Zed", Category: "Editors", Summary: "Fast collaborative editor", Tags: []string{"vim-mode"}},
	}
}

func TestReplaceAndGet(t *testing.T) {
	c := New()
	if c.Count() != 0 {
		t.Fatalf("new catalog should be empty, got %d", c.Count())
	}

	c.Replace(testEntries())

	if c.Count() != 4 {
		t.Errorf("Count() = %d, want 4", c.Count())
	}
	e, ok := c.Get("3")
	if !ok || e.Name != "Vim" {
		t.Errorf("Get(3) = %v, %v; want Vim entry", e, ok)
	}
	if c.LastReload().IsZero() {
		t.Error("LastReload should be set after Replace")
	}
}

func TestReplaceOverwrites(t *testing.T) {
	c := New()
	c.Replace(testEntries())
	c.Replace([]*domain.Entry{{ID: "9", Name: "Helix", Category: "Editors"}})

	if c.Count() != 1 {
		t.Errorf("Count() = %d after replace, want 1", c.Count())
	}
	if _, ok := c.Get("1"); ok {
		t.Error("old entries must be gone after Replace")
	}
}

func TestSearchRanking(t *testing.T) {
	c := New()
	c.Replace(testEntries())

	got := c.Search("vim")
	if len(got) != 3 {
		t.Fatalf("Search(vim) returned %d entries, want 3", len(got))
	}
	// Name prefix first, then name substring, then tag match.
	if got[0].Name != "Vim" {
		t.Errorf("top result = %s, want Vim (name prefix)", got[0].Name)
	}
	if got[1].Name != "Neovim" {
		t.Errorf("second result = %s, want Neovim (name substring)", got[1].Name)
	}
	if got[2].Name != "Zed" {
		t.Errorf("third result = %s, want Zed (tag match)", got[2].Name)
	}
}

func TestSearchEmptyQueryReturnsAll(t *testing.T) {
	c := New()
	c.Replace(testEntries())

	if got := c.Search("  "); len(got) != 4 {
		t.Errorf("empty query returned %d entries, want all 4", len(got))
	}
}

func TestSearchNoMatch(t *testing.T) {
	c := New()
	c.Replace(testEntries())

	if got := c.Search("kubernetes"); len(got) != 0 {
		t.Errorf("Search(kubernetes) returned %d entries, want 0", len(got))
	}
}

func TestAllReturnsSnapshot(t *testing.T) {
	c := New()
	c.Replace(testEntries())

	all := c.All()
	all[0] = nil

	if got := c.All(); got[0] == nil {
		t.Error("mutating the returned slice must not affect the catalog")
	}
}
