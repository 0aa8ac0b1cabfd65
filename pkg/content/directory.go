package content

import (
	"sort"
	"strings"

	"github.com/gobwas/glob"
	"github.com/pkg/errors"
)

// Directory holds the loaded collections.
type Directory struct {
	entries map[Collection][]*Entry
}

func newDirectory() *Directory {
	return &Directory{entries: make(map[Collection][]*Entry)}
}

// NewDirectory builds a directory from already loaded entries.
func NewDirectory(entries ...*Entry) *Directory {
	d := newDirectory()
	for _, e := range entries {
		d.add(e.Collection, []*Entry{e})
	}
	return d
}

func (d *Directory) add(c Collection, entries []*Entry) {
	d.entries[c] = append(d.entries[c], entries...)
}

// Len is the number of entries across all collections.
func (d *Directory) Len() int {
	n := 0
	for _, entries := range d.entries {
		n += len(entries)
	}
	return n
}

// Entries returns the entries of c sorted for display.
func (d *Directory) Entries(c Collection) []*Entry {
	out := make([]*Entry, len(d.entries[c]))
	copy(out, d.entries[c])
	Sort(out)
	return out
}

// Find looks up an entry by slug.
func (d *Directory) Find(c Collection, slug string) (*Entry, error) {
	slug = strings.ToLower(slug)
	for _, e := range d.entries[c] {
		if e.Slug == slug {
			return e, nil
		}
	}
	return nil, errors.Errorf("%s entry %q not found", c, slug)
}

// Sort orders entries by shipped vote total, highest first, then by title.
// Blog posts have no votes and fall back to newest first.
func Sort(entries []*Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Post != nil && b.Post != nil && !a.Post.Published.Equal(b.Post.Published) {
			return a.Post.Published.After(b.Post.Published)
		}
		if a.InitialScore() != b.InitialScore() {
			return a.InitialScore() > b.InitialScore()
		}
		return strings.ToLower(a.Title()) < strings.ToLower(b.Title())
	})
}

// Filter narrows a listing. Zero fields match everything.
type Filter struct {
	Tag      string
	Category string
	Featured bool
	Match    string
}

// Apply returns the entries matching every set field. Match is a glob on the
// slug, with "/" as separator.
func (f Filter) Apply(entries []*Entry) ([]*Entry, error) {
	var pattern glob.Glob
	if f.Match != "" {
		g, err := glob.Compile(f.Match, '/')
		if err != nil {
			return nil, errors.Wrapf(err, "invalid match pattern %q", f.Match)
		}
		pattern = g
	}

	var out []*Entry
	for _, e := range entries {
		if f.Tag != "" && !hasTag(e, f.Tag) {
			continue
		}
		if f.Category != "" && !strings.EqualFold(e.Category(), f.Category) {
			continue
		}
		if f.Featured && !e.Featured() {
			continue
		}
		if pattern != nil && !pattern.Match(e.Slug) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func hasTag(e *Entry, tag string) bool {
	for _, t := range e.Tags() {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// TagCount is one row of the tag index.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// Tags indexes the tags used in c, most used first.
func (d *Directory) Tags(c Collection) []TagCount {
	counts := make(map[string]int)
	for _, e := range d.entries[c] {
		for _, t := range e.Tags() {
			counts[strings.ToLower(t)]++
		}
	}

	out := make([]TagCount, 0, len(counts))
	for t, n := range counts {
		out = append(out, TagCount{Tag: t, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Tag < out[j].Tag
	})
	return out
}
