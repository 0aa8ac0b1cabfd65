package content

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func agent(slug, title string, votes int, category string, featured bool, tags ...string) *Entry {
	return &Entry{
		Collection: Agents,
		Slug:       slug,
		Agent: &Agent{
			Title:    title,
			Votes:    votes,
			Category: category,
			Featured: featured,
			Tags:     tags,
		},
	}
}

func slugs(entries []*Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Slug)
	}
	return out
}

func TestDirectoryEntriesSorted(t *testing.T) {
	dir := NewDirectory(
		agent("b", "Beta", 5, "misc", false),
		agent("a", "alpha", 5, "misc", false),
		agent("c", "Gamma", 50, "misc", false),
		agent("d", "Delta", -3, "misc", false),
	)
	assert.Equal(t, []string{"c", "a", "b", "d"}, slugs(dir.Entries(Agents)))
}

func TestSortBlogNewestFirst(t *testing.T) {
	older := &Entry{Collection: Blog, Slug: "older", Post: &Post{Title: "A", Published: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}}
	newer := &Entry{Collection: Blog, Slug: "newer", Post: &Post{Title: "B", Published: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)}}
	dir := NewDirectory(older, newer)
	assert.Equal(t, []string{"newer", "older"}, slugs(dir.Entries(Blog)))
}

func TestDirectoryFind(t *testing.T) {
	dir := NewDirectory(agent("reviewer", "Reviewer", 1, "misc", false))

	e, err := dir.Find(Agents, "Reviewer")
	require.NoError(t, err)
	assert.Equal(t, "reviewer", e.Slug)

	_, err = dir.Find(Skills, "reviewer")
	assert.Error(t, err)
}

func TestFilterApply(t *testing.T) {
	entries := []*Entry{
		agent("go/lint", "Lint", 1, "quality", true, "go", "lint"),
		agent("go/test", "Test", 2, "testing", false, "Go"),
		agent("py/lint", "PyLint", 3, "quality", false, "python", "lint"),
	}

	tests := []struct {
		name     string
		filter   Filter
		expected []string
	}{
		{"empty", Filter{}, []string{"go/lint", "go/test", "py/lint"}},
		{"tag case insensitive", Filter{Tag: "go"}, []string{"go/lint", "go/test"}},
		{"category", Filter{Category: "Quality"}, []string{"go/lint", "py/lint"}},
		{"featured", Filter{Featured: true}, []string{"go/lint"}},
		{"match", Filter{Match: "go/*"}, []string{"go/lint", "go/test"}},
		{"match does not cross separator", Filter{Match: "*lint"}, nil},
		{"combined", Filter{Tag: "lint", Match: "py/*"}, []string{"py/lint"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.filter.Apply(entries)
			require.NoError(t, err)
			if tt.expected == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.expected, slugs(got))
		})
	}
}

func TestFilterInvalidPattern(t *testing.T) {
	_, err := Filter{Match: "[unterminated"}.Apply(nil)
	assert.Error(t, err)
}

func TestDirectoryTags(t *testing.T) {
	dir := NewDirectory(
		agent("a", "A", 0, "misc", false, "go", "lint"),
		agent("b", "B", 0, "misc", false, "Go", "ci"),
	)
	assert.Equal(t, []TagCount{
		{Tag: "go", Count: 2},
		{Tag: "ci", Count: 1},
		{Tag: "lint", Count: 1},
	}, dir.Tags(Agents))
}
