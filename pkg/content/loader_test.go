package content

import (
	"context"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

const agentSource = `---
title: Code Reviewer
description: Reviews pull requests
author: octo
category: review
tags: [go, review, ci, lint, extra]
repo: https://github.com/octo/reviewer
downloads: 12345
rating: 4.5
votes: 42
featured: true
install_command: npx reviewer
published: 2024-01-15
---

# Code Reviewer

Reviews **everything**.
`

const skillSource = `---
title: Test Writer
description: Writes tests
author: octo
category: testing
tags: [go]
votes: 7
install_command: npx test-writer
---
Body
`

const postSource = `---
title: Launch
description: We launched
author: octo
published: 2024-03-01T10:00:00Z
category: news
tags: [release]
---
Hello
`

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"agents/code-reviewer.md":      {Data: []byte(agentSource)},
		"skills/tools/Test Writer.mdx": {Data: []byte(skillSource)},
		"blog/launch.md":               {Data: []byte(postSource)},
		"blog/notes.txt":               {Data: []byte("ignored")},
	}
}

func TestLoad(t *testing.T) {
	dir, err := NewLoader(testFS()).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, dir.Len())

	agent, err := dir.Find(Agents, "code-reviewer")
	require.NoError(t, err)
	assert.Equal(t, "Code Reviewer", agent.Title())
	assert.Equal(t, "code-reviewer", agent.ItemID())
	assert.Equal(t, 42, agent.InitialScore())
	assert.Equal(t, 12345, agent.Downloads())
	assert.Equal(t, 4.5, agent.Rating())
	assert.True(t, agent.Featured())
	assert.True(t, agent.Votable())
	require.NotNil(t, agent.Agent.Published)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), *agent.Agent.Published)
	assert.Equal(t, "# Code Reviewer\n\nReviews **everything**.\n", agent.Body)
	assert.Contains(t, agent.HTML, "<strong>everything</strong>")
	assert.NotContains(t, agent.HTML, "install_command")

	skill, err := dir.Find(Skills, "tools/test-writer")
	require.NoError(t, err)
	assert.Equal(t, 7, skill.InitialScore())
	assert.Equal(t, []string{}, skill.Skill.CompatibleAgents)
	assert.Empty(t, skill.Repo())
	assert.Equal(t, 0.0, skill.Rating())

	post, err := dir.Find(Blog, "launch")
	require.NoError(t, err)
	assert.False(t, post.Votable())
	assert.Equal(t, 0, post.InitialScore())
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), post.Post.Published)
	assert.Equal(t, []string{}, post.Post.RelatedAgents)
}

func TestLoadMissingCollections(t *testing.T) {
	dir, err := NewLoader(fstest.MapFS{
		"agents/a.md": {Data: []byte(agentSource)},
	}).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, dir.Entries(Agents), 1)
	assert.Empty(t, dir.Entries(Skills))
	assert.Empty(t, dir.Entries(Blog))
}

func TestLoadCollectsAllErrors(t *testing.T) {
	fsys := testFS()
	fsys["agents/broken.md"] = &fstest.MapFile{Data: []byte(`---
title: Broken
description: missing fields
author: octo
category: misc
tags: []
repo: not a url
rating: 7
---
`)}
	fsys["skills/no-frontmatter.md"] = &fstest.MapFile{Data: []byte("# just markdown\n")}
	fsys["blog/bad-date.md"] = &fstest.MapFile{Data: []byte(`---
title: Bad
description: bad date
author: octo
published: someday
category: news
tags: []
---
`)}

	dir, err := NewLoader(fsys).Load(context.Background())
	require.Error(t, err)
	require.NotNil(t, dir)
	assert.Equal(t, 3, dir.Len(), "valid entries are still loaded")

	fieldErrs := FieldErrors(err)
	byPath := make(map[string][]string)
	for _, fe := range fieldErrs {
		byPath[fe.Path] = append(byPath[fe.Path], fe.Field)
	}
	assert.ElementsMatch(t, []string{"install_command", "repo", "rating"}, byPath["agents/broken.md"])
	assert.Len(t, byPath["skills/no-frontmatter.md"], 1)
	assert.Len(t, byPath["blog/bad-date.md"], 1)

	assert.Contains(t, err.Error(), "5 content error(s):")
	assert.Contains(t, err.Error(), "agents/broken.md: rating: must be between 0 and 5, got 7")
}

func TestLoadDuplicateSlug(t *testing.T) {
	fsys := fstest.MapFS{
		"agents/reviewer.md":  {Data: []byte(agentSource)},
		"agents/Reviewer.mdx": {Data: []byte(agentSource)},
	}
	dir, err := NewLoader(fsys).Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, dir.Len())

	fieldErrs := FieldErrors(err)
	require.Len(t, fieldErrs, 1)
	assert.Equal(t, "slug", fieldErrs[0].Field)
}

func TestLoadItemIDUniqueAcrossCollections(t *testing.T) {
	fsys := fstest.MapFS{
		"agents/reviewer.md": {Data: []byte(agentSource)},
		"skills/reviewer.md": {Data: []byte(skillSource)},
		"blog/reviewer.md":   {Data: []byte(postSource)},
	}
	dir, err := NewLoader(fsys).Load(context.Background())
	require.Error(t, err)

	assert.Len(t, dir.Entries(Agents), 1)
	assert.Empty(t, dir.Entries(Skills))
	assert.Len(t, dir.Entries(Blog), 1, "blog posts carry no vote state")

	fieldErrs := FieldErrors(err)
	require.Len(t, fieldErrs, 1)
	assert.Equal(t, "skills/reviewer.md", fieldErrs[0].Path)
	assert.Equal(t, "slug", fieldErrs[0].Field)
	assert.Contains(t, fieldErrs[0].Message, "agents/reviewer.md")
}

func TestLoadSpanStatus(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	defer otel.SetTracerProvider(prev)

	ctx := context.Background()
	_, err := NewLoader(testFS()).Load(ctx)
	require.NoError(t, err)

	fsys := testFS()
	fsys["skills/no-frontmatter.md"] = &fstest.MapFile{Data: []byte("# just markdown\n")}
	dir, err := NewLoader(fsys).Load(ctx)
	require.Error(t, err)
	assert.Equal(t, 3, dir.Len())

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "content.load", spans[0].Name())
	assert.Equal(t, codes.Ok, spans[0].Status().Code)
	assert.Contains(t, spans[0].Attributes(), attribute.Int("content.errors", 0))

	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Contains(t, spans[1].Attributes(), attribute.Int("content.entries", 3))
	assert.Contains(t, spans[1].Attributes(), attribute.Int("content.errors", 1))
}

func TestLoadDirMissing(t *testing.T) {
	_, err := LoadDir(context.Background(), t.TempDir()+"/missing")
	assert.Error(t, err)
}

func TestSlug(t *testing.T) {
	tests := []struct {
		collection Collection
		path       string
		expected   string
	}{
		{Agents, "agents/reviewer.md", "reviewer"},
		{Agents, "agents/Code Reviewer.mdx", "code-reviewer"},
		{Skills, "skills/go/Test-Writer.md", "go/test-writer"},
		{Blog, "blog/2024/launch.md", "2024/launch"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, Slug(tt.collection, tt.path))
		})
	}
}

func TestParseCollection(t *testing.T) {
	c, err := ParseCollection("agent")
	require.NoError(t, err)
	assert.Equal(t, Agents, c)

	c, err = ParseCollection("posts")
	require.NoError(t, err)
	assert.Equal(t, Blog, c)

	_, err = ParseCollection("plugins")
	assert.Error(t, err)
}

func TestStripFrontmatter(t *testing.T) {
	assert.Equal(t, "body\n", stripFrontmatter("---\na: b\n---\n\nbody\n"))
	assert.Equal(t, "no frontmatter", stripFrontmatter("no frontmatter"))
	assert.Equal(t, "---\nunterminated", stripFrontmatter("---\nunterminated"))
}
