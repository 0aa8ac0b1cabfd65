package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/summon-ai/agentdir/pkg/content"
	"github.com/summon-ai/agentdir/pkg/localstore"
	"github.com/summon-ai/agentdir/pkg/vote"
)

const reviewerSource = `---
title: Code Reviewer
description: Reviews pull requests
author: octo
category: review
tags: [go, review]
repo: https://github.com/octo/reviewer
downloads: 1500
rating: 4.5
votes: 42
featured: true
install_command: npx reviewer
---
Reviews everything.
`

const linterSource = `---
title: Linter
description: Lints code
author: octo
category: quality
tags: [go, lint]
repo: https://github.com/octo/linter
votes: 7
install_command: npx linter
---
`

func writeContent(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, data := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	}
	return root
}

func testApp(t *testing.T) *AppConfig {
	t.Helper()
	root := writeContent(t, map[string]string{
		"agents/code-reviewer.md": reviewerSource,
		"agents/linter.md":        linterSource,
	})
	return &AppConfig{
		ContentDir: root,
		Store:      localstore.Config{Backend: localstore.BackendMemory},
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("AGENTDIR_CONTENT_DIR", "/srv/content")
	t.Setenv("AGENTDIR_STORE_BACKEND", "file")
	t.Setenv("AGENTDIR_VOTES_RESTORE", "true")
	t.Setenv("AGENTDIR_TRACING_RATIO", "0.25")

	v := viper.New()
	v.SetEnvPrefix("AGENTDIR")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()
	setDefaults(v)

	cfg, err := loadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "/srv/content", cfg.ContentDir)
	assert.Equal(t, "file", cfg.Store.Backend)
	assert.True(t, cfg.Votes.Restore)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "ratio", cfg.Tracing.Sampler)
	assert.Equal(t, 0.25, cfg.Tracing.Ratio)
	assert.False(t, cfg.Tracing.Enabled)

	assert.Len(t, sessionOptions(cfg), 1)
	cfg.Votes.Restore = false
	assert.Empty(t, sessionOptions(cfg))
}

func TestRunList(t *testing.T) {
	app := testApp(t)

	var out bytes.Buffer
	require.NoError(t, runList(context.Background(), app, NewListConfig(), &out))
	assert.Contains(t, out.String(), "#1")
	assert.Contains(t, out.String(), "Code Reviewer")
	assert.Contains(t, out.String(), "Linter")
	assert.Less(t, bytes.Index(out.Bytes(), []byte("Code Reviewer")), bytes.Index(out.Bytes(), []byte("Linter")))

	out.Reset()
	config := NewListConfig()
	config.JSON = true
	config.Filter.Tag = "lint"
	require.NoError(t, runList(context.Background(), app, config, &out))

	var items []listItem
	require.NoError(t, json.Unmarshal(out.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "linter", items[0].Entry.Slug)
	assert.Equal(t, 7, items[0].Score)
	assert.Equal(t, 1, items[0].Rank)

	out.Reset()
	config = NewListConfig()
	config.Collection = content.Skills
	require.NoError(t, runList(context.Background(), app, config, &out))
	assert.Equal(t, "No skills found.\n", out.String())

	out.Reset()
	config = NewListConfig()
	config.Tags = true
	require.NoError(t, runList(context.Background(), app, config, &out))
	assert.Contains(t, out.String(), "#go")
}

func TestRunListRestore(t *testing.T) {
	app := testApp(t)
	app.Votes.Restore = true
	app.Store = localstore.Config{Backend: localstore.BackendFile, Path: filepath.Join(t.TempDir(), "votes.json")}

	store, err := localstore.Open(context.Background(), app.Store)
	require.NoError(t, err)
	require.NoError(t, store.Set(context.Background(), vote.StorageKey("linter"), "up"))
	require.NoError(t, store.Close())

	var out bytes.Buffer
	config := NewListConfig()
	config.JSON = true
	config.Filter.Match = "linter"
	require.NoError(t, runList(context.Background(), app, config, &out))

	var items []listItem
	require.NoError(t, json.Unmarshal(out.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, 8, items[0].Score)
	assert.Equal(t, "up", items[0].Choice)
}

func TestRunShow(t *testing.T) {
	app := testApp(t)

	var out bytes.Buffer
	require.NoError(t, runShow(context.Background(), app, content.Agents, "code-reviewer", 80, &out))
	assert.Contains(t, out.String(), "votes: 42")
	assert.Contains(t, out.String(), "downloads: 1,500")

	err := runShow(context.Background(), app, content.Agents, "missing", 80, &out)
	assert.Error(t, err)
}

func TestRunVote(t *testing.T) {
	ctx := context.Background()
	app := testApp(t)
	store := localstore.NewMemory()

	var out bytes.Buffer
	require.NoError(t, runVote(ctx, app, store, content.Agents, "code-reviewer", vote.ChoiceUp, false, &out))
	assert.Equal(t, "agents/code-reviewer: none -> up, score 43 (+1)\n", out.String())

	v, found, err := store.Get(ctx, "vote-code-reviewer")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "up", v)

	// Each invocation is a fresh session starting from no vote.
	out.Reset()
	require.NoError(t, runVote(ctx, app, store, content.Agents, "code-reviewer", vote.ChoiceDown, true, &out))
	var result voteResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	assert.Equal(t, voteResult{Collection: content.Agents, Slug: "code-reviewer", From: "", To: "down", Delta: -1, Score: 41}, result)
}

func TestRunVoteRestore(t *testing.T) {
	ctx := context.Background()
	app := testApp(t)
	app.Votes.Restore = true
	store := localstore.NewMemory()

	var out bytes.Buffer
	require.NoError(t, runVote(ctx, app, store, content.Agents, "linter", vote.ChoiceUp, false, &out))
	out.Reset()
	require.NoError(t, runVote(ctx, app, store, content.Agents, "linter", vote.ChoiceUp, false, &out))
	assert.Equal(t, "agents/linter: up -> none, score 7 (-1)\n", out.String())
}

func TestRunVoteRecordsToggleEvent(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	defer otel.SetTracerProvider(prev)

	ctx, span := provider.Tracer("test").Start(context.Background(), "cli.command")
	require.NoError(t, runVote(ctx, testApp(t), localstore.NewMemory(), content.Agents, "linter", vote.ChoiceDown, false, &bytes.Buffer{}))
	span.End()

	var events []sdktrace.Event
	for _, s := range recorder.Ended() {
		if s.Name() == "cli.command" {
			events = s.Events()
		}
	}
	require.Len(t, events, 1)
	assert.Equal(t, "vote.toggled", events[0].Name)
	assert.Contains(t, events[0].Attributes, attribute.String("vote.item", "linter"))
	assert.Contains(t, events[0].Attributes, attribute.Int("vote.score", 6))
}

func TestRunVoteRejectsBlog(t *testing.T) {
	app := testApp(t)
	err := runVote(context.Background(), app, localstore.NewMemory(), content.Blog, "launch", vote.ChoiceUp, false, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be voted on")
}

func TestVotesListAndClear(t *testing.T) {
	ctx := context.Background()
	store := localstore.NewMemory()
	require.NoError(t, store.Set(ctx, "vote-b", "down"))
	require.NoError(t, store.Set(ctx, "vote-a", "up"))
	require.NoError(t, store.Set(ctx, "vote-c", ""))
	require.NoError(t, store.Set(ctx, "theme", "dark"))

	var out bytes.Buffer
	require.NoError(t, runVotesList(ctx, store, false, true, &out))
	var votes []recordedVote
	require.NoError(t, json.Unmarshal(out.Bytes(), &votes))
	assert.Equal(t, []recordedVote{{Slug: "a", Choice: "up"}, {Slug: "b", Choice: "down"}}, votes)

	out.Reset()
	require.NoError(t, runVotesList(ctx, store, true, false, &out))
	assert.Contains(t, out.String(), "c")
	assert.Contains(t, out.String(), "-")

	n, err := runVotesClear(ctx, store, "a")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = runVotesClear(ctx, store, "a")
	assert.Error(t, err)

	n, err = runVotesClear(ctx, store, "")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	out.Reset()
	require.NoError(t, runVotesList(ctx, store, true, false, &out))
	assert.Equal(t, "No votes recorded.\n", out.String())

	v, found, err := store.Get(ctx, "theme")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "dark", v)
}

func TestRunValidate(t *testing.T) {
	app := testApp(t)

	var out bytes.Buffer
	require.NoError(t, runValidate(context.Background(), app.ContentDir, &out))
	assert.Equal(t, "✓ all content valid: 2 agents, 0 skills, 0 posts\n", out.String())

	require.NoError(t, os.WriteFile(filepath.Join(app.ContentDir, "agents", "broken.md"), []byte("---\ntitle: Broken\n---\n"), 0o644))
	out.Reset()
	err := runValidate(context.Background(), app.ContentDir, &out)
	assert.ErrorIs(t, err, errInvalidContent)
	assert.Contains(t, out.String(), filepath.Join("agents", "broken.md")+": description: required")
	assert.Contains(t, out.String(), "✗ 6 problem(s); valid: 2 agents, 0 skills, 0 posts")

	_, err = content.LoadDir(context.Background(), filepath.Join(app.ContentDir, "missing"))
	require.Error(t, err)
	assert.Error(t, runValidate(context.Background(), filepath.Join(app.ContentDir, "missing"), &out))
}

func TestDatabasePath(t *testing.T) {
	t.Setenv("AGENTDIR_BASE_PATH", "/tmp/agentdir-test")

	path, err := databasePath(&AppConfig{Store: localstore.Config{Path: "/data/votes.db"}})
	require.NoError(t, err)
	assert.Equal(t, "/data/votes.db", path)

	path, err = databasePath(&AppConfig{Store: localstore.Config{Backend: "file", Path: "/data/votes.json"}})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/agentdir-test/storage.db", path)
}

func TestIsContentEvent(t *testing.T) {
	tests := []struct {
		event    fsnotify.Event
		expected bool
	}{
		{fsnotify.Event{Name: "agents/a.md", Op: fsnotify.Write}, true},
		{fsnotify.Event{Name: "agents/a.MDX", Op: fsnotify.Create}, true},
		{fsnotify.Event{Name: "agents/a.txt", Op: fsnotify.Write}, false},
		{fsnotify.Event{Name: "agents/old", Op: fsnotify.Remove}, true},
		{fsnotify.Event{Name: "agents/a.md", Op: fsnotify.Chmod}, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, isContentEvent(tt.event), tt.event.String())
	}
}

func TestDebounce(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	input := make(chan struct{})
	output := make(chan struct{}, 1)
	go debounce(ctx, input, output, 50*time.Millisecond)

	for i := 0; i < 5; i++ {
		input <- struct{}{}
		time.Sleep(5 * time.Millisecond)
	}

	select {
	case <-output:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced signal not delivered")
	}

	select {
	case <-output:
		t.Fatal("burst produced more than one signal")
	case <-time.After(150 * time.Millisecond):
	}
}
