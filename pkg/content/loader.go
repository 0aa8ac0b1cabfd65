package content

import (
	"context"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/summon-ai/agentdir/pkg/logger"
	"github.com/summon-ai/agentdir/pkg/telemetry"
)

// Loader reads collections from a content root.
type Loader struct {
	fsys fs.FS
}

// NewLoader returns a loader rooted at fsys. Collections are expected in
// top-level agents/, skills/ and blog/ directories.
func NewLoader(fsys fs.FS) *Loader {
	return &Loader{fsys: fsys}
}

// LoadDir loads every collection below dir on disk.
func LoadDir(ctx context.Context, dir string) (*Directory, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open content directory %s", dir)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("content path %s is not a directory", dir)
	}
	return NewLoader(os.DirFS(dir)).Load(ctx)
}

// Load reads and validates all collections. Invalid files are reported in the
// returned error and left out of the directory; the directory is returned
// alongside the error so callers can still show the valid entries.
func (l *Loader) Load(ctx context.Context) (*Directory, error) {
	dir := newDirectory()

	err := telemetry.WithSpan(ctx, "content.load", func(ctx context.Context) error {
		var errs *multierror.Error
		itemIDs := make(map[string]*Entry)
		for _, c := range Collections() {
			entries, err := l.LoadCollection(ctx, c)
			if err != nil {
				errs = multierror.Append(errs, err)
			}
			if c.Votable() {
				entries, err = claimItemIDs(itemIDs, entries)
				if err != nil {
					errs = multierror.Append(errs, err)
				}
			}
			dir.add(c, entries)
		}

		failed := 0
		if errs != nil {
			failed = len(errs.Errors)
		}
		telemetry.AddEvent(ctx, "content.loaded",
			attribute.Int("entries", dir.Len()),
			attribute.Int("errors", failed),
		)
		trace.SpanFromContext(ctx).SetAttributes(
			attribute.Int("content.entries", dir.Len()),
			attribute.Int("content.errors", failed),
		)

		if errs != nil {
			errs.ErrorFormat = listErrors
		}
		return errs.ErrorOrNil()
	})
	return dir, err
}

// claimItemIDs drops entries whose item id is already taken by a votable
// entry of another collection. Vote state is keyed by item id alone.
func claimItemIDs(taken map[string]*Entry, entries []*Entry) ([]*Entry, error) {
	var (
		kept []*Entry
		errs *multierror.Error
	)
	for _, e := range entries {
		if prev, ok := taken[e.ItemID()]; ok {
			errs = multierror.Append(errs, &FieldError{
				Path:    e.Path,
				Field:   "slug",
				Message: "item id " + e.ItemID() + " is already used by " + prev.Path,
			})
			continue
		}
		taken[e.ItemID()] = e
		kept = append(kept, e)
	}
	return kept, errs.ErrorOrNil()
}

// LoadCollection reads one collection. Valid entries are returned even when
// some files fail validation.
func (l *Loader) LoadCollection(ctx context.Context, c Collection) ([]*Entry, error) {
	log := logger.G(ctx).WithField("collection", c)

	root := string(c)
	if _, err := fs.Stat(l.fsys, root); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Debug("collection directory not found, skipping")
			return nil, nil
		}
		return nil, errors.Wrapf(err, "failed to stat collection %s", c)
	}

	paths, err := doublestar.Glob(l.fsys, root+"/**/*.{md,mdx}")
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list collection %s", c)
	}
	sort.Strings(paths)

	var (
		entries []*Entry
		errs    *multierror.Error
		seen    = make(map[string]string)
	)
	for _, p := range paths {
		slug := Slug(c, p)
		if prev, ok := seen[slug]; ok {
			errs = multierror.Append(errs, &FieldError{Path: p, Field: "slug", Message: "duplicate slug " + slug + ", also used by " + prev})
			continue
		}
		seen[slug] = p

		entry, err := l.loadFile(c, p, slug)
		if err != nil {
			log.WithField("path", p).WithError(err).Debug("skipping invalid content file")
			errs = multierror.Append(errs, err)
			continue
		}
		entries = append(entries, entry)
	}

	log.WithField("count", len(entries)).Debug("loaded collection")
	return entries, errs.ErrorOrNil()
}

func (l *Loader) loadFile(c Collection, p, slug string) (*Entry, error) {
	source, err := fs.ReadFile(l.fsys, p)
	if err != nil {
		return nil, &FieldError{Path: p, Message: errors.Wrap(err, "failed to read file").Error()}
	}

	doc, err := parseDocument(source)
	if err != nil {
		return nil, &FieldError{Path: p, Message: err.Error()}
	}

	return decodeEntry(c, p, slug, doc)
}

// Slug derives the entry slug from its path: relative to the collection
// directory, without extension, lower-cased, spaces replaced by dashes.
func Slug(c Collection, p string) string {
	rel := strings.TrimPrefix(path.Clean(p), string(c)+"/")
	rel = strings.TrimSuffix(rel, path.Ext(rel))
	rel = strings.ToLower(rel)
	return strings.Join(strings.Fields(rel), "-")
}
