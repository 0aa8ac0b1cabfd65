package content

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/mitchellh/mapstructure"
)

// FieldError is one schema violation in one file.
type FieldError struct {
	Path    string
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Path, e.Field, e.Message)
}

// FieldErrors flattens err into the schema violations it carries.
func FieldErrors(err error) []*FieldError {
	var out []*FieldError
	merr, ok := err.(*multierror.Error)
	if !ok {
		if fe, ok := err.(*FieldError); ok {
			return []*FieldError{fe}
		}
		return nil
	}
	for _, e := range merr.Errors {
		out = append(out, FieldErrors(e)...)
	}
	return out
}

func listErrors(errs []error) string {
	lines := make([]string, 0, len(errs)+1)
	lines = append(lines, fmt.Sprintf("%d content error(s):", len(errs)))
	for _, err := range errs {
		lines = append(lines, "  "+err.Error())
	}
	return strings.Join(lines, "\n")
}

// decodeEntry validates the frontmatter of a file against the collection
// schema and returns the typed entry.
func decodeEntry(c Collection, path, slug string, doc *document) (*Entry, error) {
	var errs *multierror.Error

	for _, field := range requiredFields[c] {
		if v, ok := doc.meta[field]; !ok || v == nil {
			errs = multierror.Append(errs, &FieldError{Path: path, Field: field, Message: "required"})
		}
	}

	entry := &Entry{
		Collection: c,
		Slug:       slug,
		Path:       path,
		Body:       doc.body,
		HTML:       doc.html,
	}

	var target interface{}
	switch c {
	case Agents:
		entry.Agent = &Agent{}
		target = entry.Agent
	case Skills:
		entry.Skill = &Skill{}
		target = entry.Skill
	case Blog:
		entry.Post = &Post{}
		target = entry.Post
	}

	if err := decodeFrontmatter(doc.meta, target); err != nil {
		if merr, ok := err.(*mapstructure.Error); ok {
			for _, msg := range merr.Errors {
				errs = multierror.Append(errs, &FieldError{Path: path, Message: msg})
			}
		} else {
			errs = multierror.Append(errs, &FieldError{Path: path, Message: err.Error()})
		}
	}

	switch {
	case entry.Agent != nil:
		a := entry.Agent
		if _, ok := doc.meta["repo"]; ok {
			errs = checkURL(errs, path, "repo", a.Repo)
		}
		errs = checkRating(errs, path, a.Rating)
	case entry.Skill != nil:
		s := entry.Skill
		if s.Repo != "" {
			errs = checkURL(errs, path, "repo", s.Repo)
		}
		errs = checkRating(errs, path, s.Rating)
		if s.CompatibleAgents == nil {
			s.CompatibleAgents = []string{}
		}
	case entry.Post != nil:
		p := entry.Post
		if p.RelatedAgents == nil {
			p.RelatedAgents = []string{}
		}
		if p.RelatedSkills == nil {
			p.RelatedSkills = []string{}
		}
	}

	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return entry, nil
}

func checkURL(errs *multierror.Error, path, field, raw string) *multierror.Error {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return multierror.Append(errs, &FieldError{Path: path, Field: field, Message: fmt.Sprintf("invalid url %q", raw)})
	}
	return errs
}

func checkRating(errs *multierror.Error, path string, rating float64) *multierror.Error {
	if rating < 0 || rating > 5 {
		return multierror.Append(errs, &FieldError{Path: path, Field: "rating", Message: fmt.Sprintf("must be between 0 and 5, got %g", rating)})
	}
	return errs
}
