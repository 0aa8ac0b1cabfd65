package content

import (
	"bytes"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*(/[a-z0-9][a-z0-9-]*)*$`)

// ScaffoldOptions customises the generated frontmatter.
type ScaffoldOptions struct {
	Title  string
	Author string
	Now    time.Time
}

// Scaffold writes a new entry for slug under root with frontmatter that passes
// validation. An existing file is never overwritten.
func Scaffold(root string, c Collection, slug string, opts ScaffoldOptions) (string, error) {
	if !slugPattern.MatchString(slug) {
		return "", errors.Errorf("invalid slug %q: use lower-case letters, digits, dashes and slashes", slug)
	}

	source, err := scaffoldSource(c, slug, opts)
	if err != nil {
		return "", err
	}

	target := filepath.Join(root, string(c), filepath.FromSlash(slug)+".md")
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", errors.Wrap(err, "failed to create collection directory")
	}

	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", errors.Errorf("%s already exists", target)
		}
		return "", errors.Wrap(err, "failed to create entry")
	}
	defer f.Close()

	if _, err := f.Write(source); err != nil {
		return "", errors.Wrap(err, "failed to write entry")
	}
	return target, nil
}

type field struct {
	key   string
	value interface{}
}

func scaffoldSource(c Collection, slug string, opts ScaffoldOptions) ([]byte, error) {
	title := opts.Title
	if title == "" {
		title = titleFromSlug(slug)
	}
	author := opts.Author
	if author == "" {
		author = "your-name"
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	base := path.Base(slug)

	var fields []field
	switch c {
	case Agents:
		fields = []field{
			{"title", title},
			{"description", "A short description of " + title},
			{"author", author},
			{"category", "uncategorized"},
			{"tags", []string{}},
			{"repo", "https://github.com/your-org/" + base},
			{"downloads", 0},
			{"rating", 0},
			{"votes", 0},
			{"featured", false},
			{"install_command", "npx " + base},
			{"published", now.Format("2006-01-02")},
		}
	case Skills:
		fields = []field{
			{"title", title},
			{"description", "A short description of " + title},
			{"author", author},
			{"category", "uncategorized"},
			{"tags", []string{}},
			{"downloads", 0},
			{"rating", 0},
			{"votes", 0},
			{"featured", false},
			{"install_command", "npx " + base},
			{"compatible_agents", []string{}},
			{"published", now.Format("2006-01-02")},
		}
	case Blog:
		fields = []field{
			{"title", title},
			{"description", "A short description of " + title},
			{"author", author},
			{"published", now.Format("2006-01-02")},
			{"category", "uncategorized"},
			{"tags", []string{}},
			{"featured", false},
			{"related_agents", []string{}},
			{"related_skills", []string{}},
		}
	default:
		return nil, errors.Errorf("unknown collection %q", c)
	}

	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, f := range fields {
		var value yaml.Node
		if err := value.Encode(f.value); err != nil {
			return nil, errors.Wrapf(err, "failed to encode %s", f.key)
		}
		if value.Kind == yaml.SequenceNode {
			value.Style = yaml.FlowStyle
		}
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: f.key}, &value)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return nil, errors.Wrap(err, "failed to encode frontmatter")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "failed to encode frontmatter")
	}
	buf.WriteString("---\n\n# " + title + "\n\nDescribe " + title + " here.\n")
	return buf.Bytes(), nil
}

func titleFromSlug(slug string) string {
	words := strings.FieldsFunc(path.Base(slug), func(r rune) bool { return r == '-' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
