package content

import (
	"bytes"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(meta.Meta),
)

// document is a parsed markdown file.
type document struct {
	meta map[string]interface{}
	body string
	html string
}

func parseDocument(source []byte) (*document, error) {
	var buf bytes.Buffer
	pctx := parser.NewContext()

	if err := markdown.Convert(source, &buf, parser.WithContext(pctx)); err != nil {
		return nil, errors.Wrap(err, "failed to parse markdown")
	}

	values, err := meta.TryGet(pctx)
	if err != nil {
		return nil, errors.Wrap(err, "invalid frontmatter")
	}
	if len(values) == 0 {
		return nil, errors.New("missing frontmatter")
	}

	return &document{
		meta: values,
		body: stripFrontmatter(string(source)),
		html: buf.String(),
	}, nil
}

// stripFrontmatter returns the markdown after the closing "---" line.
func stripFrontmatter(source string) string {
	if !strings.HasPrefix(source, "---") {
		return source
	}

	lines := strings.Split(source, "\n")
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return strings.TrimLeft(strings.Join(lines[i+1:], "\n"), "\n")
		}
	}
	return source
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// stringToTimeHook parses frontmatter dates. YAML timestamps reach the decoder
// as strings, so every accepted layout is tried in turn.
func stringToTimeHook(_ reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if to != reflect.TypeOf(time.Time{}) {
		return data, nil
	}
	s, ok := data.(string)
	if !ok {
		return data, nil
	}

	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return nil, errors.Errorf("invalid date %q", s)
}

func decodeFrontmatter(values map[string]interface{}, out interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       stringToTimeHook,
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create frontmatter decoder")
	}
	return decoder.Decode(values)
}
