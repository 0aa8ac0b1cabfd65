package content

import (
	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
)

// Schema returns the JSON Schema of the frontmatter of collection c, for use
// by editors.
func Schema(c Collection) (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		AllowAdditionalProperties:  true,
		DoNotReference:             true,
	}

	var schema *jsonschema.Schema
	switch c {
	case Agents:
		schema = reflector.Reflect(&Agent{})
	case Skills:
		schema = reflector.Reflect(&Skill{})
	case Blog:
		schema = reflector.Reflect(&Post{})
	default:
		return nil, errors.Errorf("unknown collection %q", c)
	}

	schema.Title = string(c)
	schema.Description = "Frontmatter of an entry in the " + string(c) + " collection"
	return schema, nil
}
