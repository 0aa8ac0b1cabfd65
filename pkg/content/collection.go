// Package content loads the agent, skill and blog collections from markdown
// files with YAML frontmatter and validates them against the collection
// schemas. Entries are the records handed to the vote widget and the card
// renderer.
package content

import (
	"time"

	"github.com/pkg/errors"
)

// Collection names a content collection and the directory it lives in.
type Collection string

const (
	Agents Collection = "agents"
	Skills Collection = "skills"
	Blog   Collection = "blog"
)

// Collections returns every collection in display order.
func Collections() []Collection {
	return []Collection{Agents, Skills, Blog}
}

// ParseCollection accepts a collection name, allowing the singular form.
func ParseCollection(s string) (Collection, error) {
	switch s {
	case "agents", "agent":
		return Agents, nil
	case "skills", "skill":
		return Skills, nil
	case "blog", "post", "posts":
		return Blog, nil
	default:
		return "", errors.Errorf("unknown collection %q (want agents, skills or blog)", s)
	}
}

// Votable reports whether entries of the collection carry a vote widget.
func (c Collection) Votable() bool {
	return c == Agents || c == Skills
}

// Agent is the frontmatter of an entry in the agents collection.
type Agent struct {
	Title          string     `mapstructure:"title" json:"title" jsonschema:"required"`
	Description    string     `mapstructure:"description" json:"description" jsonschema:"required"`
	Author         string     `mapstructure:"author" json:"author" jsonschema:"required"`
	Category       string     `mapstructure:"category" json:"category" jsonschema:"required"`
	Tags           []string   `mapstructure:"tags" json:"tags" jsonschema:"required"`
	Repo           string     `mapstructure:"repo" json:"repo" jsonschema:"required,format=uri"`
	Downloads      int        `mapstructure:"downloads" json:"downloads" jsonschema:"default=0"`
	Rating         float64    `mapstructure:"rating" json:"rating" jsonschema:"minimum=0,maximum=5,default=0"`
	Votes          int        `mapstructure:"votes" json:"votes" jsonschema:"default=0"`
	Featured       bool       `mapstructure:"featured" json:"featured" jsonschema:"default=false"`
	InstallCommand string     `mapstructure:"install_command" json:"install_command" jsonschema:"required"`
	Screenshot     string     `mapstructure:"screenshot" json:"screenshot,omitempty"`
	Logo           string     `mapstructure:"logo" json:"logo,omitempty"`
	Published      *time.Time `mapstructure:"published" json:"published,omitempty"`
	Updated        *time.Time `mapstructure:"updated" json:"updated,omitempty"`
}

// Skill is the frontmatter of an entry in the skills collection.
type Skill struct {
	Title            string     `mapstructure:"title" json:"title" jsonschema:"required"`
	Description      string     `mapstructure:"description" json:"description" jsonschema:"required"`
	Author           string     `mapstructure:"author" json:"author" jsonschema:"required"`
	Category         string     `mapstructure:"category" json:"category" jsonschema:"required"`
	Tags             []string   `mapstructure:"tags" json:"tags" jsonschema:"required"`
	Repo             string     `mapstructure:"repo" json:"repo,omitempty" jsonschema:"format=uri"`
	Downloads        int        `mapstructure:"downloads" json:"downloads" jsonschema:"default=0"`
	Rating           float64    `mapstructure:"rating" json:"rating" jsonschema:"minimum=0,maximum=5,default=0"`
	Votes            int        `mapstructure:"votes" json:"votes" jsonschema:"default=0"`
	Featured         bool       `mapstructure:"featured" json:"featured" jsonschema:"default=false"`
	InstallCommand   string     `mapstructure:"install_command" json:"install_command" jsonschema:"required"`
	CompatibleAgents []string   `mapstructure:"compatible_agents" json:"compatible_agents"`
	Published        *time.Time `mapstructure:"published" json:"published,omitempty"`
	Updated          *time.Time `mapstructure:"updated" json:"updated,omitempty"`
}

// Post is the frontmatter of an entry in the blog collection.
type Post struct {
	Title         string     `mapstructure:"title" json:"title" jsonschema:"required"`
	Description   string     `mapstructure:"description" json:"description" jsonschema:"required"`
	Author        string     `mapstructure:"author" json:"author" jsonschema:"required"`
	Published     time.Time  `mapstructure:"published" json:"published" jsonschema:"required"`
	Updated       *time.Time `mapstructure:"updated" json:"updated,omitempty"`
	Category      string     `mapstructure:"category" json:"category" jsonschema:"required"`
	Tags          []string   `mapstructure:"tags" json:"tags" jsonschema:"required"`
	Featured      bool       `mapstructure:"featured" json:"featured" jsonschema:"default=false"`
	RelatedAgents []string   `mapstructure:"related_agents" json:"related_agents"`
	RelatedSkills []string   `mapstructure:"related_skills" json:"related_skills"`
	CoverImage    string     `mapstructure:"cover_image" json:"cover_image,omitempty"`
}

// requiredFields lists the frontmatter keys that must be present per
// collection.
var requiredFields = map[Collection][]string{
	Agents: {"title", "description", "author", "category", "tags", "repo", "install_command"},
	Skills: {"title", "description", "author", "category", "tags", "install_command"},
	Blog:   {"title", "description", "author", "published", "category", "tags"},
}
