package content

// Entry is one loaded and validated content item. Exactly one of Agent, Skill
// and Post is set, matching Collection.
type Entry struct {
	Collection Collection `json:"collection"`
	Slug       string     `json:"slug"`
	Path       string     `json:"-"`
	Body       string     `json:"-"`
	HTML       string     `json:"-"`

	Agent *Agent `json:"agent,omitempty"`
	Skill *Skill `json:"skill,omitempty"`
	Post  *Post  `json:"post,omitempty"`
}

// ItemID is the stable identifier the vote widget keys its state on.
func (e *Entry) ItemID() string {
	return e.Slug
}

// InitialScore is the vote total shipped with the content.
func (e *Entry) InitialScore() int {
	switch {
	case e.Agent != nil:
		return e.Agent.Votes
	case e.Skill != nil:
		return e.Skill.Votes
	default:
		return 0
	}
}

// Votable reports whether the entry shows a vote widget.
func (e *Entry) Votable() bool {
	return e.Collection.Votable()
}

func (e *Entry) Title() string {
	switch {
	case e.Agent != nil:
		return e.Agent.Title
	case e.Skill != nil:
		return e.Skill.Title
	case e.Post != nil:
		return e.Post.Title
	}
	return e.Slug
}

func (e *Entry) Description() string {
	switch {
	case e.Agent != nil:
		return e.Agent.Description
	case e.Skill != nil:
		return e.Skill.Description
	case e.Post != nil:
		return e.Post.Description
	}
	return ""
}

func (e *Entry) Author() string {
	switch {
	case e.Agent != nil:
		return e.Agent.Author
	case e.Skill != nil:
		return e.Skill.Author
	case e.Post != nil:
		return e.Post.Author
	}
	return ""
}

func (e *Entry) Category() string {
	switch {
	case e.Agent != nil:
		return e.Agent.Category
	case e.Skill != nil:
		return e.Skill.Category
	case e.Post != nil:
		return e.Post.Category
	}
	return ""
}

func (e *Entry) Tags() []string {
	switch {
	case e.Agent != nil:
		return e.Agent.Tags
	case e.Skill != nil:
		return e.Skill.Tags
	case e.Post != nil:
		return e.Post.Tags
	}
	return nil
}

func (e *Entry) Featured() bool {
	switch {
	case e.Agent != nil:
		return e.Agent.Featured
	case e.Skill != nil:
		return e.Skill.Featured
	case e.Post != nil:
		return e.Post.Featured
	}
	return false
}

// Downloads is zero for blog posts.
func (e *Entry) Downloads() int {
	switch {
	case e.Agent != nil:
		return e.Agent.Downloads
	case e.Skill != nil:
		return e.Skill.Downloads
	}
	return 0
}

// Rating is zero for blog posts.
func (e *Entry) Rating() float64 {
	switch {
	case e.Agent != nil:
		return e.Agent.Rating
	case e.Skill != nil:
		return e.Skill.Rating
	}
	return 0
}

// Repo may be empty for skills and is always empty for blog posts.
func (e *Entry) Repo() string {
	switch {
	case e.Agent != nil:
		return e.Agent.Repo
	case e.Skill != nil:
		return e.Skill.Repo
	}
	return ""
}

func (e *Entry) InstallCommand() string {
	switch {
	case e.Agent != nil:
		return e.Agent.InstallCommand
	case e.Skill != nil:
		return e.Skill.InstallCommand
	}
	return ""
}
