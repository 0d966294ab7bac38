// Package markdown exports a loaded board as a markdown report and turns
// markdown comment drafts into ADF documents.
package markdown

// Frontmatter is the YAML header of a board report.
type Frontmatter struct {
	Key       string `yaml:"key"`
	Title     string `yaml:"title"`
	Status    string `yaml:"status"`
	Strategy  string `yaml:"strategy"`
	SubTasks  int    `yaml:"subtasks"`
	Completed int    `yaml:"completed"`
	Progress  string `yaml:"progress"`
	URL       string `yaml:"url,omitempty"`
	Generated string `yaml:"generated"`
}
