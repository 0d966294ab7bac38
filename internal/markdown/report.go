package markdown

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dt-pm-tools/jsm-panel/internal/adf"
	"github.com/dt-pm-tools/jsm-panel/internal/aggregate"
	"github.com/dt-pm-tools/jsm-panel/internal/board"
	"github.com/dt-pm-tools/jsm-panel/internal/config"
	"github.com/dt-pm-tools/jsm-panel/internal/status"
)

// ReportOptions configure Report.
type ReportOptions struct {
	BaseURL string
	Panel   config.PanelConfig
	// Now stamps the report; zero means time.Now.
	Now time.Time
}

// Report renders b as markdown with a YAML frontmatter block.
func Report(b *aggregate.Board, opts ReportOptions) (string, error) {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	progress := board.ComputeProgress(b.SubTasks)

	fm := Frontmatter{
		Key:       b.MainIssue.Key,
		Title:     b.MainIssue.Summary,
		Status:    b.MainIssue.Status,
		Strategy:  b.Strategy,
		SubTasks:  progress.Total,
		Completed: progress.Completed,
		Progress:  fmt.Sprintf("%d%%", progress.Percent()),
		Generated: now.UTC().Format(time.RFC3339),
	}
	if baseURL != "" {
		fm.URL = issueURL(baseURL, b.MainIssue.Key)
	}
	header, err := yaml.Marshal(fm)
	if err != nil {
		return "", fmt.Errorf("marshalling frontmatter: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("---\n")
	sb.Write(header)
	sb.WriteString("---\n\n")
	fmt.Fprintf(&sb, "# %s: %s\n\n", b.MainIssue.Key, b.MainIssue.Summary)

	if b.Empty() {
		sb.WriteString("There are no sub-tasks associated with this request.\n")
		return sb.String(), nil
	}

	fmt.Fprintf(&sb, "**Progress:** %d%% done (%d completed, %d waiting, %d in progress, %d other)\n\n",
		progress.Percent(), progress.Completed, progress.Waiting, progress.InProgress, progress.Neutral)

	for _, g := range board.Groups(b.SubTasks) {
		fmt.Fprintf(&sb, "## %s\n\n", g.Bucket)
		for _, st := range g.SubTasks {
			writeSubTask(&sb, st, baseURL, opts.Panel)
		}
	}
	return sb.String(), nil
}

func writeSubTask(sb *strings.Builder, st aggregate.SubTask, baseURL string, panel config.PanelConfig) {
	title := st.Key
	if baseURL != "" {
		title = fmt.Sprintf("[%s](%s)", st.Key, issueURL(baseURL, st.Key))
	}
	fmt.Fprintf(sb, "### %s: %s\n\n", title, st.Summary)
	fmt.Fprintf(sb, "- **Status:** %s\n", status.Label(st.Status))
	fmt.Fprintf(sb, "- **Team:** %s\n", board.Team(panel, st))
	if board.CanDecide(st) {
		sb.WriteString("- **Decision required**\n")
	}
	if !st.Enriched {
		sb.WriteString("- _Details could not be loaded._\n")
	}
	sb.WriteString("\n")

	if st.Description != "" {
		sb.WriteString(strings.TrimRight(st.Description, "\n"))
		sb.WriteString("\n\n")
	}

	if len(st.Attachments) > 0 {
		sb.WriteString("**Attachments**\n\n")
		for _, a := range st.Attachments {
			fmt.Fprintf(sb, "- [%s](%s) (%s)\n", a.Filename, a.Content, board.FormatFileSize(a.Size))
		}
		sb.WriteString("\n")
	}

	for _, c := range st.Comments {
		fmt.Fprintf(sb, "#### %s - %s\n\n", c.Author.DisplayName, formatDate(c.Created))
		body := commentMarkdown(c)
		sb.WriteString(body)
		if !strings.HasSuffix(body, "\n") {
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}
}

// commentMarkdown prefers the structured body and falls back to plain text.
func commentMarkdown(c aggregate.Comment) string {
	doc, text := adf.Decode(c.Body)
	if doc != nil {
		if md := strings.TrimRight(FromADF(doc), "\n"); md != "" {
			return md + "\n"
		}
	}
	if text != "" {
		return text
	}
	return c.BodyText
}

func issueURL(baseURL, key string) string {
	return fmt.Sprintf("%s/browse/%s", baseURL, key)
}

var dateLayouts = []string{
	"2006-01-02T15:04:05.000-0700",
	"2006-01-02T15:04:05.000Z0700",
	time.RFC3339,
}

func formatDate(iso string) string {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, iso); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return iso
}
