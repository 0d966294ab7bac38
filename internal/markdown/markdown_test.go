package markdown

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/dt-pm-tools/jsm-panel/internal/adf"
	"github.com/dt-pm-tools/jsm-panel/internal/aggregate"
	"github.com/dt-pm-tools/jsm-panel/internal/config"
	"github.com/dt-pm-tools/jsm-panel/internal/status"
)

func sampleBoard() *aggregate.Board {
	done := aggregate.SubTask{
		IssueSummary: aggregate.IssueSummary{Key: "JSW-2", Summary: "Order hardware", Status: "Done", Category: status.Completed},
		Assignee:     "Ada Lovelace",
		Description:  "PO 42\n",
		Attachments:  []aggregate.Attachment{{Filename: "po.pdf", Content: "https://jira/att/1", Size: 1536}},
		Comments: []aggregate.Comment{{
			Body:    json.RawMessage(`{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"shipped","marks":[{"type":"strong"}]}]}]}`),
			Created: "2025-01-15T10:30:00.000+0000",
			Author:  aggregate.Author{DisplayName: "Ada"},
		}},
		Enriched: true,
	}
	waiting := aggregate.SubTask{
		IssueSummary: aggregate.IssueSummary{Key: "JSW-3", Summary: "Approve budget", Status: "Waiting for approval", Category: status.WaitingForApproval},
	}
	return &aggregate.Board{
		MainIssue: aggregate.IssueSummary{Key: "SD-1", Summary: "New laptop", Status: "Open"},
		SubTasks:  []aggregate.SubTask{done, waiting},
		Strategy:  "link",
	}
}

func splitReport(t *testing.T, report string) (Frontmatter, string) {
	t.Helper()
	require.True(t, strings.HasPrefix(report, "---\n"))
	rest := strings.TrimPrefix(report, "---\n")
	end := strings.Index(rest, "---\n")
	require.GreaterOrEqual(t, end, 0)

	var fm Frontmatter
	require.NoError(t, yaml.Unmarshal([]byte(rest[:end]), &fm))
	return fm, rest[end+len("---\n"):]
}

func TestReport(t *testing.T) {
	now := time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC)
	report, err := Report(sampleBoard(), ReportOptions{
		BaseURL: "https://example.atlassian.net/",
		Panel:   config.PanelConfig{Teams: map[string]string{"ada lovelace": "Hardware"}},
		Now:     now,
	})
	require.NoError(t, err)

	fm, body := splitReport(t, report)
	assert.Equal(t, Frontmatter{
		Key:       "SD-1",
		Title:     "New laptop",
		Status:    "Open",
		Strategy:  "link",
		SubTasks:  2,
		Completed: 1,
		Progress:  "50%",
		URL:       "https://example.atlassian.net/browse/SD-1",
		Generated: "2025-02-01T08:00:00Z",
	}, fm)

	assert.Contains(t, body, "# SD-1: New laptop")
	assert.Contains(t, body, "## Requires Input")
	assert.Contains(t, body, "## Completed")
	assert.Less(t, strings.Index(body, "## Requires Input"), strings.Index(body, "## Completed"))
	assert.Contains(t, body, "### [JSW-2](https://example.atlassian.net/browse/JSW-2): Order hardware")
	assert.Contains(t, body, "- **Team:** Hardware")
	assert.Contains(t, body, "- **Status:** Waiting for Approval")
	assert.Contains(t, body, "- **Decision required**")
	assert.Contains(t, body, "- _Details could not be loaded._")
	assert.Contains(t, body, "- [po.pdf](https://jira/att/1) (1.5 KB)")
	assert.Contains(t, body, "#### Ada - 2025-01-15")
	assert.Contains(t, body, "**shipped**")
}

func TestReportEmptyBoard(t *testing.T) {
	report, err := Report(&aggregate.Board{MainIssue: aggregate.IssueSummary{Key: "SD-2"}, SubTasks: []aggregate.SubTask{}}, ReportOptions{})
	require.NoError(t, err)

	fm, body := splitReport(t, report)
	assert.Equal(t, 0, fm.SubTasks)
	assert.Equal(t, "0%", fm.Progress)
	assert.Empty(t, fm.URL)
	assert.Contains(t, body, "no sub-tasks")
}

func TestCommentMarkdownFallsBackToText(t *testing.T) {
	assert.Equal(t, "plain", commentMarkdown(aggregate.Comment{Body: json.RawMessage(`"plain"`)}))
	assert.Equal(t, "derived\n", commentMarkdown(aggregate.Comment{BodyText: "derived\n"}))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "2025-01-15", formatDate("2025-01-15T10:30:00.000+0000"))
	assert.Equal(t, "2025-01-15", formatDate("2025-01-15T10:30:00Z"))
	assert.Equal(t, "yesterday", formatDate("yesterday"))
}

func TestFromADF(t *testing.T) {
	doc := &adf.Node{Type: "doc", Content: []adf.Node{
		{Type: "heading", Attrs: map[string]any{"level": float64(2)}, Content: []adf.Node{{Type: "text", Text: "Plan"}}},
		{Type: "paragraph", Content: []adf.Node{
			{Type: "text", Text: "ping "},
			{Type: "mention", Attrs: map[string]any{"text": "@Ada"}},
			{Type: "text", Text: " see "},
			{Type: "text", Text: "docs", Marks: []adf.Mark{{Type: "link", Attrs: map[string]any{"href": "https://x"}}}},
		}},
		{Type: "bulletList", Content: []adf.Node{
			{Type: "listItem", Content: []adf.Node{
				{Type: "paragraph", Content: []adf.Node{{Type: "text", Text: "one"}}},
				{Type: "orderedList", Content: []adf.Node{
					{Type: "listItem", Content: []adf.Node{{Type: "paragraph", Content: []adf.Node{{Type: "text", Text: "nested"}}}}},
				}},
			}},
			{Type: "listItem", Content: []adf.Node{{Type: "paragraph", Content: []adf.Node{{Type: "text", Text: "two"}}}}},
		}},
		{Type: "codeBlock", Attrs: map[string]any{"language": "go"}, Content: []adf.Node{{Type: "text", Text: "x := 1"}}},
		{Type: "panel", Attrs: map[string]any{"panelType": "warning"}, Content: []adf.Node{
			{Type: "paragraph", Content: []adf.Node{{Type: "text", Text: "careful"}}},
		}},
		{Type: "rule"},
	}}

	want := "## Plan\n\n" +
		"ping @Ada see [docs](https://x)\n\n" +
		"- one\n" +
		"  1. nested\n" +
		"- two\n\n" +
		"```go\nx := 1\n```\n\n" +
		"> **WARNING:** careful\n\n" +
		"---\n\n"
	assert.Equal(t, want, FromADF(doc))
}

func TestMarkTextOrder(t *testing.T) {
	got := markText("x", []adf.Mark{{Type: "strong"}, {Type: "em"}})
	assert.Equal(t, "***x***", got)
	assert.Equal(t, "x", markText("x", []adf.Mark{{Type: "link"}}))
}

func TestToADF(t *testing.T) {
	md := "# Status\n\n" +
		"Order **placed** and `tracked`,\nsee [link](https://x).\n\n" +
		"- first\n" +
		"  - child\n" +
		"- second\n\n" +
		"1. step\n\n" +
		"> quoted\n\n" +
		"```sh\nmake\n```\n\n" +
		"---\n"

	doc := ToADF(md)
	require.Equal(t, "doc", doc.Type)
	assert.Equal(t, 1, doc.Version)

	var types []string
	for _, n := range doc.Content {
		types = append(types, n.Type)
	}
	assert.Equal(t, []string{"heading", "paragraph", "bulletList", "orderedList", "blockquote", "codeBlock", "rule"}, types)

	assert.Equal(t, map[string]any{"level": 1}, doc.Content[0].Attrs)

	para := doc.Content[1].Content
	require.Len(t, para, 7)
	assert.Equal(t, "placed", para[1].Text)
	assert.Equal(t, "strong", para[1].Marks[0].Type)
	assert.Equal(t, "tracked", para[3].Text)
	assert.Equal(t, "code", para[3].Marks[0].Type)
	assert.Equal(t, ", see ", para[4].Text)
	assert.Equal(t, "https://x", para[5].Marks[0].Attrs["href"])

	bullets := doc.Content[2].Content
	require.Len(t, bullets, 2)
	require.Len(t, bullets[0].Content, 2)
	assert.Equal(t, "bulletList", bullets[0].Content[1].Type)

	assert.Equal(t, "make", doc.Content[5].Content[0].Text)
	assert.Equal(t, "sh", doc.Content[5].Attrs["language"])
}

func TestToADFPlainTextMatchesParagraph(t *testing.T) {
	assert.Equal(t, adf.ExtractText(adf.Paragraph("just words")), adf.ExtractText(ToADF("just words")))
}

func TestMarkdownRoundTrip(t *testing.T) {
	md := "## Heading\n\nsome *soft* and **bold** text\n\n- a\n- b\n\n"
	assert.Equal(t, md, FromADF(ToADF(md)))
}

func emptyTextNodes(n adf.Node) int {
	count := 0
	if n.Type == "text" && n.Text == "" {
		count++
	}
	for _, child := range n.Content {
		count += emptyTextNodes(child)
	}
	return count
}

func TestToADFBlankBlocksHaveNoEmptyText(t *testing.T) {
	doc := ToADF("# \n\n- \n- item\n\n1. \n\n```\n```\n")

	var types []string
	for _, n := range doc.Content {
		types = append(types, n.Type)
	}
	assert.Equal(t, []string{"heading", "bulletList", "orderedList", "codeBlock"}, types)
	assert.Empty(t, doc.Content[0].Content)
	assert.Empty(t, doc.Content[3].Content)
	assert.Zero(t, emptyTextNodes(*doc))
	assert.Empty(t, parseInline(""))
}
