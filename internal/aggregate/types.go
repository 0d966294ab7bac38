// Package aggregate collects the subtasks shown for a service request and
// enriches each with status, comments and attachments.
package aggregate

import (
	"context"
	"encoding/json"

	"github.com/dt-pm-tools/jsm-panel/internal/adf"
	"github.com/dt-pm-tools/jsm-panel/internal/jira"
	"github.com/dt-pm-tools/jsm-panel/internal/status"
)

// Source is the subset of the JIRA client the strategies read from.
type Source interface {
	GetIssue(ctx context.Context, key string, fields, expand []string) (*jira.Issue, error)
	GetComments(ctx context.Context, key string) ([]jira.Comment, error)
}

// Strategy discovers and enriches the subtasks of a root issue.
type Strategy interface {
	Name() string
	Collect(ctx context.Context, rootKey string) (*Board, error)
}

// Board is the combined view of a root issue and its subtasks.
type Board struct {
	MainIssue IssueSummary `json:"mainIssue"`
	SubTasks  []SubTask    `json:"subTasks"`
	Strategy  string       `json:"strategy"`
}

// Empty reports whether no subtasks were found.
func (b *Board) Empty() bool {
	return len(b.SubTasks) == 0
}

// IssueSummary identifies an issue and its current status.
type IssueSummary struct {
	Key      string          `json:"key"`
	ID       string          `json:"id,omitempty"`
	Summary  string          `json:"summary"`
	Status   string          `json:"status"`
	Category status.Category `json:"category"`
}

// SubTask is one subtask as shown on the board. Enriched is false when the
// detail fetch failed and only the stub from the parent is available.
type SubTask struct {
	IssueSummary
	Assignee    string       `json:"assignee,omitempty"`
	Description string       `json:"description,omitempty"`
	Attachments []Attachment `json:"attachments"`
	Comments    []Comment    `json:"comments"`
	Enriched    bool         `json:"enriched"`
}

// Attachment is a file attached to a subtask.
type Attachment struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	Content  string `json:"content"`
	Size     int64  `json:"size"`
	MimeType string `json:"mimeType,omitempty"`
}

// Comment is a subtask comment with its body in raw, plain and HTML form.
type Comment struct {
	ID       string          `json:"id"`
	Body     json.RawMessage `json:"body"`
	BodyText string          `json:"bodyText"`
	BodyHTML string          `json:"bodyHtml"`
	Created  string          `json:"created"`
	Updated  string          `json:"updated"`
	Author   Author          `json:"author"`
}

// Author is the user who wrote a comment.
type Author struct {
	AccountID   string `json:"accountId"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
}

// avatarSizes are probed in order, largest first.
var avatarSizes = []string{"48x48", "32x32", "24x24", "16x16"}

func avatarURL(u jira.User) string {
	for _, size := range avatarSizes {
		if url := u.AvatarURLs[size]; url != "" {
			return url
		}
	}
	return u.Avatar
}

func summarize(issue *jira.Issue) IssueSummary {
	s := IssueSummary{Key: issue.Key, ID: issue.ID, Summary: issue.Fields.Summary}
	if issue.Fields.Status != nil {
		s.Status = issue.Fields.Status.Name
	}
	s.Category = status.Classify(s.Status)
	return s
}

func stub(issue jira.Issue) SubTask {
	return SubTask{
		IssueSummary: summarize(&issue),
		Attachments:  []Attachment{},
		Comments:     []Comment{},
	}
}

func toSubTask(issue *jira.Issue, comments []jira.Comment) SubTask {
	st := SubTask{
		IssueSummary: summarize(issue),
		Description:  adf.PlainText(issue.Fields.Description),
		Attachments:  make([]Attachment, 0, len(issue.Fields.Attachment)),
		Comments:     make([]Comment, 0, len(comments)),
		Enriched:     true,
	}
	if issue.Fields.Assignee != nil {
		st.Assignee = issue.Fields.Assignee.DisplayName
	}
	for _, a := range issue.Fields.Attachment {
		st.Attachments = append(st.Attachments, Attachment{
			ID:       a.ID,
			Filename: a.Filename,
			Content:  a.Content,
			Size:     a.Size,
			MimeType: a.MimeType,
		})
	}
	for _, c := range comments {
		st.Comments = append(st.Comments, toComment(c))
	}
	return st
}

func toComment(c jira.Comment) Comment {
	return Comment{
		ID:       c.ID,
		Body:     c.Body,
		BodyText: adf.PlainText(c.Body),
		BodyHTML: adf.RenderRawHTML(c.Body),
		Created:  c.Created,
		Updated:  c.Updated,
		Author: Author{
			AccountID:   c.Author.AccountID,
			DisplayName: c.Author.DisplayName,
			AvatarURL:   avatarURL(c.Author),
		},
	}
}
