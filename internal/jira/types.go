package jira

import "encoding/json"

// Issue represents a JIRA issue from the REST API v3.
type Issue struct {
	ID     string `json:"id"`
	Key    string `json:"key"`
	Fields Fields `json:"fields"`
}

// Fields contains the issue fields we care about. Which of them are populated
// depends on the fields list passed to GetIssue.
type Fields struct {
	Summary     string          `json:"summary"`
	Status      *Status         `json:"status,omitempty"`
	IssueType   *IssueType      `json:"issuetype,omitempty"`
	Project     *Project        `json:"project,omitempty"`
	Assignee    *User           `json:"assignee,omitempty"`
	Description json.RawMessage `json:"description,omitempty"`
	Comment     *Comments       `json:"comment,omitempty"`
	Attachment  []Attachment    `json:"attachment,omitempty"`
	Subtasks    []Issue         `json:"subtasks,omitempty"`
	IssueLinks  []IssueLink     `json:"issuelinks,omitempty"`
	Updated     string          `json:"updated,omitempty"`
}

// Status represents a JIRA status.
type Status struct {
	ID             string          `json:"id,omitempty"`
	Name           string          `json:"name"`
	StatusCategory *StatusCategory `json:"statusCategory,omitempty"`
}

// StatusCategory represents the high-level category of a JIRA status.
type StatusCategory struct {
	Key  string `json:"key"`  // "new", "indeterminate", "done"
	Name string `json:"name"` // "To Do", "In Progress", "Done"
}

// IssueType represents a JIRA issue type.
type IssueType struct {
	Name    string `json:"name"`
	Subtask bool   `json:"subtask,omitempty"`
}

// Project represents the project an issue belongs to.
type Project struct {
	ID  string `json:"id,omitempty"`
	Key string `json:"key"`
}

// User represents a JIRA user. AvatarURLs is keyed by size ("48x48", "32x32", ...).
type User struct {
	AccountID    string            `json:"accountId"`
	DisplayName  string            `json:"displayName"`
	EmailAddress string            `json:"emailAddress,omitempty"`
	AvatarURLs   map[string]string `json:"avatarUrls,omitempty"`
	Avatar       string            `json:"avatar,omitempty"`
}

// Comments wraps the comments array from the JIRA API. The same shape is
// returned by the issue "comment" field and by GET /issue/{key}/comment.
type Comments struct {
	Comments []Comment `json:"comments"`
	Total    int       `json:"total,omitempty"`
}

// Comment represents a single JIRA comment. Body is kept raw: v3 returns ADF
// but older payloads carry plain strings.
type Comment struct {
	ID      string          `json:"id"`
	Author  User            `json:"author"`
	Body    json.RawMessage `json:"body"`
	Created string          `json:"created"`
	Updated string          `json:"updated"`
}

// Attachment is a file attached to an issue.
type Attachment struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	MimeType string `json:"mimeType,omitempty"`
	Size     int64  `json:"size"`
	Content  string `json:"content"`
}

// IssueLink is one entry of the issuelinks field. Exactly one of InwardIssue
// and OutwardIssue is set.
type IssueLink struct {
	ID           string         `json:"id,omitempty"`
	Type         *IssueLinkType `json:"type,omitempty"`
	InwardIssue  *Issue         `json:"inwardIssue,omitempty"`
	OutwardIssue *Issue         `json:"outwardIssue,omitempty"`
}

// IssueLinkType names the relationship of an issue link.
type IssueLinkType struct {
	Name    string `json:"name"`
	Inward  string `json:"inward,omitempty"`
	Outward string `json:"outward,omitempty"`
}

// LinkedKey returns the key of the issue on the other end of the link.
func (l IssueLink) LinkedKey() string {
	if l.OutwardIssue != nil && l.OutwardIssue.Key != "" {
		return l.OutwardIssue.Key
	}
	if l.InwardIssue != nil {
		return l.InwardIssue.Key
	}
	return ""
}

// Transition is used to change issue status.
type Transition struct {
	ID string `json:"id"`
}

// TransitionPayload is the body for POST /rest/api/3/issue/{key}/transitions.
type TransitionPayload struct {
	Transition Transition `json:"transition"`
}

// TransitionsResponse is the response from GET transitions.
type TransitionsResponse struct {
	Transitions []TransitionInfo `json:"transitions"`
}

// TransitionInfo describes an available transition.
type TransitionInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	To   Status `json:"to"`
}

// CommentPayload is the body for POST /rest/api/3/issue/{key}/comment.
type CommentPayload struct {
	Body any `json:"body"`
}
