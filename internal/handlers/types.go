package handlers

import (
	"encoding/json"

	"github.com/dt-pm-tools/jsm-panel/internal/aggregate"
)

// Invocation is one call from the panel front end.
type Invocation struct {
	Payload json.RawMessage `json:"payload,omitempty"`
	Context Context         `json:"context"`
}

// Context is supplied by the host: the calling user and the issue the panel
// is shown on.
type Context struct {
	AccountID string `json:"accountId,omitempty"`
	IssueKey  string `json:"issueKey,omitempty"`
}

// Result is the outcome shared by every handler response.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Fail converts err into a failed Result.
func Fail(err error) Result {
	return Result{Success: false, Error: err.Error()}
}

// SubTasksResult answers getSubTasksData.
type SubTasksResult struct {
	Result
	MainIssue  *aggregate.IssueSummary `json:"mainIssue,omitempty"`
	SubTasks   []aggregate.SubTask     `json:"subTasks"`
	NoSubTasks bool                    `json:"noSubTasks,omitempty"`
	Strategy   string                  `json:"strategy,omitempty"`
}

// NewSubTasksResult wraps a collected board as a successful result.
func NewSubTasksResult(b *aggregate.Board) SubTasksResult {
	return SubTasksResult{
		Result:     Result{Success: true},
		MainIssue:  &b.MainIssue,
		SubTasks:   b.SubTasks,
		NoSubTasks: b.Empty(),
		Strategy:   b.Strategy,
	}
}

// CommentResult answers addComment with the comment JIRA created.
type CommentResult struct {
	Result
	Comment json.RawMessage `json:"comment,omitempty"`
}

// AttachmentResult answers uploadAttachment with JIRA's attachment list.
type AttachmentResult struct {
	Result
	Attachment json.RawMessage `json:"attachment,omitempty"`
}

// TransitionResult answers approveSubTask and rejectSubTask.
type TransitionResult struct {
	Result
	Transition string `json:"transition,omitempty"`
	Status     string `json:"status,omitempty"`
}

type commentPayload struct {
	IssueKey string `json:"issueKey"`
	Comment  string `json:"comment"`
}

type attachmentPayload struct {
	IssueKey    string `json:"issueKey"`
	FileName    string `json:"fileName"`
	FileContent string `json:"fileContent"`
	ContentType string `json:"contentType"`
}

type issuePayload struct {
	IssueKey string `json:"issueKey"`
}
