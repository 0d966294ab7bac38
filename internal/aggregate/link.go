package aggregate

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/dt-pm-tools/jsm-panel/internal/config"
	"github.com/dt-pm-tools/jsm-panel/internal/jira"
)

var (
	linkRootFields   = []string{"issuelinks", "project", "subtasks", "summary", "status"}
	linkedIssueField = []string{"subtasks", "summary", "status", "issuelinks", "project"}
)

// LinkStrategy follows the root issue's links to issues whose key matches
// pattern and collects their subtasks.
type LinkStrategy struct {
	src     Source
	pattern *regexp.Regexp
	limit   int
}

func (s *LinkStrategy) Name() string { return config.StrategyLink }

// Collect implements Strategy.
func (s *LinkStrategy) Collect(ctx context.Context, rootKey string) (*Board, error) {
	root, err := s.src.GetIssue(ctx, rootKey, linkRootFields, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching root issue: %w", err)
	}

	board := &Board{MainIssue: summarize(root), SubTasks: []SubTask{}, Strategy: s.Name()}

	linked := s.linkedKeys(root.Fields.IssueLinks)
	slog.InfoContext(ctx, "linked issues matched",
		"links", len(root.Fields.IssueLinks),
		"matched", len(linked),
		"pattern", s.pattern.String(),
	)
	if len(linked) == 0 {
		return board, nil
	}

	perLink := fanOut(ctx, s.limit, linked, s.subtaskStubs)
	var stubs []jira.Issue
	for _, batch := range perLink {
		stubs = append(stubs, batch...)
	}
	if len(stubs) == 0 {
		return board, nil
	}

	board.SubTasks = fanOut(ctx, s.limit, stubs, s.enrich)
	return board, nil
}

// linkedKeys returns the distinct keys of linked issues that match the
// pattern, in link order.
func (s *LinkStrategy) linkedKeys(links []jira.IssueLink) []string {
	seen := mapset.NewThreadUnsafeSet[string]()
	var keys []string
	for _, link := range links {
		key := link.LinkedKey()
		if key == "" || !s.pattern.MatchString(key) {
			continue
		}
		if seen.Add(key) {
			keys = append(keys, key)
		}
	}
	return keys
}

func (s *LinkStrategy) subtaskStubs(ctx context.Context, key string) []jira.Issue {
	issue, err := s.src.GetIssue(ctx, key, linkedIssueField, []string{"subtasks"})
	if err != nil {
		slog.WarnContext(ctx, "skipping linked issue", "linked_key", key, "error", err)
		return nil
	}
	slog.DebugContext(ctx, "linked issue fetched", "linked_key", key, "subtasks", len(issue.Fields.Subtasks))
	return issue.Fields.Subtasks
}

func (s *LinkStrategy) enrich(ctx context.Context, st jira.Issue) SubTask {
	issue, err := s.src.GetIssue(ctx, st.Key, detailFields, detailExpand)
	if err != nil {
		slog.WarnContext(ctx, "subtask detail fetch failed, using stub", "subtask", st.Key, "error", err)
		return stub(st)
	}

	var comments []jira.Comment
	if issue.Fields.Comment != nil {
		comments = issue.Fields.Comment.Comments
	}
	return toSubTask(issue, comments)
}
