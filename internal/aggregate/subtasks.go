package aggregate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dt-pm-tools/jsm-panel/internal/config"
	"github.com/dt-pm-tools/jsm-panel/internal/jira"
)

var subtaskRootFields = []string{"subtasks", "summary", "status", "project"}

// SubtaskStrategy reads the root issue's own subtasks, fetching details and
// the comment collection of each separately.
type SubtaskStrategy struct {
	src   Source
	limit int
}

func (s *SubtaskStrategy) Name() string { return config.StrategySubtasks }

// Collect implements Strategy.
func (s *SubtaskStrategy) Collect(ctx context.Context, rootKey string) (*Board, error) {
	root, err := s.src.GetIssue(ctx, rootKey, subtaskRootFields, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching root issue: %w", err)
	}

	board := &Board{MainIssue: summarize(root), SubTasks: []SubTask{}, Strategy: s.Name()}
	if len(root.Fields.Subtasks) == 0 {
		return board, nil
	}

	board.SubTasks = fanOut(ctx, s.limit, root.Fields.Subtasks, s.enrich)
	return board, nil
}

func (s *SubtaskStrategy) enrich(ctx context.Context, st jira.Issue) SubTask {
	issue, err := s.src.GetIssue(ctx, st.Key, subtaskFields, nil)
	if err != nil {
		slog.WarnContext(ctx, "subtask detail fetch failed, using stub", "subtask", st.Key, "error", err)
		return stub(st)
	}

	comments, err := s.src.GetComments(ctx, st.Key)
	if err != nil {
		slog.WarnContext(ctx, "subtask comments fetch failed, using stub", "subtask", st.Key, "error", err)
		return stub(st)
	}

	return toSubTask(issue, comments)
}
