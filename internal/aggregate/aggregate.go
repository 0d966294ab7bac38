package aggregate

import (
	"context"
	"fmt"
	"regexp"

	"golang.org/x/sync/errgroup"

	"github.com/dt-pm-tools/jsm-panel/internal/config"
)

// Fields requested for each subtask's detail fetch.
var (
	detailFields  = []string{"summary", "status", "description", "assignee", "issuetype", "priority", "comment", "attachment"}
	detailExpand  = []string{"renderedFields"}
	subtaskFields = []string{"summary", "status", "assignee", "description", "attachment"}
)

// New returns the strategy named by cfg.Strategy.
func New(cfg config.PanelConfig, src Source) (Strategy, error) {
	limit := cfg.Concurrency
	if limit < 1 {
		limit = 1
	}

	switch cfg.Strategy {
	case config.StrategyLink, "":
		pattern, err := regexp.Compile(cfg.LinkPattern)
		if err != nil {
			return nil, fmt.Errorf("compiling link pattern: %w", err)
		}
		return &LinkStrategy{src: src, pattern: pattern, limit: limit}, nil
	case config.StrategySubtasks:
		return &SubtaskStrategy{src: src, limit: limit}, nil
	default:
		return nil, fmt.Errorf("unknown aggregation strategy %q", cfg.Strategy)
	}
}

// fanOut runs fn over items with at most limit calls in flight and returns
// the results in input order. fn must not fail; failures are folded into R.
func fanOut[T, R any](ctx context.Context, limit int, items []T, fn func(context.Context, T) R) []R {
	results := make([]R, len(items))

	var g errgroup.Group
	g.SetLimit(limit)
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			results[i] = fn(ctx, item)
			return nil
		})
	}
	_ = g.Wait()

	return results
}
