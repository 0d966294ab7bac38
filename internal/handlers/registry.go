// Package handlers exposes the panel operations as named handlers. A Registry
// is built once at startup and handed to whichever transport invokes it.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sort"
	"time"

	"github.com/dt-pm-tools/jsm-panel/internal/aggregate"
	"github.com/dt-pm-tools/jsm-panel/internal/jira"
	"github.com/dt-pm-tools/jsm-panel/internal/logger"
	"github.com/dt-pm-tools/jsm-panel/internal/workflow"
)

// Handler names as called by the panel front end.
const (
	GetSubTasksData  = "getSubTasksData"
	AddComment       = "addComment"
	UploadAttachment = "uploadAttachment"
	ApproveSubTask   = "approveSubTask"
	RejectSubTask    = "rejectSubTask"
)

var (
	ErrMissingIssueKey = errors.New("no issue key found in request")
	ErrUnknownHandler  = errors.New("unknown handler")
)

// Actions is the mutating side of the panel, implemented by actions.Gateway.
type Actions interface {
	AddComment(ctx context.Context, key, text string) (json.RawMessage, error)
	UploadAttachment(ctx context.Context, key, fileName, base64Content, contentType string) (json.RawMessage, error)
	RunTransition(ctx context.Context, key string, intent workflow.Intent) (jira.TransitionInfo, error)
}

// Handler runs one operation. A returned error becomes a failed Result.
type Handler func(ctx context.Context, inv Invocation) (any, error)

// Registry maps handler names to handlers.
type Registry struct {
	handlers map[string]Handler
}

// NewRegistry registers every panel handler against strategy and actions.
func NewRegistry(strategy aggregate.Strategy, actions Actions) *Registry {
	h := &panelHandlers{strategy: strategy, actions: actions}
	return &Registry{handlers: map[string]Handler{
		GetSubTasksData:  h.getSubTasksData,
		AddComment:       h.addComment,
		UploadAttachment: h.uploadAttachment,
		ApproveSubTask:   h.transition(workflow.Approve),
		RejectSubTask:    h.transition(workflow.Reject),
	}}
}

// Names returns the registered handler names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.handlers[name]
	return ok
}

// Invoke runs the named handler. Only an unknown name yields an error; every
// handler failure, panics included, comes back as a Result with Success false.
func (r *Registry) Invoke(ctx context.Context, name string, inv Invocation) (any, error) {
	h, ok := r.handlers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownHandler, name)
	}

	ctx = logger.WithFields(ctx, logger.Fields{Handler: name, IssueKey: inv.Context.IssueKey})
	start := time.Now()
	slog.InfoContext(ctx, "handler invoked", "account_id", inv.Context.AccountID)

	result, err := safeCall(ctx, h, inv)
	invocationDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())

	if err != nil {
		invocationsTotal.WithLabelValues(name, outcomeFailure).Inc()
		slog.ErrorContext(ctx, "handler failed", "error", err)
		return Fail(err), nil
	}

	invocationsTotal.WithLabelValues(name, outcomeSuccess).Inc()
	slog.InfoContext(ctx, "handler succeeded", "latency_ms", time.Since(start).Milliseconds())
	return result, nil
}

func safeCall(ctx context.Context, h Handler, inv Invocation) (result any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.ErrorContext(ctx, "panic recovered in handler",
				"panic", rec,
				"stack", string(debug.Stack()),
			)
			result, err = nil, fmt.Errorf("internal error: %v", rec)
		}
	}()
	return h(ctx, inv)
}
