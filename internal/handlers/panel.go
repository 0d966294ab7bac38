package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/dt-pm-tools/jsm-panel/internal/aggregate"
	"github.com/dt-pm-tools/jsm-panel/internal/logger"
	"github.com/dt-pm-tools/jsm-panel/internal/workflow"
)

type panelHandlers struct {
	strategy aggregate.Strategy
	actions  Actions
}

func (h *panelHandlers) getSubTasksData(ctx context.Context, inv Invocation) (any, error) {
	key := inv.Context.IssueKey
	if key == "" {
		return nil, ErrMissingIssueKey
	}

	board, err := h.strategy.Collect(ctx, key)
	if err != nil {
		return nil, err
	}

	subtasksReturned.WithLabelValues(board.Strategy).Observe(float64(len(board.SubTasks)))
	return NewSubTasksResult(board), nil
}

func (h *panelHandlers) addComment(ctx context.Context, inv Invocation) (any, error) {
	var p commentPayload
	if err := decodePayload(inv.Payload, &p); err != nil {
		return nil, err
	}
	if p.IssueKey == "" {
		return nil, ErrMissingIssueKey
	}
	ctx = logger.WithFields(ctx, logger.Fields{IssueKey: p.IssueKey})

	created, err := h.actions.AddComment(ctx, p.IssueKey, p.Comment)
	if err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}
	return CommentResult{Result: Result{Success: true}, Comment: created}, nil
}

func (h *panelHandlers) uploadAttachment(ctx context.Context, inv Invocation) (any, error) {
	var p attachmentPayload
	if err := decodePayload(inv.Payload, &p); err != nil {
		return nil, err
	}
	if p.IssueKey == "" {
		return nil, ErrMissingIssueKey
	}
	ctx = logger.WithFields(ctx, logger.Fields{IssueKey: p.IssueKey})

	created, err := h.actions.UploadAttachment(ctx, p.IssueKey, p.FileName, p.FileContent, p.ContentType)
	if err != nil {
		return nil, fmt.Errorf("failed to upload attachment: %w", err)
	}
	return AttachmentResult{Result: Result{Success: true}, Attachment: created}, nil
}

func (h *panelHandlers) transition(intent workflow.Intent) Handler {
	return func(ctx context.Context, inv Invocation) (any, error) {
		var p issuePayload
		if err := decodePayload(inv.Payload, &p); err != nil {
			return nil, err
		}
		if p.IssueKey == "" {
			return nil, ErrMissingIssueKey
		}
		ctx = logger.WithFields(ctx, logger.Fields{IssueKey: p.IssueKey})

		chosen, err := h.actions.RunTransition(ctx, p.IssueKey, intent)
		if err != nil {
			return nil, err
		}
		return TransitionResult{
			Result:     Result{Success: true},
			Transition: chosen.Name,
			Status:     chosen.To.Name,
		}, nil
	}
}

func decodePayload(raw json.RawMessage, v any) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	return nil
}
