// Package actions mutates subtasks on JIRA: comments, attachments and
// workflow transitions. Callers reload the board after a successful call.
package actions

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/dt-pm-tools/jsm-panel/internal/adf"
	"github.com/dt-pm-tools/jsm-panel/internal/jira"
	"github.com/dt-pm-tools/jsm-panel/internal/workflow"
)

// Tracker is the subset of the JIRA client the gateway writes through.
type Tracker interface {
	GetTransitions(ctx context.Context, key string) ([]jira.TransitionInfo, error)
	DoTransition(ctx context.Context, key, transitionID string) error
	AddComment(ctx context.Context, key string, body any) (json.RawMessage, error)
	AddAttachment(ctx context.Context, key, fileName, contentType string, content []byte) (json.RawMessage, error)
}

// ErrEmptyComment is returned when a comment has no text.
var ErrEmptyComment = errors.New("comment text is empty")

// Gateway runs mutating actions against a Tracker.
type Gateway struct {
	tracker Tracker
}

// NewGateway returns a Gateway writing through t.
func NewGateway(t Tracker) *Gateway {
	return &Gateway{tracker: t}
}

// AddComment posts text as a single-paragraph comment and returns the
// created comment as JIRA sent it back.
func (g *Gateway) AddComment(ctx context.Context, key, text string) (json.RawMessage, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyComment
	}
	return g.AddDocument(ctx, key, adf.Paragraph(text))
}

// AddDocument posts a prepared ADF document as a comment.
func (g *Gateway) AddDocument(ctx context.Context, key string, doc *adf.Node) (json.RawMessage, error) {
	if !adf.HasContent(doc) {
		return nil, ErrEmptyComment
	}

	created, err := g.tracker.AddComment(ctx, key, doc)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "comment added",
		"issue", key,
		"comment_id", gjson.GetBytes(created, "id").String(),
	)
	return created, nil
}

// UploadAttachment decodes base64Content and uploads it as fileName.
func (g *Gateway) UploadAttachment(ctx context.Context, key, fileName, base64Content, contentType string) (json.RawMessage, error) {
	if fileName == "" {
		return nil, fmt.Errorf("file name is required")
	}
	content, err := decodeBase64(base64Content)
	if err != nil {
		return nil, fmt.Errorf("decoding file content: %w", err)
	}

	created, err := g.tracker.AddAttachment(ctx, key, fileName, contentType, content)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, name := range gjson.GetBytes(created, "#.filename").Array() {
		names = append(names, name.String())
	}
	slog.InfoContext(ctx, "attachment uploaded",
		"issue", key,
		"bytes", len(content),
		"files", strings.Join(names, ","),
	)
	return created, nil
}

// RunTransition executes the transition that fits intent. Exactly one
// transition runs; none runs if nothing matches.
func (g *Gateway) RunTransition(ctx context.Context, key string, intent workflow.Intent) (jira.TransitionInfo, error) {
	transitions, err := g.tracker.GetTransitions(ctx, key)
	if err != nil {
		return jira.TransitionInfo{}, err
	}

	chosen, err := workflow.Select(transitions, intent)
	if err != nil {
		slog.WarnContext(ctx, "no transition for intent",
			"issue", key,
			"intent", string(intent),
			"available", workflow.Describe(transitions),
		)
		return jira.TransitionInfo{}, err
	}

	if err := g.tracker.DoTransition(ctx, key, chosen.ID); err != nil {
		return jira.TransitionInfo{}, err
	}

	slog.InfoContext(ctx, "transition executed",
		"issue", key,
		"intent", string(intent),
		"transition", chosen.Name,
		"to", chosen.To.Name,
	)
	return chosen, nil
}

// decodeBase64 accepts standard base64 with or without a data URL prefix
// such as "data:image/png;base64,".
func decodeBase64(s string) ([]byte, error) {
	if i := strings.Index(s, ";base64,"); i >= 0 && strings.HasPrefix(s, "data:") {
		s = s[i+len(";base64,"):]
	}
	s = strings.TrimSpace(s)
	if data, err := base64.StdEncoding.DecodeString(s); err == nil {
		return data, nil
	}
	return base64.RawStdEncoding.DecodeString(s)
}
