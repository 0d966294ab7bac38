package logger

import "context"

type contextKey string

const fieldsKey contextKey = "log_fields"

// Fields are attached to every log record written with a context carrying them.
type Fields struct {
	RequestID string
	Handler   string
	IssueKey  string
}

// WithFields merges fields into ctx. Non-empty values in f win.
func WithFields(ctx context.Context, f Fields) context.Context {
	merged := GetFields(ctx)
	if f.RequestID != "" {
		merged.RequestID = f.RequestID
	}
	if f.Handler != "" {
		merged.Handler = f.Handler
	}
	if f.IssueKey != "" {
		merged.IssueKey = f.IssueKey
	}
	return context.WithValue(ctx, fieldsKey, merged)
}

// GetFields returns the fields stored in ctx, or the zero value.
func GetFields(ctx context.Context) Fields {
	if f, ok := ctx.Value(fieldsKey).(Fields); ok {
		return f
	}
	return Fields{}
}
