// Package adf reads Atlassian Document Format trees: plain-text extraction for
// summaries and markup rendering for display.
package adf

import (
	"encoding/json"
	"strings"
)

// Node is one node of an ADF tree. A nil Content means the field was absent,
// which is not the same as an empty list.
type Node struct {
	Type    string         `json:"type"`
	Version int            `json:"version,omitempty"`
	Content []Node         `json:"content,omitempty"`
	Text    string         `json:"text,omitempty"`
	Attrs   map[string]any `json:"attrs,omitempty"`
	Marks   []Mark         `json:"marks,omitempty"`
}

// Mark is an inline formatting mark on a text node.
type Mark struct {
	Type  string         `json:"type"`
	Attrs map[string]any `json:"attrs,omitempty"`
}

// Decode interprets a raw rich-text field. JIRA v3 sends ADF objects, older
// payloads send plain strings. A string comes back as text with a nil node;
// null, empty or malformed input yields neither.
func Decode(raw json.RawMessage) (*Node, string) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil, ""
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, ""
		}
		return nil, s
	}
	var n Node
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, ""
	}
	return &n, ""
}

// Paragraph builds a single-paragraph document holding text.
func Paragraph(text string) *Node {
	return &Node{
		Type:    "doc",
		Version: 1,
		Content: []Node{{
			Type:    "paragraph",
			Content: []Node{{Type: "text", Text: text}},
		}},
	}
}

func attrString(attrs map[string]any, key string) string {
	if s, ok := attrs[key].(string); ok {
		return s
	}
	return ""
}

func attrInt(attrs map[string]any, key string) int {
	switch v := attrs[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case json.Number:
		n, _ := v.Int64()
		return int(n)
	}
	return 0
}
