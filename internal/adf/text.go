package adf

import (
	"encoding/json"
	"strings"
)

// ExtractText flattens a document to plain text. Only top-level paragraphs,
// headings and list items are emitted; every other block type is skipped.
func ExtractText(doc *Node) string {
	if doc == nil || doc.Content == nil {
		return ""
	}

	var b strings.Builder
	for _, block := range doc.Content {
		switch block.Type {
		case "paragraph", "heading":
			if block.Content == nil {
				continue
			}
			for _, item := range block.Content {
				writeInlineText(&b, item)
			}
			b.WriteString("\n")

		case "bulletList", "orderedList":
			for _, item := range block.Content {
				if item.Type != "listItem" || item.Content == nil {
					continue
				}
				for _, inner := range item.Content {
					for _, leaf := range inner.Content {
						if leaf.Type == "text" {
							b.WriteString("• ")
							b.WriteString(leaf.Text)
							b.WriteString("\n")
						}
					}
				}
			}
		}
	}
	return b.String()
}

// HasContent reports whether doc holds anything a reader would see: non-blank
// text at any depth, a mention, an emoji, a rule or media. Unlike ExtractText
// it looks inside every block type.
func HasContent(doc *Node) bool {
	if doc == nil {
		return false
	}
	switch doc.Type {
	case "text":
		return strings.TrimSpace(doc.Text) != ""
	case "mention", "emoji", "rule", "media", "inlineCard":
		return true
	}
	for i := range doc.Content {
		if HasContent(&doc.Content[i]) {
			return true
		}
	}
	return false
}

func writeInlineText(b *strings.Builder, n Node) {
	switch n.Type {
	case "text":
		b.WriteString(n.Text)
	case "mention":
		b.WriteString("@")
		b.WriteString(attrString(n.Attrs, "text"))
	case "emoji":
		b.WriteString(attrString(n.Attrs, "shortName"))
	case "hardBreak":
		b.WriteString("\n")
	}
}

// PlainText extracts text from a raw rich-text field, passing plain strings
// through unchanged.
func PlainText(raw json.RawMessage) string {
	doc, text := Decode(raw)
	if doc == nil {
		return text
	}
	return ExtractText(doc)
}
