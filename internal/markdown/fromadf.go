package markdown

import (
	"fmt"
	"strings"

	"github.com/dt-pm-tools/jsm-panel/internal/adf"
)

// FromADF converts an ADF tree to markdown. Node types markdown cannot
// express fall back to their children.
func FromADF(doc *adf.Node) string {
	if doc == nil {
		return ""
	}
	var sb strings.Builder
	writeNode(&sb, doc, "")
	return sb.String()
}

func writeNode(sb *strings.Builder, n *adf.Node, listPrefix string) {
	switch n.Type {
	case "doc":
		writeChildren(sb, n)

	case "paragraph":
		writeChildren(sb, n)
		sb.WriteString("\n\n")

	case "heading":
		level := intAttr(n, "level", 3)
		if level < 1 || level > 6 {
			level = 3
		}
		sb.WriteString(strings.Repeat("#", level) + " ")
		writeChildren(sb, n)
		sb.WriteString("\n\n")

	case "bulletList", "orderedList":
		writeList(sb, n, "")
		sb.WriteString("\n")

	case "codeBlock":
		fmt.Fprintf(sb, "```%s\n", stringAttr(n, "language"))
		for _, child := range n.Content {
			sb.WriteString(child.Text)
		}
		sb.WriteString("\n```\n\n")

	case "blockquote":
		writeQuoted(sb, n, "")

	case "panel":
		writeQuoted(sb, n, fmt.Sprintf("**%s:** ", strings.ToUpper(stringAttrOr(n, "panelType", "info"))))

	case "rule":
		sb.WriteString("---\n\n")

	case "text":
		sb.WriteString(markText(n.Text, n.Marks))

	case "hardBreak":
		sb.WriteString("\n")

	case "mention":
		sb.WriteString("@" + strings.TrimPrefix(stringAttr(n, "text"), "@"))

	case "emoji":
		sb.WriteString(stringAttrOr(n, "text", stringAttr(n, "shortName")))

	case "inlineCard":
		fmt.Fprintf(sb, "<%s>", stringAttr(n, "url"))

	default:
		writeChildren(sb, n)
	}
}

func writeChildren(sb *strings.Builder, n *adf.Node) {
	for i := range n.Content {
		writeNode(sb, &n.Content[i], "")
	}
}

// writeList emits one line per item; nested lists are indented under their
// parent item.
func writeList(sb *strings.Builder, list *adf.Node, indent string) {
	for i, item := range list.Content {
		marker := "- "
		if list.Type == "orderedList" {
			marker = fmt.Sprintf("%d. ", i+1)
		}
		first := true
		for j := range item.Content {
			child := &item.Content[j]
			switch {
			case child.Type == "bulletList" || child.Type == "orderedList":
				writeList(sb, child, indent+strings.Repeat(" ", len(marker)))
			case first:
				sb.WriteString(indent + marker)
				var line strings.Builder
				writeChildren(&line, child)
				sb.WriteString(line.String() + "\n")
				first = false
			default:
				var line strings.Builder
				writeChildren(&line, child)
				sb.WriteString(indent + strings.Repeat(" ", len(marker)) + line.String() + "\n")
			}
		}
	}
}

func writeQuoted(sb *strings.Builder, n *adf.Node, lead string) {
	var inner strings.Builder
	writeChildren(&inner, n)
	for i, line := range strings.Split(strings.TrimRight(inner.String(), "\n"), "\n") {
		if i == 0 {
			line = lead + line
		}
		sb.WriteString(strings.TrimRight("> "+line, " ") + "\n")
	}
	sb.WriteString("\n")
}

// markText wraps text in mark syntax in list order, first mark innermost.
func markText(text string, marks []adf.Mark) string {
	for _, m := range marks {
		switch m.Type {
		case "strong":
			text = "**" + text + "**"
		case "em":
			text = "*" + text + "*"
		case "code":
			text = "`" + text + "`"
		case "strike":
			text = "~~" + text + "~~"
		case "underline":
			text = "<u>" + text + "</u>"
		case "link":
			if href, ok := m.Attrs["href"].(string); ok && href != "" {
				text = fmt.Sprintf("[%s](%s)", text, href)
			}
		}
	}
	return text
}

func stringAttr(n *adf.Node, key string) string {
	s, _ := n.Attrs[key].(string)
	return s
}

func stringAttrOr(n *adf.Node, key, fallback string) string {
	if s := stringAttr(n, key); s != "" {
		return s
	}
	return fallback
}

func intAttr(n *adf.Node, key string, fallback int) int {
	switch v := n.Attrs[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return fallback
}
