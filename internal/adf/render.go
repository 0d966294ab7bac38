package adf

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const defaultHeadingLevel = 3

// RenderMarkup maps a document tree to an HTML element tree. It returns nil
// for nodes that render nothing.
func RenderMarkup(n *Node) *html.Node {
	if n == nil {
		return nil
	}

	switch n.Type {
	case "doc":
		return container("div", "adf-document", n.Content)
	case "paragraph":
		return container("p", "adf-paragraph", n.Content)
	case "heading":
		level := attrInt(n.Attrs, "level")
		if level < 1 || level > 6 {
			level = defaultHeadingLevel
		}
		return container("h"+strconv.Itoa(level), "adf-heading", n.Content)
	case "text":
		span := element("span", "")
		span.AppendChild(applyMarks(textNode(n.Text), n.Marks))
		return span
	case "bulletList":
		return container("ul", "adf-bullet-list", n.Content)
	case "orderedList":
		return container("ol", "adf-ordered-list", n.Content)
	case "listItem":
		return container("li", "adf-list-item", n.Content)
	case "mention":
		span := element("span", "adf-mention")
		span.AppendChild(textNode("@" + strings.TrimPrefix(attrString(n.Attrs, "text"), "@")))
		return span
	case "emoji":
		shortName := attrString(n.Attrs, "shortName")
		label := attrString(n.Attrs, "text")
		if label == "" {
			label = shortName
		}
		span := element("span", "adf-emoji", html.Attribute{Key: "title", Val: shortName})
		span.AppendChild(textNode(label))
		return span
	case "hardBreak":
		return element("br", "")
	case "rule":
		return element("hr", "adf-rule")
	case "blockquote":
		return container("blockquote", "adf-blockquote", n.Content)
	case "codeBlock":
		var code strings.Builder
		for _, child := range n.Content {
			code.WriteString(child.Text)
		}
		inner := element("code", "")
		inner.AppendChild(textNode(code.String()))
		pre := element("pre", "adf-code-block")
		pre.AppendChild(inner)
		return pre
	case "panel":
		panelType := attrString(n.Attrs, "panelType")
		if panelType == "" {
			panelType = "info"
		}
		return container("div", "adf-panel adf-panel-"+panelType, n.Content)
	default:
		if n.Content == nil {
			return nil
		}
		typ := n.Type
		if typ == "" {
			typ = "unknown"
		}
		return container("div", "adf-"+typ, n.Content)
	}
}

// applyMarks wraps content once per mark, in list order, so the first mark
// ends up innermost.
func applyMarks(content *html.Node, marks []Mark) *html.Node {
	for _, mark := range marks {
		var wrapper *html.Node
		switch mark.Type {
		case "strong":
			wrapper = element("strong", "")
		case "em":
			wrapper = element("em", "")
		case "strike":
			wrapper = element("del", "")
		case "code":
			wrapper = element("code", "adf-code")
		case "underline":
			wrapper = element("u", "")
		case "link":
			href := attrString(mark.Attrs, "href")
			if href == "" {
				continue
			}
			wrapper = element("a", "adf-link",
				html.Attribute{Key: "href", Val: href},
				html.Attribute{Key: "target", Val: "_blank"},
				html.Attribute{Key: "rel", Val: "noopener noreferrer"},
			)
		default:
			continue
		}
		wrapper.AppendChild(content)
		content = wrapper
	}
	return content
}

// RenderHTML renders a document to an HTML string.
func RenderHTML(n *Node) string {
	return renderString(RenderMarkup(n))
}

// RenderRawHTML renders a raw rich-text field. Plain strings and null are
// wrapped in a bare div.
func RenderRawHTML(raw json.RawMessage) string {
	doc, text := Decode(raw)
	if doc != nil {
		return RenderHTML(doc)
	}
	div := element("div", "")
	div.AppendChild(textNode(text))
	return renderString(div)
}

func renderString(n *html.Node) string {
	if n == nil {
		return ""
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return ""
	}
	return buf.String()
}

func container(tag, class string, children []Node) *html.Node {
	el := element(tag, class)
	for i := range children {
		if child := RenderMarkup(&children[i]); child != nil {
			el.AppendChild(child)
		}
	}
	return el
}

func element(tag, class string, attrs ...html.Attribute) *html.Node {
	el := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	if class != "" {
		el.Attr = append(el.Attr, html.Attribute{Key: "class", Val: class})
	}
	el.Attr = append(el.Attr, attrs...)
	return el
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
