package markdown

import (
	"regexp"
	"strings"

	"github.com/dt-pm-tools/jsm-panel/internal/adf"
)

var (
	orderedItemRe  = regexp.MustCompile(`^\d+\.\s`)
	bulletItemRe   = regexp.MustCompile(`^[-*]\s`)
	nestedBulletRe = regexp.MustCompile(`^(\s{2,}|\t)[-*]\s`)
	nestedOrderRe  = regexp.MustCompile(`^(\s{2,}|\t)\d+\.\s`)
)

// ToADF converts a markdown comment draft into an ADF document. Supported:
// paragraphs, ATX headings, bullet and ordered lists (one nesting level),
// fenced code, blockquotes, rules and the inline marks FromADF emits.
func ToADF(md string) *adf.Node {
	doc := &adf.Node{Type: "doc", Version: 1, Content: []adf.Node{}}
	doc.Content = append(doc.Content, parseBlocks(strings.Split(md, "\n"))...)
	return doc
}

func parseBlocks(lines []string) []adf.Node {
	var blocks []adf.Node
	for i := 0; i < len(lines); {
		line := lines[i]
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			i++

		case isRule(trimmed):
			blocks = append(blocks, adf.Node{Type: "rule"})
			i++

		case headingLevel(line) > 0:
			level := headingLevel(line)
			blocks = append(blocks, adf.Node{
				Type:    "heading",
				Attrs:   map[string]any{"level": level},
				Content: parseInline(strings.TrimSpace(line[level:])),
			})
			i++

		case strings.HasPrefix(trimmed, "```"):
			var node adf.Node
			node, i = parseFence(lines, i)
			blocks = append(blocks, node)

		case strings.HasPrefix(line, ">"):
			var quoted []string
			for ; i < len(lines) && strings.HasPrefix(lines[i], ">"); i++ {
				quoted = append(quoted, strings.TrimPrefix(strings.TrimPrefix(lines[i], ">"), " "))
			}
			blocks = append(blocks, adf.Node{Type: "blockquote", Content: parseBlocks(quoted)})

		case bulletItemRe.MatchString(line):
			var items []adf.Node
			items, i = parseItems(lines, i, false)
			blocks = append(blocks, adf.Node{Type: "bulletList", Content: items})

		case orderedItemRe.MatchString(line):
			var items []adf.Node
			items, i = parseItems(lines, i, true)
			blocks = append(blocks, adf.Node{Type: "orderedList", Content: items})

		default:
			var para []string
			for ; i < len(lines) && !startsBlock(lines[i]); i++ {
				para = append(para, strings.TrimSpace(lines[i]))
			}
			blocks = append(blocks, adf.Node{Type: "paragraph", Content: parseInline(strings.Join(para, " "))})
		}
	}
	return blocks
}

func startsBlock(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed == "" ||
		isRule(trimmed) ||
		headingLevel(line) > 0 ||
		strings.HasPrefix(trimmed, "```") ||
		strings.HasPrefix(line, ">") ||
		bulletItemRe.MatchString(line) ||
		orderedItemRe.MatchString(line)
}

func isRule(trimmed string) bool {
	return trimmed == "---" || trimmed == "***" || trimmed == "___"
}

// headingLevel returns 1-6 for an ATX heading line, else 0.
func headingLevel(line string) int {
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	if level == 0 || level > 6 || level == len(line) || line[level] != ' ' {
		return 0
	}
	return level
}

func parseFence(lines []string, i int) (adf.Node, int) {
	lang := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(lines[i]), "```"))
	var code []string
	for i++; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "```" {
			i++
			break
		}
		code = append(code, lines[i])
	}
	// JIRA rejects empty text nodes.
	node := adf.Node{Type: "codeBlock"}
	if text := strings.Join(code, "\n"); text != "" {
		node.Content = []adf.Node{{Type: "text", Text: text}}
	}
	if lang != "" {
		node.Attrs = map[string]any{"language": lang}
	}
	return node, i
}

func parseItems(lines []string, i int, ordered bool) ([]adf.Node, int) {
	marker := bulletItemRe
	if ordered {
		marker = orderedItemRe
	}

	var items []adf.Node
	for i < len(lines) {
		loc := marker.FindStringIndex(lines[i])
		if loc == nil {
			break
		}
		item := adf.Node{Type: "listItem", Content: []adf.Node{{
			Type:    "paragraph",
			Content: parseInline(lines[i][loc[1]:]),
		}}}
		i++

		for _, nested := range []struct {
			re      *regexp.Regexp
			ordered bool
			kind    string
		}{{nestedBulletRe, false, "bulletList"}, {nestedOrderRe, true, "orderedList"}} {
			var sub []string
			for ; i < len(lines) && nested.re.MatchString(lines[i]); i++ {
				sub = append(sub, strings.TrimLeft(lines[i], " \t"))
			}
			if len(sub) > 0 {
				subItems, _ := parseItems(sub, 0, nested.ordered)
				item.Content = append(item.Content, adf.Node{Type: nested.kind, Content: subItems})
			}
		}
		items = append(items, item)
	}
	return items, i
}

// inlineRules are tried at every position; the earliest match wins and ties
// go to the rule listed first.
var inlineRules = []struct {
	re   *regexp.Regexp
	mark func(m []string) adf.Mark
}{
	{regexp.MustCompile(`\[([^\]]+)\]\(([^)\s]+)\)`), func(m []string) adf.Mark {
		return adf.Mark{Type: "link", Attrs: map[string]any{"href": m[2]}}
	}},
	{regexp.MustCompile(`\*\*([^*]+)\*\*`), func([]string) adf.Mark { return adf.Mark{Type: "strong"} }},
	{regexp.MustCompile(`~~([^~]+)~~`), func([]string) adf.Mark { return adf.Mark{Type: "strike"} }},
	{regexp.MustCompile("`([^`]+)`"), func([]string) adf.Mark { return adf.Mark{Type: "code"} }},
	{regexp.MustCompile(`<u>([^<]+)</u>`), func([]string) adf.Mark { return adf.Mark{Type: "underline"} }},
	{regexp.MustCompile(`\*([^*]+)\*`), func([]string) adf.Mark { return adf.Mark{Type: "em"} }},
}

// parseInline splits text into marked text nodes. Empty input yields no nodes.
func parseInline(text string) []adf.Node {
	var nodes []adf.Node
	for text != "" {
		best, bestLoc := -1, []int(nil)
		for r, rule := range inlineRules {
			loc := rule.re.FindStringSubmatchIndex(text)
			if loc != nil && (bestLoc == nil || loc[0] < bestLoc[0]) {
				best, bestLoc = r, loc
			}
		}
		if best < 0 {
			nodes = append(nodes, adf.Node{Type: "text", Text: text})
			break
		}

		if bestLoc[0] > 0 {
			nodes = append(nodes, adf.Node{Type: "text", Text: text[:bestLoc[0]]})
		}
		groups := make([]string, len(bestLoc)/2)
		for g := range groups {
			if bestLoc[2*g] >= 0 {
				groups[g] = text[bestLoc[2*g]:bestLoc[2*g+1]]
			}
		}
		nodes = append(nodes, adf.Node{
			Type:  "text",
			Text:  groups[1],
			Marks: []adf.Mark{inlineRules[best].mark(groups)},
		})
		text = text[bestLoc[1]:]
	}
	return nodes
}
