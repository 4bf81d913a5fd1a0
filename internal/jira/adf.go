package jira

import "strings"

// adfNode is a node of an Atlassian Document Format tree, as returned for
// rich-text fields by the v3 API.
type adfNode struct {
	Type    string         `json:"type"`
	Text    string         `json:"text"`
	Attrs   map[string]any `json:"attrs"`
	Content []adfNode      `json:"content"`
}

// PlainText flattens the document. Top-level blocks are separated by a blank line.
func (n adfNode) PlainText() string {
	var b strings.Builder
	if n.Type == "doc" || n.Type == "" {
		for _, block := range n.Content {
			block.write(&b)
			b.WriteString("\n")
		}
	} else {
		n.write(&b)
	}
	return strings.Trim(b.String(), "\n")
}

func (n adfNode) write(b *strings.Builder) {
	switch n.Type {
	case "text":
		b.WriteString(n.Text)
		return
	case "hardBreak":
		b.WriteString("\n")
		return
	case "mention", "emoji", "inlineCard":
		b.WriteString(n.attr("text", "shortName", "url"))
		return
	case "rule":
		b.WriteString("---\n")
		return
	case "listItem":
		b.WriteString("- ")
	}

	for _, child := range n.Content {
		child.write(b)
	}

	switch n.Type {
	case "paragraph", "heading", "codeBlock":
		b.WriteString("\n")
	}
}

// attr returns the first non-empty string attribute among names.
func (n adfNode) attr(names ...string) string {
	for _, name := range names {
		if s, ok := n.Attrs[name].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
