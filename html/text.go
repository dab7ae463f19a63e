package html

import (
	"fmt"
	"strings"

	"ereader/render"
)

// Text formats content as plain text in a light markdown style: marked
// headings, blank lines between blocks, bulleted lists and "> " quotes.
// Paragraphs are wrapped at width cells; width 0 leaves them on one line.
func Text(root *Node, width int) string {
	var lines []string
	writeBlocks(root.Children, width, &lines)

	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

func writeBlocks(blocks []*Node, width int, lines *[]string) {
	for _, n := range blocks {
		switch n.Type {
		case NodeHeading1:
			*lines = append(*lines, "# "+n.Text, "")
		case NodeHeading2:
			*lines = append(*lines, "## "+n.Text, "")
		case NodeHeading3:
			*lines = append(*lines, "### "+n.Text, "")

		case NodeParagraph:
			text := inlineText(n)
			if text == "" {
				continue
			}
			*lines = append(*lines, render.WrapText(text, width)...)
			*lines = append(*lines, "")

		case NodeList:
			for i, item := range n.Children {
				marker := "  * "
				if n.Ordered {
					marker = fmt.Sprintf("  %d. ", i+1)
				}
				indent := strings.Repeat(" ", len(marker))
				for j, line := range render.WrapText(inlineText(item), max(width-len(marker), 0)) {
					if j == 0 {
						*lines = append(*lines, marker+line)
					} else {
						*lines = append(*lines, indent+line)
					}
				}
			}
			*lines = append(*lines, "")

		case NodeBlockquote:
			var inner []string
			writeBlocks(n.Children, max(width-2, 0), &inner)
			for len(inner) > 0 && inner[len(inner)-1] == "" {
				inner = inner[:len(inner)-1]
			}
			for _, line := range inner {
				*lines = append(*lines, strings.TrimRight("> "+line, " "))
			}
			*lines = append(*lines, "")

		case NodeCodeBlock:
			code := strings.Trim(strings.ReplaceAll(n.Text, "\r\n", "\n"), "\n")
			for _, line := range strings.Split(code, "\n") {
				*lines = append(*lines, strings.TrimRight("    "+line, " "))
			}
			*lines = append(*lines, "")

		case NodeRule:
			*lines = append(*lines, "* * *", "")
		}
	}
}

// inlineText flattens inline nodes, collapsing whitespace. Line breaks
// from <br> survive as newlines.
func inlineText(n *Node) string {
	var sb strings.Builder
	appendInline(n, &sb)

	parts := strings.Split(sb.String(), "\n")
	for i, p := range parts {
		parts[i] = strings.Join(strings.Fields(p), " ")
	}
	return strings.Trim(strings.Join(parts, "\n"), "\n")
}

func appendInline(n *Node, sb *strings.Builder) {
	for _, c := range n.Children {
		switch c.Type {
		case NodeText:
			sb.WriteString(c.Text)
		case NodeCode:
			sb.WriteString("`" + c.Text + "`")
		case NodeLineBreak:
			sb.WriteString("\n")
		case NodeStrong:
			wrapInline(c, "**", sb)
		case NodeEmphasis:
			wrapInline(c, "_", sb)
		default:
			appendInline(c, sb)
		}
	}
}

// wrapInline writes c between markers, keeping surrounding spaces outside.
func wrapInline(c *Node, marker string, sb *strings.Builder) {
	var inner strings.Builder
	appendInline(c, &inner)
	s := inner.String()
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		sb.WriteString(s)
		return
	}
	if s[0] == ' ' || s[0] == '\n' || s[0] == '\t' {
		sb.WriteByte(' ')
	}
	sb.WriteString(marker + strings.Join(strings.Fields(trimmed), " ") + marker)
	if last := s[len(s)-1]; last == ' ' || last == '\n' || last == '\t' {
		sb.WriteByte(' ')
	}
}
