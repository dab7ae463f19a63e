// Package html extracts readable content from (X)HTML documents.
package html

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Document is a parsed page.
type Document struct {
	Content *Node
}

// Node represents a content node in the document.
type Node struct {
	Type     NodeType
	Text     string
	Children []*Node
	Ordered  bool // for lists
}

// NodeType identifies the kind of content node.
type NodeType int

const (
	NodeDocument NodeType = iota
	NodeHeading1
	NodeHeading2
	NodeHeading3
	NodeParagraph
	NodeBlockquote
	NodeList
	NodeListItem
	NodeCode
	NodeCodeBlock
	NodeRule
	NodeLink
	NodeText
	NodeStrong
	NodeEmphasis
	NodeLineBreak
)

// Elements that never carry reading content.
const skipSelector = "head, script, style, noscript, template, svg"

// Parse extracts the body content from HTML.
func Parse(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}
	doc.Find(skipSelector).Remove()

	root := &Node{Type: NodeDocument}

	body := doc.Find("body").First()
	if body.Length() == 0 {
		body = doc.Selection
	}
	for _, n := range body.Nodes {
		extractContent(n, root)
	}
	return &Document{Content: root}, nil
}

// ParseString parses HTML from a string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

var inlineTags = map[string]bool{
	"a": true, "abbr": true, "b": true, "bdi": true, "bdo": true, "br": true,
	"cite": true, "code": true, "dfn": true, "em": true, "i": true, "img": true,
	"kbd": true, "mark": true, "q": true, "s": true, "samp": true, "small": true,
	"span": true, "strong": true, "sub": true, "sup": true, "time": true,
	"u": true, "var": true,
}

func extractContent(n *html.Node, parent *Node) {
	// Loose inline content between blocks is gathered into one paragraph.
	var loose *Node
	flush := func() {
		if loose != nil && strings.TrimSpace(loose.PlainText()) != "" {
			parent.Children = append(parent.Children, loose)
		}
		loose = nil
	}
	addInline := func(c *html.Node) {
		if loose == nil {
			loose = &Node{Type: NodeParagraph}
		}
		extractInlineNode(c, loose)
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			addInline(c)

		case html.ElementNode:
			if inlineTags[c.Data] {
				addInline(c)
				continue
			}
			flush()

			switch c.Data {
			case "h1":
				parent.Children = append(parent.Children, &Node{Type: NodeHeading1, Text: textContent(c)})

			case "h2":
				parent.Children = append(parent.Children, &Node{Type: NodeHeading2, Text: textContent(c)})

			case "h3", "h4", "h5", "h6":
				parent.Children = append(parent.Children, &Node{Type: NodeHeading3, Text: textContent(c)})

			case "p", "dt", "dd", "figcaption", "caption":
				node := &Node{Type: NodeParagraph}
				extractInline(c, node)
				parent.Children = append(parent.Children, node)

			case "blockquote":
				node := &Node{Type: NodeBlockquote}
				extractContent(c, node)
				parent.Children = append(parent.Children, node)

			case "ul", "ol":
				node := &Node{Type: NodeList, Ordered: c.Data == "ol"}
				extractList(c, node)
				parent.Children = append(parent.Children, node)

			case "pre":
				parent.Children = append(parent.Children, &Node{Type: NodeCodeBlock, Text: rawText(c)})

			case "hr":
				parent.Children = append(parent.Children, &Node{Type: NodeRule})

			case "tr":
				node := &Node{Type: NodeParagraph}
				extractRow(c, node)
				parent.Children = append(parent.Children, node)

			default:
				// Containers: section, div, article, table, figure and friends.
				extractContent(c, parent)
			}
		}
	}
	flush()
}

func extractList(n *html.Node, parent *Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "li" {
			item := &Node{Type: NodeListItem}
			extractInline(c, item)
			parent.Children = append(parent.Children, item)
		}
	}
}

func extractRow(n *html.Node, parent *Node) {
	first := true
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || (c.Data != "td" && c.Data != "th") {
			continue
		}
		if !first {
			parent.Children = append(parent.Children, &Node{Type: NodeText, Text: " | "})
		}
		first = false
		extractInline(c, parent)
	}
}

func extractInline(n *html.Node, parent *Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		extractInlineNode(c, parent)
	}
}

func extractInlineNode(c *html.Node, parent *Node) {
	switch c.Type {
	case html.TextNode:
		if c.Data != "" {
			parent.Children = append(parent.Children, &Node{Type: NodeText, Text: c.Data})
		}

	case html.ElementNode:
		switch c.Data {
		case "a":
			link := &Node{Type: NodeLink}
			extractInline(c, link)
			parent.Children = append(parent.Children, link)

		case "strong", "b":
			node := &Node{Type: NodeStrong}
			extractInline(c, node)
			parent.Children = append(parent.Children, node)

		case "em", "i":
			node := &Node{Type: NodeEmphasis}
			extractInline(c, node)
			parent.Children = append(parent.Children, node)

		case "code":
			parent.Children = append(parent.Children, &Node{Type: NodeCode, Text: textContent(c)})

		case "br":
			parent.Children = append(parent.Children, &Node{Type: NodeLineBreak})

		case "img":
			if alt := strings.TrimSpace(getAttr(c, "alt")); alt != "" {
				parent.Children = append(parent.Children, &Node{Type: NodeText, Text: "[" + alt + "]"})
			}

		default:
			extractInline(c, parent)
		}
	}
}

func textContent(n *html.Node) string {
	return strings.Join(strings.Fields(rawText(n)), " ")
}

func rawText(n *html.Node) string {
	var sb strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return sb.String()
}

func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// PlainText returns the plain text content of a node and its children.
func (n *Node) PlainText() string {
	var sb strings.Builder
	n.appendPlainText(&sb)
	return sb.String()
}

func (n *Node) appendPlainText(sb *strings.Builder) {
	if n.Text != "" {
		sb.WriteString(n.Text)
	}
	for _, child := range n.Children {
		child.appendPlainText(sb)
	}
}
