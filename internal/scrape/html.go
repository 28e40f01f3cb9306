package scrape

import (
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// First returns the first node matched by the selectors, trying them in order.
func First(doc *html.Node, sels ...cascadia.Selector) *html.Node {
	if doc == nil {
		return nil
	}
	for _, sel := range sels {
		if n := cascadia.Query(doc, sel); n != nil {
			return n
		}
	}
	return nil
}

// FirstText tries the selectors in order and returns the joined text of every node
// matched by the first selector that yields non-empty text.
func FirstText(doc *html.Node, sels ...cascadia.Selector) string {
	if doc == nil {
		return ""
	}
	for _, sel := range sels {
		if text := JoinText(cascadia.QueryAll(doc, sel)); text != "" {
			return text
		}
	}
	return ""
}

func Attr(n *html.Node, key string) string {
	if n == nil {
		return ""
	}
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

var blockElements = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Li: true, atom.Ul: true, atom.Ol: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Tr: true, atom.Table: true, atom.Section: true, atom.Article: true,
	atom.Blockquote: true, atom.Pre: true,
}

var skippedElements = map[atom.Atom]bool{
	atom.Script: true, atom.Style: true, atom.Noscript: true, atom.Iframe: true,
	atom.Button: true, atom.Template: true,
}

// Text returns the visible text of n with one line per line of rendered text. <br> and
// block elements break lines, surrounding whitespace is trimmed from every line and
// runs of blank lines collapse to a single one.
func Text(n *html.Node) string {
	if n == nil {
		return ""
	}

	var b strings.Builder
	writeText(&b, n)
	return tidyLines(b.String())
}

// JoinText concatenates the text of several nodes, separated by a blank line.
func JoinText(nodes []*html.Node) string {
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if t := Text(n); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n\n")
}

func writeText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(collapseSpace(n.Data))
		return
	case html.ElementNode:
		if skippedElements[n.DataAtom] {
			return
		}
		// Genius marks annotation headers this way.
		if Attr(n, "data-exclude-from-selection") == "true" {
			return
		}
		if n.DataAtom == atom.Br {
			b.WriteByte('\n')
			return
		}
	case html.CommentNode:
		return
	}

	block := n.Type == html.ElementNode && blockElements[n.DataAtom]
	if block {
		b.WriteByte('\n')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(b, c)
	}
	if block {
		b.WriteByte('\n')
	}
}

func collapseSpace(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	if strings.TrimSpace(s) == "" {
		if s == "" {
			return ""
		}
		return " "
	}

	var b strings.Builder
	space := false
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', '\f':
			space = true
		default:
			if space {
				b.WriteByte(' ')
				space = false
			}
			b.WriteRune(r)
		}
	}
	if space {
		b.WriteByte(' ')
	}
	return b.String()
}

func tidyLines(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			blank = true
			continue
		}
		if blank && len(out) > 0 {
			out = append(out, "")
		}
		blank = false
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
