package html

import (
	"errors"
	"strings"

	nethtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrNoDocument is returned when the markup yields no parse tree.
var ErrNoDocument = errors.New("html: no document")

// skipped elements never contribute visible text.
var skipped = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
	atom.Svg:      true,
}

// block elements end a line of text.
var block = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Br: true, atom.Hr: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Li: true, atom.Tr: true, atom.Table: true, atom.Blockquote: true, atom.Pre: true,
	atom.Section: true, atom.Article: true, atom.Title: true, atom.Body: true, atom.Head: true,
}

// VisibleText parses markup and returns its visible text, one non-blank
// trimmed line per line.
func VisibleText(markup string) (string, error) {
	root, err := nethtml.Parse(strings.NewReader(markup))
	if err != nil {
		return "", err
	}
	if root == nil {
		return "", ErrNoDocument
	}

	var sb strings.Builder
	collect(root, &sb)
	return CollapseLines(sb.String()), nil
}

func collect(n *nethtml.Node, sb *strings.Builder) {
	switch n.Type {
	case nethtml.TextNode:
		sb.WriteString(n.Data)
		return
	case nethtml.CommentNode, nethtml.DoctypeNode:
		return
	case nethtml.ElementNode:
		if skipped[n.DataAtom] {
			return
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collect(c, sb)
	}

	if n.Type == nethtml.ElementNode && block[n.DataAtom] {
		sb.WriteByte('\n')
	}
}

// CollapseLines trims every line and drops the blank ones.
func CollapseLines(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
