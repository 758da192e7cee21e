package terminal

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var blocks = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Br: true, atom.Li: true, atom.Tr: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.Section: true,
	atom.Table: true, atom.Ul: true, atom.Ol: true, atom.Iframe: true, atom.Embed: true,
}

// FragmentText flattens an HTML fragment to plain text, one line per block
// element. Embedded documents are replaced by their source URL.
func FragmentText(fragment string) (string, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return "", err
	}

	var lines []string
	var cur strings.Builder
	flush := func() {
		if line := strings.Join(strings.Fields(cur.String()), " "); line != "" {
			lines = append(lines, line)
		}
		cur.Reset()
	}

	var visit func(n *html.Node)
	visit = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			cur.WriteString(n.Data)
			cur.WriteByte(' ')
			return
		case html.ElementNode:
			switch n.DataAtom {
			case atom.Script, atom.Style:
				return
			case atom.Iframe, atom.Embed, atom.Object:
				flush()
				for _, a := range n.Attr {
					if a.Key == "src" || a.Key == "data" {
						cur.WriteString("[document] " + a.Val)
					}
				}
				flush()
				return
			}
		}
		if blocks[n.DataAtom] {
			flush()
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
		if blocks[n.DataAtom] {
			flush()
		}
	}
	for _, n := range nodes {
		visit(n)
	}
	flush()
	return strings.Join(lines, "\n"), nil
}
