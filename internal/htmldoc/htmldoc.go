// Package htmldoc parses entry-point documents and appends resource links to
// their head element. A Document is parsed once, mutated by a single owner,
// and serialized once.
package htmldoc

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is the structural form of one HTML artifact.
type Document struct {
	root *html.Node
	head *html.Node
}

// Parse builds a Document from serialized HTML. The parser synthesizes
// missing html/head/body elements, so a head handle is available even for
// fragments.
func Parse(text string) (*Document, error) {
	root, err := html.Parse(strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("htmldoc: parse: %w", err)
	}
	head := findElement(root, atom.Head)
	if head == nil {
		return nil, errors.New("htmldoc: document has no head element")
	}
	return &Document{root: root, head: head}, nil
}

// AppendHeadLink appends <link rel="..." href="..."> as the last child of
// head. Existing head content is never touched.
func (d *Document) AppendHeadLink(rel, href string) {
	d.head.AppendChild(&html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Link,
		Data:     "link",
		Attr: []html.Attribute{
			{Key: "rel", Val: rel},
			{Key: "href", Val: href},
		},
	})
}

// Render serializes the document back to HTML.
func (d *Document) Render() (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, d.root); err != nil {
		return "", fmt.Errorf("htmldoc: render: %w", err)
	}
	return buf.String(), nil
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}
