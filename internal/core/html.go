package core

import (
	"fmt"
	"io"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// RewriteHTMLTree rewrites the href attribute of every anchor element under n.
// Hrefs are rewritten in decoded form and re-escaped, so rendered
// percent-escapes are lower-cased by the character they encode.
func RewriteHTMLTree(n *html.Node, c Classification) {
	if n.Type == html.ElementNode && n.DataAtom == atom.A {
		for i, attr := range n.Attr {
			if attr.Namespace == "" && attr.Key == "href" {
				n.Attr[i].Val = rewriteEscaped(attr.Val, c)
			}
		}
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		RewriteHTMLTree(child, c)
	}
}

// RewriteHTML parses r as an HTML body fragment of the document at path,
// rewrites its anchors and renders the fragment to w.
func RewriteHTML(path string, r io.Reader, w io.Writer) error {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(r, body)
	if err != nil {
		return fmt.Errorf("parse html: %w", err)
	}
	c := Classify(path)
	for _, n := range nodes {
		RewriteHTMLTree(n, c)
		if err := html.Render(w, n); err != nil {
			return fmt.Errorf("render html: %w", err)
		}
	}
	return nil
}
