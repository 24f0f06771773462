package link

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HardenAnchors applies the external link defaults to anchors inside an HTML
// fragment coming from the backend. Internal anchors are left untouched.
// The fragment is returned unchanged when it cannot be parsed.
func HardenAnchors(c Classifier, fragment string) string {
	if !strings.Contains(fragment, "<a") {
		return fragment
	}

	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return fragment
	}

	changed := false
	for _, n := range nodes {
		if hardenTree(c, n) {
			changed = true
		}
	}
	if !changed {
		return fragment
	}

	var buf bytes.Buffer
	for _, n := range nodes {
		err = html.Render(&buf, n)
		if err != nil {
			return fragment
		}
	}
	return buf.String()
}

func hardenTree(c Classifier, n *html.Node) bool {
	changed := false
	if n.Type == html.ElementNode && n.DataAtom == atom.A {
		href, ok := attr(n, "href")
		if ok && c.Classify(href) == External {
			hardenAnchor(n)
			changed = true
		}
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if hardenTree(c, child) {
			changed = true
		}
	}
	return changed
}

func hardenAnchor(n *html.Node) {
	setAttr(n, "target", "_blank")

	rel, _ := attr(n, "rel")
	tokens := strings.Fields(rel)
	for _, want := range strings.Fields(ExternalRel) {
		if !containsFold(tokens, want) {
			tokens = append(tokens, want)
		}
	}
	setAttr(n, "rel", strings.Join(tokens, " "))
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
