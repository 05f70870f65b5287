package graphs

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const skeleton = `<!DOCTYPE html>
<html lang="en">
  <head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <style>
        * {
            margin: 0;
        }
    </style>
  </head>
  <body>
  </body>
</html>`

// Page is a parsed HTML document that scripts can be added to.
type Page struct {
	doc *html.Node
}

// ParsePage parses an HTML document.
func ParsePage(r io.Reader) (*Page, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	return &Page{doc: doc}, nil
}

// NewPage returns an empty full-window page with a single mount point div.
func NewPage(title, mountId string) *Page {
	// skeleton is a constant, it always parses.
	p, _ := ParsePage(bytes.NewReader([]byte(skeleton)))

	if head := p.find(func(n *html.Node) bool { return n.DataAtom == atom.Head }); head != nil {
		t := &html.Node{Type: html.ElementNode, Data: "title", DataAtom: atom.Title}
		t.AppendChild(&html.Node{Type: html.TextNode, Data: title})
		head.AppendChild(t)
	}

	div := &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
		Attr: []html.Attribute{
			{Key: "id", Val: mountId},
			{Key: "style", Val: "width: 100vw; height: 100vh;"},
		},
	}
	p.body().AppendChild(div)
	return p
}

// HasMountPoint reports whether an element with the given id exists.
func (p *Page) HasMountPoint(id string) bool {
	return p.findById(id) != nil
}

// AddScriptSrc appends <script src=...> to the body.
func (p *Page) AddScriptSrc(src string) {
	p.body().AppendChild(&html.Node{
		Type:     html.ElementNode,
		Data:     "script",
		DataAtom: atom.Script,
		Attr: []html.Attribute{
			{Key: "type", Val: "text/javascript"},
			{Key: "src", Val: src},
		},
	})
}

// AddScript appends an inline script to the body. code must not contain "</script".
func (p *Page) AddScript(code string) {
	script := &html.Node{
		Type:     html.ElementNode,
		Data:     "script",
		DataAtom: atom.Script,
		Attr:     []html.Attribute{{Key: "type", Val: "text/javascript"}},
	}
	script.AppendChild(&html.Node{Type: html.TextNode, Data: code})
	p.body().AppendChild(script)
}

func (p *Page) Render(w io.Writer) error {
	return html.Render(w, p.doc)
}

// body returns the body element, html.Parse always creates one.
func (p *Page) body() *html.Node {
	return p.find(func(n *html.Node) bool { return n.DataAtom == atom.Body })
}

func (p *Page) findById(id string) *html.Node {
	return p.find(func(n *html.Node) bool {
		for _, attr := range n.Attr {
			if attr.Namespace == "" && attr.Key == "id" && attr.Val == id {
				return true
			}
		}
		return false
	})
}

func (p *Page) find(match func(*html.Node) bool) *html.Node {
	var visitNode func(*html.Node) *html.Node
	visitNode = func(n *html.Node) *html.Node {
		if n.Type == html.ElementNode && match(n) {
			return n
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if found := visitNode(c); found != nil {
				return found
			}
		}
		return nil
	}
	return visitNode(p.doc)
}

// InjectScript adds an inline script to the end of an HTML document's body, used to
// bolt the live reload client onto whatever a renderer produced.
func InjectScript(document []byte, code string) ([]byte, error) {
	p, err := ParsePage(bytes.NewReader(document))
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}
	if p.body() == nil {
		return nil, errors.New("page has no body")
	}
	p.AddScript(code)

	var buf bytes.Buffer
	if err := p.Render(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
