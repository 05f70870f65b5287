package graphs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/psidex/graphview/internal/elements"
	"github.com/psidex/graphview/internal/layout"
)

const cytoscapeSrc = "https://unpkg.com/cytoscape/dist/cytoscape.min.js"

// Cytoscape renders views as pages that initialise Cytoscape.js with the cose layout.
// The instance is kept on window.cy for anything else on the page to use.
type Cytoscape struct {
	title    string
	hostPage []byte
}

var _ Renderer = (*Cytoscape)(nil)

func NewCytoscape(o Options) *Cytoscape {
	return &Cytoscape{title: o.Title, hostPage: o.HostPage}
}

func (c Cytoscape) Name() string { return CytoscapeName }

func (c Cytoscape) New(els elements.Elements, container string, cfg layout.Cose) (View, error) {
	base, err := newBaseView(els, container, cfg)
	if err != nil {
		return nil, err
	}

	script, err := cytoscapeInit(els, container, cfg)
	if err != nil {
		return nil, err
	}

	var page *Page
	if len(c.hostPage) > 0 {
		page, err = ParsePage(bytes.NewReader(c.hostPage))
		if err != nil {
			return nil, fmt.Errorf("parse host page: %w", err)
		}
		if !page.HasMountPoint(container) {
			return nil, fmt.Errorf("%w: #%s", ErrMountPointNotFound, container)
		}
	} else {
		page = NewPage(c.title, container)
	}

	page.AddScriptSrc(cytoscapeSrc)
	page.AddScript(script)

	return &cytoscapeView{baseView: base, page: page}, nil
}

// cytoscapeInit builds the script that creates the instance. Values are JSON encoded,
// which also escapes "<" so nothing can close the script tag early.
func cytoscapeInit(els elements.Elements, container string, cfg layout.Cose) (string, error) {
	containerJs, err := json.Marshal(container)
	if err != nil {
		return "", err
	}
	elementsJs, err := elements.MarshalJS(els)
	if err != nil {
		return "", err
	}
	layoutJs, err := json.Marshal(cfg)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(`
window.cy = cytoscape({
  container: document.getElementById(%s),
  elements: %s,
  layout: %s
});
`, containerJs, elementsJs, layoutJs), nil
}

type cytoscapeView struct {
	baseView
	page *Page
}

func (v cytoscapeView) ContentType() string { return "text/html; charset=utf-8" }
func (v cytoscapeView) Extension() string   { return ".html" }

func (v cytoscapeView) Render(w io.Writer) error {
	return v.page.Render(w)
}
