package graphs

import (
	"encoding/json"
	"fmt"
	"html"
	"io"

	"github.com/psidex/graphview/internal/elements"
	"github.com/psidex/graphview/internal/layout"
	. "github.com/psidex/graphview/internal/lib"
)

const visPage = `<!DOCTYPE html>
<html lang="en">
  <head>
    <meta charset="UTF-8">
    <title>%s</title>
    <style>
        * {
            margin: 0;
        }
    </style>
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <script type="text/javascript"
      src="https://unpkg.com/vis-network/standalone/umd/vis-network.min.js"></script>
  </head>
  <body>
    <div id="%s" style="width: 100vw; height: 100vh;"></div>
    <script type="text/javascript">
var container = document.getElementById(%s);

var data = {
  nodes: new vis.DataSet(%s),
  edges: new vis.DataSet(%s),
};

var options = %s;

window.network = new vis.Network(container, data, options);
    </script>
  </body>
</html>`

// vis-network wants numeric node ids.
type visNode struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
}

type visEdge struct {
	From int `json:"from"`
	To   int `json:"to"`
}

type visBarnesHut struct {
	GravitationalConstant float64 `json:"gravitationalConstant"`
	SpringLength          float64 `json:"springLength"`
	CentralGravity        float64 `json:"centralGravity"`
}

type visStabilization struct {
	Enabled    bool `json:"enabled"`
	Iterations int  `json:"iterations"`
	Fit        bool `json:"fit"`
}

type visPhysics struct {
	Enabled       bool             `json:"enabled"`
	Solver        string           `json:"solver"`
	BarnesHut     visBarnesHut     `json:"barnesHut"`
	Stabilization visStabilization `json:"stabilization"`
}

type visOptions struct {
	Physics visPhysics `json:"physics"`
}

// visOptionsFrom translates the cose options into vis-network physics.
func visOptionsFrom(cfg layout.Cose) visOptions {
	return visOptions{
		Physics: visPhysics{
			Enabled: true,
			Solver:  "barnesHut",
			BarnesHut: visBarnesHut{
				GravitationalConstant: -cfg.NodeRepulsion / 40,
				SpringLength:          cfg.IdealEdgeLength,
				CentralGravity:        cfg.Gravity / 800,
			},
			Stabilization: visStabilization{
				Enabled:    true,
				Iterations: cfg.NumIter,
				Fit:        cfg.Fit,
			},
		},
	}
}

// Vis renders views as vis-network pages.
type Vis struct {
	title string
}

var _ Renderer = (*Vis)(nil)

func NewVis(o Options) *Vis {
	return &Vis{title: o.Title}
}

func (v Vis) Name() string { return VisName }

func (v Vis) New(els elements.Elements, container string, cfg layout.Cose) (View, error) {
	base, err := newBaseView(els, container, cfg)
	if err != nil {
		return nil, err
	}

	// Node numbering follows element order, edges only get ids for nodes that exist.
	hasher := NewStrHasher()
	nodes := []visNode{}
	for _, el := range els.Nodes() {
		nodes = append(nodes, visNode{ID: hasher.Hash(el.Data.ID), Label: el.DisplayLabel()})
	}
	edges := []visEdge{}
	for _, el := range els.Edges() {
		edges = append(edges, visEdge{From: hasher.Hash(el.Data.Source), To: hasher.Hash(el.Data.Target)})
	}

	parts := make([][]byte, 0, 4)
	for _, part := range []interface{}{container, nodes, edges, visOptionsFrom(cfg)} {
		b, err := json.Marshal(part)
		if err != nil {
			return nil, err
		}
		parts = append(parts, b)
	}

	output := fmt.Sprintf(visPage,
		html.EscapeString(v.title), html.EscapeString(container),
		parts[0], parts[1], parts[2], parts[3],
	)

	return &visView{baseView: base, output: output}, nil
}

type visView struct {
	baseView
	output string
}

func (v visView) ContentType() string { return "text/html; charset=utf-8" }
func (v visView) Extension() string   { return ".html" }

func (v visView) Render(w io.Writer) error {
	_, err := io.WriteString(w, v.output)
	return err
}
