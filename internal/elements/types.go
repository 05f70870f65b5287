// Package elements defines the graph elements handed to a renderer: nodes and edges in
// the Cytoscape JSON shape, plus validation at the boundary so malformed input is caught
// before it reaches a rendering library.
package elements

// Group names, as Cytoscape spells them.
const (
	Nodes = "nodes"
	Edges = "edges"
)

type Data struct {
	ID     string `json:"id,omitempty"`
	Label  string `json:"label,omitempty"`
	Source string `json:"source,omitempty"`
	Target string `json:"target,omitempty"`
}

type Element struct {
	Group string `json:"group"`
	Data  Data   `json:"data"`
}

// Elements is an ordered collection. Order is kept all the way to the renderer.
type Elements []Element

func Node(id string) Element {
	return Element{Group: Nodes, Data: Data{ID: id}}
}

func Edge(source, target string) Element {
	return Element{Group: Edges, Data: Data{Source: source, Target: target}}
}

func (e Element) IsNode() bool { return e.Group == Nodes }
func (e Element) IsEdge() bool { return e.Group == Edges }

// DisplayLabel is the label if set, otherwise the ID.
func (e Element) DisplayLabel() string {
	if e.Data.Label != "" {
		return e.Data.Label
	}
	return e.Data.ID
}

// Nodes returns the node elements in order.
func (els Elements) Nodes() Elements {
	out := Elements{}
	for _, e := range els {
		if e.IsNode() {
			out = append(out, e)
		}
	}
	return out
}

// Edges returns the edge elements in order.
func (els Elements) Edges() Elements {
	out := Elements{}
	for _, e := range els {
		if e.IsEdge() {
			out = append(out, e)
		}
	}
	return out
}
