package graphs

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/psidex/graphview/internal/elements"
	"github.com/psidex/graphview/internal/layout"
)

// Graphviz points per inch, the cose lengths are in pixels which we treat as points.
const pointsPerInch = 72.0

// Graphviz renders views to SVG with the fdp force-directed engine.
type Graphviz struct{}

var _ Renderer = (*Graphviz)(nil)

func NewGraphviz() *Graphviz {
	return &Graphviz{}
}

func (g Graphviz) Name() string { return GraphvizName }

func (g Graphviz) New(els elements.Elements, container string, cfg layout.Cose) (View, error) {
	base, err := newBaseView(els, container, cfg)
	if err != nil {
		return nil, err
	}

	// Renderer.New carries no context, fdp runs to completion.
	svg, err := RenderFDP(context.Background(), ToDOT(els, container, cfg))
	if err != nil {
		return nil, err
	}

	return &graphvizView{baseView: base, svg: svg}, nil
}

// ToDOT writes the elements as an undirected DOT graph carrying the fdp translation of
// the cose options. The graph id ends up on the SVG's top level group.
func ToDOT(els elements.Elements, container string, cfg layout.Cose) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	fmt.Fprintf(&buf, "  id=%s;\n", dotID(container))
	buf.WriteString("  layout=fdp;\n")
	fmt.Fprintf(&buf, "  K=%.4f;\n", cfg.IdealEdgeLength/pointsPerInch)
	fmt.Fprintf(&buf, "  maxiter=%d;\n", cfg.NumIter)
	fmt.Fprintf(&buf, "  pad=%.4f;\n", cfg.Padding/pointsPerInch)
	if !cfg.Randomize {
		buf.WriteString("  start=1;\n")
	}
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=\"#999999\", fontsize=10];\n")
	buf.WriteString("\n")

	for _, n := range els.Nodes() {
		fmt.Fprintf(&buf, "  %s [label=%s];\n", dotID(n.Data.ID), dotLabel(n.DisplayLabel()))
	}

	buf.WriteString("\n")
	for _, e := range els.Edges() {
		fmt.Fprintf(&buf, "  %s -- %s;\n", dotID(e.Data.Source), dotID(e.Data.Target))
	}

	buf.WriteString("}\n")
	return buf.String()
}

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// dotID quotes s as a DOT ID. Only node identity depends on it, the text shown comes
// from dotLabel.
func dotID(s string) string {
	return `"` + dotEscaper.Replace(s) + `"`
}

// dotLabel makes s an HTML-like label, which graphviz shows verbatim apart from
// entities, unlike quoted labels where backslash sequences are interpreted.
func dotLabel(s string) string {
	return "<" + html.EscapeString(s) + ">"
}

// RenderFDP renders a DOT graph to SVG using the fdp engine.
func RenderFDP(ctx context.Context, dot string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	gv.SetLayout(graphviz.FDP)

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

type graphvizView struct {
	baseView
	svg []byte
}

func (v graphvizView) ContentType() string { return "image/svg+xml" }
func (v graphvizView) Extension() string   { return ".svg" }

func (v graphvizView) Render(w io.Writer) error {
	_, err := w.Write(v.svg)
	return err
}
