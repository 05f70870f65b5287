package graphs

import (
	"fmt"
	"io"
	"regexp"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/psidex/graphview/internal/elements"
	"github.com/psidex/graphview/internal/layout"
)

// ECharts renders views as go-echarts pages using the ECharts force layout. The chart
// ID is the mount point, so the chart div carries the container id. go-echarts also
// uses the chart ID in a script variable name, so the container must be a JavaScript
// identifier.
type ECharts struct {
	title string
}

var _ Renderer = (*ECharts)(nil)

var jsIdentifier = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

func NewECharts(o Options) *ECharts {
	return &ECharts{title: o.Title}
}

func (e ECharts) Name() string { return EChartsName }

func (e ECharts) New(els elements.Elements, container string, cfg layout.Cose) (View, error) {
	base, err := newBaseView(els, container, cfg)
	if err != nil {
		return nil, err
	}

	if !jsIdentifier.MatchString(container) {
		return nil, fmt.Errorf("%w: echarts needs a JavaScript identifier, got %q", ErrInvalidContainer, container)
	}

	nodes, links := echartsData(els)
	return &echartsView{
		baseView: base,
		graph:    graphBase(e.title, container, nodes, links, EChartsForce(cfg)),
	}, nil
}

// EChartsForce translates the cose options. ECharts repulsion and gravity work on a much
// smaller scale than cose's, hence the divisors.
func EChartsForce(cfg layout.Cose) *opts.GraphForce {
	return &opts.GraphForce{
		InitLayout: "circular",
		EdgeLength: float32(cfg.IdealEdgeLength),
		Repulsion:  float32(cfg.NodeRepulsion / 1000),
		Gravity:    float32(cfg.Gravity / 1000),
	}
}

func echartsData(els elements.Elements) ([]opts.GraphNode, []opts.GraphLink) {
	nodes := []opts.GraphNode{}
	links := []opts.GraphLink{}

	for _, el := range els {
		switch {
		case el.IsNode():
			nodes = append(nodes, opts.GraphNode{Name: el.Data.ID})
		case el.IsEdge():
			links = append(links, opts.GraphLink{
				Source: el.Data.Source,
				Target: el.Data.Target,
			})
		}
	}

	return nodes, links
}

func graphBase(title, chartId string, nodes []opts.GraphNode, links []opts.GraphLink, force *opts.GraphForce) *charts.Graph {
	graph := charts.NewGraph()
	graph.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			ChartID:   chartId,
			Height:    "100vh",
			Width:     "100vw",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(false),
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show: opts.Bool(true),
		}),
	)
	graph.AddSeries(
		"graph",
		nodes,
		links,
		charts.WithGraphChartOpts(
			opts.GraphChart{
				Layout:    "force",
				Draggable: opts.Bool(true),
				Roam:      opts.Bool(true),
				Force:     force,
			},
		),
		charts.WithLabelOpts(opts.Label{
			Show:     opts.Bool(true),
			Color:    "black",
			Position: "top",
		}),
	)
	return graph
}

type echartsView struct {
	baseView
	graph *charts.Graph
}

func (v echartsView) ContentType() string { return "text/html; charset=utf-8" }
func (v echartsView) Extension() string   { return ".html" }

func (v echartsView) Render(w io.Writer) error {
	page := components.NewPage()
	page.AddCharts(v.graph)
	return page.Render(w)
}
