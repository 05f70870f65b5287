package graphs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Options configures renderer construction. None of it touches the layout.
type Options struct {
	// Title is used for generated pages.
	Title string
	// HostPage, if set, is an HTML document containing the mount point. Only the
	// cytoscape backend supports it.
	HostPage []byte
}

const (
	CytoscapeName = "cytoscape"
	EChartsName   = "echarts"
	VisName       = "vis"
	GraphvizName  = "graphviz"
	JSONName      = "json"
)

// Names lists the available renderers, the default first.
func Names() []string {
	return []string{CytoscapeName, EChartsName, VisName, GraphvizName, JSONName}
}

// Lookup returns the renderer registered under name.
func Lookup(name string, o Options) (Renderer, error) {
	if o.Title == "" {
		o.Title = "graphview"
	}
	if len(o.HostPage) > 0 && name != CytoscapeName {
		return nil, fmt.Errorf("%w: %s", ErrHostPageUnsupported, name)
	}

	switch name {
	case CytoscapeName, "":
		return NewCytoscape(o), nil
	case EChartsName:
		return NewECharts(o), nil
	case VisName:
		return NewVis(o), nil
	case GraphvizName:
		return NewGraphviz(), nil
	case JSONName:
		return NewInitJSON(), nil
	default:
		return nil, fmt.Errorf("%w: %q (have %s)", ErrUnknownRenderer, name, strings.Join(Names(), ", "))
	}
}

// RenderToFile renders v to filename. If filename has no extension the view's
// extension is appended. It returns the path written.
func RenderToFile(v View, filename string) (string, error) {
	if filepath.Ext(filename) == "" {
		filename = filename + v.Extension()
	}

	f, err := os.Create(filename)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := v.Render(f); err != nil {
		return "", err
	}

	return filename, f.Close()
}
