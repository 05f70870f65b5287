package graphs

import (
	"io"

	"github.com/google/uuid"

	"github.com/psidex/graphview/internal/elements"
	"github.com/psidex/graphview/internal/layout"
)

// Renderer binds elements and a mount point into a graph-rendering engine. Each call to
// New creates a new, independent view.
type Renderer interface {
	Name() string
	New(els elements.Elements, container string, cfg layout.Cose) (View, error)
}

// View is the handle to a created graph view.
type View interface {
	// ID is unique per created view.
	ID() string
	// Container is the mount point the view is bound to.
	Container() string
	Elements() elements.Elements
	Layout() layout.Cose

	// ContentType and Extension describe what Render writes.
	ContentType() string
	Extension() string
	// Render is not assumed to be thread-safe.
	Render(w io.Writer) error
}

// baseView carries what every backend's view has in common.
type baseView struct {
	id        string
	container string
	els       elements.Elements
	cfg       layout.Cose
}

func newBaseView(els elements.Elements, container string, cfg layout.Cose) (baseView, error) {
	if container == "" {
		return baseView{}, ErrNoContainer
	}
	return baseView{
		id:        uuid.NewString(),
		container: container,
		els:       els,
		cfg:       cfg,
	}, nil
}

func (b baseView) ID() string                  { return b.id }
func (b baseView) Container() string           { return b.container }
func (b baseView) Elements() elements.Elements { return b.els }
func (b baseView) Layout() layout.Cose         { return b.cfg }
