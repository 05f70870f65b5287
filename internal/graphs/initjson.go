package graphs

import (
	"encoding/json"
	"io"

	"github.com/psidex/graphview/internal/elements"
	"github.com/psidex/graphview/internal/layout"
)

// InitJSON renders the initialisation call itself as JSON: the mount point, the elements
// and the layout, for frontends that construct the graph themselves.
type InitJSON struct{}

var _ Renderer = (*InitJSON)(nil)

func NewInitJSON() *InitJSON {
	return &InitJSON{}
}

func (j InitJSON) Name() string { return JSONName }

func (j InitJSON) New(els elements.Elements, container string, cfg layout.Cose) (View, error) {
	base, err := newBaseView(els, container, cfg)
	if err != nil {
		return nil, err
	}
	return &initJSONView{base}, nil
}

type initJSONView struct {
	baseView
}

type initPayload struct {
	Container string            `json:"container"`
	Elements  elements.Elements `json:"elements"`
	Layout    layout.Cose       `json:"layout"`
}

func (v initJSONView) ContentType() string { return "application/json" }
func (v initJSONView) Extension() string   { return ".json" }

func (v initJSONView) Render(w io.Writer) error {
	els := v.els
	if els == nil {
		els = elements.Elements{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(initPayload{
		Container: v.container,
		Elements:  els,
		Layout:    v.cfg,
	})
}
