// Package layout holds the force-directed layout configuration every view is created
// with. The values are fixed; renderers translate them into their own engine's options
// but nothing lets a caller change them.
package layout

// Cose mirrors the options of Cytoscape's "cose" layout, with Cytoscape's JSON names.
type Cose struct {
	Name             string  `json:"name"`
	IdealEdgeLength  float64 `json:"idealEdgeLength"`
	NodeOverlap      float64 `json:"nodeOverlap"`
	Refresh          int     `json:"refresh"`
	Fit              bool    `json:"fit"`
	Padding          float64 `json:"padding"`
	Randomize        bool    `json:"randomize"`
	ComponentSpacing float64 `json:"componentSpacing"`
	NodeRepulsion    float64 `json:"nodeRepulsion"`
	EdgeElasticity   float64 `json:"edgeElasticity"`
	NestingFactor    float64 `json:"nestingFactor"`
	Gravity          float64 `json:"gravity"`
	NumIter          int     `json:"numIter"`
	InitialTemp      float64 `json:"initialTemp"`
	CoolingFactor    float64 `json:"coolingFactor"`
	MinTemp          float64 `json:"minTemp"`
}

// Default returns the layout configuration. It is a fresh copy each call.
func Default() Cose {
	return Cose{
		Name:             "cose",
		IdealEdgeLength:  100,
		NodeOverlap:      20,
		Refresh:          20,
		Fit:              true,
		Padding:          30,
		Randomize:        false,
		ComponentSpacing: 100,
		NodeRepulsion:    400000,
		EdgeElasticity:   100,
		NestingFactor:    5,
		Gravity:          80,
		NumIter:          1000,
		InitialTemp:      200,
		CoolingFactor:    0.95,
		MinTemp:          1.0,
	}
}
