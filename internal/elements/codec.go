package elements

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// ErrCollection is returned by Decode when the input holds several named graphs.
var ErrCollection = errors.New("input is a collection of named graphs, a name is required")

// grouped is the {"nodes": [...], "edges": [...]} form, groups are implied.
type grouped struct {
	Nodes []Element `json:"nodes"`
	Edges []Element `json:"edges"`
}

func (g grouped) elements() Elements {
	els := make(Elements, 0, len(g.Nodes)+len(g.Edges))
	for _, n := range g.Nodes {
		n.Group = Nodes
		els = append(els, n)
	}
	for _, e := range g.Edges {
		e.Group = Edges
		els = append(els, e)
	}
	return els
}

// Decode reads a single graph, either a Cytoscape element array or a grouped
// {"nodes","edges"} object.
func Decode(r io.Reader) (Elements, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return decodeBytes(data)
}

func decodeBytes(data []byte) (Elements, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New("no elements data")
	}

	if data[0] == '[' {
		els := Elements{}
		if err := json.Unmarshal(data, &els); err != nil {
			return nil, fmt.Errorf("decode element array: %w", err)
		}
		return els, nil
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return nil, fmt.Errorf("decode elements: %w", err)
	}
	for key := range keys {
		if key != Nodes && key != Edges {
			collection := map[string]Elements{}
			if err := json.Unmarshal(data, &collection); err != nil {
				return nil, ErrCollection
			}
			return nil, fmt.Errorf("%w (graphs: %s)", ErrCollection, strings.Join(Names(collection), ", "))
		}
	}

	var g grouped
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("decode grouped elements: %w", err)
	}
	return g.elements(), nil
}

// DecodeCollection reads a JSON object of name -> element array, the format written
// by the graph6 converter.
func DecodeCollection(r io.Reader) (map[string]Elements, error) {
	collection := map[string]Elements{}
	if err := json.NewDecoder(r).Decode(&collection); err != nil {
		return nil, fmt.Errorf("decode collection: %w", err)
	}
	return collection, nil
}

// Names returns the collection's graph names sorted.
func Names(collection map[string]Elements) []string {
	names := make([]string, 0, len(collection))
	for name := range collection {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadFile reads elements from a file. If name is set the file is treated as a
// collection and that graph is picked out of it.
func LoadFile(path, name string) (Elements, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if name == "" {
		return Decode(f)
	}

	collection, err := DecodeCollection(f)
	if err != nil {
		return nil, err
	}
	els, ok := collection[name]
	if !ok {
		return nil, fmt.Errorf("graph %q not found in %s (have %s)", name, path, strings.Join(Names(collection), ", "))
	}
	return els, nil
}

// Encode writes the elements as a Cytoscape element array. A nil collection is
// written as [] rather than null.
func Encode(w io.Writer, els Elements) error {
	if els == nil {
		els = Elements{}
	}
	return json.NewEncoder(w).Encode(els)
}

// MarshalJS returns the elements as a JSON array for embedding in a script.
func MarshalJS(els Elements) ([]byte, error) {
	if els == nil {
		els = Elements{}
	}
	return json.Marshal(els)
}
