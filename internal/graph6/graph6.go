// Package graph6 decodes graphs in the graph6 format
// (https://users.cecs.anu.edu.au/~bdm/data/formats.txt) and turns them into elements.
package graph6

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/psidex/graphview/internal/elements"
)

const header = ">>graph6<<"

var ErrMalformed = errors.New("malformed graph6")

// Graph is an undirected simple graph on nodes 0..Order-1. Edges are (u, v) pairs with
// u < v, sorted by u then v.
type Graph struct {
	Order int
	Edges [][2]int
}

// Decode parses a single graph6 string. A leading ">>graph6<<" header and surrounding
// whitespace are ignored.
func Decode(s string) (*Graph, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, header)
	if s == "" {
		return nil, fmt.Errorf("%w: empty string", ErrMalformed)
	}
	if s[0] == ':' || s[0] == '&' {
		return nil, fmt.Errorf("%w: sparse6 and digraph6 are not supported", ErrMalformed)
	}

	data := []byte(s)
	for i, b := range data {
		if b < 63 || b > 126 {
			return nil, fmt.Errorf("%w: byte %d (%q) out of range", ErrMalformed, i, b)
		}
	}

	n, rest, err := decodeOrder(data)
	if err != nil {
		return nil, err
	}

	bitCount := n * (n - 1) / 2
	if want := (bitCount + 5) / 6; len(rest) != want {
		return nil, fmt.Errorf("%w: %d nodes need %d data bytes, got %d", ErrMalformed, n, want, len(rest))
	}

	// Bits run down the columns of the upper triangle: (0,1) (0,2) (1,2) (0,3) ...
	adj := make([][]bool, n)
	for i := range adj {
		adj[i] = make([]bool, n)
	}
	k := 0
	for j := 1; j < n; j++ {
		for i := 0; i < j; i++ {
			if bit(rest, k) {
				adj[i][j] = true
			}
			k++
		}
	}

	g := &Graph{Order: n, Edges: [][2]int{}}
	for u := 0; u < n; u++ {
		for v := u + 1; v < n; v++ {
			if adj[u][v] {
				g.Edges = append(g.Edges, [2]int{u, v})
			}
		}
	}
	return g, nil
}

// decodeOrder reads N(n) and returns n and the remaining bytes.
func decodeOrder(data []byte) (int, []byte, error) {
	switch {
	case data[0] != 126:
		return int(data[0] - 63), data[1:], nil
	case len(data) >= 2 && data[1] == 126:
		if len(data) < 8 {
			return 0, nil, fmt.Errorf("%w: truncated order", ErrMalformed)
		}
		return int(sixes(data[2:8])), data[8:], nil
	default:
		if len(data) < 4 {
			return 0, nil, fmt.Errorf("%w: truncated order", ErrMalformed)
		}
		return int(sixes(data[1:4])), data[4:], nil
	}
}

// sixes joins the low 6 bits of each byte (after removing the 63 offset), big-endian.
func sixes(b []byte) uint64 {
	var x uint64
	for _, c := range b {
		x = x<<6 | uint64(c-63)
	}
	return x
}

// bit returns the k-th bit of the data, 6 bits per byte, most significant first.
func bit(data []byte, k int) bool {
	b := data[k/6] - 63
	return b&(1<<(5-k%6)) != 0
}

// Encode writes g in graph6 without a header, the canonical name of the graph.
func Encode(g *Graph) string {
	var sb strings.Builder

	n := uint64(g.Order)
	switch {
	case n <= 62:
		sb.WriteByte(byte(n + 63))
	case n <= 258047:
		sb.WriteByte(126)
		for shift := 12; shift >= 0; shift -= 6 {
			sb.WriteByte(byte((n>>shift)&63 + 63))
		}
	default:
		sb.WriteString("~~")
		for shift := 30; shift >= 0; shift -= 6 {
			sb.WriteByte(byte((n>>shift)&63 + 63))
		}
	}

	adj := make(map[[2]int]bool, len(g.Edges))
	for _, e := range g.Edges {
		u, v := e[0], e[1]
		if u > v {
			u, v = v, u
		}
		adj[[2]int{u, v}] = true
	}

	var cur byte
	k := 0
	for j := 1; j < g.Order; j++ {
		for i := 0; i < j; i++ {
			if adj[[2]int{i, j}] {
				cur |= 1 << (5 - k%6)
			}
			k++
			if k%6 == 0 {
				sb.WriteByte(cur + 63)
				cur = 0
			}
		}
	}
	if k%6 != 0 {
		sb.WriteByte(cur + 63)
	}

	return sb.String()
}

// ToElements lists the nodes 0..Order-1 then the edges, ids being the node numbers.
func (g *Graph) ToElements() elements.Elements {
	els := make(elements.Elements, 0, g.Order+len(g.Edges))
	for i := 0; i < g.Order; i++ {
		els = append(els, elements.Node(strconv.Itoa(i)))
	}
	for _, e := range g.Edges {
		els = append(els, elements.Edge(strconv.Itoa(e[0]), strconv.Itoa(e[1])))
	}
	return els
}
