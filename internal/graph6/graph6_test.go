package graph6

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/psidex/graphview/internal/elements"
	"github.com/psidex/graphview/internal/lib"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		order int
		edges [][2]int
	}{
		{name: "Empty", input: "?", order: 0, edges: [][2]int{}},
		{name: "Single", input: "@", order: 1, edges: [][2]int{}},
		{name: "TwoApart", input: "A?", order: 2, edges: [][2]int{}},
		{name: "TwoJoined", input: "A_", order: 2, edges: [][2]int{{0, 1}}},
		{name: "Triangle", input: "Bw", order: 3, edges: [][2]int{{0, 1}, {0, 2}, {1, 2}}},
		{name: "K4", input: "C~", order: 4, edges: [][2]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}}},
		// Path 0-1-2-3: bits (0,1)=1 (0,2)=0 (1,2)=1 (0,3)=0 (1,3)=0 (2,3)=1 -> 101001 = 41.
		{name: "Path", input: "Ch", order: 4, edges: [][2]int{{0, 1}, {1, 2}, {2, 3}}},
		{name: "Header", input: ">>graph6<<A_\n", order: 2, edges: [][2]int{{0, 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Decode(tt.input)
			if err != nil {
				t.Fatalf("Decode(%q) error = %v", tt.input, err)
			}
			if g.Order != tt.order {
				t.Errorf("Order = %d, want %d", g.Order, tt.order)
			}
			if !reflect.DeepEqual(g.Edges, tt.edges) {
				t.Errorf("Edges = %v, want %v", g.Edges, tt.edges)
			}
		})
	}
}

func TestDecodeLargeOrder(t *testing.T) {
	// 64 nodes: 126 then 18 bits (0, 1, 0) -> 64, followed by 2016 zero bits.
	g, err := Decode("~?@?" + strings.Repeat("?", 336))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if g.Order != 64 || len(g.Edges) != 0 {
		t.Errorf("got order %d with %d edges, want 64 with 0", g.Order, len(g.Edges))
	}
}

func TestDecodeMalformed(t *testing.T) {
	for _, input := range []string{"", "A", "A__", "Bw!", ":Fa@x^", "&A_", "~?@"} {
		if _, err := Decode(input); !errors.Is(err, ErrMalformed) {
			t.Errorf("Decode(%q) error = %v, want ErrMalformed", input, err)
		}
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	cycle := &Graph{Order: 70, Edges: [][2]int{}}
	for i := 0; i < cycle.Order-1; i++ {
		cycle.Edges = append(cycle.Edges, [2]int{i, i + 1})
	}
	cycle.Edges = append(cycle.Edges, [2]int{0, cycle.Order - 1})

	for _, g := range []*Graph{{Order: 3, Edges: [][2]int{{0, 1}, {0, 2}, {1, 2}}}, cycle} {
		s := Encode(g)
		back, err := Decode(s)
		if err != nil {
			t.Fatalf("Decode(Encode()) error = %v", err)
		}
		if back.Order != g.Order || len(back.Edges) != len(g.Edges) {
			t.Errorf("round trip of %q: order %d edges %d, want %d and %d",
				s, back.Order, len(back.Edges), g.Order, len(g.Edges))
		}
	}

	if s := Encode(&Graph{Order: 3, Edges: [][2]int{{2, 1}, {0, 1}, {0, 2}}}); s != "Bw" {
		t.Errorf("Encode(triangle) = %q, want Bw", s)
	}
}

func TestToElements(t *testing.T) {
	g, err := Decode("Bw")
	if err != nil {
		t.Fatal(err)
	}
	want := elements.Elements{
		elements.Node("0"), elements.Node("1"), elements.Node("2"),
		elements.Edge("0", "1"), elements.Edge("0", "2"), elements.Edge("1", "2"),
	}
	got := g.ToElements()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ToElements() = %v, want %v", got, want)
	}
	if err := got.Validate(); err != nil {
		t.Errorf("ToElements() output does not validate: %v", err)
	}
}

func TestConvertCSV(t *testing.T) {
	input := "id,graphs,count\n1,A_-A?,2\n2,Bw,1\n3,C~-Bw-A_,7\n"

	all, err := ConvertCSV(strings.NewReader(input), lib.DiscardLogger())
	if err != nil {
		t.Fatalf("ConvertCSV() error = %v", err)
	}

	if got := elements.Names(all); !reflect.DeepEqual(got, []string{"A_", "Bw", "C~"}) {
		t.Errorf("graph names = %v", got)
	}
	if n := len(all["C~"].Edges()); n != 6 {
		t.Errorf("C~ has %d edges, want 6", n)
	}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, all); err != nil {
		t.Fatal(err)
	}
	back, err := elements.DecodeCollection(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(back, all) {
		t.Errorf("written JSON decodes to %v, want %v", back, all)
	}
}

func TestConvertCSVErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "Empty", input: "", want: "empty CSV"},
		{name: "NoColumn", input: "id,graph\n1,A_\n", want: `no "graphs" column`},
		{name: "BadGraph", input: "graphs\nA_\nBad!\n", want: "row 2"},
		{name: "ShortRow", input: "id,graphs\n1\n", want: "row 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ConvertCSV(strings.NewReader(tt.input), lib.DiscardLogger())
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("ConvertCSV() error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}
