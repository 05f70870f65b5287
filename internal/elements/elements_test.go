package elements

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func triangle() Elements {
	return Elements{
		Node("a"), Node("b"), Node("c"),
		Edge("a", "b"), Edge("b", "c"), Edge("c", "a"),
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		els     Elements
		wantErr bool
		reasons []string
	}{
		{name: "Empty", els: Elements{}},
		{name: "Nil", els: nil},
		{name: "Triangle", els: triangle()},
		{
			name: "EdgeBeforeNodes",
			els:  Elements{Edge("a", "b"), Node("a"), Node("b")},
		},
		{
			name: "EdgeWithID",
			els: Elements{
				Node("a"), Node("b"),
				{Group: Edges, Data: Data{ID: "ab", Source: "a", Target: "b"}},
			},
		},
		{
			name:    "UnknownGroup",
			els:     Elements{{Group: "node", Data: Data{ID: "a"}}},
			wantErr: true,
			reasons: []string{`unknown group "node"`},
		},
		{
			name:    "NodeWithoutID",
			els:     Elements{{Group: Nodes}},
			wantErr: true,
			reasons: []string{"node has no id"},
		},
		{
			name:    "DuplicateNode",
			els:     Elements{Node("a"), Node("a")},
			wantErr: true,
			reasons: []string{`duplicate node id "a"`},
		},
		{
			name:    "DanglingEdge",
			els:     Elements{Node("a"), Edge("a", "z")},
			wantErr: true,
			reasons: []string{`edge target "z" is not a node`},
		},
		{
			name:    "HalfEdge",
			els:     Elements{Node("a"), {Group: Edges, Data: Data{Source: "a"}}},
			wantErr: true,
			reasons: []string{"edge needs both source and target"},
		},
		{
			name: "EdgeIDClashesWithNode",
			els: Elements{
				Node("a"), Node("b"),
				{Group: Edges, Data: Data{ID: "a", Source: "a", Target: "b"}},
			},
			wantErr: true,
			reasons: []string{`edge id "a" is already in use`},
		},
		{
			name:    "ProblemsInElementOrder",
			els:     Elements{Edge("", "x"), {Group: Nodes}},
			wantErr: true,
			reasons: []string{"edge needs both source and target", "node has no id"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.els.Validate()
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("Validate() = %v, want ErrInvalid", err)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() error is %T, want *ValidationError", err)
			}
			for i := 1; i < len(verr.Problems); i++ {
				if verr.Problems[i].Index < verr.Problems[i-1].Index {
					t.Errorf("problems out of element order: %v", verr.Problems)
				}
			}
			if len(verr.Problems) != len(tt.reasons) {
				t.Fatalf("got %d problems (%v), want %d", len(verr.Problems), verr.Problems, len(tt.reasons))
			}
			for i, reason := range tt.reasons {
				if verr.Problems[i].Reason != reason {
					t.Errorf("problem %d = %q, want %q", i, verr.Problems[i].Reason, reason)
				}
			}
		})
	}
}

func TestValidateDoesNotModify(t *testing.T) {
	els := Elements{Edge("a", "b"), Node("b"), Node("a")}
	before := append(Elements{}, els...)
	_ = els.Validate()
	if !reflect.DeepEqual(els, before) {
		t.Errorf("Validate modified elements: %v -> %v", before, els)
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Elements
		wantErr error
	}{
		{
			name:  "Array",
			input: `[{"group":"nodes","data":{"id":"0"}},{"group":"edges","data":{"source":"0","target":"0"}}]`,
			want:  Elements{Node("0"), Edge("0", "0")},
		},
		{
			name:  "EmptyArray",
			input: `[]`,
			want:  Elements{},
		},
		{
			name:  "Grouped",
			input: `{"edges":[{"data":{"source":"x","target":"y"}}],"nodes":[{"data":{"id":"x","label":"X"}},{"data":{"id":"y"}}]}`,
			want: Elements{
				{Group: Nodes, Data: Data{ID: "x", Label: "X"}},
				Node("y"),
				Edge("x", "y"),
			},
		},
		{
			name:    "Collection",
			input:   `{"A_":[]}`,
			wantErr: ErrCollection,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(strings.NewReader(tt.input))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Decode() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Decode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	for _, input := range []string{"", "   ", "nope", `[{"group":1}]`} {
		if _, err := Decode(strings.NewReader(input)); err == nil {
			t.Errorf("Decode(%q) succeeded, want error", input)
		}
	}
}

func TestEncodeNil(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(buf.String()); got != "[]" {
		t.Errorf("Encode(nil) = %q, want []", got)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	single := filepath.Join(dir, "single.json")
	var buf bytes.Buffer
	if err := Encode(&buf, triangle()); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(single, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := LoadFile(single, "")
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if !reflect.DeepEqual(got, triangle()) {
		t.Errorf("LoadFile() = %v, want %v", got, triangle())
	}

	all := filepath.Join(dir, "all.json")
	collection := `{"Bw":[{"group":"nodes","data":{"id":"0"}},{"group":"nodes","data":{"id":"1"}},{"group":"edges","data":{"source":"0","target":"1"}}]}`
	if err := os.WriteFile(all, []byte(collection), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err = LoadFile(all, "Bw")
	if err != nil {
		t.Fatalf("LoadFile(Bw) error = %v", err)
	}
	want := Elements{Node("0"), Node("1"), Edge("0", "1")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("LoadFile(Bw) = %v, want %v", got, want)
	}

	_, err = LoadFile(all, "missing")
	if err == nil || !strings.Contains(err.Error(), "(have Bw)") {
		t.Errorf("LoadFile(missing) error = %v, want one naming the available graphs", err)
	}

	_, err = LoadFile(all, "")
	if !errors.Is(err, ErrCollection) || !strings.Contains(err.Error(), "graphs: Bw") {
		t.Errorf("LoadFile() of a collection error = %v, want ErrCollection naming Bw", err)
	}
}

func TestNodesAndEdges(t *testing.T) {
	els := triangle()
	if n := len(els.Nodes()); n != 3 {
		t.Errorf("Nodes() len = %d, want 3", n)
	}
	if n := len(els.Edges()); n != 3 {
		t.Errorf("Edges() len = %d, want 3", n)
	}
	if got := (Element{Group: Nodes, Data: Data{ID: "a"}}).DisplayLabel(); got != "a" {
		t.Errorf("DisplayLabel() = %q, want a", got)
	}
}
