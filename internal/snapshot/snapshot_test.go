package snapshot

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"testing"
	"time"

	"github.com/psidex/graphview/internal/elements"
	"github.com/psidex/graphview/internal/graphs"
	"github.com/psidex/graphview/internal/layout"
	"github.com/psidex/graphview/internal/lib"
)

func TestCaptureRejectsSVG(t *testing.T) {
	v, err := graphs.NewGraphviz().New(elements.Elements{elements.Node("a")}, "cy", layout.Default())
	if err != nil {
		t.Fatal(err)
	}
	_, err = Capture(context.Background(), v, Options{Width: 100, Height: 100}, lib.DiscardLogger())
	if !errors.Is(err, ErrNotHTML) {
		t.Errorf("Capture() error = %v, want ErrNotHTML", err)
	}
}

func TestCSSEscape(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"cy", "cy"},
		{"my-graph_1", "my-graph_1"},
		{"1st", `\31 st`},
		{"a.b", `a\.b`},
		{"a b", `a\ b`},
	}
	for _, tt := range tests {
		if got := cssEscape(tt.in); got != tt.want {
			t.Errorf("cssEscape(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestScriptError(t *testing.T) {
	err := &ScriptError{Exceptions: []string{"ReferenceError: cytoscape is not defined"}}
	if want := "page threw 1 exception(s): ReferenceError: cytoscape is not defined"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func haveChrome() bool {
	for _, name := range []string{"google-chrome", "chromium", "chromium-browser", "headless-shell"} {
		if _, err := exec.LookPath(name); err == nil {
			return true
		}
	}
	return false
}

func TestCaptureInChrome(t *testing.T) {
	if !haveChrome() {
		t.Skip("no Chrome binary found")
	}
	if testing.Short() {
		t.Skip("loads the engine from the network")
	}

	els := elements.Elements{elements.Node("a"), elements.Node("b"), elements.Edge("a", "b")}
	v, err := graphs.NewCytoscape(graphs.Options{}).New(els, "cy", layout.Default())
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	res, err := Capture(ctx, v, Options{Width: 400, Height: 300, Settle: time.Second}, lib.DiscardLogger())
	if err != nil {
		t.Fatalf("Capture() error = %v", err)
	}
	if !bytes.HasPrefix(res.PNG, []byte("\x89PNG")) {
		t.Error("Capture() did not return a PNG")
	}
}
