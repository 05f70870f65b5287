package elements

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	. "github.com/psidex/graphview/internal/lib"
)

// ErrInvalid is matched by every *ValidationError.
var ErrInvalid = errors.New("invalid elements")

// Problem is one thing wrong with one element.
type Problem struct {
	Index  int
	Reason string
}

func (p Problem) String() string {
	return fmt.Sprintf("element %d: %s", p.Index, p.Reason)
}

type ValidationError struct {
	Problems []Problem
}

func (e *ValidationError) Error() string {
	reasons := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		reasons = append(reasons, p.String())
	}
	return fmt.Sprintf("%d invalid element(s): %s", len(e.Problems), strings.Join(reasons, "; "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalid
}

// Validate checks the collection without modifying it. It returns nil or a
// *ValidationError listing every problem found, ordered by element index.
func (els Elements) Validate() error {
	var problems []Problem
	report := func(i int, format string, args ...interface{}) {
		problems = append(problems, Problem{Index: i, Reason: fmt.Sprintf(format, args...)})
	}

	// Nodes first so edges may reference nodes that appear later in the slice.
	nodeIds := NewSet()
	for i, e := range els {
		if !e.IsNode() {
			continue
		}
		if e.Data.ID == "" {
			report(i, "node has no id")
			continue
		}
		if !nodeIds.AddNew(e.Data.ID) {
			report(i, "duplicate node id %q", e.Data.ID)
		}
	}

	edgeIds := NewSet()
	for i, e := range els {
		switch e.Group {
		case Nodes:
		case Edges:
			if e.Data.Source == "" || e.Data.Target == "" {
				report(i, "edge needs both source and target")
				continue
			}
			if !nodeIds.Contains(e.Data.Source) {
				report(i, "edge source %q is not a node", e.Data.Source)
			}
			if !nodeIds.Contains(e.Data.Target) {
				report(i, "edge target %q is not a node", e.Data.Target)
			}
			if e.Data.ID == "" {
				continue
			}
			if nodeIds.Contains(e.Data.ID) || !edgeIds.AddNew(e.Data.ID) {
				report(i, "edge id %q is already in use", e.Data.ID)
			}
		default:
			report(i, "unknown group %q", e.Group)
		}
	}

	if len(problems) > 0 {
		sort.SliceStable(problems, func(a, b int) bool { return problems[a].Index < problems[b].Index })
		return &ValidationError{Problems: problems}
	}
	return nil
}
