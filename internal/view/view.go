// Package view owns the graph view handle. An Initializer binds elements and a mount
// point into its renderer with the fixed layout and keeps the most recently created
// view for whoever needs to interact with it later.
package view

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/psidex/graphview/internal/elements"
	"github.com/psidex/graphview/internal/graphs"
	"github.com/psidex/graphview/internal/layout"
)

// Initializer is safe for concurrent use and should be held as a pointer.
type Initializer struct {
	renderer graphs.Renderer
	logger   *slog.Logger

	mu          *sync.RWMutex
	current     graphs.View
	subscribers []chan struct{}
}

func New(renderer graphs.Renderer, logger *slog.Logger) *Initializer {
	return &Initializer{
		renderer: renderer,
		logger:   logger,
		mu:       &sync.RWMutex{},
	}
}

// Init creates a view of els bound to container and makes it the current view,
// replacing any previous one.
//
// Malformed elements are rejected with an *elements.ValidationError before the renderer
// is called. Errors from the renderer are returned exactly as the renderer returned
// them. In both cases the current view is left as it was.
func (i *Initializer) Init(ctx context.Context, els elements.Elements, container string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := els.Validate(); err != nil {
		i.logger.Warn("Rejected elements", "container", container, "error", err)
		return err
	}

	v, err := i.renderer.New(els, container, layout.Default())
	if err != nil {
		return err
	}

	i.mu.Lock()
	previous := i.current
	i.current = v
	subscribers := i.subscribers
	i.mu.Unlock()

	attrs := []any{
		"renderer", i.renderer.Name(),
		"container", container,
		"view", v.ID(),
		"nodes", len(els.Nodes()),
		"edges", len(els.Edges()),
	}
	if previous != nil {
		attrs = append(attrs, "replaced", previous.ID())
	}
	i.logger.Info("Created graph view", attrs...)

	for _, c := range subscribers {
		// Notifications coalesce, a subscriber only needs to know something changed.
		select {
		case c <- struct{}{}:
		default:
		}
	}

	return nil
}

// Current returns the most recently created view, or nil if Init has not succeeded yet.
func (i *Initializer) Current() graphs.View {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.current
}

// Renderer returns the renderer views are created with.
func (i *Initializer) Renderer() graphs.Renderer {
	return i.renderer
}

// Subscribe returns a channel that receives a value after the current view is
// replaced. Several replacements between receives are delivered as one. Calling
// unsubscribe stops delivery, the channel is not closed.
func (i *Initializer) Subscribe() (changed <-chan struct{}, unsubscribe func()) {
	c := make(chan struct{}, 1)
	i.mu.Lock()
	defer i.mu.Unlock()
	i.subscribers = append(i.subscribers, c)

	var once sync.Once
	return c, func() {
		once.Do(func() {
			i.mu.Lock()
			defer i.mu.Unlock()
			i.subscribers = slices.DeleteFunc(i.subscribers, func(s chan struct{}) bool { return s == c })
		})
	}
}
