// Package cli implements the graphview command line: render a graph view to a file,
// serve it live, screenshot it, or convert graph6 data into elements.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/psidex/graphview/internal/config"
	"github.com/psidex/graphview/internal/elements"
	"github.com/psidex/graphview/internal/graph6"
	"github.com/psidex/graphview/internal/graphs"
	"github.com/psidex/graphview/internal/lib"
	"github.com/psidex/graphview/internal/view"
)

// app is what every command gets after the persistent flags are handled.
type app struct {
	cfg    config.Config
	logger *slog.Logger
}

type appKey struct{}

func appFrom(cmd *cobra.Command) *app {
	return cmd.Context().Value(appKey{}).(*app)
}

// Execute runs the CLI with os.Args.
func Execute() error {
	return newRootCmd(os.Stderr).ExecuteContext(context.Background())
}

func newRootCmd(logOutput io.Writer) *cobra.Command {
	var (
		configPath string
		logLevel   string
		pretty     bool
	)

	root := &cobra.Command{
		Use:          "graphview",
		Short:        "graphview lays out graphs with a force-directed engine",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if cmd.Flags().Changed("pretty") {
				cfg.Pretty = pretty
			}

			level, err := lib.ParseSLogLevel(cfg.LogLevel)
			if err != nil {
				return fmt.Errorf("log level: %w", err)
			}
			logger := lib.NiceLogger(logOutput, level)
			if cfg.Pretty {
				logger = lib.PrettyLogger(logOutput, level)
			}

			cmd.SetContext(context.WithValue(cmd.Context(), appKey{}, &app{cfg: cfg, logger: logger}))
			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")
	root.PersistentFlags().BoolVar(&pretty, "pretty", false, "human friendly log output")

	root.AddCommand(newRenderCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newSnapshotCmd())
	root.AddCommand(newConvertCmd())

	return root
}

// viewFlags are the flags shared by commands that create a view.
type viewFlags struct {
	input     string
	graph     string
	graph6    string
	container string
	renderer  string
	hostPage  string
}

func (f *viewFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.input, "input", "i", "", "elements JSON file")
	cmd.Flags().StringVarP(&f.graph, "graph", "g", "", "name of the graph to use when the input is a collection")
	cmd.Flags().StringVar(&f.graph6, "graph6", "", "build the elements from a graph6 string instead of a file")
	cmd.Flags().StringVarP(&f.container, "container", "c", "", "mount point id (default from config)")
	cmd.Flags().StringVarP(&f.renderer, "renderer", "r", "", "renderer (default from config)")
	cmd.Flags().StringVar(&f.hostPage, "host", "", "HTML page containing the mount point (cytoscape only)")
}

// apply overlays set flags on the config.
func (f *viewFlags) apply(cfg *config.Config) {
	if f.container != "" {
		cfg.Container = f.container
	}
	if f.renderer != "" {
		cfg.Renderer = f.renderer
	}
	if f.hostPage != "" {
		cfg.HostPage = f.hostPage
	}
}

func (f *viewFlags) loader(logger *slog.Logger) (func() (elements.Elements, error), error) {
	switch {
	case f.graph6 != "" && f.input != "":
		return nil, fmt.Errorf("--graph6 and --input are mutually exclusive")
	case f.graph6 != "":
		g, err := graph6.Decode(f.graph6)
		if err != nil {
			return nil, err
		}
		logger.Info("Decoded graph6", "graph", graph6.Encode(g), "order", g.Order, "edges", len(g.Edges))
		els := g.ToElements()
		return func() (elements.Elements, error) { return els, nil }, nil
	case f.input != "":
		input, graph := f.input, f.graph
		return func() (elements.Elements, error) { return elements.LoadFile(input, graph) }, nil
	default:
		return nil, fmt.Errorf("one of --input or --graph6 is required")
	}
}

// initializer builds the view initializer the command will use.
func (a *app) initializer() (*view.Initializer, error) {
	o, err := a.cfg.RendererOptions()
	if err != nil {
		return nil, err
	}
	r, err := graphs.Lookup(a.cfg.Renderer, o)
	if err != nil {
		return nil, err
	}
	return view.New(r, a.logger), nil
}

// initView loads the elements and initializes a view from them.
func (a *app) initView(ctx context.Context, f *viewFlags) (*view.Initializer, error) {
	f.apply(&a.cfg)

	load, err := f.loader(a.logger)
	if err != nil {
		return nil, err
	}
	els, err := load()
	if err != nil {
		return nil, err
	}

	views, err := a.initializer()
	if err != nil {
		return nil, err
	}
	if err := views.Init(ctx, els, a.cfg.Container); err != nil {
		return nil, err
	}
	return views, nil
}
