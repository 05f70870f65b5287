package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/psidex/graphview/internal/graph6"
	"github.com/psidex/graphview/internal/graphs"
	"github.com/psidex/graphview/internal/server"
	"github.com/psidex/graphview/internal/snapshot"
)

func newRenderCmd() *cobra.Command {
	var (
		f      viewFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Write a graph view to a file",
		Long: "Write a graph view to a file. Renderers: " + strings.Join(graphs.Names(), ", ") +
			". Without an extension on --output the renderer's own is used.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			views, err := a.initView(cmd.Context(), &f)
			if err != nil {
				return err
			}

			path, err := graphs.RenderToFile(views.Current(), output)
			if err != nil {
				return err
			}
			a.logger.Info("Wrote graph view", "path", path)
			return nil
		},
	}

	f.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "graphview", "output file")
	return cmd
}

func newServeCmd() *cobra.Command {
	var (
		f    viewFlags
		bind string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the graph view and reload it when the input file changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			if bind != "" {
				a.cfg.Bind = bind
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			views, err := a.initView(ctx, &f)
			if err != nil {
				return err
			}

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return server.New(views, a.logger).Run(ctx, a.cfg.Bind)
			})
			if f.input != "" {
				load, err := f.loader(a.logger)
				if err != nil {
					return err
				}
				w := server.NewWatcher(views, a.cfg.Container, f.input, load, a.cfg.Debounce.Duration, a.logger)
				g.Go(func() error { return w.Run(ctx) })
			}
			return g.Wait()
		},
	}

	f.register(cmd)
	cmd.Flags().StringVarP(&bind, "bind", "b", "", "the ip:port to bind the webserver to (default from config)")
	return cmd
}

func newSnapshotCmd() *cobra.Command {
	var (
		f      viewFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Lay the graph out in headless Chrome and save a PNG of the mount point",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)

			ctx, cancel := context.WithTimeout(cmd.Context(), a.cfg.Snapshot.Timeout.Duration)
			defer cancel()

			views, err := a.initView(ctx, &f)
			if err != nil {
				return err
			}

			res, err := snapshot.Capture(ctx, views.Current(), snapshot.Options{
				Width:  a.cfg.Snapshot.Width,
				Height: a.cfg.Snapshot.Height,
				Settle: a.cfg.Snapshot.Settle.Duration,
			}, a.logger)
			if err != nil {
				return err
			}

			if err := os.WriteFile(output, res.PNG, 0o644); err != nil {
				return err
			}
			a.logger.Info("Wrote snapshot", "path", output)
			return nil
		},
	}

	f.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "graphview.png", "output PNG file")
	return cmd
}

func newConvertCmd() *cobra.Command {
	var input, output string

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a CSV of graph6 strings into a JSON collection of elements",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)

			in, err := os.Open(input)
			if err != nil {
				return err
			}
			defer in.Close()

			all, err := graph6.ConvertCSV(in, a.logger)
			if err != nil {
				return err
			}

			out, err := os.Create(output)
			if err != nil {
				return err
			}
			defer out.Close()

			if err := graph6.WriteJSON(out, all); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			a.logger.Info("Converted graphs", "count", len(all), "path", output)
			return out.Close()
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "data", "CSV file with a graphs column")
	cmd.Flags().StringVarP(&output, "output", "o", "all.json", "output JSON file")
	return cmd
}
