// Package config loads the CLI's YAML configuration. The layout is deliberately absent:
// it is fixed and cannot be configured.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/psidex/graphview/internal/graphs"
	"github.com/psidex/graphview/internal/lib"
)

type Snapshot struct {
	Timeout lib.Duration `yaml:"timeout"`
	// Settle is how long the layout gets to run before the screenshot.
	Settle lib.Duration `yaml:"settle"`
	Width  int64        `yaml:"width"`
	Height int64        `yaml:"height"`
}

type Config struct {
	Container string       `yaml:"container"`
	Renderer  string       `yaml:"renderer"`
	Title     string       `yaml:"title"`
	HostPage  string       `yaml:"hostPage"`
	Bind      string       `yaml:"bind"`
	Debounce  lib.Duration `yaml:"debounce"`
	LogLevel  string       `yaml:"logLevel"`
	Pretty    bool         `yaml:"pretty"`
	Snapshot  Snapshot     `yaml:"snapshot"`
}

func Default() Config {
	return Config{
		Container: "cy",
		Renderer:  graphs.CytoscapeName,
		Title:     "graphview",
		Bind:      "127.0.0.1:8080",
		Debounce:  lib.DurationFrom(time.Millisecond * 100),
		LogLevel:  "info",
		Snapshot: Snapshot{
			Timeout: lib.DurationFrom(time.Second * 30),
			Settle:  lib.DurationFrom(time.Second * 2),
			Width:   1280,
			Height:  800,
		},
	}
}

// Parse reads YAML on top of the defaults. Keys that are absent keep their defaults.
func Parse(r io.Reader) (Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	return cfg, cfg.Validate()
}

// Load reads the file at path, or returns the defaults if path is empty.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()

	return Parse(f)
}

func (c Config) Validate() error {
	if c.Container == "" {
		return errors.New("config: container must not be empty")
	}
	if _, err := lib.ParseSLogLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: logLevel: %w", err)
	}
	if c.Debounce.Duration < 0 {
		return errors.New("config: debounce must not be negative")
	}
	if c.Snapshot.Width <= 0 || c.Snapshot.Height <= 0 {
		return errors.New("config: snapshot width and height must be positive")
	}
	return nil
}

// HostPageBytes reads the configured host page, if any.
func (c Config) HostPageBytes() ([]byte, error) {
	if c.HostPage == "" {
		return nil, nil
	}
	return os.ReadFile(c.HostPage)
}

// RendererOptions is what graphs.Lookup needs from the config.
func (c Config) RendererOptions() (graphs.Options, error) {
	host, err := c.HostPageBytes()
	if err != nil {
		return graphs.Options{}, fmt.Errorf("read host page: %w", err)
	}
	return graphs.Options{Title: c.Title, HostPage: host}, nil
}
