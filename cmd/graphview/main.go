package main

import (
	"os"

	"github.com/psidex/graphview/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
