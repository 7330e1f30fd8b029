// Package main provides the CLI for the sicorboard dashboard engine.
package main

import (
	"os"

	"github.com/agrodata-labs/sicorboard/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
