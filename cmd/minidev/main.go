// Package main provides the minidev command.
package main

import (
	"os"

	"github.com/bird-bench/mini-dev/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
