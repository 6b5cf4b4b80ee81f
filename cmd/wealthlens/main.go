// Package main provides the WealthLens CLI.
package main

import (
	"os"

	"github.com/wealthlens-labs/wealthlens/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
