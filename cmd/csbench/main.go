// Package main provides the entry point for the csbench CLI.
package main

import (
	"os"

	"github.com/searchforge/csbench/cmd/csbench/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
