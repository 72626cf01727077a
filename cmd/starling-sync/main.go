// Package main is the entry point for starling-sync CLI.
package main

import (
	"os"

	"github.com/kingswood-labs/starling-sync/cmd/starling-sync/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
