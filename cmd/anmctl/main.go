// Package main is the entry point for the anmctl admin tool.
package main

import (
	"os"

	"github.com/good-yellow-bee/adminnotices/cmd/anmctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
