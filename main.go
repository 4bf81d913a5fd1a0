// Package main is the entry point for the jit CLI application.
package main

import (
	"fmt"
	"os"

	"github.com/danielolaszy/jit/cmd"
	"github.com/danielolaszy/jit/internal/logging"
)

// main executes the root command; any failure is printed once and exits non-zero.
func main() {
	if err := cmd.Execute(); err != nil {
		logging.Debug("command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
