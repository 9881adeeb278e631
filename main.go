// ./main.go
package main

import (
	"github.com/sentinelqa/healix/cmd"
)

// main is the entry point for the healix CLI.
func main() {
	// The root command owns argument parsing, configuration and execution.
	cmd.Execute()
}
