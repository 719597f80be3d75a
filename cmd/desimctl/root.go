// Package main provides desimctl, a command-line tool for running the
// bundled queueing-network demo against a desim.Engine, optionally under
// the HTTP monitor.
//
// Grounded on the teacher's v5/akita/cmd package: a bare rootCmd plus one
// file per subcommand, each registering itself on rootCmd from its own
// init.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

var rootCmd = &cobra.Command{
	Use:   "desimctl",
	Short: "desimctl runs discrete-event simulations built on the desim engine.",
	Long: "desimctl runs discrete-event simulations built on the desim engine. " +
		"It currently provides the bundled queueing-network demo (run) with " +
		"optional live HTTP monitoring (run --monitor).",
}

func main() {
	// A .env file in the working directory is optional; missing is not an
	// error, the same tolerant loading joho/godotenv's own docs recommend
	// for CLI tools.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "desimctl: warning: loading .env: %v\n", err)
	}

	// atexit.Exit, not os.Exit, so every atexit.Register handler (e.g. a
	// diagnostics.Recorder's final flush) runs before the process
	// terminates either way.
	if err := rootCmd.Execute(); err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
