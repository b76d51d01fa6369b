package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "parsesmith",
	Short: "parsesmith - self-correcting bank statement parser generator",
	Long: `parsesmith is an agent-as-coder: given a target bank it asks an LLM to
write a Go parser module for that bank's statement documents, loads the
candidate in a yaegi interpreter, verifies its output against the
expected table cell-for-cell, and retries with the failure diagnostic
as feedback, up to three attempts.

Fixtures live under data/<target>/ (one sample document plus one
expected .csv or .xlsx table); accepted parsers land in
parsers/<target>_parser.go.`,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(generateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
