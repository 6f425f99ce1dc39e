// Command seed produces and loads synthetic market data for the chart API.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "seed",
	Short:        "Generate or import quote records",
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(importCmd)
}
