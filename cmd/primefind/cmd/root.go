package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "primefind",
	Short: "RSA prime recovery from memory dumps",
	Long:  "Scans raw memory/disk dumps for byte sequences that are probable primes and confirms pairs by locating their product in the same dump.",
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(primesCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(cacheCmd)
}
