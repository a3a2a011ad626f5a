package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zetatwo/primefind/internal/adapters/bbolt"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the prime cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:           "stats",
	Short:         "Show prime cache statistics",
	Args:          cobra.NoArgs,
	RunE:          runCacheStats,
	SilenceErrors: true,
	SilenceUsage:  true,
}

var cacheClearCmd = &cobra.Command{
	Use:           "clear",
	Short:         "Remove every cached prime set",
	Args:          cobra.NoArgs,
	RunE:          runCacheClear,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	cacheCmd.PersistentFlags().StringVar(&flagCachePath, "cache-path", "", "Prime cache location (default: user cache dir)")
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	store, err := bbolt.NewStore(cachePath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return err
	}
	defer store.Close()

	entries, size, err := store.Stats()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return err
	}
	fmt.Printf("%s: %d cached prime sets, %d bytes\n", cachePath(), entries, size)
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	store, err := bbolt.NewStore(cachePath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return err
	}
	defer store.Close()

	if err := store.Clear(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return err
	}
	fmt.Println("prime cache cleared")
	return nil
}
