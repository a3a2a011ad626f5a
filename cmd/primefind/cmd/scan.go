package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:           "scan [flags] <dump>",
	Short:         "Scan a dump for primes and confirmed P*Q products",
	Long:          "Finds probable primes in the dump, forms every candidate product, and reports each product whose byte encoding also occurs in the dump.",
	Args:          cobra.ExactArgs(1),
	RunE:          runScan,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	addScanFlags(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	a, cache, err := buildApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return err
	}
	if cache != nil {
		defer cache.Close()
	}

	buf, err := readDump(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report, err := a.Run(ctx, buf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return err
	}

	writeMatches(os.Stdout, report.Matches)
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "%d confirmed primes, %d recovered pairs\n",
			len(report.Primes), len(report.Matches))
	}
	return nil
}
