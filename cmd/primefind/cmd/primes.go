package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var primesCmd = &cobra.Command{
	Use:           "primes [flags] <dump>",
	Short:         "Dump confirmed primes without verifying P*Q",
	Long:          "Runs only the window scan and primality filter, printing every confirmed prime in decimal. The pair index and matcher stages do not run.",
	Args:          cobra.ExactArgs(1),
	RunE:          runPrimes,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	addScanFlags(primesCmd)
}

func runPrimes(cmd *cobra.Command, args []string) error {
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

	primes, err := a.FindPrimes(ctx, buf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return err
	}

	writePrimes(os.Stdout, primes)
	return nil
}
