package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	fsw "github.com/zetatwo/primefind/internal/adapters/fsnotify"
)

var watchCmd = &cobra.Command{
	Use:           "watch [flags] <dir>",
	Short:         "Watch a directory and scan each new dump",
	Long:          "Monitors a directory for newly created or rewritten dump files and runs the full recovery pipeline on each, printing per-file results until interrupted.",
	Args:          cobra.ExactArgs(1),
	RunE:          runWatch,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	addScanFlags(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, cache, err := buildApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return err
	}
	if cache != nil {
		defer cache.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	w, err := fsw.NewWatcher()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return err
	}
	defer w.Stop()

	err = w.Watch(args[0], func(path string) {
		buf, err := readDump(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", filepath.Base(path), err)
			return
		}
		report, err := a.Run(ctx, buf)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", filepath.Base(path), err)
			return
		}
		fmt.Printf("== %s: %d confirmed primes, %d recovered pairs\n",
			filepath.Base(path), len(report.Primes), len(report.Matches))
		writeMatches(os.Stdout, report.Matches)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return err
	}

	fmt.Fprintf(os.Stderr, "watching %s (ctrl-c to stop)\n", args[0])
	<-ctx.Done()
	return nil
}
