package cmd

import (
	"fmt"
	"os"
	"sync"
)

// stderrObserver renders pipeline telemetry as single-line progress updates
// on stderr. Stages are announced once, progress is throttled to whole
// percents, and advisories print as warnings. Safe for concurrent use;
// the parallel stages report from worker goroutines.
type stderrObserver struct {
	mu          sync.Mutex
	totals      map[string]int64
	lastPercent map[string]int64
}

func newStderrObserver() *stderrObserver {
	return &stderrObserver{
		totals:      make(map[string]int64),
		lastPercent: make(map[string]int64),
	}
}

func (o *stderrObserver) StageStart(stage string, total int64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.totals[stage] = total
	o.lastPercent[stage] = -1
	fmt.Fprintf(os.Stderr, "%s: started\n", stage)
}

func (o *stderrObserver) StageProgress(stage string, done int64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	total := o.totals[stage]
	if total <= 0 {
		return
	}
	percent := done * 100 / total
	if percent <= o.lastPercent[stage] {
		return
	}
	o.lastPercent[stage] = percent
	fmt.Fprintf(os.Stderr, "\r%s: %d%% (%d/%d)", stage, percent, done, total)
	if percent >= 100 {
		fmt.Fprintln(os.Stderr)
	}
}

func (o *stderrObserver) StageEnd(stage string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.lastPercent[stage] >= 0 && o.lastPercent[stage] < 100 {
		fmt.Fprintln(os.Stderr)
	}
	fmt.Fprintf(os.Stderr, "%s: done\n", stage)
}

func (o *stderrObserver) Advisory(msg string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprintf(os.Stderr, "warning: %s\n", msg)
}
