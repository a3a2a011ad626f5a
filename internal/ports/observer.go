package ports

// Stage names reported through the Observer.
const (
	StageScan  = "scan"  // window scan + primality filter
	StagePairs = "pairs" // composite index construction
	StageMatch = "match" // product search
)

// Observer receives progress and advisory telemetry from the pipeline.
// Telemetry is advisory only and never affects the functional output.
// Implementations must be safe for concurrent use: the parallel stages
// invoke them from worker goroutines.
type Observer interface {
	// StageStart announces a pipeline stage with its total unit count
	// (windows, outer pair indexes, bytes). A total of 0 means unknown.
	StageStart(stage string, total int64)

	// StageProgress reports cumulative units completed for the stage.
	// Calls are throttled by the producer but may still be frequent.
	StageProgress(stage string, done int64)

	// StageEnd announces stage completion.
	StageEnd(stage string)

	// Advisory reports a non-fatal warning, e.g. a confirmed-prime count
	// large enough that pair construction threatens memory.
	Advisory(msg string)
}

// NopObserver discards all telemetry. It is the default when no observer
// is injected.
type NopObserver struct{}

func (NopObserver) StageStart(string, int64)    {}
func (NopObserver) StageProgress(string, int64) {}
func (NopObserver) StageEnd(string)             {}
func (NopObserver) Advisory(string)             {}
