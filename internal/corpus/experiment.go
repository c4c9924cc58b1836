package corpus

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
)

// Experiment addresses the folder that receives results and logs of one run.
// It is passed by value into every dispatch.
type Experiment struct {
	Name string
	Dir  string
}

// WithThreads returns the experiment for one step of a thread sweep,
// <name>_<threads> next to the parent folder.
func (e Experiment) WithThreads(threads int) Experiment {
	suffix := "_" + strconv.Itoa(threads)
	return Experiment{
		Name: e.Name + suffix,
		Dir:  e.Dir + suffix,
	}
}

func (e Experiment) Ensure() error {
	if _, err := os.Stat(e.Dir); err == nil {
		return nil
	}
	slog.Info("mkdir", "path", e.Dir)
	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		return fmt.Errorf("create experiment folder: %w", err)
	}
	return nil
}

// ThreadRange is either a single thread count or an inclusive sweep.
type ThreadRange struct {
	Min   int
	Max   int
	sweep bool
}

func Single(threads int) ThreadRange {
	return ThreadRange{Min: threads, Max: threads}
}

func Sweep(minThreads, maxThreads int) ThreadRange {
	return ThreadRange{Min: minThreads, Max: maxThreads, sweep: true}
}

// IsSweep reports whether a maximum was given. A sweep of one count still
// uses suffixed folders.
func (r ThreadRange) IsSweep() bool {
	return r.sweep
}

// Counts lists thread counts in ascending order.
func (r ThreadRange) Counts() []int {
	if r.Max < r.Min {
		return nil
	}
	counts := make([]int, 0, r.Max-r.Min+1)
	for t := r.Min; t <= r.Max; t++ {
		counts = append(counts, t)
	}
	return counts
}

func (r ThreadRange) String() string {
	if !r.sweep {
		return strconv.Itoa(r.Min)
	}
	return fmt.Sprintf("%d..%d", r.Min, r.Max)
}
