package report

import (
	"math"
	"slices"
	"time"

	"github.com/DjordjeVuckovic/indexbench/internal/corpus"
)

// Timing aggregates the wall time of every run of one stage, e.g. the query
// stage repeated once per thread count.
type Timing struct {
	Component string        `json:"component"`
	Stage     string        `json:"stage"`
	Runs      int           `json:"runs"`
	Min       time.Duration `json:"min"`
	Max       time.Duration `json:"max"`
	Mean      time.Duration `json:"mean"`
	Median    time.Duration `json:"median"`
	Stddev    time.Duration `json:"stddev"`
}

// Timings groups executed results by component and stage in first-seen
// order. Skipped stages never ran and are left out.
func Timings(l *corpus.Ledger) []Timing {
	type key struct{ component, stage string }

	index := make(map[key]int)
	var keys []key
	var samples [][]time.Duration

	for _, r := range l.Results {
		if r.Outcome == corpus.Skipped {
			continue
		}
		k := key{r.Component, r.Stage}
		i, ok := index[k]
		if !ok {
			i = len(keys)
			index[k] = i
			keys = append(keys, k)
			samples = append(samples, nil)
		}
		samples[i] = append(samples[i], r.Duration)
	}

	timings := make([]Timing, 0, len(keys))
	for i, k := range keys {
		t := computeTiming(samples[i])
		t.Component, t.Stage = k.component, k.stage
		timings = append(timings, t)
	}
	return timings
}

func computeTiming(durations []time.Duration) Timing {
	if len(durations) == 0 {
		return Timing{}
	}

	sorted := slices.Clone(durations)
	slices.Sort(sorted)

	t := Timing{
		Runs:   len(sorted),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Median: median(sorted),
	}

	var sum int64
	for _, d := range sorted {
		sum += int64(d)
	}
	t.Mean = time.Duration(sum / int64(len(sorted)))

	if len(sorted) > 1 {
		var squares float64
		mean := float64(t.Mean)
		for _, d := range sorted {
			diff := float64(d) - mean
			squares += diff * diff
		}
		t.Stddev = time.Duration(math.Sqrt(squares / float64(len(sorted)-1)))
	}
	return t
}

func median(sorted []time.Duration) time.Duration {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
