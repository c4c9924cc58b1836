package report

import (
	"time"

	"github.com/DjordjeVuckovic/indexbench/internal/corpus"
)

// Summary counts stage outcomes of one component.
type Summary struct {
	Component string        `json:"component"`
	Skipped   int           `json:"skipped"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Elapsed   time.Duration `json:"elapsed"`
}

// Summarize groups ledger results by component in first-seen order.
func Summarize(l *corpus.Ledger) []Summary {
	index := make(map[string]int)
	var summaries []Summary

	for _, r := range l.Results {
		i, ok := index[r.Component]
		if !ok {
			i = len(summaries)
			index[r.Component] = i
			summaries = append(summaries, Summary{Component: r.Component})
		}

		s := &summaries[i]
		s.Elapsed += r.Duration
		switch r.Outcome {
		case corpus.Skipped:
			s.Skipped++
		case corpus.Succeeded:
			s.Succeeded++
		case corpus.Failed:
			s.Failed++
		}
	}

	return summaries
}
