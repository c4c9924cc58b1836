package report

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/DjordjeVuckovic/indexbench/internal/corpus"
)

func WriteTable(l *corpus.Ledger, w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "\n=== Session %s ===\n\n", l.SessionID)
	writeSummaryTable(tw, Summarize(l))
	writeStageTable(tw, l)
	writeTimingTable(tw, Timings(l))

	tw.Flush()
}

func writeSummaryTable(tw *tabwriter.Writer, summaries []Summary) {
	fmt.Fprintf(tw, "Summary\n\n")

	header := []string{"Component", "Skipped", "Succeeded", "Failed", "Time"}
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	fmt.Fprintln(tw, separator(len(header)))

	for _, s := range summaries {
		row := []string{
			s.Component,
			fmt.Sprintf("%d", s.Skipped),
			fmt.Sprintf("%d", s.Succeeded),
			fmt.Sprintf("%d", s.Failed),
			fmtDuration(s.Elapsed),
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}

	fmt.Fprintln(tw)
}

func writeStageTable(tw *tabwriter.Writer, l *corpus.Ledger) {
	fmt.Fprintf(tw, "Stages\n\n")

	header := []string{"Component", "Stage", "Outcome", "Exit", "Time", "Log"}
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	fmt.Fprintln(tw, separator(len(header)))

	for _, r := range l.Results {
		exit := "-"
		if r.Outcome != corpus.Skipped {
			exit = fmt.Sprintf("%d", r.ExitCode)
		}
		log := r.LogPath
		if log == "" {
			log = "-"
		}
		row := []string{
			r.Component,
			r.Stage,
			strings.ToUpper(r.Outcome.String()),
			exit,
			fmtDuration(r.Duration),
			log,
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}

	fmt.Fprintln(tw)
}

// writeTimingTable only lists stages that ran more than once.
func writeTimingTable(tw *tabwriter.Writer, timings []Timing) {
	repeated := slices.DeleteFunc(slices.Clone(timings), func(t Timing) bool { return t.Runs < 2 })
	if len(repeated) == 0 {
		return
	}

	fmt.Fprintf(tw, "Repeated stages\n\n")

	header := []string{"Component", "Stage", "Runs", "Min", "Median", "Mean", "Max", "Stddev"}
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	fmt.Fprintln(tw, separator(len(header)))

	for _, t := range repeated {
		row := []string{
			t.Component,
			t.Stage,
			fmt.Sprintf("%d", t.Runs),
			fmtDuration(t.Min),
			fmtDuration(t.Median),
			fmtDuration(t.Mean),
			fmtDuration(t.Max),
			fmtDuration(t.Stddev),
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}

	fmt.Fprintln(tw)
}

func separator(n int) string {
	sep := make([]string, n)
	for i := range sep {
		sep[i] = "---"
	}
	return strings.Join(sep, "\t")
}

func fmtDuration(d time.Duration) string {
	if d == 0 {
		return "-"
	}
	if d < time.Second {
		return fmt.Sprintf("%.2fms", float64(d.Microseconds())/1000)
	}
	if d < time.Hour {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	return d.Round(time.Second).String()
}
