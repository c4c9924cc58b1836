package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/indexbench/internal/corpus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleLedger() *corpus.Ledger {
	started := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	l := corpus.NewLedger(started)
	l.Append(corpus.Result{Component: "corpus", Stage: "manifest", Outcome: corpus.Skipped, Started: started})
	l.Append(corpus.Result{
		Component: "bitfunnel", Stage: "statistics", Outcome: corpus.Succeeded,
		Command: "bf statistics m c -text", LogPath: "/d/experiment/bf_run_statistics.log",
		Started: started, Duration: 2 * time.Second,
	})
	l.Append(corpus.Result{
		Component: "bitfunnel", Stage: "termtable", Outcome: corpus.Failed, ExitCode: 3,
		Started: started, Duration: 500 * time.Millisecond,
	})
	l.Append(corpus.Result{Component: "mg4j", Stage: "index", Outcome: corpus.Skipped, Started: started})
	return l
}

func TestSummarize(t *testing.T) {
	summaries := Summarize(sampleLedger())
	require.Len(t, summaries, 3)

	assert.Equal(t, Summary{Component: "corpus", Skipped: 1}, summaries[0])
	assert.Equal(t, Summary{Component: "bitfunnel", Succeeded: 1, Failed: 1, Elapsed: 2500 * time.Millisecond}, summaries[1])
	assert.Equal(t, "mg4j", summaries[2].Component)
}

func TestWriteTable(t *testing.T) {
	l := sampleLedger()
	var buf bytes.Buffer
	WriteTable(l, &buf)

	out := buf.String()
	assert.Contains(t, out, "=== Session "+l.SessionID.String()+" ===")
	assert.Contains(t, out, "SUCCEEDED")
	assert.Contains(t, out, "FAILED")
	assert.Contains(t, out, "/d/experiment/bf_run_statistics.log")
	assert.Contains(t, out, "2.00s")
	assert.Contains(t, out, "500.00ms")
}

func TestLedgerFile(t *testing.T) {
	l := sampleLedger()
	path := filepath.Join(t.TempDir(), LedgerFile)

	require.NoError(t, WriteLedger(l, path))
	loaded, err := ReadLedger(path)
	require.NoError(t, err)

	assert.Equal(t, l.SessionID, loaded.SessionID)
	require.Len(t, loaded.Results, 4)
	assert.Equal(t, corpus.Failed, loaded.Results[2].Outcome)
	assert.Equal(t, 3, loaded.Results[2].ExitCode)
	assert.Equal(t, 2*time.Second, loaded.Results[1].Duration)

	_, err = ReadLedger(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, WriteJSON(sampleLedger(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded struct {
		Ledger struct {
			Results []struct {
				Outcome string `json:"outcome"`
			} `json:"results"`
		} `json:"ledger"`
		Summary []Summary `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "skipped", decoded.Ledger.Results[0].Outcome)
	assert.Len(t, decoded.Summary, 3)
}
