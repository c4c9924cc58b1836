package report

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/DjordjeVuckovic/indexbench/internal/corpus"
	"gopkg.in/yaml.v3"
)

// LedgerFile is the name a session ledger is saved under in its experiment folder.
const LedgerFile = "ledger.yaml"

func WriteLedger(l *corpus.Ledger, path string) error {
	data, err := yaml.Marshal(l)
	if err != nil {
		return fmt.Errorf("marshal ledger: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write ledger: %w", err)
	}
	return nil
}

func ReadLedger(path string) (*corpus.Ledger, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}
	var l corpus.Ledger
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("parse ledger: %w", err)
	}
	return &l, nil
}

type jsonReport struct {
	Ledger  *corpus.Ledger `json:"ledger"`
	Summary []Summary      `json:"summary"`
	Timings []Timing       `json:"timings"`
}

func WriteJSON(l *corpus.Ledger, path string) error {
	data, err := json.MarshalIndent(jsonReport{Ledger: l, Summary: Summarize(l), Timings: Timings(l)}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
