package server

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/DjordjeVuckovic/indexbench/internal/apperr"
	"github.com/DjordjeVuckovic/indexbench/internal/corpus"
	"github.com/DjordjeVuckovic/indexbench/internal/report"
	"github.com/google/uuid"
)

type LedgerEntry struct {
	SessionID  uuid.UUID `json:"session_id"`
	Experiment string    `json:"experiment"`
	Results    int       `json:"results"`
	Failed     int       `json:"failed"`
}

// LedgerStore reads ledgers from <data>/<experiment>/ledger.yaml on every
// call, so sessions finished after the server started are visible.
type LedgerStore struct {
	dataFolder string
}

func NewLedgerStore(dataFolder string) *LedgerStore {
	return &LedgerStore{dataFolder: dataFolder}
}

func (s *LedgerStore) List() ([]LedgerEntry, error) {
	paths, err := filepath.Glob(filepath.Join(s.dataFolder, "*", report.LedgerFile))
	if err != nil {
		return nil, fmt.Errorf("glob ledgers: %w", err)
	}
	sort.Strings(paths)

	entries := make([]LedgerEntry, 0, len(paths))
	for _, p := range paths {
		l, err := report.ReadLedger(p)
		if err != nil {
			return nil, err
		}
		entries = append(entries, LedgerEntry{
			SessionID:  l.SessionID,
			Experiment: filepath.Base(filepath.Dir(p)),
			Results:    len(l.Results),
			Failed:     l.Count(corpus.Failed),
		})
	}
	return entries, nil
}

func (s *LedgerStore) Get(id uuid.UUID) (*corpus.Ledger, error) {
	paths, err := filepath.Glob(filepath.Join(s.dataFolder, "*", report.LedgerFile))
	if err != nil {
		return nil, fmt.Errorf("glob ledgers: %w", err)
	}
	for _, p := range paths {
		l, err := report.ReadLedger(p)
		if err != nil {
			return nil, err
		}
		if l.SessionID == id {
			return l, nil
		}
	}
	return nil, apperr.NewNotFound("ledger", id.String())
}
