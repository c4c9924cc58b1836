package corpus

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Outcome int

const (
	// Skipped means the stage's artifact was already present.
	Skipped Outcome = iota + 1
	Succeeded
	Failed
)

var outcomeNames = map[Outcome]string{
	Skipped:   "skipped",
	Succeeded: "succeeded",
	Failed:    "failed",
}

func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return "unknown"
}

func (o Outcome) MarshalText() ([]byte, error) {
	if _, ok := outcomeNames[o]; !ok {
		return nil, fmt.Errorf("invalid outcome %d", int(o))
	}
	return []byte(o.String()), nil
}

func (o *Outcome) UnmarshalText(text []byte) error {
	for k, name := range outcomeNames {
		if name == string(text) {
			*o = k
			return nil
		}
	}
	return fmt.Errorf("invalid outcome %q", string(text))
}

// Result records one pipeline stage.
type Result struct {
	Component string        `yaml:"component" json:"component"`
	Stage     string        `yaml:"stage" json:"stage"`
	Outcome   Outcome       `yaml:"outcome" json:"outcome"`
	ExitCode  int           `yaml:"exit_code" json:"exit_code"`
	Command   string        `yaml:"command,omitempty" json:"command,omitempty"`
	LogPath   string        `yaml:"log_path,omitempty" json:"log_path,omitempty"`
	Started   time.Time     `yaml:"started" json:"started"`
	Duration  time.Duration `yaml:"duration" json:"duration"`
}

// Policy selects what happens after an external command exits non-zero.
type Policy int

const (
	ContinueOnFailure Policy = iota
	AbortOnFailure
)

func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "continue":
		return ContinueOnFailure, nil
	case "abort":
		return AbortOnFailure, nil
	default:
		return ContinueOnFailure, fmt.Errorf("unknown failure policy %q", s)
	}
}

func (p Policy) String() string {
	if p == AbortOnFailure {
		return "abort"
	}
	return "continue"
}

// StageError is returned under AbortOnFailure when a stage exits non-zero.
type StageError struct {
	Result Result
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s %s failed with exit code %d", e.Result.Component, e.Result.Stage, e.Result.ExitCode)
}

// Ledger is the ordered record of every stage a session went through.
type Ledger struct {
	SessionID uuid.UUID `yaml:"session_id" json:"session_id"`
	Started   time.Time `yaml:"started" json:"started"`
	Results   []Result  `yaml:"results" json:"results"`
}

func NewLedger(started time.Time) *Ledger {
	return &Ledger{
		SessionID: uuid.New(),
		Started:   started,
	}
}

func (l *Ledger) Append(r Result) {
	l.Results = append(l.Results, r)
}

// Count returns how many results have the given outcome.
func (l *Ledger) Count(o Outcome) int {
	n := 0
	for _, r := range l.Results {
		if r.Outcome == o {
			n++
		}
	}
	return n
}
