package main

import (
	"flag"
	"fmt"

	"github.com/DjordjeVuckovic/indexbench/internal/session"
	"github.com/DjordjeVuckovic/indexbench/pkg/config/env"
)

type cliConfig struct {
	SessionPath string
	DataFolder  string
	Experiment  string
	Policy      string
	Mode        string
	Output      string
}

func parseFlags() cliConfig {
	cfg := cliConfig{}

	flag.StringVar(&cfg.SessionPath, "session", env.Lookup("INDEXBENCH_SESSION", "session.yaml"), "Path to session YAML")
	flag.StringVar(&cfg.DataFolder, "data", env.Lookup("INDEXBENCH_DATA", ""), "Data folder, overrides the session file")
	flag.StringVar(&cfg.Experiment, "experiment", "", "Experiment name, overrides the session file")
	flag.StringVar(&cfg.Policy, "policy", env.Lookup("INDEXBENCH_POLICY", ""), "Failure policy: continue or abort")
	flag.StringVar(&cfg.Mode, "mode", "run", "Run mode: build, query, run, or serve")
	flag.StringVar(&cfg.Output, "output", "", "Optional JSON report path")

	flag.Parse()
	return cfg
}

// apply lets flags and INDEXBENCH_* variables win over the session file.
// It runs before the session is validated.
func (c cliConfig) apply(s *session.Session) {
	if c.DataFolder != "" {
		s.Data = c.DataFolder
	}
	if c.Experiment != "" {
		s.Experiment = c.Experiment
	}
	if c.Policy != "" {
		s.Policy = c.Policy
	}
}

func (c cliConfig) stages() (build, query bool, err error) {
	switch c.Mode {
	case "build":
		return true, false, nil
	case "query":
		return false, true, nil
	case "run":
		return true, true, nil
	default:
		return false, false, fmt.Errorf("unknown mode %q", c.Mode)
	}
}
