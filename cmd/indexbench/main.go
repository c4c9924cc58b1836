package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/DjordjeVuckovic/indexbench/internal/apperr"
	"github.com/DjordjeVuckovic/indexbench/internal/corpus"
	"github.com/DjordjeVuckovic/indexbench/internal/report"
	"github.com/DjordjeVuckovic/indexbench/internal/server"
	"github.com/DjordjeVuckovic/indexbench/internal/session"
	"github.com/DjordjeVuckovic/indexbench/pkg/config/env"
	pkgserver "github.com/DjordjeVuckovic/indexbench/pkg/server"
	"github.com/labstack/echo/v4"
)

func main() {
	if err := env.LoadDotEnv(os.Getenv("INDEXBENCH_ENV"), ".env"); err != nil {
		slog.Debug("No .env loaded", "error", err)
	}
	cfg := parseFlags()

	if cfg.Mode == "serve" {
		runServe(cfg)
		return
	}
	os.Exit(runSession(cfg))
}

func runServe(cfg cliConfig) {
	srvCfg, err := server.LoadConfig(cfg.DataFolder)
	if err != nil {
		slog.Error("Failed to load server config", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting status server", "port", srvCfg.Port, "data", srvCfg.DataFolder)
	if err := server.NewServer(echo.New(), srvCfg, pkgserver.NewFolderHealthChecker(srvCfg.DataFolder)).Start(); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

// runSession returns the process exit code: 0 when every stage succeeded or
// was skipped, 1 when a stage failed, 2 for an invalid session.
func runSession(cfg cliConfig) int {
	build, query, err := cfg.stages()
	if err != nil {
		slog.Error("Invalid mode", "error", err)
		return 2
	}

	s, err := session.LoadFromFile(cfg.SessionPath, cfg.apply)
	if err != nil {
		slog.Error("Failed to load session", "path", cfg.SessionPath, "error", err)
		return exitCode(err)
	}
	if query && s.Queries.Log == "" {
		slog.Error("Session has no query log", "path", cfg.SessionPath)
		return 2
	}

	c, err := session.Open(s)
	if err != nil {
		slog.Error("Failed to open corpus", "data", s.Data, "error", err)
		return exitCode(err)
	}
	slog.Info("Session opened",
		"id", c.Ledger().SessionID,
		"experiment", c.Experiment().Name,
		"engines", len(c.Engines()),
		"policy", c.Policy(),
	)

	err = execute(c, s, build, query)
	finish(c, cfg)

	if err != nil {
		slog.Error("Session aborted", "error", err)
		return 1
	}
	if c.Ledger().Count(corpus.Failed) > 0 {
		return 1
	}
	return 0
}

func execute(c *corpus.Corpus, s *session.Session, build, query bool) error {
	if build {
		if _, err := c.BuildAll(); err != nil {
			return err
		}
	}
	if query {
		threads := s.Queries.Threads()
		slog.Info("Running queries", "log", s.Queries.Log, "threads", threads.String())
		if _, err := c.RunQueries(s.Queries.Log, threads); err != nil {
			return err
		}
	}
	return nil
}

func finish(c *corpus.Corpus, cfg cliConfig) {
	l := c.Ledger()
	report.WriteTable(l, os.Stdout)

	ledgerPath := filepath.Join(c.Experiment().Dir, report.LedgerFile)
	if err := report.WriteLedger(l, ledgerPath); err != nil {
		slog.Error("Failed to write ledger", "path", ledgerPath, "error", err)
	} else {
		slog.Info("Ledger written", "path", ledgerPath)
	}

	if cfg.Output != "" {
		if err := report.WriteJSON(l, cfg.Output); err != nil {
			slog.Error("Failed to write report", "path", cfg.Output, "error", err)
		} else {
			slog.Info("Report written", "path", cfg.Output)
		}
	}
}

func exitCode(err error) int {
	if apperr.IsValidation(err) {
		return 2
	}
	return 1
}
