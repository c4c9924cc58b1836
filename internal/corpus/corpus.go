package corpus

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/DjordjeVuckovic/indexbench/internal/procexec"
)

const component = "corpus"

// Engine is one index implementation driven as an external program.
type Engine interface {
	Kind() Kind
	// BuildIndex runs the missing build stages; present artifacts are skipped.
	BuildIndex() ([]Result, error)
	// RunQueries runs the query log against the built index, writing into exp.
	RunQueries(exp Experiment, queryLog string, threads ThreadRange) ([]Result, error)
}

type CommandRunner interface {
	Run(cmd procexec.Command) (int, error)
}

type Option func(*Corpus)

func WithRunner(r CommandRunner) Option {
	return func(c *Corpus) { c.runner = r }
}

func WithPolicy(p Policy) Option {
	return func(c *Corpus) { c.policy = p }
}

func WithClock(now func() time.Time) Option {
	return func(c *Corpus) { c.now = now }
}

// WithWorkDir sets the folder commands are run in. Defaults to the process
// working directory.
func WithWorkDir(dir string) Option {
	return func(c *Corpus) { c.workDir = dir }
}

// Corpus coordinates the engines of one benchmark session over a shared
// document collection.
type Corpus struct {
	layout     Layout
	experiment Experiment
	engines    map[Kind]Engine
	order      []Kind
	policy     Policy
	runner     CommandRunner
	now        func() time.Time
	workDir    string
	ledger     *Ledger
}

// New sets up the default layout under dataFolder and creates the default
// experiment folder. No command runs until chunks are configured.
func New(dataFolder string, opts ...Option) (*Corpus, error) {
	c := &Corpus{
		layout:  NewLayout(dataFolder),
		engines: make(map[Kind]Engine),
		policy:  ContinueOnFailure,
		runner:  procexec.NewRunner(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.ledger = NewLedger(c.now())

	if err := c.SetExperiment(DefaultExperiment); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Corpus) Layout() Layout {
	return c.layout
}

func (c *Corpus) Experiment() Experiment {
	return c.experiment
}

func (c *Corpus) Policy() Policy {
	return c.policy
}

func (c *Corpus) Ledger() *Ledger {
	return c.ledger
}

// SetExperiment makes <data>/<name> the active experiment, creating it if needed.
func (c *Corpus) SetExperiment(name string) error {
	exp := Experiment{Name: name, Dir: filepath.Join(c.layout.DataFolder, name)}
	if err := exp.Ensure(); err != nil {
		return err
	}
	c.experiment = exp
	return nil
}

// UseDocsFolder re-roots the docs folder at <data>/<name>. Chunks and
// manifest must be configured again afterwards.
func (c *Corpus) UseDocsFolder(name string) {
	c.layout.DocsFolder = filepath.Join(c.layout.DataFolder, name)
}

// Register adds an engine, replacing any engine of the same kind while
// keeping its dispatch position.
func (c *Corpus) Register(e Engine) {
	kind := e.Kind()
	if _, ok := c.engines[kind]; !ok {
		c.order = append(c.order, kind)
	}
	c.engines[kind] = e
}

func (c *Corpus) Engines() []Engine {
	engines := make([]Engine, 0, len(c.order))
	for _, k := range c.order {
		engines = append(engines, c.engines[k])
	}
	return engines
}

func (c *Corpus) Engine(kind Kind) (Engine, bool) {
	e, ok := c.engines[kind]
	return e, ok
}

// BuildAll builds every registered engine's index in registration order.
func (c *Corpus) BuildAll() ([]Result, error) {
	var results []Result
	for _, e := range c.Engines() {
		rs, err := e.BuildIndex()
		results = append(results, rs...)
		if err != nil {
			return results, fmt.Errorf("build %s: %w", e.Kind(), err)
		}
	}
	return results, nil
}

// RunQueries runs queryLog on every registered engine. Engines that manage
// their own sweep get the whole range in one call. Others get one call per
// thread count, each addressed to <experiment>_<threads>.
func (c *Corpus) RunQueries(queryLog string, threads ThreadRange) ([]Result, error) {
	exp := c.experiment
	var results []Result

	for _, e := range c.Engines() {
		kind := e.Kind()
		if kind.ManagesThreadSweep() {
			rs, err := e.RunQueries(exp, queryLog, threads)
			results = append(results, rs...)
			if err != nil {
				return results, fmt.Errorf("run queries on %s: %w", kind, err)
			}
			continue
		}

		if !threads.IsSweep() {
			rs, err := e.RunQueries(exp, queryLog, Single(threads.Min))
			results = append(results, rs...)
			if err != nil {
				return results, fmt.Errorf("run queries on %s: %w", kind, err)
			}
			continue
		}

		for _, t := range threads.Counts() {
			sub := exp.WithThreads(t)
			if err := sub.Ensure(); err != nil {
				return results, err
			}
			rs, err := e.RunQueries(sub, queryLog, Single(t))
			results = append(results, rs...)
			if err != nil {
				return results, fmt.Errorf("run queries on %s with %d threads: %w", kind, t, err)
			}
		}
	}

	return results, nil
}

// Execute runs command through the shell. With a logfile, combined output is
// also captured to <exp.Dir>/<logfile>. The exit code of the command is
// returned as is; err reports only failures to run or capture it.
func (c *Corpus) Execute(exp Experiment, command, logfile string) (int, error) {
	var logPath string
	if logfile != "" {
		logPath = filepath.Join(exp.Dir, logfile)
	}

	slog.Info("execute", "command", command, "log", logPath)
	code, err := c.runner.Run(procexec.Command{Line: command, Dir: c.workDir, LogPath: logPath})
	if err != nil {
		slog.Error("execute failed", "command", command, "error", err)
		return code, err
	}
	slog.Info("finished", "command", command, "exit_code", code)
	return code, nil
}

// RunStage executes a pipeline stage and records its outcome in the ledger.
// A non-zero exit is returned as *StageError only under AbortOnFailure.
func (c *Corpus) RunStage(exp Experiment, comp, stage, command, logfile string) (Result, error) {
	started := c.now()
	code, err := c.Execute(exp, command, logfile)

	res := Result{
		Component: comp,
		Stage:     stage,
		Outcome:   Succeeded,
		ExitCode:  code,
		Command:   command,
		Started:   started,
		Duration:  c.now().Sub(started),
	}
	if logfile != "" {
		res.LogPath = filepath.Join(exp.Dir, logfile)
	}

	if err != nil {
		res.Outcome = Failed
		c.ledger.Append(res)
		return res, fmt.Errorf("%s %s: %w", comp, stage, err)
	}
	if code != 0 {
		res.Outcome = Failed
		c.ledger.Append(res)
		slog.Warn("stage failed", "component", comp, "stage", stage, "exit_code", code, "policy", c.policy)
		if c.policy == AbortOnFailure {
			return res, &StageError{Result: res}
		}
		return res, nil
	}

	c.ledger.Append(res)
	return res, nil
}

// Skip records a stage that did no work because artifact already exists.
func (c *Corpus) Skip(comp, stage, artifact string) Result {
	res := Result{
		Component: comp,
		Stage:     stage,
		Outcome:   Skipped,
		Started:   c.now(),
	}
	slog.Info("artifact present, skipping", "component", comp, "stage", stage, "artifact", artifact)
	c.ledger.Append(res)
	return res
}
